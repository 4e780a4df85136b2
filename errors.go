package main

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNoImage is returned by operations that need a background.
	ErrNoImage = errors.New("no background image loaded")

	// ErrEmptyView is returned when a pointer event arrives for a zero-area view.
	ErrEmptyView = errors.New("view has no area")
)

// DecodeError reports a corrupt or unsupported image. Prior state is kept.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// CrossOriginError reports a remote image that could not be fetched or
// decoded, which a browser surfaces the same way as a blocked request.
type CrossOriginError struct {
	URL string
	Err error
}

func (e *CrossOriginError) Error() string {
	return fmt.Sprintf("cross-origin load %s: %v", e.URL, e.Err)
}

func (e *CrossOriginError) Unwrap() error { return e.Err }

// SecurityError is returned by Export when the pixels may not be read back.
type SecurityError struct {
	Source string
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("tainted surface: pixels from %s cannot be exported", e.Source)
}

// UserMessage turns an error from load or export into the text shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		decodeErr *DecodeError
		corsErr   *CrossOriginError
		secErr    *SecurityError
	)
	switch {
	case errors.As(err, &secErr):
		return "Security Error: this image cannot be saved directly because of 'Tainted Canvas' CORS rules. Tip: Take a screenshot instead!"
	case errors.As(err, &corsErr):
		return "Failed to load image template due to browser privacy settings. Please try uploading a file from your device instead."
	case errors.As(err, &decodeErr):
		return fmt.Sprintf("Unsupported or corrupt image file: %s", decodeErr.Source)
	case errors.Is(err, ErrNoImage):
		return "Load an image first"
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

// ParamRange is the accepted range of a tool parameter. Out-of-range values
// are clamped, never propagated.
type ParamRange struct {
	Name     string
	Min, Max float64
}

var (
	fontSizeRange    = ParamRange{Name: "fontSize", Min: 10, Max: 200}
	rotationRange    = ParamRange{Name: "rotation", Min: -180, Max: 180}
	strokeWidthRange = ParamRange{Name: "strokeWidth", Min: 0, Max: 20}
	brushSizeRange   = ParamRange{Name: "brushSize", Min: 5, Max: 100}
	cropScaleRange   = ParamRange{Name: "cropScale", Min: 0.5, Max: 3}
)

// Clamp returns v limited to the range. NaN maps to fallback.
func (r ParamRange) Clamp(v, fallback float64) float64 {
	switch {
	case math.IsNaN(v):
		Logger().Warn("invalid parameter", "param", r.Name, "value", v)
		return fallback
	case v < r.Min:
		Logger().Warn("parameter clamped", "param", r.Name, "value", v, "min", r.Min)
		return r.Min
	case v > r.Max:
		Logger().Warn("parameter clamped", "param", r.Name, "value", v, "max", r.Max)
		return r.Max
	}
	return v
}
