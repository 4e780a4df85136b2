package main

import (
	"image/color"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
)

// TextLayer is one caption drawn over the background. X and Y are the
// centre of the text in buffer pixels.
type TextLayer struct {
	ID          string
	Text        string
	X           float64
	Y           float64
	FontSize    float64
	FontFamily  string
	Fill        color.NRGBA
	Stroke      color.NRGBA
	StrokeWidth float64
	Rotation    float64 // degrees, clockwise in buffer space
	Uppercase   bool
}

// DisplayText is the text as drawn. Uppercase never changes the stored text.
func (l TextLayer) DisplayText() string {
	if l.Uppercase {
		return strings.ToUpper(l.Text)
	}
	return l.Text
}

// Center returns the layer position.
func (l TextLayer) Center() Point {
	return Point{X: l.X, Y: l.Y}
}

// Measure returns the width of the drawn text and the line box height,
// which follows the font size.
func (l TextLayer) Measure(fonts *FontBook) (w, h float64) {
	face := fonts.Face(l.FontFamily, l.FontSize)
	adv := font.MeasureString(face, l.DisplayText())
	return float64(adv) / 64, l.FontSize
}

// Contains reports whether p (buffer space) grabs the layer: either within
// the hit radius of its centre or inside its rotated text box.
func (l TextLayer) Contains(p Point, fonts *FontBook) bool {
	if p.Distance(l.Center()) < l.FontSize*hitRadiusFactor+hitRadiusSlack {
		return true
	}
	if fonts == nil {
		return false
	}
	w, h := l.Measure(fonts)
	local := rotatePoint(p.Sub(l.Center()), -l.Rotation)
	return math.Abs(local.X) <= w/2+selectionPadX && math.Abs(local.Y) <= h/2+selectionPadY
}

// TextPatch is a partial update; nil fields are left alone.
type TextPatch struct {
	Text        *string
	X           *float64
	Y           *float64
	FontSize    *float64
	FontFamily  *string
	Fill        *color.NRGBA
	Stroke      *color.NRGBA
	StrokeWidth *float64
	Rotation    *float64
	Uppercase   *bool
}

func (p TextPatch) apply(l *TextLayer) {
	if p.Text != nil {
		l.Text = *p.Text
	}
	if p.X != nil {
		l.X = *p.X
	}
	if p.Y != nil {
		l.Y = *p.Y
	}
	if p.FontSize != nil {
		l.FontSize = fontSizeRange.Clamp(*p.FontSize, l.FontSize)
	}
	if p.FontFamily != nil {
		l.FontFamily = *p.FontFamily
	}
	if p.Fill != nil {
		l.Fill = *p.Fill
	}
	if p.Stroke != nil {
		l.Stroke = *p.Stroke
	}
	if p.StrokeWidth != nil {
		l.StrokeWidth = strokeWidthRange.Clamp(*p.StrokeWidth, l.StrokeWidth)
	}
	if p.Rotation != nil {
		l.Rotation = rotationRange.Clamp(*p.Rotation, l.Rotation)
	}
	if p.Uppercase != nil {
		l.Uppercase = *p.Uppercase
	}
}

// newTextLayer returns the defaults for a caption added to a bitmap of the
// given size: centred, font size a tenth of the width.
func newTextLayer(width, height int, family string) TextLayer {
	return TextLayer{
		Text:        defaultCaption,
		X:           float64(width) / 2,
		Y:           float64(height) / 2,
		FontSize:    fontSizeRange.Clamp(math.Floor(float64(width)*0.1), fontSizeRange.Min),
		FontFamily:  family,
		Fill:        color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		Stroke:      color.NRGBA{A: 255},
		StrokeWidth: defaultStrokeWidth,
		Uppercase:   true,
	}
}

// TextLayers is the ordered caption stack. Order is paint order: later
// layers are drawn on top and win hit tests.
type TextLayers struct {
	layers []TextLayer
}

// Add appends l, assigning an id if it has none, and returns the id.
func (tl *TextLayers) Add(l TextLayer) string {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.FontSize = fontSizeRange.Clamp(l.FontSize, fontSizeRange.Min)
	l.Rotation = rotationRange.Clamp(l.Rotation, 0)
	l.StrokeWidth = strokeWidthRange.Clamp(l.StrokeWidth, 0)
	tl.layers = append(tl.layers, l)
	return l.ID
}

// Update applies p to the layer with id. Unknown ids are ignored since the
// layer may already have been removed.
func (tl *TextLayers) Update(id string, p TextPatch) bool {
	i := tl.index(id)
	if i < 0 {
		return false
	}
	p.apply(&tl.layers[i])
	return true
}

// Remove deletes the layer with id, keeping the order of the rest.
func (tl *TextLayers) Remove(id string) bool {
	i := tl.index(id)
	if i < 0 {
		return false
	}
	tl.layers = append(tl.layers[:i], tl.layers[i+1:]...)
	return true
}

// ReorderToTop moves the layer with id to the top of the stack.
func (tl *TextLayers) ReorderToTop(id string) bool {
	i := tl.index(id)
	if i < 0 {
		return false
	}
	l := tl.layers[i]
	tl.layers = append(tl.layers[:i], tl.layers[i+1:]...)
	tl.layers = append(tl.layers, l)
	return true
}

// Get returns a copy of the layer with id.
func (tl *TextLayers) Get(id string) (TextLayer, bool) {
	i := tl.index(id)
	if i < 0 {
		return TextLayer{}, false
	}
	return tl.layers[i], true
}

// All returns a copy of the stack, bottom first.
func (tl *TextLayers) All() []TextLayer {
	return append([]TextLayer(nil), tl.layers...)
}

// Len returns the number of layers.
func (tl *TextLayers) Len() int {
	return len(tl.layers)
}

// Clear removes every layer.
func (tl *TextLayers) Clear() {
	tl.layers = nil
}

// HitTest returns the top-most layer grabbed at p.
func (tl *TextLayers) HitTest(p Point, fonts *FontBook) (string, bool) {
	for i := len(tl.layers) - 1; i >= 0; i-- {
		if tl.layers[i].Contains(p, fonts) {
			return tl.layers[i].ID, true
		}
	}
	return "", false
}

func (tl *TextLayers) index(id string) int {
	for i := range tl.layers {
		if tl.layers[i].ID == id {
			return i
		}
	}
	return -1
}

// parseHexColor parses "#rrggbb" into an opaque colour.
func parseHexColor(s string) (color.NRGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// hexColor formats c as "#rrggbb", dropping alpha.
func hexColor(c color.Color) string {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return "#000000"
	}
	// un-premultiply before handing to colorful
	cf := colorful.Color{
		R: float64(r) / float64(a),
		G: float64(g) / float64(a),
		B: float64(b) / float64(a),
	}
	return cf.Clamped().Hex()
}
