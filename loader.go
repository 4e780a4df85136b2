package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	defaultCORSProxy = "https://corsproxy.io/?"
	maxImageBytes    = 64 << 20
)

// Loader decodes backgrounds from files, data URLs and remote URLs.
type Loader struct {
	Client   *http.Client
	Proxy    string // prefix prepended to remote URLs
	UseProxy bool
}

// NewLoader builds a loader from the user's configuration.
func NewLoader(config *Config) *Loader {
	l := &Loader{
		Client:   &http.Client{Timeout: 30 * time.Second},
		Proxy:    defaultCORSProxy,
		UseProxy: true,
	}
	if config != nil {
		l.Proxy = config.Proxy
		l.UseProxy = config.UseProxy
	}
	return l
}

// Load picks the right decoder for src.
func (l *Loader) Load(ctx context.Context, src string) (*Bitmap, error) {
	switch {
	case strings.HasPrefix(src, "data:"):
		return l.LoadDataURL(src)
	case isRemote(src):
		return l.LoadURL(ctx, src)
	default:
		return l.LoadFile(src)
	}
}

// LoadFile decodes a local image. Local files are never tainted.
func (l *Loader) LoadFile(path string) (*Bitmap, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(io.LimitReader(file, maxImageBytes))
	if err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}
	return NewBitmap(img, path), nil
}

// LoadDataURL decodes a base64 data URL, the form uploads arrive in.
func (l *Loader) LoadDataURL(src string) (*Bitmap, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, &DecodeError{Source: "data URL", Err: errors.New("expected base64 payload")}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &DecodeError{Source: "data URL", Err: err}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Source: "data URL", Err: err}
	}
	return NewBitmap(img, "data URL"), nil
}

// LoadURL fetches a remote image, through the proxy when enabled. Any
// failure is reported as a CrossOriginError. A response without an
// Access-Control-Allow-Origin header still displays but is tainted.
func (l *Loader) LoadURL(ctx context.Context, src string) (*Bitmap, error) {
	target := src
	if l.UseProxy && l.Proxy != "" && !strings.HasPrefix(src, l.Proxy) {
		target = l.Proxy + src
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &CrossOriginError{URL: src, Err: err}
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &CrossOriginError{URL: src, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &CrossOriginError{URL: src, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	img, _, err := image.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, &CrossOriginError{URL: src, Err: err}
	}

	b := NewBitmap(img, src)
	b.Tainted = resp.Header.Get("Access-Control-Allow-Origin") == ""
	Logger().Debug("remote image fetched", "url", target, "tainted", b.Tainted)
	return b, nil
}

func isRemote(src string) bool {
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
