package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	defaultFontFamily = "Impact"
	maxCachedFaces    = 64
)

type faceKey struct {
	family string
	size   float64
}

// FontBook maps family names to parsed fonts and caches sized faces.
// Impact and Arial Black are not redistributable, so they resolve to Go Bold.
type FontBook struct {
	fonts         map[string]*truetype.Font
	names         []string
	defaultFamily string

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

var (
	builtinOnce  sync.Once
	builtinFonts *FontBook
)

// BuiltinFonts returns a shared book of the embedded fonts, parsed once.
func BuiltinFonts() *FontBook {
	builtinOnce.Do(func() { builtinFonts = NewFontBook() })
	return builtinFonts
}

// NewFontBook returns a book holding the embedded Go fonts.
func NewFontBook() *FontBook {
	fb := &FontBook{
		fonts:         make(map[string]*truetype.Font),
		faces:         make(map[faceKey]font.Face),
		defaultFamily: defaultFontFamily,
	}
	builtin := []struct {
		name string
		ttf  []byte
	}{
		{"Impact", gobold.TTF},
		{"Arial Black", gobold.TTF},
		{"Go", goregular.TTF},
		{"Go Bold", gobold.TTF},
		{"Go Italic", goitalic.TTF},
		{"Go Mono", gomono.TTF},
	}
	for _, b := range builtin {
		if err := fb.Register(b.name, b.ttf); err != nil {
			Logger().Error("embedded font", "family", b.name, "err", err)
		}
	}
	return fb
}

// Register adds or replaces a family from raw TTF data.
func (fb *FontBook) Register(family string, ttf []byte) error {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return fmt.Errorf("failed to parse font %q: %w", family, err)
	}
	key := strings.ToLower(family)
	if _, ok := fb.fonts[key]; !ok {
		fb.names = append(fb.names, family)
	}
	fb.fonts[key] = f
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for k := range fb.faces {
		if k.family == key {
			delete(fb.faces, k)
		}
	}
	return nil
}

// RegisterFile adds a family from a TTF file on disk.
func (fb *FontBook) RegisterFile(family, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read font %q: %w", family, err)
	}
	return fb.Register(family, data)
}

// SetDefault changes the family used for unknown names and new layers.
func (fb *FontBook) SetDefault(family string) {
	if fb.Has(family) {
		fb.defaultFamily = family
	}
}

// Default returns the default family name.
func (fb *FontBook) Default() string {
	return fb.defaultFamily
}

// Has reports whether family is registered.
func (fb *FontBook) Has(family string) bool {
	_, ok := fb.fonts[strings.ToLower(family)]
	return ok
}

// Families lists registered families in registration order.
func (fb *FontBook) Families() []string {
	return append([]string(nil), fb.names...)
}

// Next returns the family after family, wrapping around.
func (fb *FontBook) Next(family string) string {
	for i, name := range fb.names {
		if strings.EqualFold(name, family) {
			return fb.names[(i+1)%len(fb.names)]
		}
	}
	return fb.names[0]
}

// Face returns a face for family at size pixels, falling back to the default family.
func (fb *FontBook) Face(family string, size float64) font.Face {
	key := strings.ToLower(family)
	f, ok := fb.fonts[key]
	if !ok {
		key = strings.ToLower(fb.defaultFamily)
		f = fb.fonts[key]
	}
	fk := faceKey{family: key, size: size}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if face, ok := fb.faces[fk]; ok {
		return face
	}
	if len(fb.faces) >= maxCachedFaces {
		fb.faces = make(map[faceKey]font.Face)
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	fb.faces[fk] = face
	return face
}
