package main

import (
	"image"
	"image/draw"
)

// Bitmap is a background image plus where its pixels came from.
type Bitmap struct {
	Image   *image.RGBA
	Source  string
	Tainted bool // pixels from a cross-origin source without permission
}

// NewBitmap copies img into an RGBA buffer anchored at the origin.
func NewBitmap(img image.Image, source string) *Bitmap {
	return &Bitmap{Image: toRGBA(img), Source: source}
}

// Width returns the bitmap width in pixels.
func (b *Bitmap) Width() int {
	if b == nil || b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dx()
}

// Height returns the bitmap height in pixels.
func (b *Bitmap) Height() int {
	if b == nil || b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dy()
}

// Size returns the bitmap dimensions.
func (b *Bitmap) Size() image.Point {
	return image.Pt(b.Width(), b.Height())
}

// RasterStore owns the current background. Pixels only change through
// Load and Commit, each of which swaps the whole bitmap.
type RasterStore struct {
	current *Bitmap
}

// NewRasterStore returns an empty store.
func NewRasterStore() *RasterStore {
	return &RasterStore{}
}

// Load replaces the bitmap with a freshly decoded one.
func (s *RasterStore) Load(b *Bitmap) {
	s.current = b
	Logger().Info("background loaded", "source", b.Source, "width", b.Width(), "height", b.Height(), "tainted", b.Tainted)
}

// Commit replaces the stored pixels. The previous bitmap is discarded;
// there is no way back. Source and taint carry over since the new pixels
// are derived from the old ones.
func (s *RasterStore) Commit(img *image.RGBA) error {
	if s.current == nil {
		return ErrNoImage
	}
	s.current = &Bitmap{
		Image:   img,
		Source:  s.current.Source,
		Tainted: s.current.Tainted,
	}
	Logger().Debug("background committed", "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return nil
}

// Current returns the stored bitmap, or nil before the first load.
func (s *RasterStore) Current() *Bitmap {
	return s.current
}

// Empty reports whether nothing has been loaded yet.
func (s *RasterStore) Empty() bool {
	return s.current == nil
}

// Tainted reports whether the stored pixels may not be exported.
func (s *RasterStore) Tainted() bool {
	return s.current != nil && s.current.Tainted
}

func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}
