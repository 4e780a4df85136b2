package main

import (
	"image"
	"math"
)

// Point is a position in either view or buffer space; which one is up to the caller.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the Euclidean distance to q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is the on-screen rectangle a buffer is displayed in.
type Rect struct {
	Left, Top     float64
	Width, Height float64
}

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool {
	return !(r.Width > 0) || !(r.Height > 0)
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Left+r.Width &&
		p.Y >= r.Top && p.Y < r.Top+r.Height
}

// ViewToBuffer maps a pointer position in view space to buffer pixels.
// The scale is derived from view on every call since the view is resized
// by layout. A zero-area view is undefined; check Rect.Empty first.
func ViewToBuffer(px, py float64, view Rect, bufferWidth, bufferHeight int) (bx, by float64) {
	scaleX := float64(bufferWidth) / view.Width
	scaleY := float64(bufferHeight) / view.Height
	bx = (px - view.Left) * scaleX
	by = (py - view.Top) * scaleY
	return
}

// BufferToView is the inverse of ViewToBuffer.
func BufferToView(bx, by float64, view Rect, bufferWidth, bufferHeight int) (px, py float64) {
	scaleX := view.Width / float64(bufferWidth)
	scaleY := view.Height / float64(bufferHeight)
	px = bx*scaleX + view.Left
	py = by*scaleY + view.Top
	return
}

// Transform pans and zooms the background inside the crop viewport.
// Offsets are in bitmap pixels so they are independent of the zoom.
type Transform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// IdentityTransform returns scale 1 with no offset.
func IdentityTransform() Transform {
	return Transform{Scale: 1}
}

// IsIdentity reports whether t leaves the bitmap untouched.
func (t Transform) IsIdentity() bool {
	return t.Scale == 1 && t.OffsetX == 0 && t.OffsetY == 0
}

// Apply maps a bitmap pixel into viewport space. The bitmap is centred in
// the viewport, shifted by the offset and scaled about the viewport centre.
func (t Transform) Apply(p Point, bitmap, viewport image.Point) Point {
	return Point{
		X: (p.X-float64(bitmap.X)/2+t.OffsetX)*t.Scale + float64(viewport.X)/2,
		Y: (p.Y-float64(bitmap.Y)/2+t.OffsetY)*t.Scale + float64(viewport.Y)/2,
	}
}

// Invert maps a viewport point back onto the bitmap.
func (t Transform) Invert(p Point, bitmap, viewport image.Point) Point {
	return Point{
		X: (p.X-float64(viewport.X)/2)/t.Scale - t.OffsetX + float64(bitmap.X)/2,
		Y: (p.Y-float64(viewport.Y)/2)/t.Scale - t.OffsetY + float64(bitmap.Y)/2,
	}
}

// rotatePoint rotates p about the origin by degrees.
func rotatePoint(p Point, degrees float64) Point {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Point{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
}

// segmentBounds returns the pixel rect covering a brush segment of the given
// radius, clipped to limit.
func segmentBounds(a, b Point, radius float64, limit image.Rectangle) image.Rectangle {
	minX := math.Floor(math.Min(a.X, b.X) - radius - 1)
	minY := math.Floor(math.Min(a.Y, b.Y) - radius - 1)
	maxX := math.Ceil(math.Max(a.X, b.X) + radius + 1)
	maxY := math.Ceil(math.Max(a.Y, b.Y) + radius + 1)
	r := image.Rect(int(minX), int(minY), int(maxX), int(maxY))
	return r.Intersect(limit)
}
