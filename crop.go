package main

import (
	"image"
	"math"

	"github.com/fogleman/gg"
)

// CropStage holds the live pan/zoom of the background inside a fixed
// viewport. Nothing touches the raster store until the editor confirms.
type CropStage struct {
	transform Transform
	viewport  image.Point
	dragging  bool
	last      Point
}

// NewCropStage returns an idle stage with an identity transform.
func NewCropStage(width, height int) *CropStage {
	if width <= 0 || height <= 0 {
		width, height = defaultViewport, defaultViewport
	}
	return &CropStage{
		transform: IdentityTransform(),
		viewport:  image.Pt(width, height),
	}
}

// Transform returns the current pan/zoom.
func (c *CropStage) Transform() Transform {
	return c.transform
}

// Viewport returns the size of the crop output.
func (c *CropStage) Viewport() image.Point {
	return c.viewport
}

// SetScale sets the zoom, clamped to the crop scale range. Zero and
// negative values clamp to the minimum; NaN keeps the current zoom.
func (c *CropStage) SetScale(s float64) {
	c.transform.Scale = cropScaleRange.Clamp(s, c.transform.Scale)
}

// Zoom changes the scale by delta.
func (c *CropStage) Zoom(delta float64) {
	c.SetScale(c.transform.Scale + delta)
}

// Begin starts a pan gesture at p, in crop surface pixels.
func (c *CropStage) Begin(p Point) {
	c.dragging = true
	c.last = p
}

// Move pans by the pointer delta since the last event. The delta is
// divided by the scale so the image follows the pointer 1:1 when zoomed.
func (c *CropStage) Move(p Point) {
	if !c.dragging {
		return
	}
	d := p.Sub(c.last)
	c.Pan(d.X, d.Y)
	c.last = p
}

// Pan shifts the image by a surface-pixel delta.
func (c *CropStage) Pan(dx, dy float64) {
	if math.IsNaN(dx) || math.IsNaN(dy) {
		return
	}
	c.transform.OffsetX += dx / c.transform.Scale
	c.transform.OffsetY += dy / c.transform.Scale
}

// End finishes the gesture, keeping the pan.
func (c *CropStage) End() {
	c.dragging = false
}

// Dragging reports whether a pan gesture is in progress.
func (c *CropStage) Dragging() bool {
	return c.dragging
}

// Reset returns to the identity transform.
func (c *CropStage) Reset() {
	c.transform = IdentityTransform()
	c.dragging = false
}

// Render draws bg through the transform into a viewport-sized buffer.
// Areas the image does not cover stay transparent.
func (c *CropStage) Render(bg *image.RGBA) *image.RGBA {
	return renderCrop(bg, c.transform, c.viewport)
}

// renderCrop is the drawing half of Transform.Apply: centre, offset, then
// scale about the viewport centre.
func renderCrop(bg *image.RGBA, t Transform, viewport image.Point) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, viewport.X, viewport.Y))
	if bg == nil {
		return dst
	}
	b := bg.Bounds()

	dc := gg.NewContextForRGBA(dst)
	dc.Translate(float64(viewport.X)/2, float64(viewport.Y)/2)
	dc.Scale(t.Scale, t.Scale)
	dc.Translate(t.OffsetX-float64(b.Dx())/2, t.OffsetY-float64(b.Dy())/2)
	dc.DrawImage(bg, 0, 0)
	return dst
}
