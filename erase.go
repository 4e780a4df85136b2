package main

import (
	"image"
	"image/draw"

	"github.com/fogleman/gg"
)

// EraseStage punches holes in a working copy of the background. The copy
// never contains text; the compositor draws captions over it while a stroke
// is in progress and the editor commits it when the stroke ends.
type EraseStage struct {
	brushSize float64
	work      *image.RGBA
	last      Point
	stroking  bool
}

// NewEraseStage returns an idle stage with the given brush diameter.
func NewEraseStage(brushSize float64) *EraseStage {
	return &EraseStage{brushSize: brushSizeRange.Clamp(brushSize, defaultBrushSize)}
}

// BrushSize returns the brush diameter in buffer pixels.
func (e *EraseStage) BrushSize() float64 {
	return e.brushSize
}

// SetBrushSize sets the brush diameter, clamped to the brush range.
func (e *EraseStage) SetBrushSize(size float64) {
	e.brushSize = brushSizeRange.Clamp(size, e.brushSize)
}

// Begin copies the background and erases a dot at p, so a tap alone
// leaves a mark.
func (e *EraseStage) Begin(bg *image.RGBA, p Point) {
	e.work = cloneRGBA(bg)
	e.stroking = true
	e.last = p
	e.mark(p, p)
}

// Extend erases the segment from the last position to p.
func (e *EraseStage) Extend(p Point) {
	if !e.stroking {
		return
	}
	e.mark(e.last, p)
	e.last = p
}

// End finishes the stroke and hands back the erased buffer.
func (e *EraseStage) End() *image.RGBA {
	if !e.stroking {
		return nil
	}
	out := e.work
	e.work = nil
	e.stroking = false
	return out
}

// Stroking reports whether a stroke is in progress.
func (e *EraseStage) Stroking() bool {
	return e.stroking
}

// Working returns the buffer being erased, or nil when idle.
func (e *EraseStage) Working() *image.RGBA {
	return e.work
}

// mark clears every pixel under a round-capped segment from a to b.
// The brush is rasterised with gg and thresholded to a hard mask, then
// applied destination-out: transparent source through the mask with
// draw.Src, which scales the destination by (1 - mask). With a binary mask
// painted pixels become fully transparent and repeat passes change nothing.
func (e *EraseStage) mark(a, b Point) {
	radius := e.brushSize / 2
	area := segmentBounds(a, b, radius, e.work.Bounds())
	if area.Empty() {
		return
	}

	dc := gg.NewContext(area.Dx(), area.Dy())
	dc.Translate(-float64(area.Min.X), -float64(area.Min.Y))
	dc.SetRGBA(1, 1, 1, 1)
	dc.DrawCircle(a.X, a.Y, radius)
	dc.DrawCircle(b.X, b.Y, radius)
	dc.Fill()
	if a != b {
		dc.SetLineWidth(e.brushSize)
		dc.SetLineCapRound()
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
		dc.Stroke()
	}

	brush, ok := dc.Image().(*image.RGBA)
	if !ok {
		return
	}
	mask := image.NewAlpha(area)
	for y := 0; y < area.Dy(); y++ {
		for x := 0; x < area.Dx(); x++ {
			if brush.Pix[brush.PixOffset(x, y)+3] >= 0x80 {
				mask.Pix[mask.PixOffset(area.Min.X+x, area.Min.Y+y)] = 0xff
			}
		}
	}
	draw.DrawMask(e.work, area, image.Transparent, image.Point{}, mask, area.Min, draw.Src)
}
