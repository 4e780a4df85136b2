package main

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

var selectionColor = color.NRGBA{R: 0, G: 255, B: 255, A: 128}

// Scene is everything the compositor reads to produce a frame.
type Scene struct {
	Background *image.RGBA
	Crop       *Transform // set while the crop preview is live
	Viewport   image.Point
	Layers     []TextLayer
	Selected   string
	Tool       ToolMode
	Fonts      *FontBook
}

// Compose flattens a scene into a new buffer. It never modifies the
// background, so overlay state cannot leak into the raster store.
//
// While cropping, the frame is the viewport with the background drawn
// through the transform; captions are left out because they are reset
// when the crop is confirmed.
func Compose(s Scene) *image.RGBA {
	if s.Crop != nil {
		return renderCrop(s.Background, *s.Crop, s.Viewport)
	}
	if s.Background == nil {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	dst := cloneRGBA(s.Background)
	if len(s.Layers) == 0 {
		return dst
	}
	fonts := s.Fonts
	if fonts == nil {
		fonts = BuiltinFonts()
	}
	dc := gg.NewContextForRGBA(dst)
	for _, l := range s.Layers {
		selected := l.ID == s.Selected && s.Tool != ToolErase
		drawTextLayer(dc, l, fonts, selected)
	}
	return dst
}

func drawTextLayer(dc *gg.Context, l TextLayer, fonts *FontBook, selected bool) {
	text := l.DisplayText()

	dc.Push()
	defer dc.Pop()
	dc.Translate(l.X, l.Y)
	dc.Rotate(gg.Radians(l.Rotation))
	dc.SetFontFace(fonts.Face(l.FontFamily, l.FontSize))

	// gg has no glyph outlines, so the stroke is the text stamped around
	// a ring of half the stroke width, underneath the fill.
	if l.StrokeWidth > 0 && text != "" {
		dc.SetColor(l.Stroke)
		for _, r := range outlineRadii(l.StrokeWidth / 2) {
			n := int(math.Max(8, math.Ceil(2*math.Pi*r)))
			for i := 0; i < n; i++ {
				a := 2 * math.Pi * float64(i) / float64(n)
				dc.DrawStringAnchored(text, r*math.Cos(a), r*math.Sin(a), 0.5, 0.5)
			}
		}
	}

	dc.SetColor(l.Fill)
	dc.DrawStringAnchored(text, 0, 0, 0.5, 0.5)

	if selected {
		w, h := l.Measure(fonts)
		dc.SetColor(selectionColor)
		dc.SetLineWidth(selectionLineWidth)
		dc.SetDash(selectionDash, selectionDash)
		dc.DrawRectangle(-w/2-selectionPadX, -h/2-selectionPadY, w+2*selectionPadX, h+2*selectionPadY)
		dc.Stroke()
		dc.SetDash()
	}
}

// outlineRadii returns the rings to stamp for an outline of radius r.
// Wide outlines get inner rings so no gap opens between fill and edge.
func outlineRadii(r float64) []float64 {
	radii := []float64{r}
	for rr := r - 1.5; rr > 0.5; rr -= 1.5 {
		radii = append(radii, rr)
	}
	return radii
}
