package main

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestFitPreview(t *testing.T) {
	tests := []struct {
		name       string
		size       image.Point
		cols, rows int
		want       Rect
	}{
		{"exact fit", image.Pt(800, 600), 80, 30, Rect{0, 0, 80, 60}},
		{"square in wide area", image.Pt(100, 100), 80, 30, Rect{10, 0, 60, 60}},
		{"wide in tall area", image.Pt(400, 100), 40, 40, Rect{0, 34, 40, 10}},
		{"no frame", image.Pt(0, 0), 80, 30, Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fitPreview(tt.size, tt.cols, tt.rows); got != tt.want {
				t.Errorf("fitPreview() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRenderPreviewShape(t *testing.T) {
	frame := solidRGBA(100, 100, testBackground)
	view := fitPreview(frame.Bounds().Size(), 20, 10)
	lines := renderPreview(frame, view, 20, 10)
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want 10", len(lines))
	}
	if !strings.Contains(strings.Join(lines, ""), halfBlock) {
		t.Error("no half blocks drawn")
	}

	blank := renderPreview(nil, Rect{}, 5, 2)
	if len(blank) != 2 || blank[0] != "     " {
		t.Errorf("blank preview = %q", blank)
	}
}

func TestOverChecker(t *testing.T) {
	opaque := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	if got := overChecker(opaque, 0, 0); got != opaque {
		t.Errorf("opaque pixel changed to %v", got)
	}
	if got := overChecker(color.RGBA{}, 0, 0); got != (color.RGBA{R: checkerLight.R, G: checkerLight.G, B: checkerLight.B, A: 255}) {
		t.Errorf("transparent pixel = %v, want light checker", got)
	}
	if got := overChecker(color.RGBA{}, 8, 0); got != (color.RGBA{R: checkerDark.R, G: checkerDark.G, B: checkerDark.B, A: 255}) {
		t.Errorf("transparent pixel = %v, want dark checker", got)
	}
}
