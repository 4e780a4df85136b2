package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

const halfBlock = "▀"

var (
	checkerLight = color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	checkerDark  = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	toolStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(lipgloss.Color("51")).Bold(true)
)

// fitPreview returns the preview rect, in preview pixels, for a frame of
// size inside a cols x rows cell area. Each cell holds two pixels stacked
// vertically. The aspect ratio is kept and the result is centred.
func fitPreview(size image.Point, cols, rows int) Rect {
	if size.X <= 0 || size.Y <= 0 || cols <= 0 || rows <= 0 {
		return Rect{}
	}
	areaW, areaH := float64(cols), float64(rows*2)
	scale := math.Min(areaW/float64(size.X), areaH/float64(size.Y))
	w := math.Max(1, math.Floor(float64(size.X)*scale+1e-6))
	h := math.Max(1, math.Floor(float64(size.Y)*scale+1e-6))

	left := math.Floor((areaW - w) / 2)
	// top on an even pixel so rows line up with cells
	top := math.Floor((areaH-h)/4) * 2
	return Rect{Left: left, Top: top, Width: w, Height: h}
}

// renderPreview scales frame into view and draws it as half-block cells.
// Transparent areas show a checkerboard.
func renderPreview(frame *image.RGBA, view Rect, cols, rows int) []string {
	lines := make([]string, rows)
	if frame == nil || view.Empty() {
		for i := range lines {
			lines[i] = strings.Repeat(" ", cols)
		}
		return lines
	}

	w, h := int(view.Width), int(view.Height)
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), frame, frame.Bounds(), draw.Src, nil)

	left, top := int(view.Left), int(view.Top)
	pixel := func(x, y int) (color.Color, bool) {
		px, py := x-left, y-top
		if px < 0 || py < 0 || px >= w || py >= h {
			return nil, false
		}
		return overChecker(scaled.RGBAAt(px, py), px, py), true
	}

	for row := 0; row < rows; row++ {
		var line strings.Builder
		for col := 0; col < cols; col++ {
			upper, okU := pixel(col, row*2)
			lower, okL := pixel(col, row*2+1)
			if !okU && !okL {
				line.WriteByte(' ')
				continue
			}
			style := lipgloss.NewStyle()
			if okU {
				style = style.Foreground(lipgloss.Color(hexColor(upper)))
			}
			if okL {
				style = style.Background(lipgloss.Color(hexColor(lower)))
			}
			line.WriteString(style.Render(halfBlock))
		}
		lines[row] = line.String()
	}
	return lines
}

// overChecker blends a premultiplied pixel over an 8px checkerboard.
func overChecker(c color.RGBA, x, y int) color.Color {
	if c.A == 0xff {
		return c
	}
	bg := checkerLight
	if (x/8+y/8)%2 == 1 {
		bg = checkerDark
	}
	inv := 255 - uint32(c.A)
	return color.RGBA{
		R: uint8(uint32(c.R) + uint32(bg.R)*inv/255),
		G: uint8(uint32(c.G) + uint32(bg.G)*inv/255),
		B: uint8(uint32(c.B) + uint32(bg.B)*inv/255),
		A: 0xff,
	}
}

// previewArea is the cell area left for the image above the status line.
func (m model) previewArea() (cols, rows int) {
	cols, rows = m.width, m.height-1
	if m.mode == ModeTextInput || m.mode == ModeSourceInput {
		rows--
	}
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

// refreshPreview re-renders the cached preview if the frame or terminal
// size changed, and returns the current view rect.
func (m *model) refreshPreview() *previewCache {
	cols, rows := m.previewArea()
	if m.preview == nil {
		m.preview = &previewCache{renders: -1}
	}
	if !m.editor.HasImage() {
		m.preview.view = Rect{}
		m.preview.rows = renderPreview(nil, Rect{}, cols, rows)
		return m.preview
	}
	frame := m.editor.Frame()
	p := m.preview
	if p.renders == m.editor.Renders() && p.width == cols && p.height == rows {
		return p
	}
	p.renders = m.editor.Renders()
	p.width, p.height = cols, rows
	p.view = fitPreview(frame.Bounds().Size(), cols, rows)
	p.rows = renderPreview(frame, p.view, cols, rows)
	return p
}

func (m model) statusLine() string {
	var parts []string
	tool := m.editor.Tool()
	parts = append(parts, toolStyle.Render(" "+strings.ToUpper(tool.String())+" "))

	switch tool {
	case ToolCrop:
		t := m.editor.Document().Crop.Transform()
		parts = append(parts, fmt.Sprintf("Zoom: %.1fx", t.Scale))
	case ToolErase:
		parts = append(parts, fmt.Sprintf("Brush: %.0f", m.editor.Document().Eraser.BrushSize()))
	default:
		if l, ok := m.editor.Selected(); ok {
			parts = append(parts, fmt.Sprintf("%q %s %.0fpx %.0f° fill %s stroke %s/%.0f",
				l.DisplayText(), l.FontFamily, l.FontSize, l.Rotation, hexColor(l.Fill), hexColor(l.Stroke), l.StrokeWidth))
		} else {
			parts = append(parts, fmt.Sprintf("Captions: %d", m.editor.Document().Layers.Len()))
		}
	}
	if bg := m.editor.Document().Store.Current(); bg != nil {
		parts = append(parts, fmt.Sprintf("%dx%d", bg.Width(), bg.Height()))
	}
	if m.loading {
		parts = append(parts, "Loading...")
	}

	switch {
	case m.errorMessage != "":
		parts = append(parts, errorStyle.Render(m.errorMessage))
	case m.successMessage != "":
		parts = append(parts, okStyle.Render(m.successMessage))
	default:
		parts = append(parts, "? for help | q to quit")
	}
	return statusStyle.Width(m.width).Render(strings.Join(parts, " | "))
}

func (m model) startupView() string {
	lines := []string{
		"",
		"  memer",
		"  =====",
		"",
		"  'o' Open an image file or URL",
		"  'p' Open the path or URL on the clipboard",
		"  'q' Quit",
		"",
	}
	if m.loading {
		lines = append(lines, "  Loading...")
	}
	if m.errorMessage != "" {
		lines = append(lines, "  "+errorStyle.Render(m.errorMessage))
	}
	if m.mode == ModeSourceInput {
		lines = append(lines, "", "  "+m.input.View())
	}
	return strings.Join(lines, "\n")
}

var helpLines = []string{
	"memer Help",
	"==========",
	"",
	"Captions:",
	"---------",
	"  t                Add a caption in the centre of the image",
	"  Enter            Edit the selected caption's text",
	"  p                Paste clipboard text into the selected caption",
	"  click/drag       Select and move a caption",
	"  h/←/j/↓/k/↑/l/→  Nudge the selected caption",
	"  Shift+h/j/k/l    Nudge faster",
	"  + / -            Font size",
	"  [ / ]            Rotate",
	"  u                Toggle uppercase",
	"  f / F            Cycle fill / stroke colour",
	"  w                Cycle stroke width",
	"  g                Cycle font family",
	"  x / Delete       Remove the selected caption",
	"",
	"Eraser:",
	"-------",
	"  e                Toggle the eraser",
	"  drag             Erase background pixels to transparency",
	"  + / -            Brush size",
	"",
	"Crop:",
	"-----",
	"  c                Toggle crop",
	"  drag / arrows    Pan the image",
	"  + / - / wheel    Zoom",
	"  Enter            Confirm the crop (captions are cleared)",
	"  Esc              Cancel",
	"",
	"File:",
	"-----",
	"  o                Open an image path or URL",
	"  s                Export PNG",
	"  S                Export PNG and share",
	"  P                Export PDF",
	"",
	"General:",
	"  Esc              Clear selection / back to captions",
	"  ?                Toggle this help screen",
	"  q/Ctrl+C         Quit",
}

func (m model) helpView() string {
	visibleHeight := m.height - 1
	if visibleHeight < 1 {
		visibleHeight = 1
	}
	startLine := m.helpScroll
	if startLine > len(helpLines)-visibleHeight {
		startLine = len(helpLines) - visibleHeight
	}
	if startLine < 0 {
		startLine = 0
	}
	endLine := startLine + visibleHeight
	if endLine > len(helpLines) {
		endLine = len(helpLines)
	}

	result := strings.Join(helpLines[startLine:endLine], "\n")
	statusLine := fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result + "\n" + statusLine
}
