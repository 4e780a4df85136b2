package main

import (
	"github.com/charmbracelet/bubbles/textinput"
)

type model struct {
	width      int
	height     int
	mode       Mode
	help       bool
	helpScroll int

	editor *Editor
	loader *Loader
	config *Config
	input  textinput.Model

	source         string // initial image path or URL
	originalText   string // caption text before editing
	loading        bool
	pressed        bool
	errorMessage   string
	successMessage string

	preview *previewCache
}

// previewCache keeps the last half-block rendering so View does not
// rescale the frame on every keystroke.
type previewCache struct {
	renders int
	width   int
	height  int
	view    Rect // preview pixels; one cell is 1x2
	rows    []string
}

type loadedMsg struct {
	source string
	bitmap *Bitmap
	err    error
}
