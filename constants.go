package main

// ToolMode decides where pointer events go. Exactly one is active.
type ToolMode int

const (
	ToolNone ToolMode = iota
	ToolText
	ToolErase
	ToolCrop
)

func (t ToolMode) String() string {
	switch t {
	case ToolText:
		return "Text"
	case ToolErase:
		return "Erase"
	case ToolCrop:
		return "Crop"
	default:
		return "None"
	}
}

// Mode is the terminal UI input mode, separate from the editor's tool.
type Mode int

const (
	ModeStartup Mode = iota
	ModeNormal
	ModeTextInput
	ModeSourceInput
)

const (
	defaultCaption     = "TAP TO EDIT"
	defaultStrokeWidth = 4
	defaultBrushSize   = 30
	defaultViewport    = 600
	defaultExportName  = "meme"

	// hit radius around a caption centre: fontSize*factor + slack
	hitRadiusFactor = 1.5
	hitRadiusSlack  = 20

	selectionPadX      = 10
	selectionPadY      = 5
	selectionLineWidth = 2
	selectionDash      = 5

	nudgeStep  = 5
	zoomStep   = 0.1
	sizeStep   = 5
	rotateStep = 5
)

var (
	fillPalette = []string{"#ffffff", "#000000", "#ffde00", "#ff3b30", "#34c759", "#0a84ff"}
	strokeSteps = []float64{0, 2, 4, 8, 12, 20}
)
