package main

import (
	"image"
)

// EditorDocument is the whole editable state. Stages keep their own
// gesture state so the eraser and caption drag never share a pointer slot.
type EditorDocument struct {
	Store    *RasterStore
	Layers   *TextLayers
	Crop     *CropStage
	Eraser   *EraseStage
	Selected string
	Tool     ToolMode
}

// Editor wraps the document with the render step: every mutation marks
// the frame dirty and Frame recomputes it on demand.
type Editor struct {
	doc          EditorDocument
	fonts        *FontBook
	router       Router
	exportPrefix string

	dirty   bool
	frame   *image.RGBA
	renders int
}

// EditorOption configures an Editor at creation.
type EditorOption func(*Editor)

// WithViewport sets the crop output size.
func WithViewport(width, height int) EditorOption {
	return func(e *Editor) { e.doc.Crop = NewCropStage(width, height) }
}

// WithBrushSize sets the initial eraser diameter.
func WithBrushSize(size float64) EditorOption {
	return func(e *Editor) { e.doc.Eraser.SetBrushSize(size) }
}

// WithFonts replaces the font book.
func WithFonts(fonts *FontBook) EditorOption {
	return func(e *Editor) { e.fonts = fonts }
}

// WithExportPrefix sets the file name prefix for exported images.
func WithExportPrefix(prefix string) EditorOption {
	return func(e *Editor) {
		if prefix != "" {
			e.exportPrefix = prefix
		}
	}
}

// NewEditor returns an editor with no background.
func NewEditor(opts ...EditorOption) *Editor {
	e := &Editor{
		doc: EditorDocument{
			Store:  NewRasterStore(),
			Layers: &TextLayers{},
			Crop:   NewCropStage(defaultViewport, defaultViewport),
			Eraser: NewEraseStage(defaultBrushSize),
			Tool:   ToolNone,
		},
		exportPrefix: defaultExportName,
		dirty:        true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.fonts == nil {
		e.fonts = NewFontBook()
	}
	return e
}

// Document exposes the state for reading.
func (e *Editor) Document() *EditorDocument {
	return &e.doc
}

// Fonts returns the font book used for drawing and hit tests.
func (e *Editor) Fonts() *FontBook {
	return e.fonts
}

// Load starts a fresh composition on b: captions, selection, crop and any
// half-finished stroke are dropped.
func (e *Editor) Load(b *Bitmap) {
	e.doc.Store.Load(b)
	e.doc.Layers.Clear()
	e.doc.Selected = ""
	e.doc.Crop.Reset()
	e.doc.Eraser.End()
	e.router = Router{}
	e.doc.Tool = ToolText
	e.Invalidate()
}

// HasImage reports whether a background is loaded.
func (e *Editor) HasImage() bool {
	return !e.doc.Store.Empty()
}

// Tool returns the active tool.
func (e *Editor) Tool() ToolMode {
	return e.doc.Tool
}

// SetTool switches tools. Leaving the eraser commits a running stroke;
// leaving crop without confirming drops the pan/zoom; the eraser and a
// selection are mutually exclusive.
func (e *Editor) SetTool(t ToolMode) {
	if t == e.doc.Tool {
		return
	}
	if e.doc.Tool == ToolErase {
		if err := e.commitErase(); err != nil {
			Logger().Warn("erase commit on tool switch", "err", err)
		}
	}
	if e.doc.Tool == ToolCrop {
		e.doc.Crop.Reset()
	}
	e.router = Router{}
	if t == ToolErase {
		e.doc.Selected = ""
	}
	e.doc.Tool = t
	e.Invalidate()
}

// Select makes id the selection. Selecting leaves the eraser.
func (e *Editor) Select(id string) bool {
	if _, ok := e.doc.Layers.Get(id); !ok {
		return false
	}
	if e.doc.Tool == ToolErase || e.doc.Tool == ToolNone {
		e.SetTool(ToolText)
	}
	e.doc.Selected = id
	e.Invalidate()
	return true
}

// Deselect clears the selection.
func (e *Editor) Deselect() {
	if e.doc.Selected == "" {
		return
	}
	e.doc.Selected = ""
	e.Invalidate()
}

// Selected returns the selected caption.
func (e *Editor) Selected() (TextLayer, bool) {
	if e.doc.Selected == "" {
		return TextLayer{}, false
	}
	return e.doc.Layers.Get(e.doc.Selected)
}

// AddText adds a caption with the defaults for the current background,
// overridden by p, and selects it.
func (e *Editor) AddText(p TextPatch) (string, error) {
	bg := e.doc.Store.Current()
	if bg == nil {
		return "", ErrNoImage
	}
	l := newTextLayer(bg.Width(), bg.Height(), e.fonts.Default())
	p.apply(&l)
	id := e.doc.Layers.Add(l)
	e.Select(id)
	Logger().Debug("caption added", "id", id, "x", l.X, "y", l.Y, "size", l.FontSize)
	return id, nil
}

// UpdateText applies p to the caption with id; unknown ids are ignored.
func (e *Editor) UpdateText(id string, p TextPatch) bool {
	if !e.doc.Layers.Update(id, p) {
		return false
	}
	e.Invalidate()
	return true
}

// UpdateSelected applies p to the selected caption.
func (e *Editor) UpdateSelected(p TextPatch) bool {
	if e.doc.Selected == "" {
		return false
	}
	return e.UpdateText(e.doc.Selected, p)
}

// RemoveText deletes the caption with id.
func (e *Editor) RemoveText(id string) bool {
	if !e.doc.Layers.Remove(id) {
		return false
	}
	if e.doc.Selected == id {
		e.doc.Selected = ""
	}
	e.Invalidate()
	return true
}

// ReorderToTop raises the caption with id above all others.
func (e *Editor) ReorderToTop(id string) bool {
	if !e.doc.Layers.ReorderToTop(id) {
		return false
	}
	e.Invalidate()
	return true
}

// SetCropScale sets the crop zoom.
func (e *Editor) SetCropScale(s float64) {
	e.doc.Crop.SetScale(s)
	e.Invalidate()
}

// PanCrop shifts the crop by a surface-pixel delta.
func (e *Editor) PanCrop(dx, dy float64) {
	e.doc.Crop.Pan(dx, dy)
	e.Invalidate()
}

// ConfirmCrop bakes the crop into a new viewport-sized background. The
// captions are cleared because their positions belong to the old bitmap.
func (e *Editor) ConfirmCrop() error {
	bg := e.doc.Store.Current()
	if bg == nil {
		return ErrNoImage
	}
	img := e.doc.Crop.Render(bg.Image)
	if err := e.doc.Store.Commit(img); err != nil {
		return err
	}
	Logger().Info("crop confirmed", "transform", e.doc.Crop.Transform(), "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	e.doc.Crop.Reset()
	e.doc.Layers.Clear()
	e.doc.Selected = ""
	e.router = Router{}
	e.doc.Tool = ToolText
	e.Invalidate()
	return nil
}

// CancelCrop drops the pan/zoom and returns to captions.
func (e *Editor) CancelCrop() {
	e.doc.Crop.Reset()
	e.doc.Tool = ToolText
	e.router = Router{}
	e.Invalidate()
}

// SetBrushSize sets the eraser diameter.
func (e *Editor) SetBrushSize(size float64) {
	e.doc.Eraser.SetBrushSize(size)
}

// commitErase ends a running stroke and stores the erased background.
func (e *Editor) commitErase() error {
	if !e.doc.Eraser.Stroking() {
		return nil
	}
	img := e.doc.Eraser.End()
	e.Invalidate()
	return e.doc.Store.Commit(img)
}

// HandlePointer routes a pointer event given in view coordinates.
func (e *Editor) HandlePointer(ev PointerEvent, view Rect) error {
	return e.router.Dispatch(e, ev, view)
}

// SurfaceSize is the size of the buffer pointer events map onto: the crop
// viewport while cropping, the background otherwise.
func (e *Editor) SurfaceSize() image.Point {
	if e.doc.Tool == ToolCrop {
		return e.doc.Crop.Viewport()
	}
	return e.doc.Store.Current().Size()
}

// Invalidate marks the frame stale.
func (e *Editor) Invalidate() {
	e.dirty = true
}

// Frame returns what the user currently sees, re-rendering if anything
// changed since the last call.
func (e *Editor) Frame() *image.RGBA {
	if e.dirty || e.frame == nil {
		e.frame = Compose(e.scene())
		e.dirty = false
		e.renders++
	}
	return e.frame
}

// Renders counts completed render cycles.
func (e *Editor) Renders() int {
	return e.renders
}

func (e *Editor) scene() Scene {
	s := Scene{
		Viewport: e.doc.Crop.Viewport(),
		Layers:   e.doc.Layers.All(),
		Selected: e.doc.Selected,
		Tool:     e.doc.Tool,
		Fonts:    e.fonts,
	}
	if bg := e.doc.Store.Current(); bg != nil {
		s.Background = bg.Image
	}
	if work := e.doc.Eraser.Working(); work != nil {
		s.Background = work
	}
	if e.doc.Tool == ToolCrop {
		t := e.doc.Crop.Transform()
		s.Crop = &t
	}
	return s
}
