package main

// PointerKind is the phase of a pointer or touch event.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerLeave
)

func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerLeave:
		return "leave"
	default:
		return "unknown"
	}
}

// PointerEvent is a pointer position in view coordinates.
type PointerEvent struct {
	Kind PointerKind
	X, Y float64
}

// Router turns pointer events into edits for the active tool. Leaving the
// view ends a gesture exactly like releasing the pointer: strokes are
// committed and pans kept.
type Router struct {
	dragging bool
	dragID   string
}

// Dragging reports whether a caption is being dragged.
func (r *Router) Dragging() bool {
	return r.dragging
}

// Dispatch maps ev from view to buffer space and applies it.
func (r *Router) Dispatch(e *Editor, ev PointerEvent, view Rect) error {
	if !e.HasImage() {
		return ErrNoImage
	}
	if ev.Kind == PointerUp || ev.Kind == PointerLeave {
		return r.finish(e)
	}
	if view.Empty() {
		return ErrEmptyView
	}

	size := e.SurfaceSize()
	bx, by := ViewToBuffer(ev.X, ev.Y, view, size.X, size.Y)
	p := Point{X: bx, Y: by}

	switch e.doc.Tool {
	case ToolCrop:
		if ev.Kind == PointerDown {
			e.doc.Crop.Begin(p)
		} else {
			e.doc.Crop.Move(p)
		}
	case ToolErase:
		if ev.Kind == PointerDown {
			// a down without an up in between: keep what was erased
			if err := e.commitErase(); err != nil {
				return err
			}
			e.doc.Eraser.Begin(e.doc.Store.Current().Image, p)
		} else {
			e.doc.Eraser.Extend(p)
		}
	default:
		if ev.Kind == PointerDown {
			if id, ok := e.doc.Layers.HitTest(p, e.fonts); ok {
				e.Select(id)
				r.dragging = true
				r.dragID = id
			} else {
				e.Deselect()
				r.dragging = false
			}
		} else if r.dragging {
			e.UpdateText(r.dragID, TextPatch{X: &p.X, Y: &p.Y})
		}
	}
	e.Invalidate()
	return nil
}

func (r *Router) finish(e *Editor) error {
	r.dragging = false
	r.dragID = ""
	switch e.doc.Tool {
	case ToolCrop:
		e.doc.Crop.End()
	case ToolErase:
		return e.commitErase()
	}
	return nil
}
