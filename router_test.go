package main

import (
	"errors"
	"testing"
)

func TestRouterErrors(t *testing.T) {
	e := NewEditor()
	if err := e.HandlePointer(PointerEvent{Kind: PointerDown}, Rect{0, 0, 10, 10}); !errors.Is(err, ErrNoImage) {
		t.Errorf("no image: %v, want ErrNoImage", err)
	}
	e.Load(solidBitmap(10, 10))
	if err := e.HandlePointer(PointerEvent{Kind: PointerDown}, Rect{}); !errors.Is(err, ErrEmptyView) {
		t.Errorf("empty view: %v, want ErrEmptyView", err)
	}
	if err := e.HandlePointer(PointerEvent{Kind: PointerUp}, Rect{}); err != nil {
		t.Errorf("up on empty view: %v", err)
	}
}

func TestRouterDragCaption(t *testing.T) {
	e := newLoadedEditor(t, 800, 600)
	id, _ := e.AddText(TextPatch{X: ptr(400.0), Y: ptr(150.0), FontSize: ptr(60.0)})
	e.Deselect()
	view := Rect{Left: 0, Top: 0, Width: 400, Height: 300}

	steps := []PointerEvent{
		{Kind: PointerDown, X: 200, Y: 75},
		{Kind: PointerMove, X: 150, Y: 150},
		{Kind: PointerMove, X: 100, Y: 250},
		{Kind: PointerUp, X: 100, Y: 250},
	}
	for _, ev := range steps {
		if err := e.HandlePointer(ev, view); err != nil {
			t.Fatalf("%v: %v", ev.Kind, err)
		}
	}

	l, _ := e.Document().Layers.Get(id)
	if l.X != 200 || l.Y != 500 {
		t.Errorf("caption at (%v, %v), want (200, 500)", l.X, l.Y)
	}
	if sel, ok := e.Selected(); !ok || sel.ID != id {
		t.Error("dragged caption not selected")
	}

	// moves after release do nothing
	e.HandlePointer(PointerEvent{Kind: PointerMove, X: 10, Y: 10}, view)
	if l2, _ := e.Document().Layers.Get(id); l2.X != 200 || l2.Y != 500 {
		t.Errorf("caption moved after release to (%v, %v)", l2.X, l2.Y)
	}
}

func TestRouterMissDeselects(t *testing.T) {
	e := newLoadedEditor(t, 800, 600)
	e.AddText(TextPatch{X: ptr(100.0), Y: ptr(100.0), FontSize: ptr(20.0)})
	view := Rect{Width: 800, Height: 600}
	e.HandlePointer(PointerEvent{Kind: PointerDown, X: 700, Y: 500}, view)
	if _, ok := e.Selected(); ok {
		t.Error("pointer down on empty space kept the selection")
	}
}

func TestRouterLeaveCommitsStroke(t *testing.T) {
	e := newLoadedEditor(t, 100, 100)
	e.SetTool(ToolErase)
	e.SetBrushSize(10)
	view := Rect{Width: 100, Height: 100}

	e.HandlePointer(PointerEvent{Kind: PointerDown, X: 20, Y: 50}, view)
	e.HandlePointer(PointerEvent{Kind: PointerMove, X: 60, Y: 50}, view)
	if e.Document().Store.Current().Image.RGBAAt(40, 50).A != 255 {
		t.Fatal("stroke reached the store before it ended")
	}
	if err := e.HandlePointer(PointerEvent{Kind: PointerLeave, X: -5, Y: 50}, view); err != nil {
		t.Fatal(err)
	}

	if e.Document().Eraser.Stroking() {
		t.Error("stroke still running after leave")
	}
	if a := e.Document().Store.Current().Image.RGBAAt(40, 50).A; a != 0 {
		t.Errorf("alpha = %d, want erased", a)
	}
	// moving back in without a press must not erase
	e.HandlePointer(PointerEvent{Kind: PointerMove, X: 50, Y: 80}, view)
	if a := e.Document().Store.Current().Image.RGBAAt(50, 80).A; a != 255 {
		t.Error("move without press erased")
	}
}

func TestRouterEraseKeepsCaptionsOut(t *testing.T) {
	e := newLoadedEditor(t, 200, 200)
	e.AddText(TextPatch{Text: ptr("TEXT"), X: ptr(100.0), Y: ptr(100.0), FontSize: ptr(60.0)})
	e.SetTool(ToolErase)
	view := Rect{Width: 200, Height: 200}

	e.HandlePointer(PointerEvent{Kind: PointerDown, X: 10, Y: 10}, view)
	e.Frame()
	e.HandlePointer(PointerEvent{Kind: PointerMove, X: 30, Y: 10}, view)
	e.HandlePointer(PointerEvent{Kind: PointerUp, X: 30, Y: 10}, view)

	img := e.Document().Store.Current().Image
	if differsIn(img, window(100, 100, 40), testBackgroundPix) {
		t.Error("caption pixels baked into the erased background")
	}
	if img.RGBAAt(20, 10).A != 0 {
		t.Error("stroke not committed")
	}
}

func TestRouterCropPan(t *testing.T) {
	e := newLoadedEditor(t, 800, 600, WithViewport(600, 600))
	e.SetTool(ToolCrop)
	e.SetCropScale(2)
	// view shows the 600x600 viewport at half size
	view := Rect{Width: 300, Height: 300}

	e.HandlePointer(PointerEvent{Kind: PointerDown, X: 100, Y: 100}, view)
	e.HandlePointer(PointerEvent{Kind: PointerMove, X: 125, Y: 100}, view)
	e.HandlePointer(PointerEvent{Kind: PointerUp, X: 125, Y: 100}, view)

	tr := e.Document().Crop.Transform()
	if tr.OffsetX != 25 || tr.OffsetY != 0 {
		t.Errorf("offset = (%v, %v), want (25, 0)", tr.OffsetX, tr.OffsetY)
	}
}

func TestPointerKindString(t *testing.T) {
	for k, want := range map[PointerKind]string{PointerDown: "down", PointerMove: "move", PointerUp: "up", PointerLeave: "leave", PointerKind(9): "unknown"} {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(k), got, want)
		}
	}
}
