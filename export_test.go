package main

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func decodeExport(t *testing.T, data []byte) *image.RGBA {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("export is not a PNG: %v", err)
	}
	return toRGBA(img)
}

func TestExportDraggedCaption(t *testing.T) {
	e := newLoadedEditor(t, 800, 600)
	id, err := e.AddText(TextPatch{X: ptr(400.0), Y: ptr(150.0), FontSize: ptr(60.0)})
	if err != nil {
		t.Fatal(err)
	}
	e.UpdateText(id, TextPatch{Text: ptr("TEST")})

	view := Rect{Width: 800, Height: 600}
	for _, ev := range []PointerEvent{
		{Kind: PointerDown, X: 400, Y: 150},
		{Kind: PointerMove, X: 300, Y: 300},
		{Kind: PointerMove, X: 200, Y: 500},
		{Kind: PointerUp, X: 200, Y: 500},
	} {
		if err := e.HandlePointer(ev, view); err != nil {
			t.Fatal(err)
		}
	}

	data, err := e.Export()
	if err != nil {
		t.Fatal(err)
	}
	img := decodeExport(t, data)
	if img.Bounds().Dx() != 800 || img.Bounds().Dy() != 600 {
		t.Fatalf("export is %v, want 800x600", img.Bounds())
	}
	if !differsIn(img, window(200, 500, 30), testBackgroundPix) {
		t.Error("no glyphs around (200, 500)")
	}
	if differsIn(img, window(400, 150, 30), testBackgroundPix) {
		t.Error("glyphs left behind at (400, 150)")
	}
}

func TestExportIgnoresSelection(t *testing.T) {
	e := newLoadedEditor(t, 300, 200)
	id, _ := e.AddText(TextPatch{Text: ptr("HELLO")})

	e.Deselect()
	plain, err := e.Export()
	if err != nil {
		t.Fatal(err)
	}

	e.Select(id)
	e.Frame()
	selected, err := e.Export()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(plain, selected) {
		t.Error("export with a selection differs from export without")
	}
	if _, ok := e.Selected(); ok {
		t.Error("export kept the selection")
	}
}

func TestExportAfterCropUsesViewport(t *testing.T) {
	e := newLoadedEditor(t, 1024, 256, WithViewport(600, 600))
	e.SetTool(ToolCrop)
	e.SetCropScale(1.5)
	if err := e.ConfirmCrop(); err != nil {
		t.Fatal(err)
	}
	data, err := e.Export()
	if err != nil {
		t.Fatal(err)
	}
	if b := decodeExport(t, data).Bounds(); b.Dx() != 600 || b.Dy() != 600 {
		t.Errorf("export is %v, want 600x600", b)
	}
}

func TestExportDuringCropIsUncropped(t *testing.T) {
	e := newLoadedEditor(t, 400, 100, WithViewport(50, 50))
	e.SetTool(ToolCrop)
	data, err := e.Export()
	if err != nil {
		t.Fatal(err)
	}
	if b := decodeExport(t, data).Bounds(); b.Dx() != 400 || b.Dy() != 100 {
		t.Errorf("export is %v, want the committed 400x100", b)
	}
}

func TestExportCommitsRunningStroke(t *testing.T) {
	e := newLoadedEditor(t, 100, 100)
	e.SetTool(ToolErase)
	view := Rect{Width: 100, Height: 100}
	e.HandlePointer(PointerEvent{Kind: PointerDown, X: 20, Y: 50}, view)
	e.HandlePointer(PointerEvent{Kind: PointerMove, X: 80, Y: 50}, view)

	data, err := e.Export()
	if err != nil {
		t.Fatal(err)
	}
	img := decodeExport(t, data)
	for _, x := range []int{20, 50, 80} {
		if a := img.RGBAAt(x, 50).A; a != 0 {
			t.Errorf("exported alpha at (%d, 50) = %d, want erased", x, a)
		}
	}
	if e.Document().Eraser.Stroking() {
		t.Error("stroke still running after export")
	}
	if a := e.Document().Store.Current().Image.RGBAAt(50, 50).A; a != 0 {
		t.Errorf("committed alpha = %d, want erased", a)
	}
}

func TestExportTainted(t *testing.T) {
	e := NewEditor()
	b := solidBitmap(50, 50)
	b.Tainted = true
	b.Source = "https://example.com/meme.jpg"
	e.Load(b)

	// commits keep the taint
	e.SetTool(ToolErase)
	e.HandlePointer(PointerEvent{Kind: PointerDown, X: 10, Y: 10}, Rect{Width: 50, Height: 50})
	e.HandlePointer(PointerEvent{Kind: PointerUp, X: 10, Y: 10}, Rect{Width: 50, Height: 50})

	_, err := e.Export()
	var secErr *SecurityError
	if !errors.As(err, &secErr) {
		t.Fatalf("Export() = %v, want *SecurityError", err)
	}
	if secErr.Source != b.Source {
		t.Errorf("Source = %q", secErr.Source)
	}
	if !strings.Contains(UserMessage(err), "Tainted Canvas") {
		t.Errorf("UserMessage() = %q", UserMessage(err))
	}
	if !e.HasImage() {
		t.Error("failed export dropped the document")
	}
}

func TestExportFile(t *testing.T) {
	dir := t.TempDir()
	e := newLoadedEditor(t, 40, 30, WithExportPrefix("caption"))
	path, err := e.ExportFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != dir || !strings.HasPrefix(filepath.Base(path), "caption-") || filepath.Ext(path) != ".png" {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if b := decodeExport(t, data).Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("file image is %v", b)
	}
}

func TestExportPDF(t *testing.T) {
	e := newLoadedEditor(t, 64, 48)
	e.AddText(TextPatch{})
	var buf bytes.Buffer
	if err := e.ExportPDF(&buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", buf.Bytes()[:min(8, buf.Len())])
	}
}

func TestExportFileName(t *testing.T) {
	got := exportFileName("meme", time.UnixMilli(1700000000123), "png")
	if got != "meme-1700000000123.png" {
		t.Errorf("exportFileName() = %q", got)
	}
}

func TestShareWithoutCommand(t *testing.T) {
	if err := Share("   ", "/tmp/x.png"); !errors.Is(err, errNoShareCommand) {
		t.Errorf("Share() = %v, want errNoShareCommand", err)
	}
	if err := Share("memer-no-such-share-tool", "/tmp/x.png"); err == nil {
		t.Error("Share() with a missing binary succeeded")
	}
}
