package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/jung-kurt/gofpdf"
)

var errNoShareCommand = errors.New("no share command configured")

// Export flattens the document and encodes it as PNG.
//
// It runs in two phases. The selection is cleared and a full render cycle
// completes first, so the outline is gone before any pixel is read; only
// then is the undecorated frame composed and encoded. A tainted background
// fails with *SecurityError rather than a generic encode error.
func (e *Editor) Export() ([]byte, error) {
	frame, err := e.exportFrame()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := gg.NewContextForRGBA(frame).EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Editor) exportFrame() (*image.RGBA, error) {
	if e.doc.Store.Empty() {
		return nil, ErrNoImage
	}
	// a stroke still in progress is part of what the user sees
	if err := e.commitErase(); err != nil {
		return nil, err
	}
	bg := e.doc.Store.Current()

	e.Deselect()
	e.Frame()

	s := e.scene()
	s.Background = bg.Image
	s.Crop = nil
	s.Selected = ""
	s.Tool = ToolNone

	if bg.Tainted {
		return nil, &SecurityError{Source: bg.Source}
	}
	return Compose(s), nil
}

// ExportFile writes "<prefix>-<unix millis>.png" into dir and returns its path.
func (e *Editor) ExportFile(dir string) (string, error) {
	data, err := e.Export()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, e.ExportName(time.Now(), "png"))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	Logger().Info("exported", "path", path, "bytes", len(data))
	return path, nil
}

// ExportPDF writes a single page the size of the image with the PNG on it.
func (e *Editor) ExportPDF(w io.Writer) error {
	data, err := e.Export()
	if err != nil {
		return err
	}
	size := e.doc.Store.Current().Size()
	width, height := float64(size.X), float64(size.Y)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(e.exportPrefix, opts, bytes.NewReader(data))
	pdf.ImageOptions(e.exportPrefix, 0, 0, width, height, false, opts, 0, "")
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// ExportName returns "<prefix>-<unix millis>.<ext>".
func (e *Editor) ExportName(now time.Time, ext string) string {
	return exportFileName(e.exportPrefix, now, ext)
}

func exportFileName(prefix string, now time.Time, ext string) string {
	return fmt.Sprintf("%s-%d.%s", prefix, now.UnixMilli(), ext)
}

// Share hands path to command. Callers fall back to the saved file when it
// fails.
func Share(command, path string) error {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return errNoShareCommand
	}
	bin, err := exec.LookPath(fields[0])
	if err != nil {
		return fmt.Errorf("share command %q: %w", fields[0], err)
	}
	args := append(fields[1:], path)
	cmd := exec.Command(bin, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("share command %q: %w", fields[0], err)
	}
	go cmd.Wait()
	return nil
}
