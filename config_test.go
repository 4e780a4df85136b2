package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigParse(t *testing.T) {
	home := t.TempDir()
	rc := `
# memer settings
savedirectory = ~/memes
proxy = https://proxy.example/?u=
useproxy = false
viewport = 800x450
brushsize = 500
font = Go Mono
font.Comic = ~/fonts/comic.ttf
sharecommand = xdg-open
exportprefix = caption
logfile = ~/memer.log
not a setting
unknown = 1
`
	c := defaultConfig()
	c.parse(strings.NewReader(rc), home)

	if c.SaveDirectory != filepath.Join(home, "memes") {
		t.Errorf("SaveDirectory = %q", c.SaveDirectory)
	}
	if c.Proxy != "https://proxy.example/?u=" || c.UseProxy {
		t.Errorf("proxy = %q use=%v", c.Proxy, c.UseProxy)
	}
	if c.ViewportW != 800 || c.ViewportH != 450 {
		t.Errorf("viewport = %dx%d", c.ViewportW, c.ViewportH)
	}
	if c.BrushSize != 100 {
		t.Errorf("BrushSize = %v, want clamped 100", c.BrushSize)
	}
	if c.Font != "Go Mono" {
		t.Errorf("Font = %q", c.Font)
	}
	if got := c.Fonts["comic"]; got != filepath.Join(home, "fonts/comic.ttf") {
		t.Errorf("Fonts[comic] = %q", got)
	}
	if c.ShareCommand != "xdg-open" || c.ExportPrefix != "caption" {
		t.Errorf("share=%q prefix=%q", c.ShareCommand, c.ExportPrefix)
	}
	if c.LogFile != filepath.Join(home, "memer.log") {
		t.Errorf("LogFile = %q", c.LogFile)
	}
}

func TestConfigDefaults(t *testing.T) {
	c := defaultConfig()
	c.parse(strings.NewReader("viewport = banana\n"), "")
	if c.ViewportW != defaultViewport || c.ViewportH != defaultViewport {
		t.Errorf("bad viewport changed size to %dx%d", c.ViewportW, c.ViewportH)
	}
	if c.Proxy != defaultCORSProxy || !c.UseProxy {
		t.Errorf("proxy defaults = %q %v", c.Proxy, c.UseProxy)
	}
	if got, err := c.GetSavePath("a.png"); err != nil || got != "a.png" {
		t.Errorf("GetSavePath() = %q, %v", got, err)
	}
}

func TestSaveDir(t *testing.T) {
	root := t.TempDir()
	c := defaultConfig()
	c.SaveDirectory = filepath.Join(root, "out", "memes")
	dir, err := c.SaveDir()
	if err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("save directory not created: %v", err)
	}

	blocker := filepath.Join(root, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	c.SaveDirectory = filepath.Join(blocker, "memes")
	if _, err := c.SaveDir(); err == nil {
		t.Error("SaveDir() under a regular file succeeded")
	}
	if _, err := c.GetSavePath("a.png"); err == nil {
		t.Error("GetSavePath() under a regular file succeeded")
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in     string
		w, h   int
		wantOK bool
	}{
		{"600x600", 600, 600, true},
		{"1920 X 1080", 1920, 1080, true},
		{"0x10", 0, 0, false},
		{"10x-1", 0, 0, false},
		{"600", 0, 0, false},
		{"axb", 0, 0, false},
	}
	for _, tt := range tests {
		w, h, ok := parseSize(tt.in)
		if w != tt.w || h != tt.h || ok != tt.wantOK {
			t.Errorf("parseSize(%q) = %d, %d, %v", tt.in, w, h, ok)
		}
	}
}

func TestConfigEditorOptions(t *testing.T) {
	c := defaultConfig()
	c.ViewportW, c.ViewportH = 320, 240
	c.BrushSize = 42
	c.Font = "Go Mono"
	c.Fonts["missing"] = filepath.Join(t.TempDir(), "missing.ttf")

	e := NewEditor(c.EditorOptions()...)
	if got := e.Document().Crop.Viewport(); got.X != 320 || got.Y != 240 {
		t.Errorf("viewport = %v", got)
	}
	if e.Document().Eraser.BrushSize() != 42 {
		t.Errorf("brush = %v", e.Document().Eraser.BrushSize())
	}
	if e.Fonts().Default() != "Go Mono" {
		t.Errorf("default font = %q", e.Fonts().Default())
	}
	if e.Fonts().Has("missing") {
		t.Error("unreadable font registered")
	}
}
