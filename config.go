package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	SaveDirectory string
	Proxy         string
	UseProxy      bool
	ViewportW     int
	ViewportH     int
	BrushSize     float64
	Font          string
	Fonts         map[string]string // family -> .ttf path
	ShareCommand  string
	ExportPrefix  string
	LogFile       string
}

func defaultConfig() *Config {
	return &Config{
		Proxy:        defaultCORSProxy,
		UseProxy:     true,
		ViewportW:    defaultViewport,
		ViewportH:    defaultViewport,
		BrushSize:    defaultBrushSize,
		Fonts:        map[string]string{},
		ExportPrefix: defaultExportName,
	}
}

func loadConfig() *Config {
	config := defaultConfig()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return config
	}

	configPath := filepath.Join(homeDir, ".memerc")
	file, err := os.Open(configPath)
	if err != nil {
		return config
	}
	defer file.Close()

	config.parse(file, homeDir)
	return config
}

func (c *Config) parse(r io.Reader, homeDir string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])

		if family, ok := strings.CutPrefix(key, "font."); ok && family != "" {
			c.Fonts[family] = expandPath(value, homeDir)
			continue
		}

		switch key {
		case "savedirectory", "save_directory", "savedir":
			c.SaveDirectory = expandPath(value, homeDir)
		case "proxy":
			c.Proxy = value
		case "useproxy", "use_proxy":
			c.UseProxy = strings.ToLower(value) == "true"
		case "viewport":
			w, h, ok := parseSize(value)
			if !ok {
				Logger().Warn("bad viewport in config", "value", value)
				continue
			}
			c.ViewportW, c.ViewportH = w, h
		case "brushsize", "brush_size", "brush":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				c.BrushSize = brushSizeRange.Clamp(v, defaultBrushSize)
			}
		case "font":
			c.Font = value
		case "sharecommand", "share_command", "share":
			c.ShareCommand = value
		case "exportprefix", "export_prefix":
			if value != "" {
				c.ExportPrefix = value
			}
		case "logfile", "log_file", "log":
			c.LogFile = expandPath(value, homeDir)
		}
	}
}

// expandPath resolves "~" and relative paths.
func expandPath(value, homeDir string) string {
	if strings.HasPrefix(value, "~") && homeDir != "" {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

// parseSize reads "WxH".
func parseSize(value string) (int, int, bool) {
	w, h, ok := strings.Cut(strings.ToLower(value), "x")
	if !ok {
		return 0, 0, false
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil || width <= 0 {
		return 0, 0, false
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || height <= 0 {
		return 0, 0, false
	}
	return width, height, true
}

func (c *Config) GetSavePath(filename string) (string, error) {
	dir, err := c.SaveDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filename), nil
}

// SaveDir returns the export directory, creating it if needed.
func (c *Config) SaveDir() (string, error) {
	if c.SaveDirectory == "" {
		return ".", nil
	}
	if err := os.MkdirAll(c.SaveDirectory, 0755); err != nil {
		return "", fmt.Errorf("failed to create save directory %s: %w", c.SaveDirectory, err)
	}
	return c.SaveDirectory, nil
}

// EditorOptions turns the config into editor settings.
func (c *Config) EditorOptions() []EditorOption {
	fonts := NewFontBook()
	for family, path := range c.Fonts {
		if err := fonts.RegisterFile(family, path); err != nil {
			Logger().Warn("font not loaded", "family", family, "path", path, "err", err)
		}
	}
	if c.Font != "" {
		if fonts.Has(c.Font) {
			fonts.SetDefault(c.Font)
		} else {
			Logger().Warn("unknown default font", "family", c.Font)
		}
	}
	return []EditorOption{
		WithFonts(fonts),
		WithViewport(c.ViewportW, c.ViewportH),
		WithBrushSize(c.BrushSize),
		WithExportPrefix(c.ExportPrefix),
	}
}
