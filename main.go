package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const loadTimeout = 30 * time.Second

func main() {
	config := loadConfig()

	logPath := config.LogFile
	if env := os.Getenv("MEMER_LOG"); env != "" {
		logPath = env
	}
	if logPath != "" {
		f, err := tea.LogToFile(logPath, "memer")
		if err != nil {
			fmt.Fprintln(os.Stderr, "could not open log file:", err)
			os.Exit(1)
		}
		defer f.Close()
		SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	source := ""
	if len(os.Args) > 1 {
		source = os.Args[1]
	}

	p := tea.NewProgram(
		initialModel(config, source),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

func initialModel(config *Config, source string) model {
	input := textinput.New()
	input.Prompt = "> "

	m := model{
		mode:    ModeStartup,
		editor:  NewEditor(config.EditorOptions()...),
		loader:  NewLoader(config),
		config:  config,
		input:   input,
		source:  source,
		preview: &previewCache{renders: -1},
	}
	if source != "" {
		m.loading = true
	}
	return m
}

func (m model) Init() tea.Cmd {
	if m.source == "" {
		return nil
	}
	return loadImage(m.loader, m.source)
}

// loadImage decodes src off the event loop; the result comes back as a
// loadedMsg.
func loadImage(loader *Loader, src string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		b, err := loader.Load(ctx, src)
		return loadedMsg{source: src, bitmap: b, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		return m, nil

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			Logger().Error("load failed", "source", msg.source, "err", msg.err)
			m.errorMessage = UserMessage(msg.err)
			return m, nil
		}
		m.editor.Load(msg.bitmap)
		m.mode = ModeNormal
		m.pressed = false
		m.errorMessage = ""
		m.successMessage = fmt.Sprintf("Loaded %s", msg.bitmap.Source)
		Logger().Info("image loaded", "source", msg.bitmap.Source,
			"width", msg.bitmap.Width(), "height", msg.bitmap.Height(), "tainted", msg.bitmap.Tainted)
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.help {
			return m.handleHelpKey(msg)
		}
		switch m.mode {
		case ModeTextInput:
			return m.handleTextInputKey(msg)
		case ModeSourceInput:
			return m.handleSourceInputKey(msg)
		case ModeStartup:
			return m.handleStartupKey(msg)
		default:
			return m.handleNormalKey(msg)
		}
	}
	return m, nil
}

func (m model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "?":
		m.help = false
		m.helpScroll = 0
	case "j", "down":
		if m.helpScroll < len(helpLines)-1 {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	}
	return m, nil
}

func (m model) handleStartupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "o":
		return m.openSourceInput()
	case "p":
		text, err := readClipboardText()
		if err != nil || strings.TrimSpace(text) == "" {
			m.errorMessage = "Clipboard is empty"
			return m, nil
		}
		m.loading = true
		m.errorMessage = ""
		return m, loadImage(m.loader, strings.TrimSpace(text))
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m model) openSourceInput() (tea.Model, tea.Cmd) {
	m.mode = ModeSourceInput
	m.input.Placeholder = "image path or URL"
	m.input.CharLimit = 0
	m.input.SetValue("")
	return m, m.input.Focus()
}

func (m model) handleSourceInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	back := ModeStartup
	if m.editor.HasImage() {
		back = ModeNormal
	}
	switch msg.Type {
	case tea.KeyEscape:
		m.input.Blur()
		m.mode = back
		return m, nil
	case tea.KeyEnter:
		src := strings.TrimSpace(m.input.Value())
		m.input.Blur()
		m.mode = back
		if src == "" {
			return m, nil
		}
		m.loading = true
		m.errorMessage = ""
		m.successMessage = ""
		return m, loadImage(m.loader, src)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleTextInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		text := m.originalText
		m.editor.UpdateSelected(TextPatch{Text: &text})
		m.input.Blur()
		m.mode = ModeNormal
		return m, nil
	case tea.KeyEnter:
		m.input.Blur()
		m.mode = ModeNormal
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	text := m.input.Value()
	m.editor.UpdateSelected(TextPatch{Text: &text})
	return m, cmd
}

func (m model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errorMessage = ""
	m.successMessage = ""
	key := msg.String()
	tool := m.editor.Tool()

	switch key {
	case "q":
		return m, tea.Quit
	case "?":
		m.help = true
		return m, nil
	case "o":
		return m.openSourceInput()
	case "esc":
		switch tool {
		case ToolCrop:
			m.editor.CancelCrop()
		case ToolErase:
			m.editor.SetTool(ToolText)
		default:
			m.editor.Deselect()
		}
		return m, nil
	case "t":
		if _, err := m.editor.AddText(TextPatch{}); err != nil {
			m.errorMessage = UserMessage(err)
		}
		return m, nil
	case "enter":
		if tool == ToolCrop {
			if err := m.editor.ConfirmCrop(); err != nil {
				m.errorMessage = UserMessage(err)
			} else {
				m.successMessage = "Cropped"
			}
			return m, nil
		}
		l, ok := m.editor.Selected()
		if !ok {
			m.errorMessage = "Select a caption first"
			return m, nil
		}
		m.mode = ModeTextInput
		m.originalText = l.Text
		m.input.Placeholder = "caption"
		m.input.CharLimit = maxCaptionRunes
		m.input.SetValue(l.Text)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case "e":
		if tool == ToolErase {
			m.editor.SetTool(ToolText)
		} else {
			m.editor.SetTool(ToolErase)
		}
		return m, nil
	case "c":
		if tool == ToolCrop {
			m.editor.CancelCrop()
		} else {
			m.editor.SetTool(ToolCrop)
		}
		return m, nil
	case "+", "=", "-", "_":
		m.adjustSize(key == "+" || key == "=")
		return m, nil
	case "[", "]":
		if l, ok := m.editor.Selected(); ok {
			r := l.Rotation + rotateStep
			if key == "[" {
				r = l.Rotation - rotateStep
			}
			m.editor.UpdateSelected(TextPatch{Rotation: &r})
		}
		return m, nil
	case "u":
		if l, ok := m.editor.Selected(); ok {
			upper := !l.Uppercase
			m.editor.UpdateSelected(TextPatch{Uppercase: &upper})
		}
		return m, nil
	case "f", "F":
		m.cycleColor(key == "F")
		return m, nil
	case "w":
		if l, ok := m.editor.Selected(); ok {
			w := nextStep(strokeSteps, l.StrokeWidth)
			m.editor.UpdateSelected(TextPatch{StrokeWidth: &w})
		}
		return m, nil
	case "g":
		if l, ok := m.editor.Selected(); ok {
			family := m.editor.Fonts().Next(l.FontFamily)
			m.editor.UpdateSelected(TextPatch{FontFamily: &family})
		}
		return m, nil
	case "x", "delete":
		if l, ok := m.editor.Selected(); ok {
			m.editor.RemoveText(l.ID)
		}
		return m, nil
	case "p":
		return m.pasteCaption()
	case "s", "S":
		return m.exportPNG(key == "S")
	case "P":
		return m.exportPDF()
	case "h", "j", "k", "l", "H", "J", "K", "L",
		"left", "right", "up", "down",
		"shift+left", "shift+right", "shift+up", "shift+down":
		m.handleNavigation(key, m.getMoveSpeed(key))
		return m, nil
	}
	return m, nil
}

// adjustSize is +/- for whatever the active tool sizes: zoom, brush or font.
func (m *model) adjustSize(grow bool) {
	sign := 1.0
	if !grow {
		sign = -1
	}
	switch m.editor.Tool() {
	case ToolCrop:
		t := m.editor.Document().Crop.Transform()
		m.editor.SetCropScale(t.Scale + sign*zoomStep)
	case ToolErase:
		m.editor.SetBrushSize(m.editor.Document().Eraser.BrushSize() + sign*sizeStep)
	default:
		if l, ok := m.editor.Selected(); ok {
			size := l.FontSize + sign*sizeStep
			m.editor.UpdateSelected(TextPatch{FontSize: &size})
		}
	}
}

func (m *model) cycleColor(stroke bool) {
	l, ok := m.editor.Selected()
	if !ok {
		return
	}
	current := l.Fill
	if stroke {
		current = l.Stroke
	}
	next := fillPalette[0]
	for i, hex := range fillPalette {
		if strings.EqualFold(hex, hexColor(current)) {
			next = fillPalette[(i+1)%len(fillPalette)]
			break
		}
	}
	c, err := parseHexColor(next)
	if err != nil {
		Logger().Warn("bad palette colour", "hex", next, "err", err)
		return
	}
	if stroke {
		m.editor.UpdateSelected(TextPatch{Stroke: &c})
	} else {
		m.editor.UpdateSelected(TextPatch{Fill: &c})
	}
}

// nextStep returns the first step above v, wrapping to the first.
func nextStep(steps []float64, v float64) float64 {
	for _, s := range steps {
		if s > v {
			return s
		}
	}
	return steps[0]
}

func (m model) pasteCaption() (tea.Model, tea.Cmd) {
	raw, err := readClipboardText()
	if err != nil {
		m.errorMessage = fmt.Sprintf("Clipboard: %v", err)
		return m, nil
	}
	text := captionFromClipboard(raw)
	if text == "" {
		m.errorMessage = "Clipboard is empty"
		return m, nil
	}
	if !m.editor.UpdateSelected(TextPatch{Text: &text}) {
		if _, err := m.editor.AddText(TextPatch{Text: &text}); err != nil {
			m.errorMessage = UserMessage(err)
		}
	}
	return m, nil
}

func (m model) exportPNG(share bool) (tea.Model, tea.Cmd) {
	dir, err := m.config.SaveDir()
	if err != nil {
		m.errorMessage = fmt.Sprintf("Error: %v", err)
		return m, nil
	}
	path, err := m.editor.ExportFile(dir)
	if err != nil {
		Logger().Error("export failed", "err", err)
		m.errorMessage = UserMessage(err)
		return m, nil
	}
	m.successMessage = fmt.Sprintf("Saved %s", path)
	if !share {
		return m, nil
	}
	if err := Share(m.config.ShareCommand, path); err != nil {
		Logger().Warn("share failed, keeping saved file", "path", path, "err", err)
		m.successMessage = fmt.Sprintf("Saved %s (share unavailable)", path)
		return m, nil
	}
	m.successMessage = fmt.Sprintf("Shared %s", path)
	return m, nil
}

func (m model) exportPDF() (tea.Model, tea.Cmd) {
	path, err := m.config.GetSavePath(m.editor.ExportName(time.Now(), "pdf"))
	if err != nil {
		m.errorMessage = fmt.Sprintf("Error: %v", err)
		return m, nil
	}
	f, err := os.Create(path)
	if err != nil {
		m.errorMessage = fmt.Sprintf("Error: %v", err)
		return m, nil
	}
	err = m.editor.ExportPDF(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		Logger().Error("pdf export failed", "err", err)
		m.errorMessage = UserMessage(err)
		return m, nil
	}
	m.successMessage = fmt.Sprintf("Saved %s", path)
	return m, nil
}

// handleMouse feeds presses and drags inside the preview to the editor.
// Dragging out of the preview ends the gesture like a release.
func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != ModeNormal || m.help || !m.editor.HasImage() {
		return m, nil
	}
	view := m.refreshPreview().view
	pt := Point{X: float64(msg.X) + 0.5, Y: float64(msg.Y)*2 + 1}
	inside := view.Contains(pt)

	var err error
	switch {
	case tea.MouseEvent(msg).IsWheel():
		if m.editor.Tool() != ToolCrop {
			return m, nil
		}
		t := m.editor.Document().Crop.Transform()
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.editor.SetCropScale(t.Scale + zoomStep)
		case tea.MouseButtonWheelDown:
			m.editor.SetCropScale(t.Scale - zoomStep)
		}
	case msg.Action == tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return m, nil
		}
		m.pressed = true
		err = m.editor.HandlePointer(PointerEvent{Kind: PointerDown, X: pt.X, Y: pt.Y}, view)
	case msg.Action == tea.MouseActionMotion:
		// drags arrive as motion with the button still reported
		if !m.pressed {
			return m, nil
		}
		if !inside {
			m.pressed = false
			err = m.editor.HandlePointer(PointerEvent{Kind: PointerLeave, X: pt.X, Y: pt.Y}, view)
			break
		}
		err = m.editor.HandlePointer(PointerEvent{Kind: PointerMove, X: pt.X, Y: pt.Y}, view)
	case msg.Action == tea.MouseActionRelease:
		if !m.pressed {
			return m, nil
		}
		m.pressed = false
		err = m.editor.HandlePointer(PointerEvent{Kind: PointerUp, X: pt.X, Y: pt.Y}, view)
	}
	if err != nil {
		m.errorMessage = UserMessage(err)
	}
	return m, nil
}

func (m model) View() string {
	if m.help {
		return m.helpView()
	}
	if m.mode == ModeStartup || (m.mode == ModeSourceInput && !m.editor.HasImage()) {
		return m.startupView()
	}

	p := m.refreshPreview()
	var result strings.Builder
	result.WriteString(strings.Join(p.rows, "\n"))
	if m.mode == ModeTextInput || m.mode == ModeSourceInput {
		result.WriteString("\n")
		result.WriteString(m.input.View())
	}
	result.WriteString("\n")
	result.WriteString(m.statusLine())
	return result.String()
}
