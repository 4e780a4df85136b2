package main

func (m *model) handleNavigation(key string, speed int) {
	if m.editor.Tool() == ToolCrop {
		m.handlePan(key, speed)
		return
	}
	m.handleNudge(key, speed)
}

// handlePan moves the image inside the crop viewport, following the key
// direction like a drag would.
func (m *model) handlePan(key string, speed int) {
	step := float64(nudgeStep * speed)
	switch key {
	case "h", "left", "H", "shift+left":
		m.editor.PanCrop(-step, 0)
	case "l", "right", "L", "shift+right":
		m.editor.PanCrop(step, 0)
	case "k", "up", "K", "shift+up":
		m.editor.PanCrop(0, -step)
	case "j", "down", "J", "shift+down":
		m.editor.PanCrop(0, step)
	}
}

func (m *model) handleNudge(key string, speed int) {
	l, ok := m.editor.Selected()
	if !ok {
		return
	}
	step := float64(nudgeStep * speed)
	x, y := l.X, l.Y
	switch key {
	case "h", "left", "H", "shift+left":
		x -= step
	case "l", "right", "L", "shift+right":
		x += step
	case "k", "up", "K", "shift+up":
		y -= step
	case "j", "down", "J", "shift+down":
		y += step
	}
	m.editor.UpdateSelected(TextPatch{X: &x, Y: &y})
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 4
	default:
		return 1
	}
}
