package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
)

const gainStep = 0.1

func (m Model) handleLessonKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n", "right":
		m.controller.Next()
	case "p", "left":
		m.controller.Previous()
	case "r":
		m.controller.Replay()
	case "+", "=":
		m.adjustGain(gainStep)
	case "-":
		m.adjustGain(-gainStep)
	}
	return m, nil
}

func (m Model) adjustGain(delta float64) {
	gain := m.controller.Snapshot().Gain + delta
	if gain < 0 {
		gain = 0
	}
	if gain > 1 {
		gain = 1
	}
	// Clamped, cannot fail.
	_ = m.controller.SetGain(gain)
}

func (m Model) lessonView() string {
	snap := m.controller.Snapshot()

	if snap.PlanLoading {
		return screenStyle.Width(m.contentWidth()).Render(fmt.Sprintf(
			"%s Creating Your Lesson\n\nGenerating custom teaching script and visuals...",
			m.spinner.View()))
	}

	var b strings.Builder

	// Illustration area. The terminal shows the handle reference, not the
	// pixels; the handle is what a graphical front end would render.
	switch {
	case snap.ImageLoading:
		b.WriteString(m.spinner.View() + " Generating visuals...")
	case snap.Image != "":
		b.WriteString(describeHandle(snap.Image))
	default:
		b.WriteString(statusStyle.Render("Image unavailable"))
	}
	b.WriteString("\n\n")

	// Subtitle.
	b.WriteString(subtitleStyle.Render(wordwrap.String(snap.Script, m.contentWidth()-6)))
	b.WriteString("\n\n")

	// Transport status line.
	status := fmt.Sprintf("Slide %d / %d", snap.Index+1, snap.Total)
	if snap.Speaking {
		status += "  " + speakingStyle.Render("● Speaking")
	}
	status += fmt.Sprintf("  Vol %.0f%%", snap.Gain*100)
	b.WriteString(statusStyle.Render(status))

	return screenStyle.Width(m.contentWidth()).Render(b.String())
}

func (m Model) contentWidth() int {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

// describeHandle renders an image handle compactly: data URIs are shown as
// their type and size, URLs verbatim.
func describeHandle(handle string) string {
	if strings.HasPrefix(handle, "data:") {
		mime := handle[len("data:"):]
		if i := strings.IndexByte(mime, ';'); i >= 0 {
			mime = mime[:i]
		}
		return fmt.Sprintf("[illustration: %s, %d bytes]", mime, len(handle))
	}
	return "[illustration: " + handle + "]"
}
