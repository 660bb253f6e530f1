package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/scigenius/tutor/internal/gen"
)

// tickMsg drives the render loop; the lesson view polls the controller
// snapshot on every tick.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// summaryMsg carries generated study notes for one topic.
type summaryMsg struct {
	topicID  string
	markdown string
	err      error
}

// questionMsg carries the next quiz question.
type questionMsg struct {
	question *gen.Question
	err      error
}
