package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/scigenius/tutor/internal/topic"
)

// ensureNotes kicks off summary generation for the current topic unless
// notes are already cached for this session.
func (m Model) ensureNotes() (tea.Model, tea.Cmd) {
	t := m.currentTopic()
	if _, ok := m.notes[t.ID]; ok || m.notesLoading {
		return m, nil
	}
	m.notesLoading = true
	return m, loadSummaryCmd(m.generator, t, m.contentWidth())
}

func loadSummaryCmd(generator contentGenerator, t topic.Topic, width int) tea.Cmd {
	return func() tea.Msg {
		md, err := generator.Summary(context.Background(), t.Content)
		if err != nil {
			return summaryMsg{topicID: t.ID, err: err}
		}

		rendered, err := renderMarkdown(md, width)
		if err != nil {
			// Fall back to the raw markdown rather than losing the notes.
			rendered = md
		}
		return summaryMsg{topicID: t.ID, markdown: rendered}
	}
}

func renderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func (m Model) notesView() string {
	t := m.currentTopic()

	if m.notesErr != nil {
		return errorStyle.Render("Failed to generate notes: " + m.notesErr.Error())
	}
	if rendered, ok := m.notes[t.ID]; ok {
		return rendered
	}
	return m.spinner.View() + " Generating study notes..."
}
