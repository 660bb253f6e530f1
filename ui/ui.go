// Package ui is the terminal presentation layer: it renders the lesson
// player, study notes, and quiz views, and forwards user input to the
// lesson controller. All pipeline state lives in the controller; the UI
// polls snapshots and renders.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/scigenius/tutor/internal/gen"
	"github.com/scigenius/tutor/internal/lesson"
	"github.com/scigenius/tutor/internal/topic"
)

// contentGenerator is the slice of the generation client the view layer
// calls directly; notes and quiz are plain request/response view logic.
type contentGenerator interface {
	Summary(ctx context.Context, content string) (string, error)
	QuizQuestion(ctx context.Context, content, wrongQuestion string, history []string) (*gen.Question, error)
}

type mode int

const (
	modeLesson mode = iota
	modeNotes
	modeQuiz
)

func (m mode) title() string {
	switch m {
	case modeLesson:
		return "Teaching Video"
	case modeNotes:
		return "Smart Notes"
	case modeQuiz:
		return "Quiz Challenge"
	default:
		return "?"
	}
}

// Model is the root bubbletea model.
type Model struct {
	catalog    *topic.Catalog
	controller *lesson.Controller
	generator  contentGenerator

	mode     mode
	topicIdx int
	spinner  spinner.Model
	width    int
	height   int

	// Per-topic rendered study notes, session-scoped.
	notes        map[string]string
	notesLoading bool
	notesErr     error

	quiz quizState
}

// NewModel creates the root model and kicks off the first topic's lesson.
func NewModel(catalog *topic.Catalog, controller *lesson.Controller, generator contentGenerator) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	controller.SetTopic(catalog.Topics[0])

	return Model{
		catalog:    catalog,
		controller: controller,
		generator:  generator,
		spinner:    sp,
		width:      80,
		height:     24,
		notes:      make(map[string]string),
	}
}

// Run starts the program in the alternate screen and blocks until it
// exits.
func Run(m Model) error {
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case summaryMsg:
		m.notesLoading = false
		if msg.err != nil {
			m.notesErr = msg.err
			return m, nil
		}
		m.notesErr = nil
		m.notes[msg.topicID] = msg.markdown
		return m, nil

	case questionMsg:
		return m.updateQuestion(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "tab":
		m.mode = (m.mode + 1) % 3
		if m.mode == modeNotes {
			return m.ensureNotes()
		}
		return m, nil

	case "t":
		return m.nextTopic()
	}

	switch m.mode {
	case modeLesson:
		return m.handleLessonKey(msg)
	case modeQuiz:
		return m.handleQuizKey(msg)
	}
	return m, nil
}

func (m Model) nextTopic() (tea.Model, tea.Cmd) {
	m.topicIdx = (m.topicIdx + 1) % len(m.catalog.Topics)
	m.controller.SetTopic(m.catalog.Topics[m.topicIdx])
	m.quiz = quizState{}
	m.notesErr = nil
	if m.mode == modeNotes {
		return m.ensureNotes()
	}
	return m, nil
}

func (m Model) currentTopic() topic.Topic {
	return m.catalog.Topics[m.topicIdx]
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	t := m.currentTopic()
	b.WriteString(headerStyle.Render(fmt.Sprintf("SciGenius — Topic %s: %s", t.ID, t.Title)))
	b.WriteString("\n")

	var tabs []string
	for md := modeLesson; md <= modeQuiz; md++ {
		if md == m.mode {
			tabs = append(tabs, activeTabStyle.Render(md.title()))
		} else {
			tabs = append(tabs, tabStyle.Render(md.title()))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	switch m.mode {
	case modeLesson:
		b.WriteString(m.lessonView())
	case modeNotes:
		b.WriteString(m.notesView())
	case modeQuiz:
		b.WriteString(m.quizView())
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) helpLine() string {
	common := "tab: switch view • t: next topic • q: quit"
	switch m.mode {
	case modeLesson:
		return "n/→: next • p/←: previous • r: replay • +/-: volume • " + common
	case modeQuiz:
		return "s: start/continue • 1-4: answer • " + common
	default:
		return common
	}
}
