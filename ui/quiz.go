package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scigenius/tutor/internal/gen"
	"github.com/scigenius/tutor/internal/quiz"
)

// quizState is the view-local state of one quiz run.
type quizState struct {
	session  *quiz.Session
	question *gen.Question
	loading  bool
	answered bool
	selected string
	correct  bool
	err      error
}

func (m Model) handleQuizKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s", "enter":
		return m.advanceQuiz()

	case "1", "2", "3", "4":
		q := m.quiz.question
		if q == nil || m.quiz.answered || m.quiz.loading {
			return m, nil
		}
		idx := int(msg.String()[0] - '1')
		if idx >= len(q.Options) {
			return m, nil
		}
		m.quiz.selected = q.Options[idx]
		m.quiz.correct = m.quiz.session.Answer(m.quiz.selected)
		m.quiz.answered = true
		return m, nil
	}
	return m, nil
}

// advanceQuiz starts a session, fetches the next question, or restarts
// after a finished run.
func (m Model) advanceQuiz() (tea.Model, tea.Cmd) {
	if m.quiz.loading {
		return m, nil
	}
	if m.quiz.session == nil || m.quiz.session.Finished() {
		m.quiz = quizState{
			session: quiz.NewSession(m.generator, m.currentTopic().Content, quiz.DefaultQuestionCount),
		}
	} else if !m.quiz.answered && m.quiz.question != nil {
		// Answer before moving on.
		return m, nil
	}

	m.quiz.loading = true
	m.quiz.question = nil
	m.quiz.answered = false
	m.quiz.err = nil
	return m, nextQuestionCmd(m.quiz.session)
}

func nextQuestionCmd(session *quiz.Session) tea.Cmd {
	return func() tea.Msg {
		q, err := session.NextQuestion(context.Background())
		return questionMsg{question: q, err: err}
	}
}

func (m Model) updateQuestion(msg questionMsg) (tea.Model, tea.Cmd) {
	m.quiz.loading = false
	if msg.err != nil {
		m.quiz.err = msg.err
		return m, nil
	}
	m.quiz.question = msg.question
	return m, nil
}

func (m Model) quizView() string {
	qs := m.quiz

	if qs.session == nil {
		return "Test your understanding of this topic with a " +
			fmt.Sprintf("%d-question quiz.\n\n", quiz.DefaultQuestionCount) +
			statusStyle.Render("Press s to start.")
	}
	if qs.loading {
		return m.spinner.View() + " Generating question..."
	}
	if qs.err != nil {
		return errorStyle.Render("Failed to generate question: " + qs.err.Error())
	}
	if qs.session.Finished() {
		return fmt.Sprintf("Quiz complete!\n\nScore: %d / %d\n\n",
			qs.session.Score(), qs.session.Total()) +
			statusStyle.Render("Press s to try again.")
	}
	if qs.question == nil {
		return statusStyle.Render("Press s to continue.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Question %d of %d\n\n", qs.session.Number(), qs.session.Total())
	b.WriteString(qs.question.Question)
	b.WriteString("\n\n")

	for i, opt := range qs.question.Options {
		marker := "  "
		line := fmt.Sprintf("%d) %s", i+1, opt)
		if qs.answered {
			switch opt {
			case qs.question.CorrectAnswer:
				line = correctStyle.Render(line)
			case qs.selected:
				line = wrongStyle.Render(line)
			}
		}
		b.WriteString(marker + line + "\n")
	}

	if qs.answered {
		b.WriteString("\n")
		if qs.correct {
			b.WriteString(correctStyle.Render("Correct!"))
		} else {
			b.WriteString(wrongStyle.Render("Not quite."))
		}
		b.WriteString("\n\n" + qs.question.Explanation)
		b.WriteString("\n\n" + statusStyle.Render("Press enter for the next question."))
	}

	return b.String()
}
