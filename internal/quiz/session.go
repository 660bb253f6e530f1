// Package quiz tracks one quiz session: question sequencing, scoring, and
// the re-test policy for wrongly answered questions. View logic over the
// generation client, deliberately simple.
package quiz

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/scigenius/tutor/internal/gen"
)

// DefaultQuestionCount is the number of questions per session.
const DefaultQuestionCount = 5

// Asker is the slice of the generation client a session needs.
type Asker interface {
	QuizQuestion(ctx context.Context, content, wrongQuestion string, history []string) (*gen.Question, error)
}

// Session is one quiz run over a single topic's content. A wrong answer
// makes the next question re-test the same concept with fresh phrasing;
// answered questions accumulate as history so later questions cover
// different learning outcomes.
type Session struct {
	ID uuid.UUID

	asker   Asker
	content string
	total   int

	number    int // questions served so far
	score     int
	history   []string
	current   *gen.Question
	answered  bool
	lastWrong string
}

// NewSession starts a session over the given topic content.
func NewSession(asker Asker, content string, total int) *Session {
	if total <= 0 {
		total = DefaultQuestionCount
	}
	return &Session{
		ID:      uuid.New(),
		asker:   asker,
		content: content,
		total:   total,
	}
}

// NextQuestion fetches the next question. It must not be called once the
// session is finished.
func (s *Session) NextQuestion(ctx context.Context) (*gen.Question, error) {
	if s.Finished() {
		return nil, fmt.Errorf("quiz: session finished")
	}

	q, err := s.asker.QuizQuestion(ctx, s.content, s.lastWrong, s.history)
	if err != nil {
		return nil, err
	}

	s.current = q
	s.answered = false
	s.lastWrong = ""
	s.number++
	return q, nil
}

// Answer records the student's option for the current question and reports
// whether it was correct. Repeat answers to the same question are ignored.
func (s *Session) Answer(option string) bool {
	if s.current == nil || s.answered {
		return false
	}
	s.answered = true
	s.history = append(s.history, s.current.Question)

	correct := option == s.current.CorrectAnswer
	if correct {
		s.score++
	} else {
		s.lastWrong = s.current.Question
	}
	return correct
}

// Current returns the question in play, if any.
func (s *Session) Current() *gen.Question { return s.current }

// Score returns the number of correct answers so far.
func (s *Session) Score() int { return s.score }

// Number returns the 1-based ordinal of the current question.
func (s *Session) Number() int { return s.number }

// Total returns the session length.
func (s *Session) Total() int { return s.total }

// Finished reports whether every question has been served and answered.
func (s *Session) Finished() bool {
	return s.number >= s.total && s.answered
}
