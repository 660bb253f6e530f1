package ui

import (
	"context"
	"strings"
	"testing"

	"github.com/scigenius/tutor/internal/gen"
	"github.com/scigenius/tutor/internal/quiz"
)

func TestDescribeHandle(t *testing.T) {
	tests := []struct {
		name   string
		handle string
		want   string
	}{
		{
			name:   "data uri",
			handle: "data:image/png;base64,AAAA",
			want:   "[illustration: image/png, 26 bytes]",
		},
		{
			name:   "placeholder url",
			handle: "https://picsum.photos/seed/42/1280/720",
			want:   "[illustration: https://picsum.photos/seed/42/1280/720]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeHandle(tt.handle); got != tt.want {
				t.Errorf("describeHandle(%q) = %q, want %q", tt.handle, got, tt.want)
			}
		})
	}
}

func TestModeTitles(t *testing.T) {
	for md, want := range map[mode]string{
		modeLesson: "Teaching Video",
		modeNotes:  "Smart Notes",
		modeQuiz:   "Quiz Challenge",
	} {
		if got := md.title(); got != want {
			t.Errorf("title(%d) = %q, want %q", md, got, want)
		}
	}
}

type staticAsker struct{ q *gen.Question }

func (s staticAsker) QuizQuestion(_ context.Context, _, _ string, _ []string) (*gen.Question, error) {
	return s.q, nil
}

func TestQuizViewMarksAnswers(t *testing.T) {
	q := &gen.Question{
		Question:      "What opposes motion?",
		Options:       []string{"Gravity", "Friction", "Magnetism", "Tension"},
		CorrectAnswer: "Friction",
		Explanation:   "Friction acts between surfaces.",
	}

	session := quiz.NewSession(staticAsker{q: q}, "forces", 2)
	if _, err := session.NextQuestion(context.Background()); err != nil {
		t.Fatal(err)
	}
	session.Answer("Gravity")

	m := Model{
		quiz: quizState{
			session:  session,
			question: q,
			answered: true,
			selected: "Gravity",
		},
	}

	view := m.quizView()
	if !strings.Contains(view, "What opposes motion?") {
		t.Error("view should show the question")
	}
	if !strings.Contains(view, "Not quite.") {
		t.Error("view should mark the answer as wrong")
	}
	if !strings.Contains(view, q.Explanation) {
		t.Error("view should show the explanation after answering")
	}
}

func TestQuizViewFinished(t *testing.T) {
	q := &gen.Question{
		Question:      "Q",
		Options:       []string{"A", "B", "C", "D"},
		CorrectAnswer: "A",
	}
	session := quiz.NewSession(staticAsker{q: q}, "forces", 1)
	if _, err := session.NextQuestion(context.Background()); err != nil {
		t.Fatal(err)
	}
	session.Answer("A")

	m := Model{quiz: quizState{session: session}}
	view := m.quizView()
	if !strings.Contains(view, "Score: 1 / 1") {
		t.Errorf("finished view should show the score, got %q", view)
	}
}
