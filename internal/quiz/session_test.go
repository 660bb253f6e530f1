package quiz

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/scigenius/tutor/internal/gen"
)

// fakeAsker serves numbered questions and records the steering arguments
// of every call.
type fakeAsker struct {
	n       int
	err     error
	wrongs  []string
	history [][]string
}

func (f *fakeAsker) QuizQuestion(_ context.Context, _, wrongQuestion string, history []string) (*gen.Question, error) {
	f.wrongs = append(f.wrongs, wrongQuestion)
	f.history = append(f.history, append([]string(nil), history...))
	if f.err != nil {
		return nil, f.err
	}
	f.n++
	return &gen.Question{
		Question:      fmt.Sprintf("Q%d", f.n),
		Options:       []string{"A", "B", "C", "D"},
		CorrectAnswer: "B",
		Explanation:   "Because B.",
	}, nil
}

func TestSessionFullRun(t *testing.T) {
	asker := &fakeAsker{}
	s := NewSession(asker, "forces", 3)

	if s.Finished() {
		t.Fatal("new session must not be finished")
	}

	for i := 1; i <= 3; i++ {
		q, err := s.NextQuestion(context.Background())
		if err != nil {
			t.Fatalf("NextQuestion %d failed: %v", i, err)
		}
		if s.Number() != i {
			t.Errorf("number = %d, want %d", s.Number(), i)
		}
		if s.Current() != q {
			t.Error("Current should return the question in play")
		}
		if !s.Answer("B") {
			t.Errorf("answer %d should be correct", i)
		}
	}

	if !s.Finished() {
		t.Error("session should be finished after the last answer")
	}
	if s.Score() != 3 {
		t.Errorf("score = %d, want 3", s.Score())
	}
	if _, err := s.NextQuestion(context.Background()); err == nil {
		t.Error("expected error fetching past the end of the session")
	}
}

func TestWrongAnswerRetestsConcept(t *testing.T) {
	asker := &fakeAsker{}
	s := NewSession(asker, "forces", 3)

	if _, err := s.NextQuestion(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.Answer("A") {
		t.Fatal("answer A should be wrong")
	}

	if _, err := s.NextQuestion(context.Background()); err != nil {
		t.Fatal(err)
	}

	// The second fetch carries the wrongly answered question for a re-test.
	if asker.wrongs[1] != "Q1" {
		t.Errorf("wrongQuestion = %q, want Q1", asker.wrongs[1])
	}

	// A correct answer clears the re-test flag for the next fetch.
	s.Answer("B")
	if _, err := s.NextQuestion(context.Background()); err != nil {
		t.Fatal(err)
	}
	if asker.wrongs[2] != "" {
		t.Errorf("wrongQuestion = %q, want empty after a correct answer", asker.wrongs[2])
	}
}

func TestHistoryAccumulates(t *testing.T) {
	asker := &fakeAsker{}
	s := NewSession(asker, "forces", 3)

	for i := 0; i < 3; i++ {
		if _, err := s.NextQuestion(context.Background()); err != nil {
			t.Fatal(err)
		}
		s.Answer("B")
	}

	if len(asker.history[0]) != 0 {
		t.Error("first fetch should carry no history")
	}
	want := []string{"Q1", "Q2"}
	got := asker.history[2]
	if len(got) != len(want) {
		t.Fatalf("history = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("history[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRepeatAnswersIgnored(t *testing.T) {
	asker := &fakeAsker{}
	s := NewSession(asker, "forces", 2)

	if _, err := s.NextQuestion(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !s.Answer("B") {
		t.Fatal("first answer should be correct")
	}
	if s.Answer("B") {
		t.Error("repeat answer must be ignored")
	}
	if s.Score() != 1 {
		t.Errorf("score = %d, want 1", s.Score())
	}
}

func TestAnswerWithoutQuestion(t *testing.T) {
	s := NewSession(&fakeAsker{}, "forces", 2)
	if s.Answer("B") {
		t.Error("answering before any question must be ignored")
	}
}

func TestNextQuestionPropagatesError(t *testing.T) {
	asker := &fakeAsker{err: errors.New("quota exhausted")}
	s := NewSession(asker, "forces", 2)

	if _, err := s.NextQuestion(context.Background()); err == nil {
		t.Error("expected error")
	}
	if s.Number() != 0 {
		t.Errorf("failed fetch must not advance the session, number = %d", s.Number())
	}
}

func TestDefaultQuestionCount(t *testing.T) {
	s := NewSession(&fakeAsker{}, "forces", 0)
	if s.Total() != DefaultQuestionCount {
		t.Errorf("total = %d, want %d", s.Total(), DefaultQuestionCount)
	}
}
