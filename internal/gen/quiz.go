package gen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Question is a single multiple-choice quiz question.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

var questionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"question": {Type: genai.TypeString},
		"options": {
			Type:     genai.TypeArray,
			Items:    &genai.Schema{Type: genai.TypeString},
			MinItems: genai.Ptr[int64](4),
			MaxItems: genai.Ptr[int64](4),
		},
		"correctAnswer": {Type: genai.TypeString},
		"explanation": {
			Type:        genai.TypeString,
			Description: "Detailed text explanation of why the correct answer is correct and why the others are incorrect.",
		},
	},
	Required: []string{"question", "options", "correctAnswer", "explanation"},
}

// QuizQuestion generates one MCQ for the topic content. When wrongQuestion
// is set, the new question re-tests the same concept with fresh phrasing;
// otherwise history steers generation toward untested learning outcomes.
func (c *Client) QuizQuestion(ctx context.Context, content, wrongQuestion string, history []string) (*Question, error) {
	var b strings.Builder
	fmt.Fprintf(&b, `Generate a single multiple-choice question (MCQ) based on the following science topic content.
The question should explicitly test the student's understanding of the "Learning Outcomes".
Return the result strictly as a JSON object.

Topic Content:
%s`, content)

	if wrongQuestion != "" {
		fmt.Fprintf(&b, `
The student previously got this question wrong: %q.
Generate a NEW question that tests the same underlying concept/learning outcome but with different phrasing, scenario, or values to help them practice and master the concept.`, wrongQuestion)
	} else if len(history) > 0 {
		asked, _ := json.Marshal(history)
		fmt.Fprintf(&b, `
The student has already answered questions related to: %s.
Generate a question that covers a DIFFERENT Learning Outcome or concept from the topic content to ensure the entire chapter is tested.
Do not repeat concepts if possible.`, asked)
	}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   questionSchema,
	}
	prompt := b.String()

	return retryCall(ctx, c, "quiz_question", planPolicy, func(ctx context.Context) (*Question, error) {
		resp, err := c.remote.generate(ctx, c.cfg.TextModel, genai.Text(prompt), cfg)
		if err != nil {
			return nil, err
		}

		raw := resp.Text()
		if raw == "" {
			return nil, &GenerationError{Kind: KindBadResponse, Op: "quiz_question",
				Err: fmt.Errorf("empty response text")}
		}

		var q Question
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			return nil, &GenerationError{Kind: KindBadResponse, Op: "quiz_question",
				Err: fmt.Errorf("parse question: %w", err)}
		}
		if q.Question == "" || len(q.Options) == 0 || q.CorrectAnswer == "" {
			return nil, &GenerationError{Kind: KindBadResponse, Op: "quiz_question",
				Err: fmt.Errorf("incomplete question shape")}
		}
		return &q, nil
	})
}
