package gen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"
)

// Slide is one unit of lesson content: spoken narration plus a prompt for
// the illustration that accompanies it.
type Slide struct {
	Script            string `json:"script"`
	VisualDescription string `json:"visualDescription"`
}

const slidePlanPrompt = `You are a world-class science educator creating a premium video lesson script.
Create a comprehensive, in-depth teaching script based on the content below.

CRITICAL REQUIREMENTS:
1. **Length & Depth**: The lesson must be substantial. Break it down into **12-15 detailed slides**.
2. **Content**: Do not just summarize. **Teach** the material. Explain *why* and *how*. Provide real-world examples. Break down complex ideas step-by-step. Cover EVERY "Learning Outcome" listed in the text thoroughly.
3. **Pacing**: Ensure the flow is logical and builds understanding gradually.

For each slide, provide:
1. 'script': The spoken narration. It should be conversational, engaging, and highly explanatory. It should feel like a real teacher talking to a student, not just reading a textbook. Use simple language to explain hard concepts.
2. 'visualDescription': A highly specific description for an AI image generator to create a clear, educational diagram. It must illustrate the *exact* concept being discussed in the script. Specify labels, cross-sections, or flowcharts where necessary.

Topic Content:
%s`

// slidePlanSchema constrains the response to an ordered list of slides.
// Slide count (12-15) is enforced by the prompt on the remote side.
var slidePlanSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"script":            {Type: genai.TypeString},
			"visualDescription": {Type: genai.TypeString},
		},
		Required: []string{"script", "visualDescription"},
	},
}

// SlidePlan generates the ordered slide sequence for one topic's lesson.
// The whole plan is produced in a single call and is immutable afterwards.
func (c *Client) SlidePlan(ctx context.Context, content string) ([]Slide, error) {
	prompt := fmt.Sprintf(slidePlanPrompt, content)

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   slidePlanSchema,
	}

	return retryCall(ctx, c, "slide_plan", planPolicy, func(ctx context.Context) ([]Slide, error) {
		resp, err := c.remote.generate(ctx, c.cfg.TextModel, genai.Text(prompt), cfg)
		if err != nil {
			return nil, err
		}

		raw := resp.Text()
		if raw == "" {
			return nil, &GenerationError{Kind: KindBadResponse, Op: "slide_plan",
				Err: fmt.Errorf("empty response text")}
		}

		var slides []Slide
		if err := json.Unmarshal([]byte(raw), &slides); err != nil {
			return nil, &GenerationError{Kind: KindBadResponse, Op: "slide_plan",
				Err: fmt.Errorf("parse slide plan: %w", err)}
		}
		if err := validateSlides(slides); err != nil {
			return nil, &GenerationError{Kind: KindBadResponse, Op: "slide_plan", Err: err}
		}

		log.Debug("Slide plan generated", "slides", len(slides))
		return slides, nil
	})
}

// validateSlides checks structural shape only: every slide must carry a
// narration script and an image prompt.
func validateSlides(slides []Slide) error {
	if len(slides) == 0 {
		return fmt.Errorf("slide plan is empty")
	}
	for i, s := range slides {
		if s.Script == "" {
			return fmt.Errorf("slide %d has empty script", i)
		}
		if s.VisualDescription == "" {
			return fmt.Errorf("slide %d has empty visual description", i)
		}
	}
	return nil
}
