package gen

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const summaryPrompt = `You are an expert science teacher.
Create comprehensive study notes for the following topic content.
The notes MUST cover ALL the "Learning Outcomes" listed in the content.

Structure it clearly with:
1. **Key Learning Outcomes**: A checklist of what the student needs to know.
2. **Detailed Concepts**: Explain the core theories and facts simply but thoroughly.
3. **Important Definitions**: Key terms and their scientific definitions.
4. **Common Pitfalls/Misconceptions**: What students usually get wrong.
5. **Summary Table**: A quick reference table if applicable.

Topic Content:
%s`

// Summary generates markdown study notes covering all learning outcomes of
// the given topic content.
func (c *Client) Summary(ctx context.Context, content string) (string, error) {
	prompt := fmt.Sprintf(summaryPrompt, content)

	return retryCall(ctx, c, "summary", planPolicy, func(ctx context.Context) (string, error) {
		resp, err := c.remote.generate(ctx, c.cfg.TextModel, genai.Text(prompt), nil)
		if err != nil {
			return "", err
		}
		text := resp.Text()
		if text == "" {
			return "", &GenerationError{Kind: KindBadResponse, Op: "summary",
				Err: fmt.Errorf("empty response text")}
		}
		return text, nil
	})
}
