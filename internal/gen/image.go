package gen

import (
	"context"
	"encoding/base64"
	"fmt"
	"hash/fnv"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"
)

const imagePromptTemplate = `Create a clear, high-quality, educational, textbook-style diagram or illustration for a science lesson: %s. The image should be explanatory, showing labels, processes, or structures clearly. White background, clear lines, high contrast, photorealistic or clean vector style.`

// Image generates an illustration for the given visual description and
// returns it as a displayable data URI. There is no local fallback here;
// callers own the placeholder policy for exhausted retries.
func (c *Client) Image(ctx context.Context, visualDescription string) (string, error) {
	prompt := fmt.Sprintf(imagePromptTemplate, visualDescription)

	return retryCall(ctx, c, "image", assetPolicy, func(ctx context.Context) (string, error) {
		resp, err := c.remote.generate(ctx, c.cfg.ImageModel, genai.Text(prompt), nil)
		if err != nil {
			return "", err
		}

		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if part.InlineData == nil || len(part.InlineData.Data) == 0 {
					continue
				}
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = "image/png"
				}
				log.Debug("Image generated",
					"bytes", len(part.InlineData.Data), "mimeType", mime)
				return "data:" + mime + ";base64," +
					base64.StdEncoding.EncodeToString(part.InlineData.Data), nil
			}
		}

		return "", fmt.Errorf("no image data in response")
	})
}

// PlaceholderImage returns a deterministic placeholder URL keyed by a hash
// of the prompt text, used when image generation exhausts its retries.
func PlaceholderImage(visualDescription string) string {
	h := fnv.New32a()
	h.Write([]byte(visualDescription))
	return fmt.Sprintf("https://picsum.photos/seed/%d/1280/720", h.Sum32())
}
