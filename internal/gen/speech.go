package gen

import (
	"context"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"
)

// Speech synthesizes narration audio for the given script. The payload is
// raw PCM: 16-bit signed little-endian, mono, 24 kHz. A (nil, nil) return
// means the service produced no audio for this script; that is not an
// error and callers should leave the slide silent.
func (c *Client) Speech(ctx context.Context, script string) ([]byte, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: c.cfg.Voice,
				},
			},
		},
	}

	return retryCall(ctx, c, "speech", assetPolicy, func(ctx context.Context) ([]byte, error) {
		resp, err := c.remote.generate(ctx, c.cfg.SpeechModel, genai.Text(script), cfg)
		if err != nil {
			return nil, err
		}

		var audio []byte
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if part.InlineData != nil && len(part.InlineData.Data) > 0 {
					audio = append(audio, part.InlineData.Data...)
				}
			}
		}

		if len(audio) == 0 {
			log.Debug("Speech request produced no audio payload",
				"scriptLength", len(script))
			return nil, nil
		}

		log.Debug("Speech generated", "bytes", len(audio), "voice", c.cfg.Voice)
		return audio, nil
	})
}
