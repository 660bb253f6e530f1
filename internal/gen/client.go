package gen

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"
)

// Config holds the generation service settings. Values come from the
// config file with environment overrides applied in main.
type Config struct {
	APIKey      string `yaml:"api_key" mapstructure:"api_key" env:"GEMINI_API_KEY"`
	TextModel   string `yaml:"text_model" mapstructure:"text_model" env:"TUTOR_TEXT_MODEL"`
	ImageModel  string `yaml:"image_model" mapstructure:"image_model" env:"TUTOR_IMAGE_MODEL"`
	SpeechModel string `yaml:"speech_model" mapstructure:"speech_model" env:"TUTOR_SPEECH_MODEL"`
	Voice       string `yaml:"voice" mapstructure:"voice" env:"TUTOR_VOICE"`
}

// DefaultConfig returns the default generation configuration.
func DefaultConfig() Config {
	return Config{
		TextModel:   "gemini-2.5-flash",
		ImageModel:  "gemini-2.5-flash-image",
		SpeechModel: "gemini-2.5-flash-preview-tts",
		Voice:       "Aoede",
	}
}

// invoker abstracts the single remote call the client makes so tests can
// substitute a fake service.
type invoker interface {
	generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type genaiInvoker struct {
	client *genai.Client
}

func (g *genaiInvoker) generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return g.client.Models.GenerateContent(ctx, model, contents, cfg)
}

// Client issues slide-plan, image, speech, summary, and quiz-question
// requests against the Gemini API with bounded retry-with-backoff.
type Client struct {
	cfg    Config
	remote invoker
	sleep  sleepFunc
}

// NewClient creates a generation client backed by the Gemini API.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gen: missing API key (set GEMINI_API_KEY)")
	}

	ai, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gen: create client: %w", err)
	}

	log.Info("Generation client initialized",
		"textModel", cfg.TextModel,
		"imageModel", cfg.ImageModel,
		"speechModel", cfg.SpeechModel,
		"voice", cfg.Voice)

	return &Client{
		cfg:    cfg,
		remote: &genaiInvoker{client: ai},
		sleep:  defaultSleep,
	}, nil
}
