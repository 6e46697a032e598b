package sentiment

import (
	"errors"
	"os"
	"strings"
)

// ErrMissingAPIKey means no summarizer credential was configured.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY environment variable is required")

// DefaultModel is the chat model used when SENTIMENT_MODEL is unset.
const DefaultModel = "gpt-4o-mini"

// Config holds summarizer configuration.
type Config struct {
	// BaseURL points at an OpenAI-compatible endpoint; empty means the
	// provider default.
	BaseURL string
	APIKey  string
	Model   string
}

// LoadFromEnv loads summarizer configuration from environment variables.
//
// Environment variables:
//   - OPENAI_API_KEY: API key (required)
//   - OPENAI_BASE_URL: override for OpenAI-compatible endpoints (optional)
//   - SENTIMENT_MODEL: chat model name (default: gpt-4o-mini)
func LoadFromEnv() Config {
	model := strings.TrimSpace(os.Getenv("SENTIMENT_MODEL"))
	if model == "" {
		model = DefaultModel
	}
	return Config{
		BaseURL: strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		Model:   model,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
