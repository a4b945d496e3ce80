package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Generator produces free text for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Options configures a provider client
type Options struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
}

// New creates the Generator for provider
func New(provider string, opts Options) (Generator, error) {
	switch provider {
	case "claude":
		return NewClaudeClient(opts), nil
	case "gemini":
		return NewGeminiClient(opts), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q (valid: claude, gemini)", provider)
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
