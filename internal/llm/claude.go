package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pep299/lessonfeed/internal/apperror"
)

const (
	DefaultClaudeBaseURL = "https://api.anthropic.com/v1"
	DefaultClaudeModel   = "claude-haiku-4-5-20251001"
	anthropicVersion     = "2023-06-01"
)

// ClaudeClient calls the Anthropic Messages API
type ClaudeClient struct {
	apiKey     string
	model      string
	baseURL    string
	maxTokens  int
	httpClient *http.Client
}

// NewClaudeClient creates a new Anthropic client
func NewClaudeClient(opts Options) *ClaudeClient {
	client := &ClaudeClient{
		apiKey:     opts.APIKey,
		model:      opts.Model,
		baseURL:    opts.BaseURL,
		maxTokens:  opts.MaxTokens,
		httpClient: newHTTPClient(opts.Timeout),
	}
	if client.model == "" {
		client.model = DefaultClaudeModel
	}
	if client.baseURL == "" {
		client.baseURL = DefaultClaudeBaseURL
	}
	if client.maxTokens <= 0 {
		client.maxTokens = 3000
	}
	return client
}

func (c *ClaudeClient) Name() string {
	return "claude"
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []claudeContentBlock `json:"content"`
	Error   *claudeError         `json:"error"`
}

type claudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Generate sends prompt as a single user message and returns the joined text blocks
func (c *ClaudeClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(claudeRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []claudeMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", apperror.Upstream("Claude API request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", apperror.Upstream("Claude API request failed", fmt.Errorf("reading response body: %w", err))
	}

	var claudeResp claudeResponse
	decodeErr := json.Unmarshal(respBody, &claudeResp)
	if decodeErr == nil && claudeResp.Error != nil {
		return "", apperror.Upstream(claudeResp.Error.Message, fmt.Errorf("status %d, type %q", resp.StatusCode, claudeResp.Error.Type))
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperror.Upstream("Claude API error", fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(respBody), 1024)))
	}
	if decodeErr != nil {
		return "", apperror.Upstream("Claude API error", fmt.Errorf("decoding response: %w", decodeErr))
	}

	var sb strings.Builder
	for _, block := range claudeResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return sb.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
