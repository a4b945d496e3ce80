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
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultGeminiModel   = "gemini-2.5-flash"
)

// GeminiClient handles Gemini API operations
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	maxTokens  int
	httpClient *http.Client
}

// NewGeminiClient creates a new Gemini API client
func NewGeminiClient(opts Options) *GeminiClient {
	client := &GeminiClient{
		apiKey:     opts.APIKey,
		model:      opts.Model,
		baseURL:    opts.BaseURL,
		maxTokens:  opts.MaxTokens,
		httpClient: newHTTPClient(opts.Timeout),
	}
	if client.model == "" {
		client.model = DefaultGeminiModel
	}
	if client.baseURL == "" {
		client.baseURL = DefaultGeminiBaseURL
	}
	if client.maxTokens <= 0 {
		client.maxTokens = 8000
	}
	return client
}

func (c *GeminiClient) Name() string {
	return "gemini"
}

// geminiRequest represents the request structure for Gemini API
type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"topP"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

// geminiResponse represents the response structure from Gemini API
type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *geminiError      `json:"error"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Generate calls generateContent in JSON output mode
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	geminiReq := geminiRequest{
		Contents: []geminiContent{
			{
				Parts: []geminiPart{
					{Text: prompt},
				},
			},
		},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:      0.3,
			TopP:             0.8,
			MaxOutputTokens:  c.maxTokens,
			ResponseMimeType: "application/json",
		},
	}

	body, err := json.Marshal(geminiReq)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", apperror.Upstream("Gemini API request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", apperror.Upstream("Gemini API request failed", fmt.Errorf("reading response body: %w", err))
	}

	var geminiResp geminiResponse
	decodeErr := json.Unmarshal(respBody, &geminiResp)
	if decodeErr == nil && geminiResp.Error != nil {
		return "", apperror.Upstream(geminiResp.Error.Message, fmt.Errorf("status %d, %s", resp.StatusCode, geminiResp.Error.Status))
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperror.Upstream("Gemini API error", fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(respBody), 1024)))
	}
	if decodeErr != nil {
		return "", apperror.Upstream("Gemini API error", fmt.Errorf("decoding response: %w", decodeErr))
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", apperror.Upstream("Gemini API error", fmt.Errorf("no content in response"))
	}

	var sb strings.Builder
	for _, part := range geminiResp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
