package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pep299/lessonfeed/internal/apperror"
)

func TestNew(t *testing.T) {
	tests := []struct {
		provider string
		name     string
		wantErr  bool
	}{
		{"claude", "claude", false},
		{"gemini", "gemini", false},
		{"openai", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			gen, err := New(tt.provider, Options{APIKey: "test-key"})
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error for unknown provider")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if gen.Name() != tt.name {
				t.Errorf("Expected name '%s', got '%s'", tt.name, gen.Name())
			}
		})
	}
}

func TestClaudeDefaults(t *testing.T) {
	client := NewClaudeClient(Options{APIKey: "test-key"})

	if client.model != DefaultClaudeModel {
		t.Errorf("Expected model '%s', got '%s'", DefaultClaudeModel, client.model)
	}
	if client.baseURL != DefaultClaudeBaseURL {
		t.Errorf("Expected base URL '%s', got '%s'", DefaultClaudeBaseURL, client.baseURL)
	}
	if client.maxTokens != 3000 {
		t.Errorf("Expected max tokens 3000, got %d", client.maxTokens)
	}
	if client.httpClient.Timeout != 60*time.Second {
		t.Errorf("Expected default timeout 60s, got %v", client.httpClient.Timeout)
	}
}

func TestClaudeGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/messages" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key header, got '%s'", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != "2023-06-01" {
			t.Errorf("Expected anthropic-version header, got '%s'", r.Header.Get("anthropic-version"))
		}

		var req claudeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
			return
		}
		if req.MaxTokens != 3000 || len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("Unexpected request body: %+v", req)
		}
		if req.Messages[0].Content != "Write a lesson" {
			t.Errorf("Expected prompt to be forwarded, got '%s'", req.Messages[0].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"content":[{"type":"text","text":"{\"headline\":"},{"type":"tool_use","text":"ignored"},{"type":"text","text":"\"Hi\"}"}]}`)
	}))
	defer server.Close()

	client := NewClaudeClient(Options{APIKey: "test-key", BaseURL: server.URL})
	text, err := client.Generate(context.Background(), "Write a lesson")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text != `{"headline":"Hi"}` {
		t.Errorf("Expected joined text blocks, got '%s'", text)
	}
}

func TestClaudeGenerateErrors(t *testing.T) {
	tests := []struct {
		name            string
		statusCode      int
		body            string
		expectedMessage string
	}{
		{
			name:            "error payload",
			statusCode:      http.StatusUnauthorized,
			body:            `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`,
			expectedMessage: "invalid x-api-key",
		},
		{
			name:            "status without payload",
			statusCode:      http.StatusServiceUnavailable,
			body:            `upstream unavailable`,
			expectedMessage: "Claude API error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client := NewClaudeClient(Options{APIKey: "test-key", BaseURL: server.URL})
			_, err := client.Generate(context.Background(), "prompt")
			if apperror.KindOf(err) != apperror.KindUpstream {
				t.Fatalf("Expected upstream error, got %v", err)
			}
			if msg := apperror.PublicMessage(err); msg != tt.expectedMessage {
				t.Errorf("Expected message '%s', got '%s'", tt.expectedMessage, msg)
			}
		})
	}
}

func TestGeminiGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gemini-test:generateContent" {
			t.Errorf("Unexpected path '%s'", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("Expected x-goog-api-key header, got '%s'", r.Header.Get("x-goog-api-key"))
		}

		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
			return
		}
		if req.GenerationConfig == nil || req.GenerationConfig.ResponseMimeType != "application/json" {
			t.Errorf("Expected JSON output mode, got %+v", req.GenerationConfig)
		}
		if req.Contents[0].Parts[0].Text != "prompt" {
			t.Errorf("Expected prompt to be forwarded, got '%s'", req.Contents[0].Parts[0].Text)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"{\"headline\":\"Hi\"}"}]}}]}`)
	}))
	defer server.Close()

	client := NewGeminiClient(Options{APIKey: "test-key", Model: "gemini-test", BaseURL: server.URL})
	text, err := client.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text != `{"headline":"Hi"}` {
		t.Errorf("Unexpected text '%s'", text)
	}
}

func TestGeminiGenerateErrors(t *testing.T) {
	tests := []struct {
		name            string
		statusCode      int
		body            string
		expectedMessage string
	}{
		{
			name:            "error payload",
			statusCode:      http.StatusBadRequest,
			body:            `{"error":{"code":400,"message":"API key not valid.","status":"INVALID_ARGUMENT"}}`,
			expectedMessage: "API key not valid.",
		},
		{
			name:            "no candidates",
			statusCode:      http.StatusOK,
			body:            `{"candidates":[]}`,
			expectedMessage: "Gemini API error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client := NewGeminiClient(Options{APIKey: "test-key", BaseURL: server.URL})
			_, err := client.Generate(context.Background(), "prompt")
			if apperror.KindOf(err) != apperror.KindUpstream {
				t.Fatalf("Expected upstream error, got %v", err)
			}
			if msg := apperror.PublicMessage(err); msg != tt.expectedMessage {
				t.Errorf("Expected message '%s', got '%s'", tt.expectedMessage, msg)
			}
		})
	}
}
