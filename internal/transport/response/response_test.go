package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pep299/lessonfeed/internal/apperror"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	if err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %s", w.Header().Get("Content-Type"))
	}

	var result map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if result["status"] != "ok" {
		t.Errorf("Expected status 'ok', got '%s'", result["status"])
	}
}

func TestWriteRaw(t *testing.T) {
	w := httptest.NewRecorder()
	payload := []byte(`[{"title":"Test"}]`)

	if err := WriteRaw(w, http.StatusOK, payload); err != nil {
		t.Fatalf("WriteRaw failed: %v", err)
	}

	if w.Body.String() != string(payload) {
		t.Errorf("Expected body %s, got %s", payload, w.Body.String())
	}

	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %s", w.Header().Get("Content-Type"))
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteError(w, http.StatusInternalServerError, "test error")
	if err != nil {
		t.Fatalf("WriteError failed: %v", err)
	}

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}

	var result ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if result.Error != "test error" {
		t.Errorf("Expected error 'test error', got '%s'", result.Error)
	}
}

func TestWriteAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		expected string
	}{
		{"validation", apperror.Validation("Invalid request body", nil), http.StatusBadRequest, "Invalid request body"},
		{"configuration", apperror.Configuration("NEWSDATA_API_KEY not configured"), http.StatusInternalServerError, "NEWSDATA_API_KEY not configured"},
		{"wrapped upstream", fmt.Errorf("fetching: %w", apperror.Upstream("quota exceeded", nil)), http.StatusInternalServerError, "quota exceeded"},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteAppError(w, tt.err)

			if w.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, w.Code)
			}

			var result ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if result.Error != tt.expected {
				t.Errorf("Expected error '%s', got '%s'", tt.expected, result.Error)
			}
		})
	}
}

func TestWriteMethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()

	if err := WriteMethodNotAllowed(w, "POST only"); err != nil {
		t.Fatalf("WriteMethodNotAllowed failed: %v", err)
	}

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}

	if w.Body.String() != "{\"error\":\"POST only\"}\n" {
		t.Errorf("Unexpected body %q", w.Body.String())
	}
}
