package application

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pep299/lessonfeed/internal/apperror"
	"github.com/pep299/lessonfeed/internal/config"
	"github.com/pep299/lessonfeed/internal/llm"
	"github.com/pep299/lessonfeed/internal/mocks"
	"github.com/pep299/lessonfeed/internal/newsdata"
	"github.com/pep299/lessonfeed/internal/service"
)

func testConfig() *config.Config {
	return &config.Config{
		LessonProvider: config.ProviderClaude,
		NewsCacheTTL:   time.Hour,
		LessonCacheTTL: 24 * time.Hour,
		CacheCapacity:  16,
		HTTPTimeout:    time.Second,
		LogLevel:       "error",
	}
}

func nopLogger(r *http.Request, fields ...zap.Field) *zap.Logger {
	return zap.NewNop()
}

func newTestApp(t *testing.T, provider service.NewsProvider, generator llm.Generator) *Application {
	t.Helper()
	clock := mocks.NewClock(time.Date(2025, 6, 14, 3, 0, 0, 0, time.UTC))
	app := assemble(testConfig(), provider, generator, clock, nopLogger)
	t.Cleanup(func() { app.Close() })
	return app
}

func TestPreflightAlwaysSucceeds(t *testing.T) {
	app := newTestApp(t, nil, nil)

	tests := []struct {
		name    string
		handler http.Handler
		methods string
	}{
		{"news", app.NewsHandler, "GET, POST, OPTIONS"},
		{"lesson", app.LessonHandler, "POST, OPTIONS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/", nil))

			if w.Code != http.StatusNoContent {
				t.Errorf("Expected status 204 without credentials, got %d", w.Code)
			}
			if w.Header().Get("Access-Control-Allow-Methods") != tt.methods {
				t.Errorf("Expected methods '%s', got '%s'", tt.methods, w.Header().Get("Access-Control-Allow-Methods"))
			}
			if w.Header().Get("X-Request-Id") == "" {
				t.Error("Expected X-Request-Id header")
			}
		})
	}
}

func TestLessonHandlerChain(t *testing.T) {
	gen := &mocks.MockGenerator{Reply: `{"headline":"H","body":"B","translation":"T","vocabulary":[],"grammar":[],"quiz":[]}`}
	app := newTestApp(t, nil, gen)

	w := httptest.NewRecorder()
	app.LessonHandler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"article":{"title":"T"}}`)))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header on success")
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected JSON content type, got '%s'", w.Header().Get("Content-Type"))
	}
}

func TestMissingCredentials(t *testing.T) {
	app := newTestApp(t, nil, nil)

	w := httptest.NewRecorder()
	app.NewsHandler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?category=sports", nil))
	if w.Code != http.StatusInternalServerError || !strings.Contains(w.Body.String(), "NEWSDATA_API_KEY not configured") {
		t.Errorf("Unexpected news response %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	app.LessonHandler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))
	if w.Code != http.StatusInternalServerError || !strings.Contains(w.Body.String(), "ANTHROPIC_API_KEY not configured") {
		t.Errorf("Unexpected lesson response %d %s", w.Code, w.Body.String())
	}
}

func TestWarmNews(t *testing.T) {
	provider := &mocks.MockNewsProvider{Results: []newsdata.Result{{Title: "Headline"}}}
	app := newTestApp(t, provider, nil)

	if err := app.WarmNews(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if provider.CallCount() != 4 {
		t.Errorf("Expected 4 provider calls, got %d", provider.CallCount())
	}

	// Second warm-up is served entirely from cache
	if err := app.WarmNews(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if provider.CallCount() != 4 {
		t.Errorf("Expected cached warm-up, got %d provider calls", provider.CallCount())
	}
}

func TestWarmNewsReportsFailures(t *testing.T) {
	app := newTestApp(t, &mocks.MockNewsProvider{Err: apperror.Upstream("NewsData API error", nil)}, nil)

	err := app.WarmNews(context.Background())
	if apperror.KindOf(err) != apperror.KindUpstream {
		t.Errorf("Expected upstream error, got %v", err)
	}
}

func TestNewWithConfigWithoutKeys(t *testing.T) {
	app, err := NewWithConfig(testConfig())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer app.Close()

	if err := app.Lesson.Ready(); apperror.KindOf(err) != apperror.KindConfiguration {
		t.Errorf("Expected configuration error, got %v", err)
	}
}

func TestLessonOptions(t *testing.T) {
	cfg := testConfig()
	cfg.LessonProvider = config.ProviderGemini
	cfg.GeminiAPIKey = "gemini-key"
	cfg.GeminiModel = "gemini-2.5-flash"

	opts := lessonOptions(cfg)
	if opts.APIKey != "gemini-key" || opts.Model != "gemini-2.5-flash" {
		t.Errorf("Unexpected options: %+v", opts)
	}
}
