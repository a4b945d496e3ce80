package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/pep299/lessonfeed/internal/cache"
	"github.com/pep299/lessonfeed/internal/config"
	"github.com/pep299/lessonfeed/internal/llm"
	"github.com/pep299/lessonfeed/internal/logging"
	"github.com/pep299/lessonfeed/internal/model"
	"github.com/pep299/lessonfeed/internal/newsdata"
	"github.com/pep299/lessonfeed/internal/service"
	"github.com/pep299/lessonfeed/internal/transport/handler"
	"github.com/pep299/lessonfeed/internal/transport/middleware"
)

const (
	newsMethods   = "GET, POST, OPTIONS"
	lessonMethods = "POST, OPTIONS"
)

// Application represents the application with all business logic components
type Application struct {
	Config *config.Config
	Logger *zap.Logger

	News   *service.News
	Lesson *service.Lesson

	NewsHandler       http.Handler
	LessonHandler     http.Handler
	CacheStatsHandler http.Handler

	caches []*cache.MemoryCache
}

// New creates a new application instance from the environment
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates the application with the real upstream clients.
// Clients whose credential is missing are left unset so each request
// reports the missing key.
func NewWithConfig(cfg *config.Config) (*Application, error) {
	var provider service.NewsProvider
	if cfg.NewsDataAPIKey != "" {
		provider = newsdata.NewClient(cfg.NewsDataAPIKey, cfg.NewsDataBaseURL, cfg.HTTPTimeout)
	}

	var generator llm.Generator
	if cfg.LessonAPIKey() != "" {
		g, err := llm.New(cfg.LessonProvider, lessonOptions(cfg))
		if err != nil {
			return nil, fmt.Errorf("creating lesson generator: %w", err)
		}
		generator = g
	}

	return assemble(cfg, provider, generator, cache.SystemClock{}, middleware.FunctionLogger(cfg.LogLevel)), nil
}

func lessonOptions(cfg *config.Config) llm.Options {
	opts := llm.Options{
		APIKey:  cfg.LessonAPIKey(),
		Timeout: cfg.HTTPTimeout,
	}
	if cfg.LessonProvider == config.ProviderGemini {
		opts.Model = cfg.GeminiModel
		opts.BaseURL = cfg.GeminiBaseURL
	} else {
		opts.Model = cfg.AnthropicModel
		opts.BaseURL = cfg.AnthropicBaseURL
	}
	return opts
}

func assemble(cfg *config.Config, provider service.NewsProvider, generator llm.Generator, clock cache.Clock, requestLogger middleware.LoggerFunc) *Application {
	newsCache := cache.NewMemoryCache(cache.Options{
		Name:     "news",
		TTL:      cfg.NewsCacheTTL,
		Capacity: cfg.CacheCapacity,
		Clock:    clock,
	})
	lessonCache := cache.NewMemoryCache(cache.Options{
		Name:     "lesson",
		TTL:      cfg.LessonCacheTTL,
		Capacity: cfg.CacheCapacity,
		Clock:    clock,
	})

	news := service.NewNews(provider, newsCache, clock)
	lessons := service.NewLesson(generator, lessonCache, cfg.LessonAPIKeyEnv())

	wrap := func(h http.Handler, methods string) http.Handler {
		return middleware.Chain(h,
			middleware.RequestID,
			middleware.Logging(requestLogger),
			middleware.CORS(methods),
		)
	}

	return &Application{
		Config:            cfg,
		Logger:            logging.NewDefault(cfg.LogLevel),
		News:              news,
		Lesson:            lessons,
		NewsHandler:       wrap(handler.NewNewsHandler(news), newsMethods),
		LessonHandler:     wrap(handler.NewLessonHandler(lessons), lessonMethods),
		CacheStatsHandler: wrap(handler.NewCacheStatsHandler(newsCache, lessonCache), "GET, OPTIONS"),
		caches:            []*cache.MemoryCache{newsCache, lessonCache},
	}
}

// WarmNews fetches every category so later requests are served from cache
func (a *Application) WarmNews(ctx context.Context) error {
	var errs []error
	for _, category := range model.Categories {
		_, cached, err := a.News.Fetch(ctx, string(category))
		if err != nil {
			a.Logger.Error("News prefetch failed", zap.String("category", string(category)), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", category, err))
			continue
		}
		a.Logger.Info("News prefetched", zap.String("category", string(category)), zap.Bool("cached", cached))
	}
	return errors.Join(errs...)
}

// Close cleans up application resources
func (a *Application) Close() error {
	for _, c := range a.caches {
		c.Close()
	}
	// Sync on stdout fails on some platforms; nothing is buffered
	_ = a.Logger.Sync()
	return nil
}
