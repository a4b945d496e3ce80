package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pep299/lessonfeed/internal/apperror"
	"github.com/pep299/lessonfeed/internal/cache"
	"github.com/pep299/lessonfeed/internal/lesson"
	"github.com/pep299/lessonfeed/internal/llm"
	"github.com/pep299/lessonfeed/internal/model"
)

// LessonRequest is a validated lesson generation request
type LessonRequest struct {
	Article model.ArticleInput
	Level   model.Level
}

// Lesson generates and caches lessons.
type Lesson struct {
	generator llm.Generator
	cache     cache.Cache
	keyEnv    string
}

// NewLesson creates the lesson service. A nil generator means the provider
// credential named by keyEnv is missing.
func NewLesson(generator llm.Generator, c cache.Cache, keyEnv string) *Lesson {
	return &Lesson{
		generator: generator,
		cache:     c,
		keyEnv:    keyEnv,
	}
}

// Ready reports whether the LLM provider is configured
func (s *Lesson) Ready() error {
	if s.generator == nil {
		return apperror.Configuration(s.keyEnv + " not configured")
	}
	return nil
}

// Generate returns the JSON lesson for req and whether it came from cache
func (s *Lesson) Generate(ctx context.Context, req LessonRequest) ([]byte, bool, error) {
	if err := s.Ready(); err != nil {
		return nil, false, err
	}

	key := lesson.CacheKey(req.Article.Title, req.Level)

	payload, err := s.cache.Get(ctx, key)
	if err == nil {
		return payload, true, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		return nil, false, fmt.Errorf("reading cache: %w", err)
	}

	reply, err := s.generator.Generate(ctx, lesson.BuildPrompt(req.Article, req.Level))
	if err != nil {
		return nil, false, fmt.Errorf("generating lesson with %s: %w", s.generator.Name(), err)
	}

	payload, err = lesson.ParseLesson(reply)
	if err != nil {
		return nil, false, err
	}

	if err := s.cache.Set(ctx, key, payload); err != nil {
		return nil, false, fmt.Errorf("writing cache: %w", err)
	}

	return payload, false, nil
}
