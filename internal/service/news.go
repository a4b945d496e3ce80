package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pep299/lessonfeed/internal/apperror"
	"github.com/pep299/lessonfeed/internal/cache"
	"github.com/pep299/lessonfeed/internal/model"
	"github.com/pep299/lessonfeed/internal/newsdata"
)

// MaxArticles is the number of articles returned per category
const MaxArticles = 5

// NewsProvider is the upstream news source.
type NewsProvider interface {
	Latest(ctx context.Context, category string, size int) ([]newsdata.Result, error)
}

// News serves the daily article list per category.
type News struct {
	provider NewsProvider
	cache    cache.Cache
	clock    cache.Clock
}

// NewNews creates the news service. A nil provider means no API key is
// configured; cached payloads are still served.
func NewNews(provider NewsProvider, c cache.Cache, clock cache.Clock) *News {
	if clock == nil {
		clock = cache.SystemClock{}
	}
	return &News{
		provider: provider,
		cache:    c,
		clock:    clock,
	}
}

// NewsCacheKey is the cache key for category on the current UTC day
func (s *News) NewsCacheKey(category model.Category) string {
	return fmt.Sprintf("news_%s_%s", category, s.clock.Now().UTC().Format("2006-01-02"))
}

// Fetch returns the JSON article list for rawCategory and whether it came from cache
func (s *News) Fetch(ctx context.Context, rawCategory string) ([]byte, bool, error) {
	category := model.ParseCategory(rawCategory)
	key := s.NewsCacheKey(category)

	payload, err := s.cache.Get(ctx, key)
	if err == nil {
		return payload, true, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		return nil, false, fmt.Errorf("reading cache: %w", err)
	}

	if s.provider == nil {
		return nil, false, apperror.Configuration("NEWSDATA_API_KEY not configured")
	}

	results, err := s.provider.Latest(ctx, category.ProviderName(), MaxArticles)
	if err != nil {
		return nil, false, fmt.Errorf("fetching %s news: %w", category, err)
	}

	payload, err = json.Marshal(ToArticles(results, category))
	if err != nil {
		return nil, false, fmt.Errorf("encoding articles: %w", err)
	}

	if err := s.cache.Set(ctx, key, payload); err != nil {
		return nil, false, fmt.Errorf("writing cache: %w", err)
	}

	return payload, false, nil
}

// ToArticles normalizes provider results, dropping untitled ones and keeping at most MaxArticles
func ToArticles(results []newsdata.Result, category model.Category) []model.Article {
	articles := make([]model.Article, 0, MaxArticles)

	for _, r := range results {
		if r.Title == "" {
			continue
		}
		if len(articles) == MaxArticles {
			break
		}

		article := model.Article{
			Title:   r.Title,
			Source:  r.SourceName,
			Summary: r.Description,
			Topic:   string(category),
			Link:    r.Link,
			PubDate: r.PubDate,
		}
		if article.Source == "" {
			article.Source = "Unknown"
		}
		if article.Summary == "" {
			article.Summary = r.Title
		}
		if len(r.Category) > 0 && r.Category[0] != "" {
			article.Topic = r.Category[0]
		}
		if r.ImageURL != nil && *r.ImageURL != "" {
			image := *r.ImageURL
			article.Image = &image
		}

		articles = append(articles, article)
	}

	return articles
}
