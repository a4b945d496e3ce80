package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/pep299/lessonfeed/internal/logging"
	"github.com/pep299/lessonfeed/internal/transport/response"
)

// NewsFetcher returns the encoded article list for a category
type NewsFetcher interface {
	Fetch(ctx context.Context, category string) ([]byte, bool, error)
}

type NewsHandler struct {
	news NewsFetcher
}

func NewNewsHandler(news NewsFetcher) *NewsHandler {
	return &NewsHandler{news: news}
}

func (h *NewsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		response.WriteMethodNotAllowed(w, "Method not allowed")
		return
	}

	category := r.URL.Query().Get("category")

	payload, cached, err := h.news.Fetch(r.Context(), category)
	if err != nil {
		logger.Error("Error fetching news", zap.String("category", category), zap.Error(err))
		response.WriteAppError(w, err)
		return
	}

	logger.Info("News served", zap.String("category", category), zap.Bool("cached", cached))
	setCacheHeader(w, cached)
	response.WriteRaw(w, http.StatusOK, payload)
}

func setCacheHeader(w http.ResponseWriter, cached bool) {
	if cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
}
