package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pep299/lessonfeed/internal/cache"
	"github.com/pep299/lessonfeed/internal/logging"
	"github.com/pep299/lessonfeed/internal/transport/response"
)

// HealthHandler provides health check endpoint
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

// CacheStatsHandler reports statistics for each cache
type CacheStatsHandler struct {
	caches []cache.Cache
}

func NewCacheStatsHandler(caches ...cache.Cache) *CacheStatsHandler {
	return &CacheStatsHandler{caches: caches}
}

func (h *CacheStatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats := make([]*cache.Stats, 0, len(h.caches))
	for _, c := range h.caches {
		s, err := c.GetStats(r.Context())
		if err != nil {
			logging.FromContext(r.Context()).Error("Error getting cache stats", zap.Error(err))
			response.WriteAppError(w, err)
			return
		}
		stats = append(stats, s)
	}

	response.WriteJSON(w, http.StatusOK, map[string]interface{}{"caches": stats})
}
