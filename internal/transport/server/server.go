package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pep299/lessonfeed/internal/application"
	"github.com/pep299/lessonfeed/internal/transport/handler"
)

// NewRouter mounts both functions and the operational endpoints
func NewRouter(app *application.Application) *mux.Router {
	r := mux.NewRouter()

	// Method checks live in the handlers so wrong methods get the JSON 405 body
	r.Handle("/news", app.NewsHandler)
	r.Handle("/lesson", app.LessonHandler)

	r.HandleFunc("/health", handler.HealthHandler).Methods(http.MethodGet)
	r.Handle("/cache/stats", app.CacheStatsHandler).Methods(http.MethodGet, http.MethodOptions)

	return r
}

// New creates the local HTTP server
func New(app *application.Application) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%s", app.Config.Host, app.Config.Port),
		Handler:      NewRouter(app),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: app.Config.HTTPTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
