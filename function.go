// Package lessonfeed registers the news and lesson HTTP functions.
package lessonfeed

import (
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"go.uber.org/zap"

	"github.com/pep299/lessonfeed/internal/application"
	"github.com/pep299/lessonfeed/internal/logging"
	"github.com/pep299/lessonfeed/internal/transport/middleware"
	"github.com/pep299/lessonfeed/internal/transport/response"
)

func init() {
	functions.HTTP("FetchNews", FetchNews)
	functions.HTTP("GenerateLesson", GenerateLesson)
}

var (
	appOnce sync.Once
	app     *application.Application
	appErr  error
)

// instance builds the application once per function instance; caches live as
// long as the instance does
func instance() (*application.Application, error) {
	appOnce.Do(func() {
		app, appErr = application.New()
	})
	return app, appErr
}

// FetchNews returns today's articles for ?category=
func FetchNews(w http.ResponseWriter, r *http.Request) {
	a, err := instance()
	if err != nil {
		startupFailure(err, "GET, POST, OPTIONS").ServeHTTP(w, r)
		return
	}
	a.NewsHandler.ServeHTTP(w, r)
}

// GenerateLesson returns a lesson for the posted article
func GenerateLesson(w http.ResponseWriter, r *http.Request) {
	a, err := instance()
	if err != nil {
		startupFailure(err, "POST, OPTIONS").ServeHTTP(w, r)
		return
	}
	a.LessonHandler.ServeHTTP(w, r)
}

// startupFailure still answers preflight requests so browsers see the real error
func startupFailure(err error, methods string) http.Handler {
	return middleware.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.ForRequest(r, "error").Error("Failed to initialize application", zap.Error(err))
		response.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}), middleware.RequestID, middleware.CORS(methods))
}
