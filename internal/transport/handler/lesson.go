package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/pep299/lessonfeed/internal/apperror"
	"github.com/pep299/lessonfeed/internal/logging"
	"github.com/pep299/lessonfeed/internal/model"
	"github.com/pep299/lessonfeed/internal/service"
	"github.com/pep299/lessonfeed/internal/transport/response"
)

// LessonGenerator produces encoded lessons
type LessonGenerator interface {
	Ready() error
	Generate(ctx context.Context, req service.LessonRequest) ([]byte, bool, error)
}

type lessonRequestBody struct {
	Article *model.ArticleInput `json:"article"`
	Level   string              `json:"level"`
}

type LessonHandler struct {
	lessons LessonGenerator
}

func NewLessonHandler(lessons LessonGenerator) *LessonHandler {
	return &LessonHandler{lessons: lessons}
}

func (h *LessonHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	if r.Method != http.MethodPost {
		response.WriteMethodNotAllowed(w, "POST only")
		return
	}

	if err := h.lessons.Ready(); err != nil {
		logger.Error("Lesson provider not configured", zap.Error(err))
		response.WriteAppError(w, err)
		return
	}

	req, err := decodeLessonRequest(r)
	if err != nil {
		logger.Warn("Rejected lesson request", zap.Error(err))
		response.WriteAppError(w, err)
		return
	}

	payload, cached, err := h.lessons.Generate(r.Context(), req)
	if err != nil {
		logger.Error("Error generating lesson",
			zap.String("title", req.Article.Title),
			zap.String("level", string(req.Level)),
			zap.Error(err),
		)
		response.WriteAppError(w, err)
		return
	}

	logger.Info("Lesson served", zap.String("level", string(req.Level)), zap.Bool("cached", cached))
	setCacheHeader(w, cached)
	response.WriteRaw(w, http.StatusOK, payload)
}

func decodeLessonRequest(r *http.Request) (service.LessonRequest, error) {
	var body lessonRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return service.LessonRequest{}, apperror.Validation("Invalid request body", err)
	}
	if body.Article == nil {
		return service.LessonRequest{}, apperror.Validation("Invalid request body", nil)
	}
	if body.Article.Title == "" {
		return service.LessonRequest{}, apperror.Validation("article.title is required", nil)
	}

	return service.LessonRequest{
		Article: *body.Article,
		Level:   model.ParseLevel(body.Level),
	}, nil
}
