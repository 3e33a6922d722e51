// Package create implements the HTTP handler for publishing a new job
// posting.
//
// Handler accepts a JSON request with the posting data, validates it,
// takes the owner from the request context and returns the created posting.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/devhire/job-board/internal/http/middlewarectx"
	"github.com/devhire/job-board/internal/http/response"
	"github.com/devhire/job-board/internal/lib/sl"
	"github.com/devhire/job-board/internal/models"
	services "github.com/devhire/job-board/internal/services/job"
)

// Service describes the posting operations the handler needs.
type Service interface {
	Create(ctx context.Context, ownerUID string, req models.DummyJob) (*models.Job, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Publish a new job posting
// @Description Creates a posting owned by the calling user and returns it.
// @Tags Jobs
// @Accept json
// @Produce json
// @Param request body models.DummyJob true "Posting data"
// @Success 201 {object} response.Response "Posting created"
// @Failure 400 {object} response.Response "Invalid body or deadline"
// @Failure 401 {object} response.Response "Not authenticated"
// @Failure 422 {object} response.Response "Validation error"
// @Failure 500 {object} response.Response "Server error"
// @Router /api/jobs [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.job.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var req models.DummyJob
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("title", req.Title))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	job, err := h.service.Create(r.Context(), userUID, req)
	if err != nil {
		if errors.Is(err, services.ErrDeadlineFormat) || errors.Is(err, services.ErrDeadlinePast) {
			log.Error("invalid deadline", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Fields([]response.FieldError{
				{Field: "deadline", Message: deadlineMessage(err)},
			}))
			return
		}
		log.Error("failed to create job", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create job"))
		return
	}

	log.Info("job created", slog.String("job_uid", job.UID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(models.ViewOf(job, time.Now())))
}

func deadlineMessage(err error) string {
	if errors.Is(err, services.ErrDeadlinePast) {
		return "application deadline must be in the future"
	}
	return "deadline must be a valid RFC 3339 timestamp"
}
