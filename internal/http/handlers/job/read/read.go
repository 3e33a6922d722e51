// Package read implements the HTTP handler for fetching one job posting.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/devhire/job-board/internal/http/response"
	"github.com/devhire/job-board/internal/lib/sl"
	"github.com/devhire/job-board/internal/models"
	"github.com/devhire/job-board/internal/storage"
)

// Service describes the posting operations the handler needs.
type Service interface {
	Read(ctx context.Context, jobUID string) (*models.Job, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Get a job posting
// @Description Returns one active posting by its id, with its derived view fields.
// @Tags Jobs
// @Produce json
// @Param id path string true "Posting id"
// @Success 200 {object} response.Response "Posting"
// @Failure 400 {object} response.Response "Malformed id"
// @Failure 404 {object} response.Response "Not found or inactive"
// @Failure 500 {object} response.Response "Server error"
// @Router /api/jobs/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.job.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	rawID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(rawID); err != nil {
		log.Error("malformed job id", slog.String("id", rawID))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid job ID"))
		return
	}

	job, err := h.service.Read(r.Context(), rawID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Error("job not found", slog.String("job_uid", rawID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Job not found"))
			return
		}
		log.Error("failed to read job", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read job"))
		return
	}

	render.JSON(w, r, response.OKWithData(models.ViewOf(job, time.Now())))
}
