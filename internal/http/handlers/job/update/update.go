// Package update implements the HTTP handler for editing a job posting.
// Only the posting's owner may update it; the edit replaces every mutable
// field, like a create.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/devhire/job-board/internal/http/middlewarectx"
	"github.com/devhire/job-board/internal/http/response"
	"github.com/devhire/job-board/internal/lib/sl"
	"github.com/devhire/job-board/internal/models"
	services "github.com/devhire/job-board/internal/services/job"
	"github.com/devhire/job-board/internal/storage"
)

// Service describes the posting operations the handler needs.
type Service interface {
	Update(ctx context.Context, jobUID, callerUID string, req models.DummyJob) (*models.Job, error)
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

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.job.update"

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

	rawID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(rawID); err != nil {
		log.Error("malformed job id", slog.String("id", rawID))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid job ID"))
		return
	}

	var req models.DummyJob
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	job, err := h.service.Update(r.Context(), rawID, userUID, req)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Error("job not found", slog.String("job_uid", rawID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Job not found"))
		case errors.Is(err, services.ErrForbidden):
			log.Error("caller does not own the job", slog.String("job_uid", rawID))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("Not authorized to update this job"))
		case errors.Is(err, services.ErrDeadlineFormat), errors.Is(err, services.ErrDeadlinePast):
			log.Error("invalid deadline", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Fields([]response.FieldError{
				{Field: "deadline", Message: deadlineMessage(err)},
			}))
		default:
			log.Error("failed to update job", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update job"))
		}
		return
	}

	log.Info("job updated", slog.String("job_uid", job.UID))
	render.JSON(w, r, response.OKWithData(models.ViewOf(job, time.Now())))
}

func deadlineMessage(err error) string {
	if errors.Is(err, services.ErrDeadlinePast) {
		return "application deadline must be in the future"
	}
	return "deadline must be a valid RFC 3339 timestamp"
}
