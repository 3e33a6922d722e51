// Package remove implements the HTTP handler for taking down a job
// posting. The posting is deactivated, never deleted, and removing an
// already inactive posting succeeds again.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/devhire/job-board/internal/http/middlewarectx"
	"github.com/devhire/job-board/internal/http/response"
	"github.com/devhire/job-board/internal/lib/sl"
	services "github.com/devhire/job-board/internal/services/job"
	"github.com/devhire/job-board/internal/storage"
)

// Service describes the posting operations the handler needs.
type Service interface {
	Remove(ctx context.Context, jobUID, callerUID string) error
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

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.job.remove"

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

	if err := h.service.Remove(r.Context(), rawID, userUID); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Error("job not found", slog.String("job_uid", rawID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Job not found"))
		case errors.Is(err, services.ErrForbidden):
			log.Error("caller does not own the job", slog.String("job_uid", rawID))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("Not authorized to delete this job"))
		default:
			log.Error("failed to remove job", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to remove job"))
		}
		return
	}

	log.Info("job removed", slog.String("job_uid", rawID))
	render.JSON(w, r, response.OK("job removed successfully"))
}
