// Package cleanup implements the HTTP handler for an on-demand sweep of
// expired postings. The route is restricted to administrators.
package cleanup

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/devhire/job-board/internal/http/response"
	"github.com/devhire/job-board/internal/lib/sl"
)

// Service runs the expiry sweep.
type Service interface {
	Sweep(ctx context.Context) (int, error)
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
	const op = "handlers.job.cleanup"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	count, err := h.service.Sweep(r.Context())
	if err != nil {
		log.Error("cleanup sweep failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to clean up expired jobs"))
		return
	}

	log.Info("cleanup sweep finished", slog.Int("deactivated", count))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"deactivatedCount": count,
	}))
}
