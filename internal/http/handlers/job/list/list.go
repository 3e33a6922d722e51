// Package list implements the HTTP handler for the public job listing.
//
// Handler translates query parameters into a filter, runs the listing
// through the service and returns one page of postings with pagination
// metadata. Unknown enum values and malformed numbers are rejected rather
// than silently ignored.
package list

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/devhire/job-board/internal/http/response"
	"github.com/devhire/job-board/internal/lib/sl"
	"github.com/devhire/job-board/internal/models"
)

var (
	allowedLocations = map[string]bool{"Onsite": true, "Remote": true, "Hybrid": true}
	allowedTypes     = map[string]bool{"Full-time": true, "Part-time": true, "Contract": true, "Internship": true}
	allowedSortBy    = map[string]bool{"createdAt": true, "title": true, "company": true, "salary": true}
	allowedSortOrder = map[string]bool{"asc": true, "desc": true}
)

// Service describes the posting operations the handler needs.
type Service interface {
	List(ctx context.Context, filter models.JobFilter) ([]*models.Job, models.Pagination, error)
}

type Handler struct {
	log          *slog.Logger
	service      Service
	defaultLimit int
}

// New creates a new Handler. defaultLimit is the page size used when the
// request does not specify one.
func New(log *slog.Logger, service Service, defaultLimit int) *Handler {
	return &Handler{
		log:          log,
		service:      service,
		defaultLimit: defaultLimit,
	}
}

// ServeHTTP godoc
// @Summary List job postings
// @Description Returns one page of active postings matching the filters.
// @Tags Jobs
// @Produce json
// @Param search query string false "Match against title, company or description"
// @Param location query string false "Onsite, Remote or Hybrid"
// @Param city query string false "City substring"
// @Param type query string false "Full-time, Part-time, Contract or Internship"
// @Param minSalary query string false "Minimum salary figure"
// @Param maxSalary query string false "Accepted but not applied"
// @Param sortBy query string false "createdAt, title, company or salary"
// @Param sortOrder query string false "asc or desc"
// @Param page query int false "Page number, starting at 1"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response "Page of postings"
// @Failure 400 {object} response.Response "Malformed filter parameter"
// @Failure 500 {object} response.Response "Server error"
// @Router /api/jobs [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.job.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter, err := h.parseFilter(r)
	if err != nil {
		log.Error("invalid filter parameter", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	jobs, pagination, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list jobs", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list jobs"))
		return
	}

	log.Info("jobs listed", slog.Int("count", len(jobs)), slog.Int("total", pagination.TotalJobs))
	render.JSON(w, r, response.OKPage(models.ViewsOf(jobs, time.Now()), pagination))
}

func (h *Handler) parseFilter(r *http.Request) (models.JobFilter, error) {
	q := r.URL.Query()

	filter := models.JobFilter{
		Search:    q.Get("search"),
		Location:  q.Get("location"),
		City:      q.Get("city"),
		Type:      q.Get("type"),
		MinSalary: q.Get("minSalary"),
		MaxSalary: q.Get("maxSalary"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
		Page:      1,
		Limit:     h.defaultLimit,
	}

	if filter.Location != "" && !allowedLocations[filter.Location] {
		return models.JobFilter{}, fmt.Errorf("invalid location: %s", filter.Location)
	}
	if filter.Type != "" && !allowedTypes[filter.Type] {
		return models.JobFilter{}, fmt.Errorf("invalid job type: %s", filter.Type)
	}
	if filter.SortBy == "" {
		filter.SortBy = "createdAt"
	} else if !allowedSortBy[filter.SortBy] {
		return models.JobFilter{}, fmt.Errorf("invalid sortBy: %s", filter.SortBy)
	}
	if filter.SortOrder == "" {
		filter.SortOrder = "desc"
	} else if !allowedSortOrder[filter.SortOrder] {
		return models.JobFilter{}, fmt.Errorf("invalid sortOrder: %s", filter.SortOrder)
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return models.JobFilter{}, fmt.Errorf("invalid page: %s", raw)
		}
		filter.Page = page
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return models.JobFilter{}, fmt.Errorf("invalid limit: %s", raw)
		}
		filter.Limit = limit
	}
	return filter, nil
}
