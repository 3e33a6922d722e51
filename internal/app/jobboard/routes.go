// Package jobboard provides the route table for the HTTP API.
package jobboard

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/devhire/job-board/internal/config"
	"github.com/devhire/job-board/internal/http/handlers/job/cleanup"
	jobcreate "github.com/devhire/job-board/internal/http/handlers/job/create"
	joblist "github.com/devhire/job-board/internal/http/handlers/job/list"
	jobread "github.com/devhire/job-board/internal/http/handlers/job/read"
	jobremove "github.com/devhire/job-board/internal/http/handlers/job/remove"
	jobupdate "github.com/devhire/job-board/internal/http/handlers/job/update"
	"github.com/devhire/job-board/internal/http/handlers/user/changepassword"
	"github.com/devhire/job-board/internal/http/handlers/user/deactivate"
	"github.com/devhire/job-board/internal/http/handlers/user/login"
	"github.com/devhire/job-board/internal/http/handlers/user/profile"
	"github.com/devhire/job-board/internal/http/handlers/user/profileupdate"
	"github.com/devhire/job-board/internal/http/handlers/user/register"
	"github.com/devhire/job-board/internal/http/middlewarectx"
	"github.com/devhire/job-board/internal/models"
	authservice "github.com/devhire/job-board/internal/services/auth"
	jobservice "github.com/devhire/job-board/internal/services/job"
	sweeperservice "github.com/devhire/job-board/internal/services/sweeper"
	userservice "github.com/devhire/job-board/internal/services/user"
)

// RegisterRoutes registers every route of the API.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authSvc *authservice.AuthService, userSvc *userservice.UserService,
	jobSvc *jobservice.JobService, sweeperSvc *sweeperservice.SweeperService) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", register.New(logger, authSvc).ServeHTTP)
		r.Post("/login", login.New(logger, authSvc).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authSvc, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/profile", profile.New(logger, userSvc).ServeHTTP)
			r.Put("/profile", profileupdate.New(logger, userSvc).ServeHTTP)
			r.Post("/change-password", changepassword.New(logger, userSvc).ServeHTTP)
			r.Delete("/profile", deactivate.New(logger, userSvc).ServeHTTP)
		})
	})

	r.Route("/api/jobs", func(r chi.Router) {
		// Public listing and reads.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.OptionalJWTMiddleware(authSvc, logger))
			r.Get("/", joblist.New(logger, jobSvc, cfg.DefaultPageSize).ServeHTTP)
			r.Get("/{id}", jobread.New(logger, jobSvc).ServeHTTP)
		})

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authSvc, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/", jobcreate.New(logger, jobSvc).ServeHTTP)
			r.Put("/{id}", jobupdate.New(logger, jobSvc).ServeHTTP)
			r.Delete("/{id}", jobremove.New(logger, jobSvc).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRoles(logger, models.RoleAdmin))
				r.Post("/cleanup", cleanup.New(logger, sweeperSvc).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
