// Package middlewarectx contains the HTTP middleware that authenticates
// requests and places the caller's identity into the request context.
//
// JWTMiddleware requires a valid bearer token and rejects the request with
// 401 otherwise. OptionalJWTMiddleware attaches the identity when a valid
// token is present but lets anonymous requests through. RequireRoles gates
// a route on the role already placed in the context.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/devhire/job-board/internal/http/response"
	"github.com/devhire/job-board/internal/lib/jwt"
	"github.com/devhire/job-board/internal/lib/sl"
	"github.com/devhire/job-board/internal/models"
	services "github.com/devhire/job-board/internal/services/auth"
	"github.com/devhire/job-board/internal/storage"
)

// Key is the type for request-context keys set by this package.
type Key string

const (
	// UserUID is the context key for the authenticated user's uid.
	UserUID Key = "user_uid"
	// Email is the context key for the authenticated user's email.
	Email Key = "email"
	// Role is the context key for the authenticated user's role.
	Role Key = "role"
)

// Service validates a bearer token against the live user store.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*models.User, error)
}

// JWTMiddleware returns middleware that requires a valid bearer token.
//
// The token is read from the Authorization header, or from X-Auth-Token
// when no Authorization header is present. The referenced account is
// re-checked on every request, so a deactivated user is rejected even
// while their token is unexpired.
func JWTMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr, ok := extractToken(r)
			if !ok {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}

			user, err := authService.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				switch {
				case errors.Is(err, jwt.ErrInvalidToken),
					errors.Is(err, services.ErrUserDeactivated),
					errors.Is(err, storage.ErrNotFound):
					log.Error("invalid or expired token", sl.Err(err))
					render.Status(r, http.StatusUnauthorized)
					render.JSON(w, r, response.Error("invalid or expired token"))
				default:
					log.Error("failed to validate token", sl.Err(err))
					render.Status(r, http.StatusInternalServerError)
					render.JSON(w, r, response.Error("internal service error"))
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), user)))
		})
	}
}

// OptionalJWTMiddleware attaches the identity when the request carries a
// valid token and proceeds anonymously in every other case, including
// validation failures.
func OptionalJWTMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := extractToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := authService.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Debug("optional auth failed, proceeding anonymously", sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), user)))
		})
	}
}

// RequireRoles returns middleware that allows only the listed roles. It
// must run after JWTMiddleware: a request without an identity gets 401,
// one with the wrong role gets 403.
func RequireRoles(log *slog.Logger, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireRoles"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			role, ok := r.Context().Value(Role).(string)
			if !ok || role == "" {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.Error("access denied for role", slog.String("role", role))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied for this role"))
		})
	}
}

// extractToken reads the bearer token from the Authorization header, or
// from the X-Auth-Token header when Authorization is absent.
func extractToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		token := strings.TrimPrefix(authHeader, "Bearer ")
		return token, token != ""
	}
	if authHeader == "" {
		if token := r.Header.Get("X-Auth-Token"); token != "" {
			return token, true
		}
	}
	return "", false
}

func withIdentity(ctx context.Context, user *models.User) context.Context {
	ctx = context.WithValue(ctx, UserUID, user.UID)
	ctx = context.WithValue(ctx, Email, user.Email)
	ctx = context.WithValue(ctx, Role, user.Role)
	return ctx
}
