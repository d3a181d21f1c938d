package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"inkwell/internal/common"
	"inkwell/internal/server/auth"
	"inkwell/internal/server/models"
)

// logRequests records every request outcome, tagged with the chi request
// id. Server errors log at Error, everything else at Info.
func (s *HTTPServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		args := []any{
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		}
		if ww.Status() >= http.StatusInternalServerError {
			s.logger.Error(r.Context(), "request failed", args...)
			return
		}
		s.logger.Info(r.Context(), "request completed", args...)
	})
}

type ctxKey string

const callerKey ctxKey = "caller"

// callerFromContext returns the authenticated account, or nil for an
// anonymous request.
func callerFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(callerKey).(*models.User)
	return u
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(h, "Bearer "); ok {
		return after
	}
	return ""
}

// resolveCaller parses the bearer token and loads the account behind it.
// A deactivated account fails even with a still-valid token.
func (s *HTTPServer) resolveCaller(r *http.Request) (*models.User, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, common.ErrorUnauthorized
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(r.Context(), claims.UserID)
	if err != nil || !user.Active {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// requireAuth rejects requests without a valid token.
func (s *HTTPServer) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.resolveCaller(r)
		if err != nil {
			writeError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), callerKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// optionalAuth attaches the caller when a valid token is present and lets
// anonymous requests through. An invalid token is still an error, not
// silently anonymous.
func (s *HTTPServer) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if bearerToken(r) == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.resolveCaller(r)
		if err != nil {
			writeError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), callerKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
