// Package httpapi exposes the platform's REST surface over chi. Handlers
// stay thin: decode, delegate to a service, encode through the uniform
// envelope. All authorization lives in the services and the policy package.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"inkwell/internal/logging"
	"inkwell/internal/server/services"
)

type HTTPServer struct {
	address         string
	logger          logging.Logger
	users           *services.UserService
	blogs           *services.BlogService
	comments        *services.CommentService
	media           *services.MediaService
	jwtSecret       []byte
	shutdownTimeout time.Duration
}

func NewHTTPServer(a string, l logging.Logger, us *services.UserService, bs *services.BlogService,
	cs *services.CommentService, ms *services.MediaService, secretKey string, shutdownTimeout time.Duration) *HTTPServer {
	return &HTTPServer{
		address:         a,
		logger:          l.With("module", "http_server"),
		users:           us,
		blogs:           bs,
		comments:        cs,
		media:           ms,
		jwtSecret:       []byte(secretKey),
		shutdownTimeout: shutdownTimeout,
	}
}

func (s *HTTPServer) router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/ping", s.handlePing)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", s.handleMe)
			r.Put("/updatedetails", s.handleUpdateDetails)
			r.Put("/updatepassword", s.handleUpdatePassword)
			r.Delete("/deleteaccount", s.handleDeleteAccount)
		})
	})

	r.Route("/blogs", func(r chi.Router) {
		r.Get("/popular", s.handlePopularBlogs)
		r.Get("/search", s.handleSearchBlogs)
		r.Get("/category/{category}", s.handleBlogsByCategory)

		r.Group(func(r chi.Router) {
			r.Use(s.optionalAuth)
			r.Get("/", s.handleListBlogs)
			r.Get("/{id}", s.handleGetBlog)
			r.Get("/{id}/comments", s.handleListComments)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateBlog)
			r.Put("/{id}", s.handleUpdateBlog)
			r.Delete("/{id}", s.handleDeleteBlog)
			r.Put("/{id}/like", s.handleLikeBlog)
			r.Get("/my/blogs", s.handleMyBlogs)
			r.Post("/{id}/comments", s.handleCreateComment)
		})
	})

	r.Route("/comments", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.optionalAuth)
			r.Get("/{id}", s.handleGetComment)
			r.Get("/{id}/replies", s.handleCommentReplies)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Put("/{id}", s.handleUpdateComment)
			r.Delete("/{id}", s.handleDeleteComment)
			r.Put("/{id}/like", s.handleLikeComment)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(s.optionalAuth)
		r.Get("/{id}/blogs", s.handleUserBlogs)
		r.Get("/{id}/comments", s.handleUserComments)
	})

	r.With(s.requireAuth).Post("/media/uploads", s.handlePresignUpload)

	return r
}

func (s *HTTPServer) handlePing(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "pong")
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// the shutdown timeout.
func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
