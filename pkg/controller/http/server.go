package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/issueboard/pkg/usecase"
	"github.com/secmon-lab/issueboard/pkg/utils/logging"
	"golang.org/x/time/rate"
)

// Default limit of duplicate checks per client. A UI sends one check per
// debounced edit, so a handful per second is plenty.
const (
	DefaultSimilarRate  = rate.Limit(5)
	DefaultSimilarBurst = 10
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
	authUC AuthUseCase

	similarRate  rate.Limit
	similarBurst int
}

type Options func(*Server)

// WithAuth overrides the authentication of the use cases
func WithAuth(authUC AuthUseCase) Options {
	return func(s *Server) {
		s.authUC = authUC
	}
}

// WithSimilarRateLimit sets the per client limit of POST /api/issues/similar.
// A limit of rate.Inf disables limiting.
func WithSimilarRateLimit(limit rate.Limit, burst int) Options {
	return func(s *Server) {
		s.similarRate = limit
		s.similarBurst = burst
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:       r,
		uc:           uc,
		authUC:       uc.Auth,
		similarRate:  DefaultSimilarRate,
		similarBurst: DefaultSimilarBurst,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/logout", authLogoutHandler(s.authUC))
			r.With(authMiddleware(s.authUC)).Get("/me", authMeHandler())
		})

		r.Route("/issues", func(r chi.Router) {
			r.Use(authMiddleware(s.authUC))

			r.Get("/", listIssuesHandler(uc.Issue))
			r.Post("/", createIssueHandler(uc.Issue))
			r.With(rateLimitMiddleware(newClientLimiter(s.similarRate, s.similarBurst))).
				Post("/similar", similarIssuesHandler(uc.Duplicate))
			r.Get("/{id}", getIssueHandler(uc.Issue))
			r.Patch("/{id}/status", updateIssueStatusHandler(uc.Issue))
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		ctx := logging.With(r.Context(), logger)

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
}
