// internal/api/router.go
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	apperrors "tribe-intake/internal/common/errors"
	"tribe-intake/internal/common/logger"
	checksubmissionrate "tribe-intake/internal/intake/check-submission-rate"
	"tribe-intake/pkg/registry"
)

const (
	SubmitPath = "/api/submit-form"
	SchemaPath = "/api/submit-form/schema"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Dependencies struct {
	Submit         http.Handler
	Registry       *registry.Registry
	Limiter        *checksubmissionrate.Limiter
	Store          Pinger
	Metrics        http.Handler
	ErrHandler     *apperrors.ErrorHandler
	AllowedOrigins []string
	Logger         logger.Logger
}

func NewRouter(deps Dependencies) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(deps.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", health)
	r.Get("/ready", ready(deps.Store))
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}

	r.Get(SchemaPath, schema(deps.Registry))
	r.Group(func(sr chi.Router) {
		if deps.Limiter != nil {
			sr.Use(deps.Limiter.Middleware(deps.ErrHandler))
		}
		sr.Method(http.MethodPost, SubmitPath, deps.Submit)
	})

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	apperrors.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func ready(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				apperrors.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
					"time":   time.Now().Format(time.RFC3339),
				})
				return
			}
		}
		apperrors.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "ready",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

func schema(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/schema+json")
		w.Header().Set("Cache-Control", "public, max-age=300")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(reg.Raw())
	}
}

func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Debug("request served", map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"requestId":   middleware.GetReqID(r.Context()),
				"duration_ms": time.Since(start).Milliseconds(),
			})
		})
	}
}
