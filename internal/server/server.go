// Package server exposes listing extraction and intake history over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/realtor-intake/internal/config"
	"github.com/sells-group/realtor-intake/internal/model"
	"github.com/sells-group/realtor-intake/internal/store"
)

// Parser extracts a listing from seller text. *extract.Extractor satisfies it.
type Parser interface {
	Extract(ctx context.Context, text string) (*model.Listing, error)
}

// Server wires the API handlers to a parser and a store.
type Server struct {
	parser       Parser
	store        store.Store
	cfg          config.ServerConfig
	historyLimit int
}

// New creates a Server. historyLimit is the default page size of
// GET /api/v1/listings.
func New(p Parser, st store.Store, cfg config.ServerConfig, historyLimit int) *Server {
	return &Server{parser: p, store: st, cfg: cfg, historyLimit: historyLimit}
}

// Handler builds the router with its middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID, middleware.RealIP, requestLogger, middleware.Recoverer)

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	if s.cfg.RateLimit > 0 && s.cfg.RateBurst > 0 {
		r.Use(rateLimit(rate.NewLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.RateBurst)))
	}

	r.Get("/health", s.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/parse", s.parse)
		r.Post("/listings", s.createListing)
		r.Get("/listings", s.listListings)
		r.Get("/listings/{id}", s.getListing)
	})

	return r
}

// ListenAndServe serves on port until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}

// requestLogger logs one line per request with status, size and latency.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// rateLimit rejects requests beyond the shared token bucket with 429.
func rateLimit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
