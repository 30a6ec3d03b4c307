package web

import (
	"log/slog"
	"net/http"

	"github.com/jusunglee/g2pk/internal/db"
	"github.com/jusunglee/g2pk/internal/web/handlers"
	"github.com/jusunglee/g2pk/internal/web/middleware"
)

type Router struct {
	transcriber handlers.Transcriber
	repo        db.Repository
	log         *slog.Logger
	origins     []string
}

// NewRouter wires the API. repo may be nil when transcriptions are not
// stored.
func NewRouter(transcriber handlers.Transcriber, repo db.Repository, log *slog.Logger, origins []string) *Router {
	return &Router{
		transcriber: transcriber,
		repo:        repo,
		log:         log,
		origins:     origins,
	}
}

func (r *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	transcriptionHandler := handlers.NewTranscriptionHandler(r.transcriber, r.repo, r.log)
	healthHandler := handlers.NewHealthHandler(r.repo)

	rateLimiter := middleware.NewRateLimiter(60, 60)

	mux.Handle("POST /api/v1/transcriptions",
		middleware.Chain(
			http.HandlerFunc(transcriptionHandler.Create),
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
			middleware.RateLimit(rateLimiter),
		),
	)

	mux.Handle("GET /api/v1/transcriptions",
		middleware.Chain(
			http.HandlerFunc(transcriptionHandler.List),
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
			middleware.CacheControl("public, s-maxage=5, max-age=0"),
		),
	)

	mux.Handle("GET /health",
		middleware.Chain(
			http.HandlerFunc(healthHandler.Get),
			middleware.PrometheusMetrics(),
		),
	)

	return middleware.CORS(r.origins)(mux)
}
