package server

import (
	"net/http"

	"github.com/cloo-solutions/quarry/internal/api"
	"github.com/cloo-solutions/quarry/internal/api/handlers"
	"github.com/cloo-solutions/quarry/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	APIKey        string
	QueryHandler  *handlers.QueryHandler
	IndexHandler  *handlers.IndexHandler
	SourceHandler *handlers.SourceHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 32 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/status", cfg.IndexHandler.Status)

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.APIKey))

		r.Post("/ask", cfg.QueryHandler.Ask)
		r.Post("/index/rebuild", cfg.IndexHandler.Rebuild)
		r.Get("/sources/{id}/download", cfg.SourceHandler.Download)
	})

	return r
}
