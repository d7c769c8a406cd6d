package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cloo-solutions/faqrag/internal/api"
	"github.com/cloo-solutions/faqrag/internal/api/handlers"
	"github.com/cloo-solutions/faqrag/internal/api/middleware"
)

type RouterConfig struct {
	QueryHandler *handlers.QueryHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/query", cfg.QueryHandler.Ask)
	r.Get("/history", cfg.QueryHandler.History)

	return r
}
