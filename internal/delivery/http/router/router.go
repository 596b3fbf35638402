package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/psp-report-service/internal/delivery/http/handler"
	"github.com/user/psp-report-service/internal/delivery/http/middleware"
)

func New(h *handler.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)

	r.Get("/", h.HandleIndex)
	r.Post("/extract", h.HandleFormExtract)
	r.Get("/download/{runID}", h.HandleDownload)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealthCheck)
		r.Get("/options", h.HandleOptions)
		r.Post("/extract", h.HandleAPIExtract)
	})

	// Prometheus metrics endpoint
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
