package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the HTTP routes of the application.
func NewRouter(s *ServerContext) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger)

	r.Get("/", s.HandleIndex)
	r.Get("/favicon.svg", s.HandleFavicon)
	r.Get("/health", s.HandleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/formats", s.HandleFormats)
		r.Get("/cadastral/validate", s.HandleValidate)

		r.Post("/parse", s.HandleParse)
		r.Post("/convert", s.HandleConvert)
		r.Post("/plot", s.HandlePlot)
		r.Post("/plot/report", s.HandlePlotReport)
		r.Post("/preview", s.HandlePreview)
	})

	return r
}
