package query

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

// RegisterRoutes registers the JSON query API. Only these routes answer
// cross-origin requests from allowedOrigins.
func RegisterRoutes(r chi.Router, h *Handler, allowedOrigins []string) {
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID", "X-OpenAI-Key"},
	})

	r.Route("/api/v1/query", func(r chi.Router) {
		r.Use(corsHandler.Handler)

		r.Post("/", h.Ask)
		r.Post("/ephemeral", h.AskEphemeral)
	})
}
