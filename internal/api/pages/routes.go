package pages

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the HTML pages behind the session middleware
func RegisterRoutes(r chi.Router, h *Handler, sessions func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(sessions)

		r.Get("/", h.Home)
		r.Get("/go/{page}", h.Navigate)
		r.Get("/consultation", h.Consultation)
		r.Post("/consultation", h.Consult)
		r.Get("/pricing", h.Pricing)
		r.Get("/about", h.About)
		r.Post("/about/contact", h.Contact)
		r.Get("/export/{format}", h.Export)

		r.Route("/assistant", func(r chi.Router) {
			r.Get("/", h.Assistant)
			r.Post("/ask", h.AssistantAsk)
			r.Post("/upload", h.AssistantUpload)
			r.Post("/ephemeral", h.AssistantEphemeral)
			r.Post("/settings", h.AssistantSettings)
		})
	})
}
