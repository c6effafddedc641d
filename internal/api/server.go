package api

import (
	"net/http"
	"time"

	"github.com/futig/rag-assistant/internal/api/docs"
	"github.com/futig/rag-assistant/internal/api/middleware"
	pagesapi "github.com/futig/rag-assistant/internal/api/pages"
	queryapi "github.com/futig/rag-assistant/internal/api/query"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	queryHandler *queryapi.Handler,
	pageHandler *pagesapi.Handler,
	sessions func(http.Handler) http.Handler,
	corsOrigins []string,
	requestTimeout time.Duration,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)               // Recover from panics
	r.Use(chimiddleware.RequestID)               // Add request ID
	r.Use(middleware.Logger(logger))             // Log requests
	r.Use(chimiddleware.Timeout(requestTimeout)) // Bound a single query round trip

	r.Get("/health", queryHandler.Health)

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	queryapi.RegisterRoutes(r, queryHandler, corsOrigins)

	pagesapi.RegisterRoutes(r, pageHandler, sessions)

	return r
}
