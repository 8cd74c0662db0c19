package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"faqbot/internal/handlers"
	"faqbot/internal/search"
	"faqbot/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine      search.Engine
	VectorStore vectorstore.VectorStore
	Collection  string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	askHandler := handlers.NewAskHandler(deps.Engine)
	searchHandler := handlers.NewSearchHandler(deps.Engine)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.Collection)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/ask", askHandler)
		r.Method(http.MethodPost, "/search", searchHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
