// Package handler implements the HTTP handlers for the travel deals API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, deal.go) but share the same Server struct so they can
// access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/travel-deals/backend/internal/domain"
	"github.com/travel-deals/backend/internal/service"
	"github.com/travel-deals/backend/spec"
)

// DealServicer defines the business operations the deal handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching the database or service layer.
type DealServicer interface {
	Create(ctx context.Context, in service.NewDeal) (domain.Deal, error)
	GetBySlug(ctx context.Context, slug string) (domain.Deal, error)
	List(ctx context.Context) ([]domain.Deal, error)
	Search(ctx context.Context, f domain.SearchFilter, p domain.PaginationParams) (domain.SearchResult, error)
}

// Server holds the dependencies shared by all handlers.
type Server struct {
	deals DealServicer
	log   *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(deals DealServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{deals: deals, log: log}
}

// Routes returns a chi router with every API endpoint registered.
// Cross-cutting middleware (request id, logging, CORS) is applied by the
// caller so tests can exercise the routes bare.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)

	r.Route("/api/deals", func(r chi.Router) {
		r.Get("/", s.ListDeals)
		r.Post("/", s.CreateDeal)
		r.Get("/search", s.SearchDeals)
		r.Get("/{slug}", s.GetDeal)
	})
	return r
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}
