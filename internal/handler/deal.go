package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/travel-deals/backend/internal/domain"
)

type dealsResponse struct {
	Deals []domain.Deal `json:"deals"`
}

type dealResponse struct {
	Deal domain.Deal `json:"deal"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type pagination struct {
	Total       int64 `json:"total"`
	Pages       int   `json:"pages"`
	CurrentPage int   `json:"currentPage"`
}

type searchResponse struct {
	Deals      []domain.DealSummary `json:"deals"`
	Pagination pagination           `json:"pagination"`
}

// ListDeals handles GET /api/deals.
// Returns every deal, unpaginated.
func (s *Server) ListDeals(w http.ResponseWriter, r *http.Request) {
	deals, err := s.deals.List(r.Context())
	if err != nil {
		s.serverError(w, r, "Failed to fetch deals", err)
		return
	}
	writeJSON(w, http.StatusOK, dealsResponse{Deals: deals})
}

// CreateDeal handles POST /api/deals (multipart/form-data).
func (s *Server) CreateDeal(w http.ResponseWriter, r *http.Request) {
	in, err := parseDealForm(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := s.deals.Create(r.Context(), in); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusBadRequest, unwrapMessage(err))
			return
		}
		s.serverError(w, r, "Failed to create deal", err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "Deal created successfully"})
}

// GetDeal handles GET /api/deals/{slug}.
func (s *Server) GetDeal(w http.ResponseWriter, r *http.Request) {
	deal, err := s.deals.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Deal not found")
			return
		}
		s.serverError(w, r, "Failed to fetch deal", err)
		return
	}
	writeJSON(w, http.StatusOK, dealResponse{Deal: deal})
}

// SearchDeals handles GET /api/deals/search.
// Supports ?destination=, ?category=, ?guests=, ?date= and ?page= (12 per page).
// guests and date only filter when category is "Road Trips".
func (s *Server) SearchDeals(w http.ResponseWriter, r *http.Request) {
	f, page, err := parseSearchQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid search parameters", Details: err.Error()})
		return
	}

	res, err := s.deals.Search(r.Context(), f, page)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid search parameters", Details: unwrapMessage(err)})
			return
		}
		s.log.ErrorContext(r.Context(), "Failed to search deals", "error", err, "query", r.URL.RawQuery)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to search deals", Details: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Deals: res.Deals,
		Pagination: pagination{
			Total:       res.Total,
			Pages:       res.Page.Pages(res.Total),
			CurrentPage: res.Page.Page,
		},
	})
}

// parseSearchQuery binds the search query parameters. Empty values are
// treated as absent. A page that is not a positive integer falls back to 1;
// malformed guests or date values are errors.
func parseSearchQuery(raw url.Values) (domain.SearchFilter, domain.PaginationParams, error) {
	q := url.Values{}
	for k, vs := range raw {
		for _, v := range vs {
			if strings.TrimSpace(v) != "" {
				q.Add(k, strings.TrimSpace(v))
			}
		}
	}

	f := domain.SearchFilter{
		Destination: q.Get("destination"),
		Category:    domain.Category(q.Get("category")),
	}

	if err := runtime.BindQueryParameter("form", true, false, "guests", q, &f.Guests); err != nil {
		return domain.SearchFilter{}, domain.PaginationParams{}, errors.New("guests must be a whole number")
	}

	var date *openapi_types.Date
	if err := runtime.BindQueryParameter("form", true, false, "date", q, &date); err != nil {
		return domain.SearchFilter{}, domain.PaginationParams{}, errors.New("date must be formatted YYYY-MM-DD")
	}
	if date != nil {
		d := date.Time
		f.Date = &d
	}

	var page *int
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil {
		page = nil
	}

	return f, domain.NewSearchPagination(page), nil
}
