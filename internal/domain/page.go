package domain

import (
	"math"
	"time"
)

// SearchPageSize is the fixed number of results per search page.
const SearchPageSize = 12

// MaxSearchPage is the highest page NewSearchPagination returns. It keeps
// the row offset within a 32-bit integer; any page past it is empty anyway.
const MaxSearchPage = math.MaxInt32/SearchPageSize + 1

// PaginationParams carries page/limit values from the HTTP layer to the repo layer.
// Page is 1-indexed.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// Limit is the maximum number of items to return.
	Limit int
}

// NewSearchPagination builds the PaginationParams for a deal search.
// A nil or non-positive page falls back to 1 and pages above MaxSearchPage
// are clamped to it; the limit is always SearchPageSize.
func NewSearchPagination(page *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: SearchPageSize}
	if page != nil && *page >= 1 {
		p.Page = min(*page, MaxSearchPage)
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pages returns the number of pages needed to hold total items.
func (p PaginationParams) Pages(total int64) int {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

// SearchFilter holds the optional criteria of a deal search.
// Guests and Date only apply when Category is CategoryRoadTrips.
type SearchFilter struct {
	Destination string
	Category    Category
	Guests      *int
	Date        *time.Time
}

// RoadTripOnly reports whether the guests/date criteria are active.
func (f SearchFilter) RoadTripOnly() bool {
	return f.Category == CategoryRoadTrips
}

// CategoryFilter returns the category to match exactly, or "" when the
// search should not filter by category.
func (f SearchFilter) CategoryFilter() Category {
	if f.Category == CategoryAny {
		return ""
	}
	return f.Category
}

// SearchResult is one page of search results plus the total match count.
type SearchResult struct {
	Deals []DealSummary
	Total int64
	Page  PaginationParams
}
