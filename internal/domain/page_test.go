package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/travel-deals/backend/internal/domain"
)

func intPtr(n int) *int { return &n }

func TestNewSearchPagination(t *testing.T) {
	tests := []struct {
		name string
		page *int
		want int
	}{
		{"missing", nil, 1},
		{"zero", intPtr(0), 1},
		{"negative", intPtr(-4), 1},
		{"third", intPtr(3), 3},
		{"last allowed", intPtr(domain.MaxSearchPage), domain.MaxSearchPage},
		{"huge", intPtr(1_000_000_000_000_000_000), domain.MaxSearchPage},
		{"max int", intPtr(math.MaxInt), domain.MaxSearchPage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := domain.NewSearchPagination(tt.page)
			assert.Equal(t, tt.want, p.Page)
			assert.Equal(t, domain.SearchPageSize, p.Limit)
			assert.GreaterOrEqual(t, p.Offset(), 0)
			assert.LessOrEqual(t, p.Offset(), math.MaxInt32)
		})
	}
}

func TestPaginationParams_OffsetAndPages(t *testing.T) {
	p := domain.NewSearchPagination(intPtr(3))

	assert.Equal(t, 24, p.Offset())
	assert.Equal(t, 3, p.Pages(25))
	assert.Equal(t, 2, p.Pages(24))
	assert.Equal(t, 1, p.Pages(1))
	assert.Equal(t, 0, p.Pages(0))
}

func TestCategory_Valid(t *testing.T) {
	for _, c := range domain.Categories {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, domain.CategoryAny.Valid(), "the search sentinel is not storable")
	assert.False(t, domain.Category("road trips").Valid(), "matching is exact")
	assert.False(t, domain.Category("").Valid())
}

func TestSearchFilter_CategoryFilter(t *testing.T) {
	assert.Equal(t, domain.Category(""), domain.SearchFilter{Category: domain.CategoryAny}.CategoryFilter())
	assert.Equal(t, domain.CategorySafari, domain.SearchFilter{Category: domain.CategorySafari}.CategoryFilter())
	assert.True(t, domain.SearchFilter{Category: domain.CategoryRoadTrips}.RoadTripOnly())
	assert.False(t, domain.SearchFilter{}.RoadTripOnly())
}
