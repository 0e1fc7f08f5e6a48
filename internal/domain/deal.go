// Package domain contains the core data types for the travel deals API.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies a Deal. It also decides which optional fields are
// required: only road trips carry a date, guests and seats.
type Category string

const (
	CategoryInternational Category = "International"
	CategorySafari        Category = "Safari"
	CategoryBeachHoliday  Category = "Beach Holiday"
	CategoryAdventure     Category = "Adventure"
	CategoryHoneymoon     Category = "Honeymoon & Romantic Getaway"
	CategoryRoadTrips     Category = "Road Trips"
)

// CategoryAny is the search sentinel meaning "do not filter by category".
// It is never stored.
const CategoryAny Category = "Any Category"

// Categories lists every storable category in display order.
var Categories = []Category{
	CategoryInternational,
	CategorySafari,
	CategoryBeachHoliday,
	CategoryAdventure,
	CategoryHoneymoon,
	CategoryRoadTrips,
}

// Valid reports whether c is one of the storable categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// MaxImages is the maximum number of images a deal may carry.
const MaxImages = 4

// Deal is a travel package listing.
// Date, Guests and SeatsAvailable are non-nil only for road trips.
type Deal struct {
	ID             uuid.UUID  `json:"id"`
	Destination    string     `json:"destination"`
	Date           *time.Time `json:"date"`
	Guests         *int       `json:"guests"`
	SeatsAvailable *int       `json:"seatsAvailable"`
	Days           int        `json:"days"`
	Price          float64    `json:"price"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Images         []string   `json:"images"`
	Description    string     `json:"description"`
	Features       []string   `json:"features"`
	Category       Category   `json:"category"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// DealSummary is the reduced projection returned by search results.
type DealSummary struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Destination string   `json:"destination"`
	Price       float64  `json:"price"`
	Category    Category `json:"category"`
	Images      []string `json:"images"`
}

// IsRoadTrip reports whether the deal is in the Road Trips category.
func (d Deal) IsRoadTrip() bool {
	return d.Category == CategoryRoadTrips
}
