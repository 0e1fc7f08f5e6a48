// Package service contains the business logic for the travel deals API.
// Services validate inputs, enforce business rules, and orchestrate repo and
// gateway calls. No SQL lives here; services depend on interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/travel-deals/backend/internal/domain"
	"github.com/travel-deals/backend/internal/media"
	"github.com/travel-deals/backend/internal/repo"
)

// maxCreateAttempts bounds how often Create regenerates the slug after the
// insert loses a race on the slug unique index.
const maxCreateAttempts = 3

// ImageUploader uploads a deal's images, all or nothing.
type ImageUploader interface {
	UploadAll(ctx context.Context, files []media.File) ([]string, error)
}

// DealNotifier is told about every newly created deal.
type DealNotifier interface {
	NotifyNewDeal(ctx context.Context, d domain.Deal) error
}

// DealService implements business logic for Deal operations.
type DealService struct {
	repo     repo.DealRepo
	images   ImageUploader
	notifier DealNotifier
	validate *validator.Validate
	log      *slog.Logger
}

// NewDealService constructs a DealService. notifier may be nil, in which case
// no announcement is sent; a nil logger falls back to slog.Default().
func NewDealService(r repo.DealRepo, images ImageUploader, notifier DealNotifier, log *slog.Logger) *DealService {
	if log == nil {
		log = slog.Default()
	}
	return &DealService{
		repo:     r,
		images:   images,
		notifier: notifier,
		validate: newValidator(),
		log:      log,
	}
}

// Create validates the input, uploads every image, assigns a unique slug and
// persists the deal.
// Returns domain.ErrValidation if input violates business rules and an error
// wrapping domain.ErrUploadFailed if any image could not be uploaded; in
// both cases nothing is stored.
func (s *DealService) Create(ctx context.Context, in NewDeal) (domain.Deal, error) {
	in = in.normalize()
	if err := validateNewDeal(s.validate, in); err != nil {
		return domain.Deal{}, err
	}

	urls, err := s.images.UploadAll(ctx, in.Images)
	if err != nil {
		return domain.Deal{}, fmt.Errorf("service.DealService.Create: %w", err)
	}

	deal := domain.Deal{
		Destination:    in.Destination,
		Date:           in.Date,
		Guests:         in.Guests,
		SeatsAvailable: in.SeatsAvailable,
		Days:           *in.Days,
		Price:          *in.Price,
		Title:          in.Title,
		Images:         urls,
		Description:    in.Description,
		Features:       in.Features,
		Category:       in.Category,
	}

	created, err := s.insertWithUniqueSlug(ctx, deal)
	if err != nil {
		return domain.Deal{}, fmt.Errorf("service.DealService.Create: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyNewDeal(ctx, created); err != nil {
			s.log.WarnContext(ctx, "new deal notification failed", "slug", created.Slug, "error", err)
		}
	}
	return created, nil
}

// insertWithUniqueSlug picks a free slug and inserts the deal. When the
// insert hits the unique index because a concurrent create took the slug,
// a fresh slug is generated and the insert retried.
func (s *DealService) insertWithUniqueSlug(ctx context.Context, deal domain.Deal) (domain.Deal, error) {
	var lastErr error
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		slug, err := UniqueSlug(ctx, s.repo.SlugExists, deal.Title)
		if err != nil {
			return domain.Deal{}, err
		}
		deal.Slug = slug

		created, err := s.repo.Create(ctx, deal)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return domain.Deal{}, err
		}
		s.log.InfoContext(ctx, "slug taken between check and insert, retrying", "slug", slug, "attempt", attempt)
		lastErr = err
	}
	return domain.Deal{}, fmt.Errorf("gave up after %d slug conflicts: %w", maxCreateAttempts, lastErr)
}

// GetBySlug returns a single deal by slug.
// Returns domain.ErrNotFound if no deal has that slug.
func (s *DealService) GetBySlug(ctx context.Context, slug string) (domain.Deal, error) {
	result, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Deal{}, fmt.Errorf("service.DealService.GetBySlug: %w", err)
	}
	return result, nil
}

// List returns every deal, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *DealService) List(ctx context.Context) ([]domain.Deal, error) {
	deals, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.DealService.List: %w", err)
	}
	if deals == nil {
		return []domain.Deal{}, nil
	}
	return deals, nil
}

// Search returns one page of deal summaries matching f.
// Returns domain.ErrValidation if a road-trip guest count is not positive.
func (s *DealService) Search(ctx context.Context, f domain.SearchFilter, p domain.PaginationParams) (domain.SearchResult, error) {
	if f.RoadTripOnly() && f.Guests != nil && *f.Guests < 1 {
		return domain.SearchResult{}, fmt.Errorf("%w: guests must be a positive number", domain.ErrValidation)
	}

	deals, total, err := s.repo.Search(ctx, f, p)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("service.DealService.Search: %w", err)
	}
	if deals == nil {
		deals = []domain.DealSummary{}
	}
	return domain.SearchResult{Deals: deals, Total: total, Page: p}, nil
}
