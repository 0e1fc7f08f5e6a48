// Package repo contains all database access logic for the travel deals API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/travel-deals/backend/internal/domain"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DealRepo defines the persistence operations for Deals.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type DealRepo interface {
	// Create inserts a new deal and returns the persisted record (with
	// DB-generated id and created_at populated).
	// Returns domain.ErrConflict if the slug is already taken.
	Create(ctx context.Context, deal domain.Deal) (domain.Deal, error)

	// GetBySlug retrieves a single deal by its slug.
	// Returns domain.ErrNotFound if no deal has that slug.
	GetBySlug(ctx context.Context, slug string) (domain.Deal, error)

	// SlugExists reports whether any deal already uses slug.
	SlugExists(ctx context.Context, slug string) (bool, error)

	// List returns all deals, newest first.
	List(ctx context.Context) ([]domain.Deal, error)

	// Search returns one page of deal summaries matching f, newest first,
	// along with the total number of matches.
	Search(ctx context.Context, f domain.SearchFilter, p domain.PaginationParams) ([]domain.DealSummary, int64, error)
}

// pgDealRepo is the Postgres implementation of DealRepo.
type pgDealRepo struct {
	db db
}

// NewDealRepo constructs a DealRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewDealRepo(db db) DealRepo {
	return &pgDealRepo{db: db}
}

const dealColumns = `id, destination, date, guests, seats_available, days, price,
		title, slug, images, description, features, category, created_at`

// Create inserts a new deal row and returns the full persisted record.
func (r *pgDealRepo) Create(ctx context.Context, deal domain.Deal) (domain.Deal, error) {
	const q = `
		INSERT INTO deals (destination, date, guests, seats_available, days, price,
		                   title, slug, images, description, features, category)
		VALUES (@destination, @date, @guests, @seats_available, @days, @price,
		        @title, @slug, @images, @description, @features, @category)
		RETURNING ` + dealColumns

	args := pgx.NamedArgs{
		"destination":     deal.Destination,
		"date":            deal.Date, // nil becomes NULL
		"guests":          deal.Guests,
		"seats_available": deal.SeatsAvailable,
		"days":            deal.Days,
		"price":           deal.Price,
		"title":           deal.Title,
		"slug":            deal.Slug,
		"images":          nonNil(deal.Images),
		"description":     deal.Description,
		"features":        nonNil(deal.Features),
		"category":        string(deal.Category),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanDeal(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.Deal{}, fmt.Errorf("repo.DealRepo.Create: slug %q: %w", deal.Slug, domain.ErrConflict)
		}
		return domain.Deal{}, fmt.Errorf("repo.DealRepo.Create: %w", err)
	}
	return result, nil
}

// GetBySlug retrieves a deal by its unique slug.
func (r *pgDealRepo) GetBySlug(ctx context.Context, slug string) (domain.Deal, error) {
	const q = `SELECT ` + dealColumns + ` FROM deals WHERE slug = @slug`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug})
	result, err := scanDeal(row)
	if err != nil {
		return domain.Deal{}, fmt.Errorf("repo.DealRepo.GetBySlug: %w", err)
	}
	return result, nil
}

// SlugExists reports whether a deal with the given slug is already stored.
func (r *pgDealRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM deals WHERE slug = @slug)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug}).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.DealRepo.SlugExists: %w", err)
	}
	return exists, nil
}

// List returns every deal ordered by created_at descending.
func (r *pgDealRepo) List(ctx context.Context) ([]domain.Deal, error) {
	const q = `SELECT ` + dealColumns + ` FROM deals ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.DealRepo.List: %w", err)
	}
	defer rows.Close()

	deals := []domain.Deal{}
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DealRepo.List: scan: %w", err)
		}
		deals = append(deals, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DealRepo.List: rows: %w", err)
	}
	return deals, nil
}

// Search counts the deals matching f and returns the requested page of
// summaries. The count and the page share one WHERE clause.
func (r *pgDealRepo) Search(ctx context.Context, f domain.SearchFilter, p domain.PaginationParams) ([]domain.DealSummary, int64, error) {
	where, args := searchWhere(f)

	var total int64
	countQ := `SELECT count(*) FROM deals` + where
	if err := r.db.QueryRow(ctx, countQ, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.DealRepo.Search: count: %w", err)
	}

	args["limit"] = p.Limit
	args["offset"] = p.Offset()
	pageQ := `
		SELECT slug, title, destination, price, category, images
		FROM deals` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, pageQ, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.DealRepo.Search: %w", err)
	}
	defer rows.Close()

	summaries := []domain.DealSummary{}
	for rows.Next() {
		var (
			s        domain.DealSummary
			category string
		)
		if err := rows.Scan(&s.Slug, &s.Title, &s.Destination, &s.Price, &category, &s.Images); err != nil {
			return nil, 0, fmt.Errorf("repo.DealRepo.Search: scan: %w", err)
		}
		s.Category = domain.Category(category)
		s.Images = nonNil(s.Images)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.DealRepo.Search: rows: %w", err)
	}
	return summaries, total, nil
}

// searchWhere builds the WHERE clause (with a leading space, or empty) and
// the named arguments for a search filter.
//
// The road-trip guest filter compares against seats_available. The date
// filter matches deals whose trip window [date, date + days) contains the
// requested day. Departure days are compared in UTC, the zone dates are
// stored in, so the result does not depend on the session TimeZone.
func searchWhere(f domain.SearchFilter) (string, pgx.NamedArgs) {
	var conds []string
	args := pgx.NamedArgs{}

	if f.Destination != "" {
		conds = append(conds, `destination ILIKE '%' || @destination || '%'`)
		args["destination"] = escapeLike(f.Destination)
	}
	if c := f.CategoryFilter(); c != "" {
		conds = append(conds, `category = @category`)
		args["category"] = string(c)
	}
	if f.RoadTripOnly() {
		if f.Guests != nil {
			conds = append(conds, `seats_available >= @guests`)
			args["guests"] = *f.Guests
		}
		if f.Date != nil {
			conds = append(conds, `(date AT TIME ZONE 'UTC')::date <= @day::date AND (date AT TIME ZONE 'UTC')::date + days > @day::date`)
			args["day"] = f.Date.Format("2006-01-02")
		}
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// likeEscaper escapes LIKE metacharacters so user input matches literally.
// Backslash is the default LIKE escape character in Postgres.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanDeal to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanDeal maps a single database row into a domain.Deal.
// It handles the UUID and the nullable road-trip columns.
func scanDeal(s scanner) (domain.Deal, error) {
	var (
		d        domain.Deal
		id       pgtype.UUID
		date     pgtype.Timestamptz
		guests   pgtype.Int4
		seats    pgtype.Int4
		category string
	)

	err := s.Scan(&id, &d.Destination, &date, &guests, &seats, &d.Days, &d.Price,
		&d.Title, &d.Slug, &d.Images, &d.Description, &d.Features, &category, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Deal{}, domain.ErrNotFound
		}
		return domain.Deal{}, err
	}

	d.ID = uuid.UUID(id.Bytes)
	d.Category = domain.Category(category)
	d.Images = nonNil(d.Images)
	d.Features = nonNil(d.Features)
	if date.Valid {
		t := date.Time
		d.Date = &t
	}
	if guests.Valid {
		g := int(guests.Int32)
		d.Guests = &g
	}
	if seats.Valid {
		n := int(seats.Int32)
		d.SeatsAvailable = &n
	}

	return d, nil
}

// nonNil turns a nil slice into an empty one so JSON encodes [] and the
// NOT NULL array columns never receive NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
