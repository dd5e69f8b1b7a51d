// Package postgres implements the listing.Repository contract on pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobboard/listing-engine/internal/listing"
)

// listingColumns is the joined projection shared by every listing read.
// Ordering mirrors listing.Less: premium owners first, then most recently
// boosted (never-boosted last), then newest.
const (
	listingColumns = `l.id, l.title, l.description, l.salary, l.phone,
		l.owner_id, COALESCE(u.id::text, ''), COALESCE(u.premium, false), COALESCE(u.premium_deluxe, false),
		l.location_id, l.category_id, l.shuttle, l.meals,
		l.image_url, l.boosted_at, l.created_at`

	listingOrder = `ORDER BY (u.premium OR u.premium_deluxe) DESC,
		l.boosted_at DESC NULLS LAST,
		l.created_at DESC`
)

// Repository is the pgx-backed relational adapter.
type Repository struct {
	pool *pgxpool.Pool
}

// New returns a Repository using the given connection pool.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ listing.Repository = (*Repository)(nil)

// filterClause builds the WHERE clause for the relational filter fields.
// The salary bound is not part of it: salary is free text and filtered in
// memory by the engine.
func filterClause(f listing.Filter, args []any) (string, []any) {
	var conds []string
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}

	if f.CategoryID != "" {
		add("l.category_id = ?", f.CategoryID)
	}
	if f.LocationID != "" {
		add("l.location_id = ?", f.LocationID)
	}
	if f.Shuttle != nil {
		add("l.shuttle = ?", *f.Shuttle)
	}
	if f.Meals != nil {
		add("l.meals = ?", *f.Meals)
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func scanListing(row pgx.Row) (*listing.Listing, error) {
	var l listing.Listing
	err := row.Scan(
		&l.ID, &l.Title, &l.Description, &l.Salary, &l.Phone,
		&l.OwnerID, &l.Owner.ID, &l.Owner.Premium, &l.Owner.PremiumDeluxe,
		&l.LocationID, &l.CategoryID, &l.Shuttle, &l.Meals,
		&l.ImageURL, &l.BoostedAt, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// CountListings counts listings matching the relational filter fields.
func (r *Repository) CountListings(ctx context.Context, f listing.Filter) (int, error) {
	where, args := filterClause(f, nil)
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM listings l JOIN users u ON u.id = l.owner_id `+where,
		args...,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("countListings query: %w", err)
	}
	return count, nil
}

// FindListings returns one ranked window of matching listings.
func (r *Repository) FindListings(ctx context.Context, f listing.Filter, skip, take int) ([]listing.Listing, error) {
	where, args := filterClause(f, nil)
	args = append(args, take, skip)
	query := fmt.Sprintf(
		`SELECT %s FROM listings l JOIN users u ON u.id = l.owner_id %s %s LIMIT $%d OFFSET $%d`,
		listingColumns, where, listingOrder, len(args)-1, len(args),
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("findListings query: %w", err)
	}
	defer rows.Close()

	items := make([]listing.Listing, 0, take)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("findListings scan: %w", err)
		}
		items = append(items, *l)
	}
	return items, rows.Err()
}

// FindListingByID returns a single listing with owner flags embedded.
func (r *Repository) FindListingByID(ctx context.Context, id string) (*listing.Listing, error) {
	l, err := scanListing(r.pool.QueryRow(ctx,
		`SELECT `+listingColumns+` FROM listings l
		 LEFT JOIN users u ON u.id = l.owner_id
		 WHERE l.id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, listing.ErrNotFound
		}
		return nil, fmt.Errorf("findListingByID query: %w", err)
	}
	return l, nil
}

// UpdateListingBoostedAt persists a new boost timestamp.
func (r *Repository) UpdateListingBoostedAt(ctx context.Context, id string, boostedAt time.Time) (*listing.Listing, error) {
	l, err := scanListing(r.pool.QueryRow(ctx,
		`WITH upd AS (
		   UPDATE listings SET boosted_at = $1 WHERE id = $2
		   RETURNING *
		 )
		 SELECT `+strings.ReplaceAll(listingColumns, "l.", "upd.")+`
		 FROM upd JOIN users u ON u.id = upd.owner_id`,
		boostedAt, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, listing.ErrNotFound
		}
		return nil, fmt.Errorf("updateListingBoostedAt: %w", err)
	}
	return l, nil
}

// FindListingsByOwner returns the duplicate-detection projection.
func (r *Repository) FindListingsByOwner(ctx context.Context, ownerID string) ([]listing.TitleDescription, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT title, description FROM listings WHERE owner_id = $1`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("findListingsByOwner query: %w", err)
	}
	defer rows.Close()

	var items []listing.TitleDescription
	for rows.Next() {
		var td listing.TitleDescription
		if err := rows.Scan(&td.Title, &td.Description); err != nil {
			return nil, fmt.Errorf("findListingsByOwner scan: %w", err)
		}
		items = append(items, td)
	}
	return items, rows.Err()
}

// CountListingsByOwner counts an owner's listings.
func (r *Repository) CountListingsByOwner(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM listings WHERE owner_id = $1`,
		ownerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("countListingsByOwner query: %w", err)
	}
	return count, nil
}

// InsertListing persists a new listing and returns it with owner flags.
func (r *Repository) InsertListing(ctx context.Context, n listing.NewListing) (*listing.Listing, error) {
	l, err := scanListing(r.pool.QueryRow(ctx,
		`WITH ins AS (
		   INSERT INTO listings
		     (id, title, description, salary, phone, owner_id,
		      location_id, category_id, shuttle, meals, image_url, created_at)
		   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		   RETURNING *
		 )
		 SELECT `+strings.ReplaceAll(listingColumns, "l.", "ins.")+`
		 FROM ins JOIN users u ON u.id = ins.owner_id`,
		uuid.NewString(), n.Title, n.Description, n.Salary, n.Phone, n.OwnerID,
		n.LocationID, n.CategoryID, n.Shuttle, n.Meals, n.ImageURL,
	))
	if err != nil {
		return nil, fmt.Errorf("insertListing: %w", err)
	}
	return l, nil
}

// UpdateListing replaces the caller-editable fields of an owned listing.
func (r *Repository) UpdateListing(ctx context.Context, id, ownerID string, n listing.NewListing) (*listing.Listing, error) {
	l, err := scanListing(r.pool.QueryRow(ctx,
		`WITH upd AS (
		   UPDATE listings
		   SET title = $1, description = $2, salary = $3, phone = $4,
		       location_id = $5, category_id = $6, shuttle = $7, meals = $8,
		       image_url = $9
		   WHERE id = $10 AND owner_id = $11
		   RETURNING *
		 )
		 SELECT `+strings.ReplaceAll(listingColumns, "l.", "upd.")+`
		 FROM upd JOIN users u ON u.id = upd.owner_id`,
		n.Title, n.Description, n.Salary, n.Phone,
		n.LocationID, n.CategoryID, n.Shuttle, n.Meals, n.ImageURL,
		id, ownerID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, listing.ErrNotFound
		}
		return nil, fmt.Errorf("updateListing: %w", err)
	}
	return l, nil
}

// DeleteListing removes an owned listing.
func (r *Repository) DeleteListing(ctx context.Context, id, ownerID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM listings WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("deleteListing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return listing.ErrNotFound
	}
	return nil
}
