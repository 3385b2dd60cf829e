package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/GolovachevS/listings-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const listingColumns = `id::text, title, description, image, price, location, country, created_at, updated_at`

type pgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store implements the service.Repository interface using PostgreSQL.
type Store struct {
	pool  pgxPool
	newID func() uuid.UUID
}

func New(pool pgxPool) *Store {
	return &Store{pool: pool, newID: uuid.New}
}

func (s *Store) ListListings(ctx context.Context) ([]domain.Listing, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+listingColumns+` FROM listings ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return listings, nil
}

func (s *Store) GetListing(ctx context.Context, id string) (domain.Listing, error) {
	key, err := parseID(id)
	if err != nil {
		return domain.Listing{}, err
	}

	row := s.pool.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id=$1`, key)
	return scanOne(row)
}

func (s *Store) CreateListing(ctx context.Context, listing domain.Listing) (domain.Listing, error) {
	row := s.pool.QueryRow(ctx, `INSERT INTO listings(id, title, description, image, price, location, country, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+listingColumns,
		s.newID().String(),
		listing.Title,
		listing.Description,
		listing.Image,
		listing.Price,
		listing.Location,
		listing.Country,
		listing.CreatedAt,
		listing.UpdatedAt,
	)
	return scanListing(row)
}

func (s *Store) UpdateListing(ctx context.Context, id string, input domain.ListingInput, updatedAt time.Time) (domain.Listing, error) {
	key, err := parseID(id)
	if err != nil {
		return domain.Listing{}, err
	}

	row := s.pool.QueryRow(ctx, `UPDATE listings
		SET title=$2, description=$3, image=$4, price=$5, location=$6, country=$7, updated_at=$8
		WHERE id=$1
		RETURNING `+listingColumns,
		key,
		input.Title,
		input.Description,
		input.Image,
		input.Price,
		input.Location,
		input.Country,
		updatedAt,
	)
	return scanOne(row)
}

func (s *Store) DeleteListing(ctx context.Context, id string) (domain.Listing, error) {
	key, err := parseID(id)
	if err != nil {
		return domain.Listing{}, err
	}

	row := s.pool.QueryRow(ctx, `DELETE FROM listings WHERE id=$1 RETURNING `+listingColumns, key)
	return scanOne(row)
}

// Helper functions

func parseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", domain.NewInvalidIDError(id, err)
	}
	return parsed.String(), nil
}

func scanOne(row pgx.Row) (domain.Listing, error) {
	listing, err := scanListing(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Listing{}, domain.NewListingNotFoundError(err)
		}
		return domain.Listing{}, err
	}
	return listing, nil
}

func scanListing(row pgx.Row) (domain.Listing, error) {
	var l domain.Listing
	if err := row.Scan(&l.ID, &l.Title, &l.Description, &l.Image, &l.Price, &l.Location, &l.Country, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return domain.Listing{}, err
	}
	return l, nil
}
