package service

import (
	"context"
	"strings"
	"time"

	"github.com/GolovachevS/listings-service/internal/domain"
)

// Service orchestrates listing use cases.
type Service struct {
	repo Repository
	now  func() time.Time
}

// Repository defines required storage methods to satisfy listing flows.
type Repository interface {
	ListListings(ctx context.Context) ([]domain.Listing, error)
	GetListing(ctx context.Context, id string) (domain.Listing, error)
	CreateListing(ctx context.Context, listing domain.Listing) (domain.Listing, error)
	UpdateListing(ctx context.Context, id string, input domain.ListingInput, updatedAt time.Time) (domain.Listing, error)
	DeleteListing(ctx context.Context, id string) (domain.Listing, error)
}

// New returns a configured service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) ListListings(ctx context.Context) ([]domain.Listing, error) {
	listings, err := s.repo.ListListings(ctx)
	if err != nil {
		return nil, err
	}
	if listings == nil {
		listings = []domain.Listing{}
	}
	return listings, nil
}

func (s *Service) GetListing(ctx context.Context, id string) (domain.Listing, error) {
	return s.repo.GetListing(ctx, id)
}

func (s *Service) CreateListing(ctx context.Context, input domain.ListingInput) (domain.Listing, error) {
	input, err := normalize(input)
	if err != nil {
		return domain.Listing{}, err
	}

	now := s.now()
	return s.repo.CreateListing(ctx, domain.Listing{
		Title:       input.Title,
		Description: input.Description,
		Image:       input.Image,
		Price:       input.Price,
		Location:    input.Location,
		Country:     input.Country,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// UpdateListing replaces every mutable field of the listing.
func (s *Service) UpdateListing(ctx context.Context, id string, input domain.ListingInput) (domain.Listing, error) {
	input, err := normalize(input)
	if err != nil {
		return domain.Listing{}, err
	}
	return s.repo.UpdateListing(ctx, id, input, s.now())
}

func (s *Service) DeleteListing(ctx context.Context, id string) (domain.Listing, error) {
	return s.repo.DeleteListing(ctx, id)
}

func normalize(input domain.ListingInput) (domain.ListingInput, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Image = strings.TrimSpace(input.Image)
	input.Location = strings.TrimSpace(input.Location)
	input.Country = strings.TrimSpace(input.Country)

	if input.Title == "" {
		return domain.ListingInput{}, domain.NewValidationError("title is required")
	}
	if input.Price < 0 {
		return domain.ListingInput{}, domain.NewValidationError("price must not be negative")
	}
	if input.Image == "" {
		input.Image = domain.DefaultImage
	}
	return input, nil
}
