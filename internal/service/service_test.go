package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GolovachevS/listings-service/internal/domain"
)

func TestServiceCreateListingFillsDefaults(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var stored domain.Listing
	repo := stubRepository{
		createListingFn: func(_ context.Context, listing domain.Listing) (domain.Listing, error) {
			stored = listing
			listing.ID = "l-1"
			return listing, nil
		},
	}

	svc := New(repo)
	svc.now = func() time.Time { return fixed }

	got, err := svc.CreateListing(ctx, domain.ListingInput{Title: "  Cozy cabin ", Price: 120})
	if err != nil {
		t.Fatalf("CreateListing returned error: %v", err)
	}
	if got.ID != "l-1" {
		t.Fatalf("unexpected listing returned: %+v", got)
	}
	if stored.Title != "Cozy cabin" {
		t.Fatalf("title not trimmed: %q", stored.Title)
	}
	if stored.Image != domain.DefaultImage {
		t.Fatalf("expected default image, got %q", stored.Image)
	}
	if !stored.CreatedAt.Equal(fixed) || !stored.UpdatedAt.Equal(fixed) {
		t.Fatalf("timestamps not set from clock: %+v", stored)
	}
}

func TestServiceCreateListingValidation(t *testing.T) {
	called := false
	repo := stubRepository{
		createListingFn: func(context.Context, domain.Listing) (domain.Listing, error) {
			called = true
			return domain.Listing{}, nil
		},
	}
	svc := New(repo)

	cases := []domain.ListingInput{
		{Title: "   ", Price: 10},
		{Title: "Loft", Price: -1},
	}
	for _, input := range cases {
		_, err := svc.CreateListing(context.Background(), input)
		var appErr *domain.AppError
		if !errors.As(err, &appErr) || appErr.Code != domain.ErrCodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", input, err)
		}
	}
	if called {
		t.Fatalf("repository must not be called for invalid input")
	}
}

func TestServiceUpdateListingPassesTimestamp(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)

	var gotID string
	var gotInput domain.ListingInput
	var gotTime time.Time
	repo := stubRepository{
		updateListingFn: func(_ context.Context, id string, input domain.ListingInput, updatedAt time.Time) (domain.Listing, error) {
			gotID, gotInput, gotTime = id, input, updatedAt
			return domain.Listing{ID: id, Title: input.Title}, nil
		},
	}

	svc := New(repo)
	svc.now = func() time.Time { return fixed }

	listing, err := svc.UpdateListing(context.Background(), "l-9", domain.ListingInput{Title: "Villa", Image: " https://img/1.jpg "})
	if err != nil {
		t.Fatalf("UpdateListing returned error: %v", err)
	}
	if listing.ID != "l-9" || gotID != "l-9" {
		t.Fatalf("unexpected id propagation: %q %q", listing.ID, gotID)
	}
	if gotInput.Image != "https://img/1.jpg" {
		t.Fatalf("image not trimmed: %q", gotInput.Image)
	}
	if !gotTime.Equal(fixed) {
		t.Fatalf("updatedAt = %v, want %v", gotTime, fixed)
	}
}

func TestServiceListListingsNeverNil(t *testing.T) {
	svc := New(stubRepository{})
	listings, err := svc.ListListings(context.Background())
	if err != nil {
		t.Fatalf("ListListings returned error: %v", err)
	}
	if listings == nil {
		t.Fatalf("expected empty slice, got nil")
	}
}

func TestServiceDeletePropagatesNotFound(t *testing.T) {
	repo := stubRepository{
		deleteListingFn: func(context.Context, string) (domain.Listing, error) {
			return domain.Listing{}, domain.NewListingNotFoundError(nil)
		},
	}
	_, err := New(repo).DeleteListing(context.Background(), "missing")
	var appErr *domain.AppError
	if !errors.As(err, &appErr) || appErr.Code != domain.ErrCodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

type stubRepository struct {
	listListingsFn  func(context.Context) ([]domain.Listing, error)
	getListingFn    func(context.Context, string) (domain.Listing, error)
	createListingFn func(context.Context, domain.Listing) (domain.Listing, error)
	updateListingFn func(context.Context, string, domain.ListingInput, time.Time) (domain.Listing, error)
	deleteListingFn func(context.Context, string) (domain.Listing, error)
}

func (s stubRepository) ListListings(ctx context.Context) ([]domain.Listing, error) {
	if s.listListingsFn != nil {
		return s.listListingsFn(ctx)
	}
	return nil, nil
}

func (s stubRepository) GetListing(ctx context.Context, id string) (domain.Listing, error) {
	if s.getListingFn != nil {
		return s.getListingFn(ctx, id)
	}
	return domain.Listing{}, nil
}

func (s stubRepository) CreateListing(ctx context.Context, listing domain.Listing) (domain.Listing, error) {
	if s.createListingFn != nil {
		return s.createListingFn(ctx, listing)
	}
	return listing, nil
}

func (s stubRepository) UpdateListing(ctx context.Context, id string, input domain.ListingInput, updatedAt time.Time) (domain.Listing, error) {
	if s.updateListingFn != nil {
		return s.updateListingFn(ctx, id, input, updatedAt)
	}
	return domain.Listing{}, nil
}

func (s stubRepository) DeleteListing(ctx context.Context, id string) (domain.Listing, error) {
	if s.deleteListingFn != nil {
		return s.deleteListingFn(ctx, id)
	}
	return domain.Listing{}, nil
}
