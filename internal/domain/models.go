package domain

import "time"

// DefaultImage is stored when a listing is saved without an image.
const DefaultImage = "https://images.unsplash.com/photo-1625505826533-5c80aca7d157?auto=format&fit=crop&w=800&q=60"

// Listing is a single rental listing document.
type Listing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Price       float64   `json:"price"`
	Location    string    `json:"location"`
	Country     string    `json:"country"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListingInput holds the mutable listing fields for create and update.
type ListingInput struct {
	Title       string
	Description string
	Image       string
	Price       float64
	Location    string
	Country     string
}
