package dto

import (
	"time"

	domainlistings "stayhub/internal/domain/listings"
)

type ListingDetail struct {
	ID               string   `json:"id"`
	OwnerID          string   `json:"owner_id"`
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	City             string   `json:"city"`
	Country          string   `json:"country"`
	NightlyRateCents int64    `json:"nightly_rate_cents"`
	MaxGuests        int      `json:"max_guests"`
	Bedrooms         int      `json:"bedrooms,omitempty"`
	Bathrooms        int      `json:"bathrooms,omitempty"`
	Amenities        []string `json:"amenities,omitempty"`
	ImageURL         string   `json:"image_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListingCatalog struct {
	Items []ListingDetail `json:"items"`
	Total int             `json:"total"`
}

func MapListingDetail(listing *domainlistings.Listing) ListingDetail {
	return ListingDetail{
		ID:               string(listing.ID),
		OwnerID:          string(listing.Owner),
		Title:            listing.Title,
		Description:      listing.Description,
		City:             listing.City,
		Country:          listing.Country,
		NightlyRateCents: listing.NightlyRateCents,
		MaxGuests:        listing.MaxGuests,
		Bedrooms:         listing.Bedrooms,
		Bathrooms:        listing.Bathrooms,
		Amenities:        listing.Amenities,
		ImageURL:         listing.ImageURL,
		CreatedAt:        listing.CreatedAt,
		UpdatedAt:        listing.UpdatedAt,
	}
}
