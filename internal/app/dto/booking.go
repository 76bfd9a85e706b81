package dto

import (
	"time"

	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
)

type BookingListingSnapshot struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type TravelerBookingSummary struct {
	ID              string                 `json:"id"`
	Listing         BookingListingSnapshot `json:"listing"`
	CheckIn         time.Time              `json:"check_in"`
	CheckOut        time.Time              `json:"check_out"`
	Nights          int                    `json:"nights"`
	Guests          int                    `json:"guests"`
	TotalPriceCents int64                  `json:"total_price_cents"`
	Status          string                 `json:"status"`
	CreatedAt       time.Time              `json:"created_at"`
}

type TravelerBookingCollection struct {
	Items []TravelerBookingSummary `json:"items"`
}

type OwnerBookingSummary struct {
	ID              string                 `json:"id"`
	Listing         BookingListingSnapshot `json:"listing"`
	TravelerID      string                 `json:"traveler_id"`
	CheckIn         time.Time              `json:"check_in"`
	CheckOut        time.Time              `json:"check_out"`
	Nights          int                    `json:"nights"`
	Guests          int                    `json:"guests"`
	TotalPriceCents int64                  `json:"total_price_cents"`
	Status          string                 `json:"status"`
	CreatedAt       time.Time              `json:"created_at"`
}

type OwnerBookingCollection struct {
	Items []OwnerBookingSummary `json:"items"`
}

func mapListingSnapshot(id domainlistings.ListingID, listing *domainlistings.Listing) BookingListingSnapshot {
	snapshot := BookingListingSnapshot{ID: string(id)}
	if listing != nil {
		snapshot.Title = listing.Title
		snapshot.City = listing.City
		snapshot.Country = listing.Country
	}
	return snapshot
}

func MapTravelerBookingSummary(booking *domainbooking.Booking, listing *domainlistings.Listing) TravelerBookingSummary {
	return TravelerBookingSummary{
		ID:              string(booking.ID),
		Listing:         mapListingSnapshot(booking.ListingID, listing),
		CheckIn:         booking.Stay.Start,
		CheckOut:        booking.Stay.End,
		Nights:          booking.Nights(),
		Guests:          booking.Guests,
		TotalPriceCents: booking.TotalPriceCents,
		Status:          booking.Status.String(),
		CreatedAt:       booking.CreatedAt,
	}
}

func MapOwnerBookingSummary(booking *domainbooking.Booking, listing *domainlistings.Listing) OwnerBookingSummary {
	return OwnerBookingSummary{
		ID:              string(booking.ID),
		Listing:         mapListingSnapshot(booking.ListingID, listing),
		TravelerID:      string(booking.Traveler),
		CheckIn:         booking.Stay.Start,
		CheckOut:        booking.Stay.End,
		Nights:          booking.Nights(),
		Guests:          booking.Guests,
		TotalPriceCents: booking.TotalPriceCents,
		Status:          booking.Status.String(),
		CreatedAt:       booking.CreatedAt,
	}
}
