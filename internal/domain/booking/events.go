package booking

import (
	"encoding/json"
	"time"

	"stayhub/internal/domain/listings"
	"stayhub/internal/domain/shared/daterange"
)

// Created is published when the request workflow persists a pending booking.
// The JSON shape is consumed by traveler read models and owner notification
// services; fields are additive-only.
type Created struct {
	BookingID       BookingID
	Traveler        TravelerID
	Owner           listings.OwnerID
	ListingID       listings.ListingID
	Stay            daterange.DateRange
	Guests          int
	TotalPriceCents int64
	At              time.Time
}

func (e Created) EventName() string     { return "booking.created" }
func (e Created) AggregateID() string   { return string(e.BookingID) }
func (e Created) OccurredAt() time.Time { return e.At }

func (e Created) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		BookingID  BookingID          `json:"bookingId"`
		Traveler   TravelerID         `json:"travelerId"`
		Owner      listings.OwnerID   `json:"ownerId"`
		ListingID  listings.ListingID `json:"propertyId"`
		Status     Status             `json:"status"`
		TotalPrice int64              `json:"totalPrice"`
		CheckIn    string             `json:"checkIn"`
		CheckOut   string             `json:"checkOut"`
		Guests     int                `json:"guests"`
		CreatedAt  time.Time          `json:"createdAt"`
	}{
		BookingID:  e.BookingID,
		Traveler:   e.Traveler,
		Owner:      e.Owner,
		ListingID:  e.ListingID,
		Status:     StatusPending,
		TotalPrice: e.TotalPriceCents,
		CheckIn:    e.Stay.Start.Format("2006-01-02"),
		CheckOut:   e.Stay.End.Format("2006-01-02"),
		Guests:     e.Guests,
		CreatedAt:  e.At,
	})
}

// StatusChanged is published after every owner decision.
type StatusChanged struct {
	BookingID BookingID        `json:"bookingId"`
	Owner     listings.OwnerID `json:"ownerId"`
	Status    Status           `json:"status"`
	At        time.Time        `json:"updatedAt"`
}

func (e StatusChanged) EventName() string     { return "booking.status" }
func (e StatusChanged) AggregateID() string   { return string(e.BookingID) }
func (e StatusChanged) OccurredAt() time.Time { return e.At }
