package booking

import (
	"context"
	"errors"
	"time"

	"stayhub/internal/domain/listings"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/events"
)

var (
	ErrNotFound          = errors.New("booking: booking not found")
	ErrInvalidTransition = errors.New("booking: invalid state transition")
	ErrTravelerRequired  = errors.New("booking: traveler id is required")
)

type BookingID string
type TravelerID string

// Booking is the authoritative ledger record for one stay request. Only the
// decision workflow mutates Status; accepted bookings on a listing are kept
// pairwise non-overlapping by the workflows, not by this type.
type Booking struct {
	ID              BookingID
	ListingID       listings.ListingID
	Traveler        TravelerID
	Stay            daterange.DateRange
	Guests          int
	TotalPriceCents int64
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	ListByTraveler(ctx context.Context, traveler TravelerID) ([]*Booking, error)
	ListByListing(ctx context.Context, listingID listings.ListingID) ([]*Booking, error)
	// HasAcceptedOverlap reports whether any accepted booking for the listing
	// overlaps the range. exclude is skipped when non-empty.
	HasAcceptedOverlap(ctx context.Context, listingID listings.ListingID, r daterange.DateRange, exclude BookingID) (bool, error)
	// HasNonCancelled reports whether the listing still has bookings in any
	// state other than cancelled or rejected.
	HasNonCancelled(ctx context.Context, listingID listings.ListingID) (bool, error)
}

type CreateParams struct {
	ID              BookingID
	ListingID       listings.ListingID
	Traveler        TravelerID
	Owner           listings.OwnerID
	Stay            daterange.DateRange
	Guests          int
	TotalPriceCents int64
	CreatedAt       time.Time
}

// NewBooking builds a pending booking. Conflict checks are the request
// workflow's responsibility and happen before this constructor runs.
func NewBooking(params CreateParams) (*Booking, error) {
	if params.Traveler == "" {
		return nil, ErrTravelerRequired
	}
	if params.Guests < 1 {
		return nil, listings.ErrInvalidGuestCount
	}
	if params.Stay.IsZero() {
		return nil, daterange.ErrInvalidRange
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:              params.ID,
		ListingID:       params.ListingID,
		Traveler:        params.Traveler,
		Stay:            params.Stay,
		Guests:          params.Guests,
		TotalPriceCents: params.TotalPriceCents,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	b.Record(Created{
		BookingID:       b.ID,
		Traveler:        b.Traveler,
		Owner:           params.Owner,
		ListingID:       b.ListingID,
		Stay:            b.Stay,
		Guests:          b.Guests,
		TotalPriceCents: b.TotalPriceCents,
		At:              now,
	})
	return b, nil
}

// TransitionTo applies a status change according to the transition table and
// records the status event. Callers handle idempotent repeats of a terminal
// status before invoking this.
func (b *Booking) TransitionTo(target Status, owner listings.OwnerID, now time.Time) error {
	if !b.Status.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	b.Status = target
	b.UpdatedAt = now.UTC()
	b.Record(StatusChanged{
		BookingID: b.ID,
		Owner:     owner,
		Status:    target,
		At:        b.UpdatedAt,
	})
	return nil
}

// Nights is the whole-day length of the stay.
func (b *Booking) Nights() int {
	return b.Stay.Nights()
}
