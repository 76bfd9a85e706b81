package blackout

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayhub/internal/domain/listings"
	"stayhub/internal/domain/shared/daterange"
)

var ErrNotFound = errors.New("blackout: blackout not found")

type BlackoutID string

// Blackout is an owner-declared window during which a listing cannot be
// booked, regardless of booking state. The window may be empty (start == end);
// an empty window overlaps nothing under the half-open predicate and is kept
// as a valid boundary case.
type Blackout struct {
	ID        BlackoutID
	ListingID listings.ListingID
	Window    daterange.DateRange
	CreatedAt time.Time
}

type Repository interface {
	ByID(ctx context.Context, id BlackoutID) (*Blackout, error)
	Save(ctx context.Context, b *Blackout) error
	Remove(ctx context.Context, id BlackoutID) error
	ListByListing(ctx context.Context, listingID listings.ListingID) ([]*Blackout, error)
	// HasOverlap reports whether any blackout for the listing overlaps the
	// half-open range.
	HasOverlap(ctx context.Context, listingID listings.ListingID, r daterange.DateRange) (bool, error)
}

// New validates and builds a blackout. Unlike bookings, only an inverted
// window is rejected.
func New(id BlackoutID, listingID listings.ListingID, start, end time.Time, now time.Time) (*Blackout, error) {
	if strings.TrimSpace(string(id)) == "" {
		return nil, errors.New("blackout: id is required")
	}
	if strings.TrimSpace(string(listingID)) == "" {
		return nil, errors.New("blackout: listing id is required")
	}
	window, err := daterange.NewWindow(start, end)
	if err != nil {
		return nil, err
	}
	return &Blackout{
		ID:        id,
		ListingID: listingID,
		Window:    window,
		CreatedAt: now.UTC(),
	}, nil
}
