package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayhub/internal/domain/shared/daterange"
)

var (
	ErrNotFound          = errors.New("listings: listing not found")
	ErrTitleRequired     = errors.New("listings: title is required")
	ErrLocationRequired  = errors.New("listings: city and country are required")
	ErrNightlyRate       = errors.New("listings: nightly rate must be non-negative")
	ErrMaxGuests         = errors.New("listings: max guests must be at least 1")
	ErrInvalidGuestCount = errors.New("listings: guest count must be at least 1")
	ErrCapacityExceeded  = errors.New("listings: guest count exceeds listing capacity")
	ErrHasActiveBookings = errors.New("listings: listing still has non-cancelled bookings")
)

type ListingID string
type OwnerID string

// Listing is a bookable property with a flat nightly rate and a hard guest
// capacity. Descriptive fields are carried for the catalog but play no part
// in booking decisions.
type Listing struct {
	ID               ListingID
	Owner            OwnerID
	Title            string
	Description      string
	PropertyType     string
	City             string
	Country          string
	NightlyRateCents int64
	MaxGuests        int
	Bedrooms         int
	Bathrooms        int
	Amenities        []string
	ImageURL         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Version          int64
}

// SearchParams filter the public catalog. When Stay is non-zero the search
// excludes listings whose calendar conflicts with the requested range.
type SearchParams struct {
	City   string
	Guests int
	Stay   daterange.DateRange
	Limit  int
	Offset int
}

func (p SearchParams) Normalized() SearchParams {
	p.City = strings.TrimSpace(p.City)
	if p.Limit <= 0 || p.Limit > 200 {
		p.Limit = 200
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

type Repository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	Save(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id ListingID) error
	ListByOwner(ctx context.Context, owner OwnerID) ([]*Listing, error)
	Search(ctx context.Context, params SearchParams) ([]*Listing, error)
}

type CreateParams struct {
	ID               ListingID
	Owner            OwnerID
	Title            string
	Description      string
	PropertyType     string
	City             string
	Country          string
	NightlyRateCents int64
	MaxGuests        int
	Bedrooms         int
	Bathrooms        int
	Amenities        []string
	ImageURL         string
	Now              time.Time
}

func NewListing(params CreateParams) (*Listing, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("listings: id is required")
	}
	if strings.TrimSpace(string(params.Owner)) == "" {
		return nil, errors.New("listings: owner is required")
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(params.City) == "" || strings.TrimSpace(params.Country) == "" {
		return nil, ErrLocationRequired
	}
	if params.NightlyRateCents < 0 {
		return nil, ErrNightlyRate
	}
	if params.MaxGuests < 1 {
		return nil, ErrMaxGuests
	}
	now := params.Now.UTC()
	return &Listing{
		ID:               params.ID,
		Owner:            params.Owner,
		Title:            strings.TrimSpace(params.Title),
		Description:      params.Description,
		PropertyType:     params.PropertyType,
		City:             strings.TrimSpace(params.City),
		Country:          strings.TrimSpace(params.Country),
		NightlyRateCents: params.NightlyRateCents,
		MaxGuests:        params.MaxGuests,
		Bedrooms:         params.Bedrooms,
		Bathrooms:        params.Bathrooms,
		Amenities:        append([]string(nil), params.Amenities...),
		ImageURL:         params.ImageURL,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// CheckCapacity validates a requested guest count against the listing.
func (l *Listing) CheckCapacity(guests int) error {
	if guests < 1 {
		return ErrInvalidGuestCount
	}
	if guests > l.MaxGuests {
		return ErrCapacityExceeded
	}
	return nil
}

// OwnedBy is the single ownership predicate used by every owner-facing
// workflow.
func (l *Listing) OwnedBy(owner OwnerID) bool {
	return l.Owner == owner
}

// Quote prices a stay at the flat nightly rate.
func (l *Listing) Quote(stay daterange.DateRange) int64 {
	return int64(stay.Nights()) * l.NightlyRateCents
}

type UpdateParams struct {
	Title            *string
	Description      *string
	PropertyType     *string
	City             *string
	Country          *string
	NightlyRateCents *int64
	MaxGuests        *int
	Bedrooms         *int
	Bathrooms        *int
	Amenities        []string
	ImageURL         *string
}

// Apply patches the mutable fields, validating the same invariants as
// creation. Returns true when anything changed.
func (l *Listing) Apply(params UpdateParams, now time.Time) (bool, error) {
	changed := false
	if params.Title != nil {
		if strings.TrimSpace(*params.Title) == "" {
			return false, ErrTitleRequired
		}
		l.Title = strings.TrimSpace(*params.Title)
		changed = true
	}
	if params.Description != nil {
		l.Description = *params.Description
		changed = true
	}
	if params.PropertyType != nil {
		l.PropertyType = *params.PropertyType
		changed = true
	}
	if params.City != nil {
		if strings.TrimSpace(*params.City) == "" {
			return false, ErrLocationRequired
		}
		l.City = strings.TrimSpace(*params.City)
		changed = true
	}
	if params.Country != nil {
		if strings.TrimSpace(*params.Country) == "" {
			return false, ErrLocationRequired
		}
		l.Country = strings.TrimSpace(*params.Country)
		changed = true
	}
	if params.NightlyRateCents != nil {
		if *params.NightlyRateCents < 0 {
			return false, ErrNightlyRate
		}
		l.NightlyRateCents = *params.NightlyRateCents
		changed = true
	}
	if params.MaxGuests != nil {
		if *params.MaxGuests < 1 {
			return false, ErrMaxGuests
		}
		l.MaxGuests = *params.MaxGuests
		changed = true
	}
	if params.Bedrooms != nil {
		l.Bedrooms = *params.Bedrooms
		changed = true
	}
	if params.Bathrooms != nil {
		l.Bathrooms = *params.Bathrooms
		changed = true
	}
	if params.Amenities != nil {
		l.Amenities = append([]string(nil), params.Amenities...)
		changed = true
	}
	if params.ImageURL != nil {
		l.ImageURL = *params.ImageURL
		changed = true
	}
	if changed {
		l.UpdatedAt = now.UTC()
	}
	return changed, nil
}
