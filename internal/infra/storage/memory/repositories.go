package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"stayhub/internal/app/projection"
	domainblackout "stayhub/internal/domain/blackout"
	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
	domainrange "stayhub/internal/domain/shared/daterange"
)

// ListingRepository is a mutex-guarded in-memory listings store used in tests
// and memory storage mode.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlistings.ListingID]domainlistings.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{items: make(map[domainlistings.ListingID]domainlistings.Listing)}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, domainlistings.ErrNotFound
	}
	clone := item
	clone.Amenities = append([]string(nil), item.Amenities...)
	return &clone, nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *listing
	clone.Amenities = append([]string(nil), listing.Amenities...)
	clone.Version++
	r.items[listing.ID] = clone
	listing.Version = clone.Version
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlistings.ListingID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainlistings.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *ListingRepository) ListByOwner(ctx context.Context, owner domainlistings.OwnerID) ([]*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainlistings.Listing, 0)
	for _, item := range r.items {
		if item.Owner != owner {
			continue
		}
		clone := item
		out = append(out, &clone)
	}
	sortListings(out)
	return out, nil
}

func (r *ListingRepository) Search(ctx context.Context, params domainlistings.SearchParams) ([]*domainlistings.Listing, error) {
	params = params.Normalized()
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := make([]*domainlistings.Listing, 0)
	for _, item := range r.items {
		if params.City != "" && !strings.EqualFold(item.City, params.City) {
			continue
		}
		if params.Guests > 0 && params.Guests > item.MaxGuests {
			continue
		}
		clone := item
		matched = append(matched, &clone)
	}
	sortListings(matched)
	if params.Offset >= len(matched) {
		return []*domainlistings.Listing{}, nil
	}
	matched = matched[params.Offset:]
	if len(matched) > params.Limit {
		matched = matched[:params.Limit]
	}
	return matched, nil
}

func sortListings(items []*domainlistings.Listing) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}

// BlackoutRepository stores owner blackout windows.
type BlackoutRepository struct {
	mu    sync.RWMutex
	items map[domainblackout.BlackoutID]domainblackout.Blackout
}

func NewBlackoutRepository() *BlackoutRepository {
	return &BlackoutRepository{items: make(map[domainblackout.BlackoutID]domainblackout.Blackout)}
}

func (r *BlackoutRepository) ByID(ctx context.Context, id domainblackout.BlackoutID) (*domainblackout.Blackout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, domainblackout.ErrNotFound
	}
	clone := item
	return &clone, nil
}

func (r *BlackoutRepository) Save(ctx context.Context, b *domainblackout.Blackout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[b.ID] = *b
	return nil
}

func (r *BlackoutRepository) Remove(ctx context.Context, id domainblackout.BlackoutID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainblackout.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *BlackoutRepository) ListByListing(ctx context.Context, listingID domainlistings.ListingID) ([]*domainblackout.Blackout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainblackout.Blackout, 0)
	for _, item := range r.items {
		if item.ListingID != listingID {
			continue
		}
		clone := item
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Window.Start.Before(out[j].Window.Start) })
	return out, nil
}

func (r *BlackoutRepository) HasOverlap(ctx context.Context, listingID domainlistings.ListingID, rng domainrange.DateRange) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.ListingID == listingID && item.Window.Overlaps(rng) {
			return true, nil
		}
	}
	return false, nil
}

// BookingRepository stores the booking ledger.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	clone := item
	return &clone, nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *b
	clone.ClearEvents()
	clone.Version++
	r.items[b.ID] = clone
	b.Version = clone.Version
	return nil
}

func (r *BookingRepository) ListByTraveler(ctx context.Context, traveler domainbooking.TravelerID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0)
	for _, item := range r.items {
		if item.Traveler != traveler {
			continue
		}
		clone := item
		out = append(out, &clone)
	}
	sortBookings(out)
	return out, nil
}

func (r *BookingRepository) ListByListing(ctx context.Context, listingID domainlistings.ListingID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0)
	for _, item := range r.items {
		if item.ListingID != listingID {
			continue
		}
		clone := item
		out = append(out, &clone)
	}
	sortBookings(out)
	return out, nil
}

func (r *BookingRepository) HasAcceptedOverlap(ctx context.Context, listingID domainlistings.ListingID, rng domainrange.DateRange, exclude domainbooking.BookingID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.ListingID != listingID || item.ID == exclude {
			continue
		}
		if item.Status == domainbooking.StatusAccepted && item.Stay.Overlaps(rng) {
			return true, nil
		}
	}
	return false, nil
}

func (r *BookingRepository) HasNonCancelled(ctx context.Context, listingID domainlistings.ListingID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.ListingID != listingID {
			continue
		}
		if item.Status == domainbooking.StatusPending || item.Status == domainbooking.StatusAccepted {
			return true, nil
		}
	}
	return false, nil
}

func sortBookings(items []*domainbooking.Booking) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}

// TripStore mirrors bookings for traveler-side reads in memory mode.
type TripStore struct {
	mu    sync.RWMutex
	items map[string]projection.TripView
}

func NewTripStore() *TripStore {
	return &TripStore{items: make(map[string]projection.TripView)}
}

func (s *TripStore) Get(ctx context.Context, bookingID string) (*projection.TripView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[bookingID]
	if !ok {
		return nil, projection.ErrNotFound
	}
	clone := item
	return &clone, nil
}

func (s *TripStore) Upsert(ctx context.Context, view *projection.TripView) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[view.BookingID] = *view
	return nil
}

func (s *TripStore) ListByTraveler(ctx context.Context, travelerID string) ([]*projection.TripView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*projection.TripView, 0)
	for _, item := range s.items {
		if item.TravelerID != travelerID {
			continue
		}
		clone := item
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingID < out[j].BookingID })
	return out, nil
}

var (
	_ domainlistings.Repository = (*ListingRepository)(nil)
	_ domainblackout.Repository = (*BlackoutRepository)(nil)
	_ domainbooking.Repository  = (*BookingRepository)(nil)
	_ projection.Store          = (*TripStore)(nil)
)
