package listings_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	listingapp "stayhub/internal/app/handlers/listings"
	domainblackout "stayhub/internal/domain/blackout"
	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
	domainrange "stayhub/internal/domain/shared/daterange"
	"stayhub/internal/infra/storage/memory"
)

func seedListing(t *testing.T, factory memory.Factory, id, owner, city string, maxGuests int, createdAt time.Time) {
	t.Helper()
	l, err := domainlistings.NewListing(domainlistings.CreateParams{
		ID:               domainlistings.ListingID(id),
		Owner:            domainlistings.OwnerID(owner),
		Title:            "Listing " + id,
		City:             city,
		Country:          "XX",
		NightlyRateCents: 10000,
		MaxGuests:        maxGuests,
		Now:              createdAt,
	})
	require.NoError(t, err)
	require.NoError(t, factory.ListingsRepo.Save(context.Background(), l))
}

func seedAcceptedBooking(t *testing.T, factory memory.Factory, id, listing, checkIn, checkOut string) {
	t.Helper()
	stay, err := domainrange.Parse(checkIn, checkOut)
	require.NoError(t, err)
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:        domainbooking.BookingID(id),
		ListingID: domainlistings.ListingID(listing),
		Traveler:  "traveler-1",
		Owner:     "owner-1",
		Stay:      stay,
		Guests:    2,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, b.TransitionTo(domainbooking.StatusAccepted, "owner-1", time.Now()))
	require.NoError(t, factory.BookingsRepo.Save(context.Background(), b))
}

func TestSearchCatalogFiltersByCityAndGuests(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewFactory()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seedListing(t, factory, "ls-a", "owner-1", "Lisbon", 2, base)
	seedListing(t, factory, "ls-b", "owner-1", "Lisbon", 6, base.Add(time.Hour))
	seedListing(t, factory, "ls-c", "owner-2", "Porto", 4, base.Add(2*time.Hour))

	h := &listingapp.SearchCatalogHandler{UoWFactory: factory}

	catalog, err := h.Handle(ctx, listingapp.SearchCatalogQuery{City: "lisbon"})
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Total)

	catalog, err = h.Handle(ctx, listingapp.SearchCatalogQuery{City: "Lisbon", Guests: 4})
	require.NoError(t, err)
	require.Equal(t, 1, catalog.Total)
	assert.Equal(t, "ls-b", catalog.Items[0].ID)
}

func TestSearchCatalogExcludesUnavailableListings(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewFactory()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seedListing(t, factory, "ls-booked", "owner-1", "Lisbon", 4, base)
	seedListing(t, factory, "ls-blacked", "owner-1", "Lisbon", 4, base.Add(time.Hour))
	seedListing(t, factory, "ls-free", "owner-1", "Lisbon", 4, base.Add(2*time.Hour))

	seedAcceptedBooking(t, factory, "bk-1", "ls-booked", "2026-09-10", "2026-09-14")
	start, err := domainrange.ParseDate("2026-09-11")
	require.NoError(t, err)
	end, err := domainrange.ParseDate("2026-09-13")
	require.NoError(t, err)
	window, err := domainblackout.New("bo-1", "ls-blacked", start, end, time.Now())
	require.NoError(t, err)
	require.NoError(t, factory.BlackoutsRepo.Save(ctx, window))

	h := &listingapp.SearchCatalogHandler{UoWFactory: factory}

	catalog, err := h.Handle(ctx, listingapp.SearchCatalogQuery{
		City:     "Lisbon",
		CheckIn:  "2026-09-12",
		CheckOut: "2026-09-15",
	})
	require.NoError(t, err)
	require.Equal(t, 1, catalog.Total)
	assert.Equal(t, "ls-free", catalog.Items[0].ID)

	// Without dates the calendar is not consulted.
	catalog, err = h.Handle(ctx, listingapp.SearchCatalogQuery{City: "Lisbon"})
	require.NoError(t, err)
	assert.Equal(t, 3, catalog.Total)
}

func TestSearchCatalogPaginatesAfterAvailabilityFilter(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewFactory()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seedListing(t, factory, "ls-booked", "owner-1", "Lisbon", 4, base)
	seedListing(t, factory, "ls-free-1", "owner-1", "Lisbon", 4, base.Add(time.Hour))
	seedListing(t, factory, "ls-free-2", "owner-1", "Lisbon", 4, base.Add(2*time.Hour))

	seedAcceptedBooking(t, factory, "bk-1", "ls-booked", "2026-09-10", "2026-09-14")

	h := &listingapp.SearchCatalogHandler{UoWFactory: factory}

	// A page of one must fill from available listings past the booked one,
	// and Total counts every available listing, not just the page.
	page, err := h.Handle(ctx, listingapp.SearchCatalogQuery{
		City:     "Lisbon",
		CheckIn:  "2026-09-11",
		CheckOut: "2026-09-13",
		Limit:    1,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "ls-free-1", page.Items[0].ID)
	assert.Equal(t, 2, page.Total)

	page, err = h.Handle(ctx, listingapp.SearchCatalogQuery{
		City:     "Lisbon",
		CheckIn:  "2026-09-11",
		CheckOut: "2026-09-13",
		Limit:    1,
		Offset:   1,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "ls-free-2", page.Items[0].ID)
	assert.Equal(t, 2, page.Total)

	// Past the last available listing the page is empty but Total holds.
	page, err = h.Handle(ctx, listingapp.SearchCatalogQuery{
		City:     "Lisbon",
		CheckIn:  "2026-09-11",
		CheckOut: "2026-09-13",
		Limit:    1,
		Offset:   2,
	})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 2, page.Total)
}

func TestSearchCatalogRejectsBadDates(t *testing.T) {
	factory := memory.NewFactory()
	h := &listingapp.SearchCatalogHandler{UoWFactory: factory}

	_, err := h.Handle(context.Background(), listingapp.SearchCatalogQuery{
		CheckIn:  "2026-09-14",
		CheckOut: "2026-09-10",
	})
	assert.ErrorIs(t, err, domainrange.ErrInvalidRange)

	_, err = h.Handle(context.Background(), listingapp.SearchCatalogQuery{CheckIn: "2026-09-10"})
	assert.ErrorIs(t, err, domainrange.ErrInvalidRange, "one-sided windows are rejected")
}

func TestGetListing(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewFactory()
	seedListing(t, factory, "ls-a", "owner-1", "Lisbon", 4, time.Now())

	h := &listingapp.GetListingHandler{UoWFactory: factory}
	detail, err := h.Handle(ctx, listingapp.GetListingQuery{ListingID: "ls-a"})
	require.NoError(t, err)
	assert.Equal(t, "ls-a", detail.ID)
	assert.Equal(t, "Lisbon", detail.City)

	_, err = h.Handle(ctx, listingapp.GetListingQuery{ListingID: "ls-missing"})
	assert.ErrorIs(t, err, domainlistings.ErrNotFound)
}

func TestListOwnerListings(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewFactory()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seedListing(t, factory, "ls-a", "owner-1", "Lisbon", 4, base)
	seedListing(t, factory, "ls-b", "owner-2", "Porto", 4, base.Add(time.Hour))

	h := &listingapp.ListOwnerListingsHandler{UoWFactory: factory}
	catalog, err := h.Handle(ctx, listingapp.ListOwnerListingsQuery{OwnerID: "owner-1"})
	require.NoError(t, err)
	require.Equal(t, 1, catalog.Total)
	assert.Equal(t, "ls-a", catalog.Items[0].ID)

	_, err = h.Handle(ctx, listingapp.ListOwnerListingsQuery{OwnerID: "  "})
	assert.Error(t, err)
}
