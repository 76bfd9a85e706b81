package booking_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingapp "stayhub/internal/app/handlers/booking"
	domainbooking "stayhub/internal/domain/booking"
)

func TestListOwnerBookingsAcrossListings(t *testing.T) {
	e := newEnv(t)
	e.seedListing(t, "ls-1", "owner-1", 4, 12000)
	e.seedListing(t, "ls-2", "owner-1", 4, 15000)
	e.seedListing(t, "ls-other", "owner-2", 4, 9000)

	_, err := e.request("bk-1", "ls-1", "traveler-1", "2026-09-10", "2026-09-14", 2)
	require.NoError(t, err)
	_, err = e.request("bk-2", "ls-2", "traveler-2", "2026-10-01", "2026-10-05", 2)
	require.NoError(t, err)
	_, err = e.request("bk-foreign", "ls-other", "traveler-3", "2026-10-01", "2026-10-05", 2)
	require.NoError(t, err)
	_, err = e.accept("bk-1", "owner-1")
	require.NoError(t, err)

	h := &bookingapp.ListOwnerBookingsHandler{UoWFactory: e.factory}

	all, err := h.Handle(context.Background(), bookingapp.ListOwnerBookingsQuery{OwnerID: "owner-1", Status: bookingapp.StatusFilterAll})
	require.NoError(t, err)
	require.Len(t, all.Items, 2, "only the caller's listings are consulted")

	accepted, err := h.Handle(context.Background(), bookingapp.ListOwnerBookingsQuery{OwnerID: "owner-1", Status: "accepted"})
	require.NoError(t, err)
	require.Len(t, accepted.Items, 1)
	assert.Equal(t, "bk-1", accepted.Items[0].ID)
	assert.Equal(t, "traveler-1", accepted.Items[0].TravelerID)
	assert.Equal(t, "Listing ls-1", accepted.Items[0].Listing.Title)

	pending, err := h.Handle(context.Background(), bookingapp.ListOwnerBookingsQuery{OwnerID: "owner-1", Status: "pending"})
	require.NoError(t, err)
	require.Len(t, pending.Items, 1)
	assert.Equal(t, "bk-2", pending.Items[0].ID)
}

func TestListOwnerBookingsDefaultsToPending(t *testing.T) {
	e := newEnv(t)
	e.seedListing(t, "ls-1", "owner-1", 4, 12000)

	_, err := e.request("bk-1", "ls-1", "traveler-1", "2026-09-10", "2026-09-14", 2)
	require.NoError(t, err)
	_, err = e.request("bk-2", "ls-1", "traveler-2", "2026-10-01", "2026-10-05", 2)
	require.NoError(t, err)
	_, err = e.accept("bk-1", "owner-1")
	require.NoError(t, err)

	h := &bookingapp.ListOwnerBookingsHandler{UoWFactory: e.factory}

	inbox, err := h.Handle(context.Background(), bookingapp.ListOwnerBookingsQuery{OwnerID: "owner-1"})
	require.NoError(t, err)
	require.Len(t, inbox.Items, 1, "no status means pending requests only")
	assert.Equal(t, "bk-2", inbox.Items[0].ID)

	everything, err := h.Handle(context.Background(), bookingapp.ListOwnerBookingsQuery{OwnerID: "owner-1", Status: "ALL"})
	require.NoError(t, err)
	assert.Len(t, everything.Items, 2, "\"all\" lifts the filter")
}

func TestListOwnerBookingsRejectsUnknownStatus(t *testing.T) {
	e := newEnv(t)
	h := &bookingapp.ListOwnerBookingsHandler{UoWFactory: e.factory}

	_, err := h.Handle(context.Background(), bookingapp.ListOwnerBookingsQuery{OwnerID: "owner-1", Status: "approved"})
	assert.ErrorIs(t, err, domainbooking.ErrUnknownStatus)

	_, err = h.Handle(context.Background(), bookingapp.ListOwnerBookingsQuery{OwnerID: ""})
	assert.Error(t, err)
}
