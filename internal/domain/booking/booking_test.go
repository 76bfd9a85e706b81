package booking_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/listings"
	"stayhub/internal/domain/shared/daterange"
)

func testStay(t *testing.T) daterange.DateRange {
	t.Helper()
	stay, err := daterange.Parse("2026-09-10", "2026-09-14")
	require.NoError(t, err)
	return stay
}

func testBooking(t *testing.T) *booking.Booking {
	t.Helper()
	b, err := booking.NewBooking(booking.CreateParams{
		ID:              "bk-1",
		ListingID:       "ls-1",
		Traveler:        "traveler-1",
		Owner:           "owner-1",
		Stay:            testStay(t),
		Guests:          2,
		TotalPriceCents: 48000,
		CreatedAt:       time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return b
}

func TestNewBookingStartsPending(t *testing.T) {
	b := testBooking(t)
	assert.Equal(t, booking.StatusPending, b.Status)
	assert.Equal(t, 4, b.Nights())

	events := b.PendingEvents()
	require.Len(t, events, 1)
	created, ok := events[0].(booking.Created)
	require.True(t, ok)
	assert.Equal(t, booking.BookingID("bk-1"), created.BookingID)
	assert.Equal(t, listings.OwnerID("owner-1"), created.Owner)
	assert.Equal(t, "booking.created", created.EventName())
	assert.Equal(t, "bk-1", created.AggregateID())
}

func TestNewBookingValidation(t *testing.T) {
	params := booking.CreateParams{
		ID:        "bk-1",
		ListingID: "ls-1",
		Traveler:  "traveler-1",
		Stay:      testStay(t),
		Guests:    2,
		CreatedAt: time.Now(),
	}

	noTraveler := params
	noTraveler.Traveler = ""
	_, err := booking.NewBooking(noTraveler)
	assert.ErrorIs(t, err, booking.ErrTravelerRequired)

	noGuests := params
	noGuests.Guests = 0
	_, err = booking.NewBooking(noGuests)
	assert.ErrorIs(t, err, listings.ErrInvalidGuestCount)

	noStay := params
	noStay.Stay = daterange.DateRange{}
	_, err = booking.NewBooking(noStay)
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestTransitionToRecordsStatusEvent(t *testing.T) {
	b := testBooking(t)
	b.ClearEvents()

	now := time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, b.TransitionTo(booking.StatusAccepted, "owner-1", now))
	assert.Equal(t, booking.StatusAccepted, b.Status)
	assert.Equal(t, now, b.UpdatedAt)

	events := b.PendingEvents()
	require.Len(t, events, 1)
	changed, ok := events[0].(booking.StatusChanged)
	require.True(t, ok)
	assert.Equal(t, booking.StatusAccepted, changed.Status)
	assert.Equal(t, "booking.status", changed.EventName())
}

func TestTransitionToRejectsInvalidMoves(t *testing.T) {
	b := testBooking(t)
	now := time.Now().UTC()
	require.NoError(t, b.TransitionTo(booking.StatusRejected, "owner-1", now))

	err := b.TransitionTo(booking.StatusAccepted, "owner-1", now)
	assert.ErrorIs(t, err, booking.ErrInvalidTransition)
	assert.Equal(t, booking.StatusRejected, b.Status)
}

func TestAcceptedCanStillBeCancelled(t *testing.T) {
	b := testBooking(t)
	now := time.Now().UTC()
	require.NoError(t, b.TransitionTo(booking.StatusAccepted, "owner-1", now))
	require.NoError(t, b.TransitionTo(booking.StatusCancelled, "owner-1", now))
	assert.Equal(t, booking.StatusCancelled, b.Status)

	err := b.TransitionTo(booking.StatusAccepted, "owner-1", now)
	assert.ErrorIs(t, err, booking.ErrInvalidTransition)
}

func TestCreatedEventWireShape(t *testing.T) {
	b := testBooking(t)
	events := b.PendingEvents()
	require.Len(t, events, 1)

	payload, err := json.Marshal(events[0])
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(payload, &wire))
	assert.Equal(t, "bk-1", wire["bookingId"])
	assert.Equal(t, "traveler-1", wire["travelerId"])
	assert.Equal(t, "owner-1", wire["ownerId"])
	assert.Equal(t, "ls-1", wire["propertyId"])
	assert.Equal(t, "pending", wire["status"])
	assert.Equal(t, float64(48000), wire["totalPrice"])
	assert.Equal(t, "2026-09-10", wire["checkIn"])
	assert.Equal(t, "2026-09-14", wire["checkOut"])
	assert.Equal(t, float64(2), wire["guests"])
	assert.Contains(t, wire, "createdAt")
}

func TestStatusChangedWireShape(t *testing.T) {
	evt := booking.StatusChanged{
		BookingID: "bk-1",
		Owner:     "owner-1",
		Status:    booking.StatusAccepted,
		At:        time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC),
	}
	payload, err := json.Marshal(evt)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(payload, &wire))
	assert.Equal(t, "bk-1", wire["bookingId"])
	assert.Equal(t, "owner-1", wire["ownerId"])
	assert.Equal(t, "accepted", wire["status"])
	assert.Contains(t, wire, "updatedAt")
}
