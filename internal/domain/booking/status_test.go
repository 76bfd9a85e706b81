package booking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub/internal/domain/booking"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    booking.Status
		to      booking.Status
		allowed bool
	}{
		{booking.StatusPending, booking.StatusAccepted, true},
		{booking.StatusPending, booking.StatusRejected, true},
		{booking.StatusPending, booking.StatusCancelled, true},
		{booking.StatusAccepted, booking.StatusCancelled, true},
		{booking.StatusAccepted, booking.StatusRejected, false},
		{booking.StatusAccepted, booking.StatusPending, false},
		{booking.StatusRejected, booking.StatusAccepted, false},
		{booking.StatusRejected, booking.StatusCancelled, false},
		{booking.StatusCancelled, booking.StatusAccepted, false},
		{booking.StatusCancelled, booking.StatusPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, booking.StatusPending.IsTerminal())
	assert.False(t, booking.StatusAccepted.IsTerminal())
	assert.True(t, booking.StatusRejected.IsTerminal())
	assert.True(t, booking.StatusCancelled.IsTerminal())
	assert.True(t, booking.Status("unknown").IsTerminal())
}

func TestParseStatus(t *testing.T) {
	status, err := booking.ParseStatus("accepted")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusAccepted, status)

	_, err = booking.ParseStatus("Accepted")
	assert.ErrorIs(t, err, booking.ErrUnknownStatus, "statuses are lowercase on the wire")

	_, err = booking.ParseStatus("done")
	assert.ErrorIs(t, err, booking.ErrUnknownStatus)
}
