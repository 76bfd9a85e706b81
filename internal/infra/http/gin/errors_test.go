package ginserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	gin "github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingapp "stayhub/internal/app/handlers/booking"
	domainblackout "stayhub/internal/domain/blackout"
	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
	domainrange "stayhub/internal/domain/shared/daterange"
	inframongo "stayhub/internal/infra/db/mongo"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func responseFor(t *testing.T, err error) (int, errorBody) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	writeError(c, err)
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestWriteErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		want     int
		wantCode string
	}{
		{"listing missing", domainlistings.ErrNotFound, http.StatusNotFound, "listing_not_found"},
		{"booking missing", domainbooking.ErrNotFound, http.StatusNotFound, "booking_not_found"},
		{"blackout missing", domainblackout.ErrNotFound, http.StatusNotFound, "blackout_not_found"},
		{"dates booked", bookingapp.ErrDatesBooked, http.StatusConflict, "dates_booked"},
		{"blacked out", bookingapp.ErrBlackedOut, http.StatusConflict, "dates_blacked_out"},
		{"invalid transition", domainbooking.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
		{"active bookings", domainlistings.ErrHasActiveBookings, http.StatusConflict, "listing_has_bookings"},
		{"concurrent update", inframongo.ErrConcurrentUpdate, http.StatusConflict, "concurrent_update"},
		{"invalid range", domainrange.ErrInvalidRange, http.StatusBadRequest, "invalid_date_range"},
		{"capacity", domainlistings.ErrCapacityExceeded, http.StatusBadRequest, "capacity_exceeded"},
		{"guest count", domainlistings.ErrInvalidGuestCount, http.StatusBadRequest, "invalid_guest_count"},
		{"unknown status", domainbooking.ErrUnknownStatus, http.StatusBadRequest, "unknown_status"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := responseFor(t, tc.err)
			assert.Equal(t, tc.want, code)
			assert.Equal(t, tc.wantCode, body.Code)
		})
	}
}

func TestWriteErrorConflictKindsDistinguishable(t *testing.T) {
	// Same status, different codes.
	_, booked := responseFor(t, bookingapp.ErrDatesBooked)
	_, blacked := responseFor(t, bookingapp.ErrBlackedOut)
	_, transition := responseFor(t, domainbooking.ErrInvalidTransition)
	assert.NotEqual(t, booked.Code, blacked.Code)
	assert.NotEqual(t, booked.Code, transition.Code)
	assert.NotEqual(t, blacked.Code, transition.Code)
}

func TestWriteErrorWrappedSentinel(t *testing.T) {
	wrapped := errors.Join(errors.New("while accepting"), bookingapp.ErrDatesBooked)
	code, body := responseFor(t, wrapped)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "dates_booked", body.Code)
}

func TestWriteErrorValidation(t *testing.T) {
	type payload struct {
		Name string `validate:"required"`
	}
	err := validator.New().Struct(payload{})
	require.Error(t, err)
	code, body := responseFor(t, err)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "validation_failed", body.Code)
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	code, body := responseFor(t, errors.New("password=hunter2 leaked"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal", body.Code)
	assert.NotContains(t, body.Error, "hunter2")
	assert.Equal(t, "internal error", body.Error)
}
