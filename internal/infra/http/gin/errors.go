package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	bookingapp "stayhub/internal/app/handlers/booking"
	domainblackout "stayhub/internal/domain/blackout"
	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
	domainrange "stayhub/internal/domain/shared/daterange"
	inframongo "stayhub/internal/infra/db/mongo"
)

// writeError maps workflow outcomes onto HTTP statuses. Conflicts are normal
// business outcomes; only unrecognized errors become 500s. Every body carries
// a stable code so clients can tell kinds apart without parsing messages.
func writeError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErrs.Error(), "code": "validation_failed"})
		return
	}
	status, code := classifyError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg, "code": code})
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, domainlistings.ErrNotFound):
		return http.StatusNotFound, "listing_not_found"
	case errors.Is(err, domainbooking.ErrNotFound):
		return http.StatusNotFound, "booking_not_found"
	case errors.Is(err, domainblackout.ErrNotFound):
		return http.StatusNotFound, "blackout_not_found"
	case errors.Is(err, bookingapp.ErrDatesBooked):
		return http.StatusConflict, "dates_booked"
	case errors.Is(err, bookingapp.ErrBlackedOut):
		return http.StatusConflict, "dates_blacked_out"
	case errors.Is(err, domainbooking.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, domainlistings.ErrHasActiveBookings):
		return http.StatusConflict, "listing_has_bookings"
	case errors.Is(err, inframongo.ErrConcurrentUpdate):
		return http.StatusConflict, "concurrent_update"
	case errors.Is(err, domainrange.ErrInvalidRange):
		return http.StatusBadRequest, "invalid_date_range"
	case errors.Is(err, domainlistings.ErrCapacityExceeded):
		return http.StatusBadRequest, "capacity_exceeded"
	case errors.Is(err, domainlistings.ErrInvalidGuestCount):
		return http.StatusBadRequest, "invalid_guest_count"
	case errors.Is(err, domainbooking.ErrUnknownStatus):
		return http.StatusBadRequest, "unknown_status"
	case errors.Is(err, domainbooking.ErrTravelerRequired):
		return http.StatusBadRequest, "traveler_required"
	case errors.Is(err, domainlistings.ErrTitleRequired),
		errors.Is(err, domainlistings.ErrLocationRequired),
		errors.Is(err, domainlistings.ErrNightlyRate),
		errors.Is(err, domainlistings.ErrMaxGuests):
		return http.StatusBadRequest, "invalid_listing"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
