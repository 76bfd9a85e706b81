package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	bookingapp "stayhub/internal/app/handlers/booking"
	"stayhub/internal/app/queries"
)

type OwnerBookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h OwnerBookingHandler) List(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	query := bookingapp.ListOwnerBookingsQuery{
		OwnerID: owner.ID,
		Status:  c.Query("status"),
	}
	result, err := queries.Ask[bookingapp.ListOwnerBookingsQuery, dto.OwnerBookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h OwnerBookingHandler) Accept(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	cmd := bookingapp.AcceptBookingCommand{
		BookingID:       c.Param("id"),
		OwnerID:         owner.ID,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.AcceptBookingCommand, *bookingapp.DecisionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h OwnerBookingHandler) Reject(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	cmd := bookingapp.RejectBookingCommand{
		BookingID:       c.Param("id"),
		OwnerID:         owner.ID,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.RejectBookingCommand, *bookingapp.DecisionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h OwnerBookingHandler) Cancel(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	cmd := bookingapp.CancelBookingCommand{
		BookingID:       c.Param("id"),
		OwnerID:         owner.ID,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.CancelBookingCommand, *bookingapp.DecisionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ OwnerBookingHTTP = OwnerBookingHandler{}
