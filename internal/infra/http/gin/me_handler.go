package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/dto"
	meapp "stayhub/internal/app/handlers/me"
	"stayhub/internal/app/queries"
)

type MeHandler struct {
	Queries queries.Bus
}

func (h MeHandler) ListBookings(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	query := meapp.ListTravelerBookingsQuery{TravelerID: user.ID}
	result, err := queries.Ask[meapp.ListTravelerBookingsQuery, dto.TravelerBookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MeHandler) ListHistory(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	query := meapp.ListTravelerHistoryQuery{TravelerID: user.ID}
	result, err := queries.Ask[meapp.ListTravelerHistoryQuery, dto.TravelerBookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ MeHTTP = MeHandler{}
