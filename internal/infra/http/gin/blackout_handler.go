package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	blackoutapp "stayhub/internal/app/handlers/blackout"
	"stayhub/internal/app/queries"
)

type BlackoutHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type addBlackoutRequest struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

func (h BlackoutHandler) List(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	query := blackoutapp.ListBlackoutsQuery{
		ListingID: c.Param("id"),
		OwnerID:   owner.ID,
	}
	result, err := queries.Ask[blackoutapp.ListBlackoutsQuery, dto.BlackoutCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BlackoutHandler) Add(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	var req addBlackoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := blackoutapp.AddBlackoutCommand{
		CommandID: generateCommandID(),
		ListingID: c.Param("id"),
		OwnerID:   owner.ID,
		Start:     req.Start,
		End:       req.End,
	}
	result, err := commands.Dispatch[blackoutapp.AddBlackoutCommand, *dto.BlackoutView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BlackoutHandler) Remove(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	cmd := blackoutapp.RemoveBlackoutCommand{
		BlackoutID: c.Param("blackoutId"),
		ListingID:  c.Param("id"),
		OwnerID:    owner.ID,
	}
	result, err := commands.Dispatch[blackoutapp.RemoveBlackoutCommand, *blackoutapp.RemoveBlackoutResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ BlackoutHTTP = BlackoutHandler{}
