package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	listingapp "stayhub/internal/app/handlers/listings"
	"stayhub/internal/app/queries"
)

type OwnerListingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createListingRequest struct {
	Title            string   `json:"title" binding:"required"`
	Description      string   `json:"description"`
	PropertyType     string   `json:"property_type"`
	City             string   `json:"city" binding:"required"`
	Country          string   `json:"country" binding:"required"`
	NightlyRateCents int64    `json:"nightly_rate_cents" binding:"min=0"`
	MaxGuests        int      `json:"max_guests" binding:"required,min=1"`
	Bedrooms         int      `json:"bedrooms"`
	Bathrooms        int      `json:"bathrooms"`
	Amenities        []string `json:"amenities"`
	ImageURL         string   `json:"image_url"`
}

type updateListingRequest struct {
	Title            *string  `json:"title"`
	Description      *string  `json:"description"`
	PropertyType     *string  `json:"property_type"`
	City             *string  `json:"city"`
	Country          *string  `json:"country"`
	NightlyRateCents *int64   `json:"nightly_rate_cents"`
	MaxGuests        *int     `json:"max_guests"`
	Bedrooms         *int     `json:"bedrooms"`
	Bathrooms        *int     `json:"bathrooms"`
	Amenities        []string `json:"amenities"`
	ImageURL         *string  `json:"image_url"`
}

func (h OwnerListingHandler) List(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	query := listingapp.ListOwnerListingsQuery{OwnerID: owner.ID}
	result, err := queries.Ask[listingapp.ListOwnerListingsQuery, dto.ListingCatalog](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h OwnerListingHandler) Create(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := listingapp.CreateListingCommand{
		CommandID:        generateCommandID(),
		OwnerID:          owner.ID,
		Title:            req.Title,
		Description:      req.Description,
		PropertyType:     req.PropertyType,
		City:             req.City,
		Country:          req.Country,
		NightlyRateCents: req.NightlyRateCents,
		MaxGuests:        req.MaxGuests,
		Bedrooms:         req.Bedrooms,
		Bathrooms:        req.Bathrooms,
		Amenities:        req.Amenities,
		ImageURL:         req.ImageURL,
		IdempotencyKeyV:  c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[listingapp.CreateListingCommand, *dto.ListingDetail](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h OwnerListingHandler) Update(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := listingapp.UpdateListingCommand{
		ListingID:        c.Param("id"),
		OwnerID:          owner.ID,
		Title:            req.Title,
		Description:      req.Description,
		PropertyType:     req.PropertyType,
		City:             req.City,
		Country:          req.Country,
		NightlyRateCents: req.NightlyRateCents,
		MaxGuests:        req.MaxGuests,
		Bedrooms:         req.Bedrooms,
		Bathrooms:        req.Bathrooms,
		Amenities:        req.Amenities,
		ImageURL:         req.ImageURL,
	}
	result, err := commands.Dispatch[listingapp.UpdateListingCommand, *dto.ListingDetail](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h OwnerListingHandler) Delete(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	cmd := listingapp.DeleteListingCommand{
		ListingID: c.Param("id"),
		OwnerID:   owner.ID,
	}
	result, err := commands.Dispatch[listingapp.DeleteListingCommand, *listingapp.DeleteListingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ OwnerListingHTTP = OwnerListingHandler{}
