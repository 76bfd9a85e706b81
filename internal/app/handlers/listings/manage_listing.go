package listings

import (
	"context"
	"errors"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/middleware"
	"stayhub/internal/app/uow"
	domainlistings "stayhub/internal/domain/listings"
)

const (
	createListingKey = "listings.create"
	updateListingKey = "listings.update"
	deleteListingKey = "listings.delete"
)

var ErrUnitOfWorkRequired = errors.New("listings: unit of work required")

type CreateListingCommand struct {
	CommandID        string `validate:"required"`
	OwnerID          string `validate:"required"`
	Title            string `validate:"required"`
	Description      string
	PropertyType     string
	City             string `validate:"required"`
	Country          string `validate:"required"`
	NightlyRateCents int64  `validate:"min=0"`
	MaxGuests        int    `validate:"min=1"`
	Bedrooms         int
	Bathrooms        int
	Amenities        []string
	ImageURL         string
	IdempotencyKeyV  string
}

func (c CreateListingCommand) Key() string            { return createListingKey }
func (c CreateListingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }
func (c CreateListingCommand) ResultPrototype() any   { return &dto.ListingDetail{} }

type UpdateListingCommand struct {
	ListingID        string
	OwnerID          string
	Title            *string
	Description      *string
	PropertyType     *string
	City             *string
	Country          *string
	NightlyRateCents *int64
	MaxGuests        *int
	Bedrooms         *int
	Bathrooms        *int
	Amenities        []string
	ImageURL         *string
}

func (c UpdateListingCommand) Key() string { return updateListingKey }

// SerializationKey keeps capacity shrinks from interleaving with booking
// creation on the same listing.
func (c UpdateListingCommand) SerializationKey() string { return c.ListingID }

type DeleteListingCommand struct {
	ListingID string
	OwnerID   string
}

func (c DeleteListingCommand) Key() string              { return deleteListingKey }
func (c DeleteListingCommand) SerializationKey() string { return c.ListingID }

type DeleteListingResult struct {
	ListingID string `json:"listing_id"`
}

// ManageListingHandler covers the owner-side listing lifecycle.
type ManageListingHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ManageListingHandler) begin(ctx context.Context) (uow.UnitOfWork, context.Context, bool, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, ctx, false, nil
	}
	if h.UoWFactory == nil {
		return nil, ctx, false, ErrUnitOfWorkRequired
	}
	unit, err := h.UoWFactory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return nil, ctx, false, err
	}
	return unit, uow.ContextWithUnitOfWork(ctx, unit), true, nil
}

func finish(ctx context.Context, unit uow.UnitOfWork, managed bool, err error) error {
	if !managed {
		return err
	}
	if err != nil {
		_ = unit.Rollback(ctx)
		return err
	}
	return unit.Commit(ctx)
}

type CreateListingHandler struct{ *ManageListingHandler }

func (h CreateListingHandler) Handle(ctx context.Context, cmd CreateListingCommand) (*dto.ListingDetail, error) {
	unit, ctx, managed, err := h.begin(ctx)
	if err != nil {
		return nil, err
	}
	listing, err := domainlistings.NewListing(domainlistings.CreateParams{
		ID:               domainlistings.ListingID(cmd.CommandID),
		Owner:            domainlistings.OwnerID(cmd.OwnerID),
		Title:            cmd.Title,
		Description:      cmd.Description,
		PropertyType:     cmd.PropertyType,
		City:             cmd.City,
		Country:          cmd.Country,
		NightlyRateCents: cmd.NightlyRateCents,
		MaxGuests:        cmd.MaxGuests,
		Bedrooms:         cmd.Bedrooms,
		Bathrooms:        cmd.Bathrooms,
		Amenities:        cmd.Amenities,
		ImageURL:         cmd.ImageURL,
		Now:              time.Now(),
	})
	if err == nil {
		err = unit.Listings().Save(ctx, listing)
	}
	if err = finish(ctx, unit, managed, err); err != nil {
		return nil, err
	}
	detail := dto.MapListingDetail(listing)
	return &detail, nil
}

type UpdateListingHandler struct{ *ManageListingHandler }

func (h UpdateListingHandler) Handle(ctx context.Context, cmd UpdateListingCommand) (*dto.ListingDetail, error) {
	unit, ctx, managed, err := h.begin(ctx)
	if err != nil {
		return nil, err
	}
	listing, err := h.loadOwned(ctx, unit, cmd.ListingID, cmd.OwnerID)
	if err == nil {
		var changed bool
		changed, err = listing.Apply(domainlistings.UpdateParams{
			Title:            cmd.Title,
			Description:      cmd.Description,
			PropertyType:     cmd.PropertyType,
			City:             cmd.City,
			Country:          cmd.Country,
			NightlyRateCents: cmd.NightlyRateCents,
			MaxGuests:        cmd.MaxGuests,
			Bedrooms:         cmd.Bedrooms,
			Bathrooms:        cmd.Bathrooms,
			Amenities:        cmd.Amenities,
			ImageURL:         cmd.ImageURL,
		}, time.Now())
		if err == nil && changed {
			err = unit.Listings().Save(ctx, listing)
		}
	}
	if err = finish(ctx, unit, managed, err); err != nil {
		return nil, err
	}
	detail := dto.MapListingDetail(listing)
	return &detail, nil
}

type DeleteListingHandler struct{ *ManageListingHandler }

func (h DeleteListingHandler) Handle(ctx context.Context, cmd DeleteListingCommand) (*DeleteListingResult, error) {
	unit, ctx, managed, err := h.begin(ctx)
	if err != nil {
		return nil, err
	}
	listing, err := h.loadOwned(ctx, unit, cmd.ListingID, cmd.OwnerID)
	if err == nil {
		var active bool
		active, err = unit.Bookings().HasNonCancelled(ctx, listing.ID)
		if err == nil && active {
			err = domainlistings.ErrHasActiveBookings
		}
		if err == nil {
			err = unit.Listings().Delete(ctx, listing.ID)
		}
	}
	if err = finish(ctx, unit, managed, err); err != nil {
		return nil, err
	}
	return &DeleteListingResult{ListingID: cmd.ListingID}, nil
}

// loadOwned reports a listing owned by someone else as absent so existence is
// not leaked across owners.
func (h *ManageListingHandler) loadOwned(ctx context.Context, unit uow.UnitOfWork, listingID, ownerID string) (*domainlistings.Listing, error) {
	listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(listingID))
	if err != nil {
		return nil, err
	}
	if !listing.OwnedBy(domainlistings.OwnerID(ownerID)) {
		return nil, domainlistings.ErrNotFound
	}
	return listing, nil
}

var _ commands.Handler[CreateListingCommand, *dto.ListingDetail] = CreateListingHandler{}
var _ commands.Handler[UpdateListingCommand, *dto.ListingDetail] = UpdateListingHandler{}
var _ commands.Handler[DeleteListingCommand, *DeleteListingResult] = DeleteListingHandler{}
var _ middleware.IdempotentCommand = CreateListingCommand{}
var _ middleware.SerializedCommand = UpdateListingCommand{}
