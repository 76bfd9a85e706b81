package blackout

import (
	"context"
	"errors"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	handlersupport "stayhub/internal/app/handlers/support"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainblackout "stayhub/internal/domain/blackout"
	domainlistings "stayhub/internal/domain/listings"
	domainrange "stayhub/internal/domain/shared/daterange"
)

const (
	addBlackoutKey    = "blackout.add"
	removeBlackoutKey = "blackout.remove"
	listBlackoutsKey  = "blackout.list"
)

var ErrUnitOfWorkRequired = errors.New("blackout: unit of work required")

// AddBlackoutCommand blocks a window on an owned listing's calendar. The
// window may be empty (start == end); it then blocks nothing but is kept.
type AddBlackoutCommand struct {
	CommandID string
	ListingID string
	OwnerID   string
	Start     string
	End       string
}

func (c AddBlackoutCommand) Key() string              { return addBlackoutKey }
func (c AddBlackoutCommand) SerializationKey() string { return c.ListingID }

type RemoveBlackoutCommand struct {
	BlackoutID string
	ListingID  string
	OwnerID    string
}

func (c RemoveBlackoutCommand) Key() string              { return removeBlackoutKey }
func (c RemoveBlackoutCommand) SerializationKey() string { return c.ListingID }

type RemoveBlackoutResult struct {
	BlackoutID string `json:"blackout_id"`
}

type ListBlackoutsQuery struct {
	ListingID string
	OwnerID   string
}

func (q ListBlackoutsQuery) Key() string { return listBlackoutsKey }

type ManageBlackoutHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ManageBlackoutHandler) begin(ctx context.Context) (uow.UnitOfWork, context.Context, bool, error) {
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

func ownedListing(ctx context.Context, unit uow.UnitOfWork, listingID, ownerID string) (*domainlistings.Listing, error) {
	listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(listingID))
	if err != nil {
		return nil, err
	}
	if !listing.OwnedBy(domainlistings.OwnerID(ownerID)) {
		return nil, domainlistings.ErrNotFound
	}
	return listing, nil
}

type AddBlackoutHandler struct{ *ManageBlackoutHandler }

func (h AddBlackoutHandler) Handle(ctx context.Context, cmd AddBlackoutCommand) (*dto.BlackoutView, error) {
	unit, ctx, managed, err := h.begin(ctx)
	if err != nil {
		return nil, err
	}
	var created *domainblackout.Blackout
	_, err = ownedListing(ctx, unit, cmd.ListingID, cmd.OwnerID)
	if err == nil {
		var start, end time.Time
		start, err = domainrange.ParseDate(cmd.Start)
		if err == nil {
			end, err = domainrange.ParseDate(cmd.End)
		}
		if err == nil {
			created, err = domainblackout.New(
				domainblackout.BlackoutID(cmd.CommandID),
				domainlistings.ListingID(cmd.ListingID),
				start, end, time.Now(),
			)
		}
		if err == nil {
			err = unit.Blackouts().Save(ctx, created)
		}
	}
	if err = finish(ctx, unit, managed, err); err != nil {
		return nil, err
	}
	view := dto.MapBlackoutView(created)
	return &view, nil
}

type RemoveBlackoutHandler struct{ *ManageBlackoutHandler }

func (h RemoveBlackoutHandler) Handle(ctx context.Context, cmd RemoveBlackoutCommand) (*RemoveBlackoutResult, error) {
	unit, ctx, managed, err := h.begin(ctx)
	if err != nil {
		return nil, err
	}
	_, err = ownedListing(ctx, unit, cmd.ListingID, cmd.OwnerID)
	if err == nil {
		var existing *domainblackout.Blackout
		existing, err = unit.Blackouts().ByID(ctx, domainblackout.BlackoutID(cmd.BlackoutID))
		if err == nil && string(existing.ListingID) != cmd.ListingID {
			err = domainblackout.ErrNotFound
		}
		if err == nil {
			err = unit.Blackouts().Remove(ctx, existing.ID)
		}
	}
	if err = finish(ctx, unit, managed, err); err != nil {
		return nil, err
	}
	return &RemoveBlackoutResult{BlackoutID: cmd.BlackoutID}, nil
}

type ListBlackoutsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListBlackoutsHandler) Handle(ctx context.Context, q ListBlackoutsQuery) (dto.BlackoutCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BlackoutCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	if _, err := ownedListing(execCtx, unit, q.ListingID, q.OwnerID); err != nil {
		return dto.BlackoutCollection{}, err
	}
	windows, err := unit.Blackouts().ListByListing(execCtx, domainlistings.ListingID(q.ListingID))
	if err != nil {
		return dto.BlackoutCollection{}, err
	}
	items := make([]dto.BlackoutView, 0, len(windows))
	for _, w := range windows {
		items = append(items, dto.MapBlackoutView(w))
	}
	return dto.BlackoutCollection{Items: items}, nil
}

var _ commands.Handler[AddBlackoutCommand, *dto.BlackoutView] = AddBlackoutHandler{}
var _ commands.Handler[RemoveBlackoutCommand, *RemoveBlackoutResult] = RemoveBlackoutHandler{}
var _ queries.Handler[ListBlackoutsQuery, dto.BlackoutCollection] = (*ListBlackoutsHandler)(nil)
