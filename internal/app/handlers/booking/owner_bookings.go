package booking

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"stayhub/internal/app/dto"
	handlersupport "stayhub/internal/app/handlers/support"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
)

const listOwnerBookingsKey = "booking.owner.list"

// StatusFilterAll lifts the status filter on the owner booking list.
const StatusFilterAll = "all"

// ListOwnerBookingsQuery returns booking requests across all of an owner's
// listings. An empty Status means pending requests, the owner's inbox;
// StatusFilterAll returns every booking.
type ListOwnerBookingsQuery struct {
	OwnerID string
	Status  string
}

func (q ListOwnerBookingsQuery) Key() string { return listOwnerBookingsKey }

type ListOwnerBookingsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListOwnerBookingsHandler) Handle(ctx context.Context, q ListOwnerBookingsQuery) (dto.OwnerBookingCollection, error) {
	ownerID := strings.TrimSpace(q.OwnerID)
	if ownerID == "" {
		return dto.OwnerBookingCollection{}, errors.New("owner id is required")
	}
	var statusFilter domainbooking.Status
	switch raw := strings.ToLower(strings.TrimSpace(q.Status)); raw {
	case "":
		statusFilter = domainbooking.StatusPending
	case StatusFilterAll:
		// no filter
	default:
		parsed, err := domainbooking.ParseStatus(raw)
		if err != nil {
			return dto.OwnerBookingCollection{}, err
		}
		statusFilter = parsed
	}

	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.OwnerBookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	owned, err := unit.Listings().ListByOwner(execCtx, domainlistings.OwnerID(ownerID))
	if err != nil {
		return dto.OwnerBookingCollection{}, err
	}

	items := make([]dto.OwnerBookingSummary, 0)
	for _, listing := range owned {
		bookings, err := unit.Bookings().ListByListing(execCtx, listing.ID)
		if err != nil {
			return dto.OwnerBookingCollection{}, err
		}
		for _, bk := range bookings {
			if statusFilter != "" && bk.Status != statusFilter {
				continue
			}
			items = append(items, dto.MapOwnerBookingSummary(bk, listing))
		}
	}

	if h.Logger != nil {
		h.Logger.Debug("owner bookings listed", "owner_id", ownerID, "count", len(items))
	}

	return dto.OwnerBookingCollection{Items: items}, nil
}

var _ queries.Handler[ListOwnerBookingsQuery, dto.OwnerBookingCollection] = (*ListOwnerBookingsHandler)(nil)
