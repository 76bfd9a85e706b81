package me

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"stayhub/internal/app/dto"
	handlersupport "stayhub/internal/app/handlers/support"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
)

const (
	listTravelerBookingsKey = "me.bookings.list"
	listTravelerHistoryKey  = "me.history.list"
)

// ListTravelerBookingsQuery returns the caller's upcoming and undecided
// bookings: anything not yet checked out, in any non-rejected state.
type ListTravelerBookingsQuery struct {
	TravelerID string
}

func (q ListTravelerBookingsQuery) Key() string { return listTravelerBookingsKey }

// ListTravelerHistoryQuery returns completed stays: accepted bookings whose
// check-out is in the past.
type ListTravelerHistoryQuery struct {
	TravelerID string
}

func (q ListTravelerHistoryQuery) Key() string { return listTravelerHistoryKey }

type ListTravelerBookingsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListTravelerBookingsHandler) Handle(ctx context.Context, q ListTravelerBookingsQuery) (dto.TravelerBookingCollection, error) {
	return h.list(ctx, q.TravelerID, false)
}

type ListTravelerHistoryHandler struct {
	ListTravelerBookingsHandler
}

func (h *ListTravelerHistoryHandler) Handle(ctx context.Context, q ListTravelerHistoryQuery) (dto.TravelerBookingCollection, error) {
	return h.list(ctx, q.TravelerID, true)
}

func (h *ListTravelerBookingsHandler) list(ctx context.Context, travelerID string, history bool) (dto.TravelerBookingCollection, error) {
	travelerID = strings.TrimSpace(travelerID)
	if travelerID == "" {
		return dto.TravelerBookingCollection{}, errors.New("traveler id is required")
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.TravelerBookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	bookings, err := unit.Bookings().ListByTraveler(execCtx, domainbooking.TravelerID(travelerID))
	if err != nil {
		return dto.TravelerBookingCollection{}, err
	}

	now := time.Now().UTC()
	listingCache := make(map[domainlistings.ListingID]*domainlistings.Listing)
	items := make([]dto.TravelerBookingSummary, 0, len(bookings))
	for _, bk := range bookings {
		completed := bk.Status == domainbooking.StatusAccepted && !bk.Stay.End.After(now)
		if history != completed {
			continue
		}
		listing, err := loadListing(execCtx, unit.Listings(), bk.ListingID, listingCache)
		if err != nil && h.Logger != nil {
			h.Logger.Warn("listing snapshot missing for booking",
				"booking_id", bk.ID, "listing_id", bk.ListingID, "error", err)
		}
		items = append(items, dto.MapTravelerBookingSummary(bk, listing))
	}

	if h.Logger != nil {
		h.Logger.Debug("traveler bookings listed", "traveler_id", travelerID, "history", history, "count", len(items))
	}

	return dto.TravelerBookingCollection{Items: items}, nil
}

func loadListing(
	ctx context.Context,
	repo domainlistings.Repository,
	id domainlistings.ListingID,
	cache map[domainlistings.ListingID]*domainlistings.Listing,
) (*domainlistings.Listing, error) {
	if listing, ok := cache[id]; ok {
		return listing, nil
	}
	listing, err := repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cache[id] = listing
	return listing, nil
}

var _ queries.Handler[ListTravelerBookingsQuery, dto.TravelerBookingCollection] = (*ListTravelerBookingsHandler)(nil)
var _ queries.Handler[ListTravelerHistoryQuery, dto.TravelerBookingCollection] = (*ListTravelerHistoryHandler)(nil)
