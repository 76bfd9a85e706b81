package listings

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"stayhub/internal/app/dto"
	handlersupport "stayhub/internal/app/handlers/support"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainlistings "stayhub/internal/domain/listings"
	domainrange "stayhub/internal/domain/shared/daterange"
)

const (
	searchCatalogKey     = "listings.search"
	getListingKey        = "listings.get"
	listOwnerListingsKey = "listings.owner.list"

	// repository page size while scanning candidates for availability
	searchScanPageSize = 200
)

// SearchCatalogQuery is the public availability-aware search. When both dates
// are supplied, listings with a calendar conflict in the window are dropped
// from the result.
type SearchCatalogQuery struct {
	City     string
	Guests   int
	CheckIn  string
	CheckOut string
	Limit    int
	Offset   int
}

func (q SearchCatalogQuery) Key() string { return searchCatalogKey }

type GetListingQuery struct {
	ListingID string
}

func (q GetListingQuery) Key() string { return getListingKey }

type ListOwnerListingsQuery struct {
	OwnerID string
}

func (q ListOwnerListingsQuery) Key() string { return listOwnerListingsKey }

type SearchCatalogHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *SearchCatalogHandler) Handle(ctx context.Context, q SearchCatalogQuery) (dto.ListingCatalog, error) {
	params := domainlistings.SearchParams{
		City:   q.City,
		Guests: q.Guests,
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	if strings.TrimSpace(q.CheckIn) != "" || strings.TrimSpace(q.CheckOut) != "" {
		stay, err := domainrange.Parse(q.CheckIn, q.CheckOut)
		if err != nil {
			return dto.ListingCatalog{}, err
		}
		params.Stay = stay
	}
	params = params.Normalized()

	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ListingCatalog{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	if params.Stay.IsZero() {
		candidates, err := unit.Listings().Search(execCtx, params)
		if err != nil {
			return dto.ListingCatalog{}, err
		}
		items := make([]dto.ListingDetail, 0, len(candidates))
		for _, listing := range candidates {
			items = append(items, dto.MapListingDetail(listing))
		}
		if h.Logger != nil {
			h.Logger.Debug("catalog searched", "city", params.City, "count", len(items))
		}
		return dto.ListingCatalog{Items: items, Total: len(items)}, nil
	}

	// The calendar filter has to run before pagination, otherwise a page can
	// under-fill while available listings beyond it never surface. Scan the
	// whole candidate set in repository pages, keep the free ones, and slice
	// the caller's page out of that.
	scan := params
	scan.Offset = 0
	scan.Limit = searchScanPageSize
	available := make([]*domainlistings.Listing, 0)
	for {
		batch, err := unit.Listings().Search(execCtx, scan)
		if err != nil {
			return dto.ListingCatalog{}, err
		}
		for _, listing := range batch {
			free, err := h.available(execCtx, unit, listing.ID, params.Stay)
			if err != nil {
				return dto.ListingCatalog{}, err
			}
			if free {
				available = append(available, listing)
			}
		}
		if len(batch) < scan.Limit {
			break
		}
		scan.Offset += len(batch)
	}

	total := len(available)
	start := min(params.Offset, total)
	end := min(start+params.Limit, total)
	items := make([]dto.ListingDetail, 0, end-start)
	for _, listing := range available[start:end] {
		items = append(items, dto.MapListingDetail(listing))
	}

	if h.Logger != nil {
		h.Logger.Debug("catalog searched", "city", params.City, "available", total, "count", len(items))
	}

	return dto.ListingCatalog{Items: items, Total: total}, nil
}

func (h *SearchCatalogHandler) available(ctx context.Context, unit uow.UnitOfWork, id domainlistings.ListingID, stay domainrange.DateRange) (bool, error) {
	blacked, err := unit.Blackouts().HasOverlap(ctx, id, stay)
	if err != nil || blacked {
		return false, err
	}
	booked, err := unit.Bookings().HasAcceptedOverlap(ctx, id, stay, "")
	if err != nil || booked {
		return false, err
	}
	return true, nil
}

type GetListingHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetListingHandler) Handle(ctx context.Context, q GetListingQuery) (dto.ListingDetail, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ListingDetail{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	listing, err := unit.Listings().ByID(execCtx, domainlistings.ListingID(q.ListingID))
	if err != nil {
		return dto.ListingDetail{}, err
	}
	return dto.MapListingDetail(listing), nil
}

type ListOwnerListingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListOwnerListingsHandler) Handle(ctx context.Context, q ListOwnerListingsQuery) (dto.ListingCatalog, error) {
	ownerID := strings.TrimSpace(q.OwnerID)
	if ownerID == "" {
		return dto.ListingCatalog{}, errors.New("owner id is required")
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ListingCatalog{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	owned, err := unit.Listings().ListByOwner(execCtx, domainlistings.OwnerID(ownerID))
	if err != nil {
		return dto.ListingCatalog{}, err
	}
	items := make([]dto.ListingDetail, 0, len(owned))
	for _, listing := range owned {
		items = append(items, dto.MapListingDetail(listing))
	}
	return dto.ListingCatalog{Items: items, Total: len(items)}, nil
}

var _ queries.Handler[SearchCatalogQuery, dto.ListingCatalog] = (*SearchCatalogHandler)(nil)
var _ queries.Handler[GetListingQuery, dto.ListingDetail] = (*GetListingHandler)(nil)
var _ queries.Handler[ListOwnerListingsQuery, dto.ListingCatalog] = (*ListOwnerListingsHandler)(nil)
