package booking

import (
	"context"
	"errors"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/middleware"
	"stayhub/internal/app/outbox"
	"stayhub/internal/app/uow"
	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
	domainrange "stayhub/internal/domain/shared/daterange"
)

const requestBookingKey = "booking.request"

// Conflict outcomes of the availability checks. Both are expected results of
// normal operation, not faults; the HTTP layer maps them to 409.
var (
	ErrDatesBooked = errors.New("booking: dates unavailable, overlapping accepted booking")
	ErrBlackedOut  = errors.New("booking: dates unavailable, owner blackout window")
)

var ErrUnitOfWorkRequired = errors.New("booking: unit of work required")

type RequestBookingCommand struct {
	CommandID       string `validate:"required"`
	ListingID       string `validate:"required"`
	TravelerID      string `validate:"required"`
	CheckIn         string `validate:"required"`
	CheckOut        string `validate:"required"`
	Guests          int    `validate:"min=1"`
	IdempotencyKeyV string
}

func (c RequestBookingCommand) Key() string { return requestBookingKey }

func (c RequestBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RequestBookingCommand) ResultPrototype() any { return &RequestBookingResult{} }

// SerializationKey serializes creation against concurrent accepts on the same
// listing, so the accepted-overlap read cannot interleave with a commit.
func (c RequestBookingCommand) SerializationKey() string { return c.ListingID }

type RequestBookingResult struct {
	BookingID       string `json:"booking_id"`
	Nights          int    `json:"nights"`
	TotalPriceCents int64  `json:"total_price_cents"`
	Status          string `json:"status"`
}

type RequestBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *RequestBookingHandler) Handle(ctx context.Context, cmd RequestBookingCommand) (*RequestBookingResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	stay, err := domainrange.Parse(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}

	listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(cmd.ListingID))
	if err != nil {
		return nil, err
	}
	if err := listing.CheckCapacity(cmd.Guests); err != nil {
		return nil, err
	}

	blacked, err := unit.Blackouts().HasOverlap(ctx, listing.ID, stay)
	if err != nil {
		return nil, err
	}
	if blacked {
		return nil, ErrBlackedOut
	}

	// Only accepted bookings block; overlapping pending requests coexist and
	// race to be accepted.
	booked, err := unit.Bookings().HasAcceptedOverlap(ctx, listing.ID, stay, "")
	if err != nil {
		return nil, err
	}
	if booked {
		return nil, ErrDatesBooked
	}

	now := time.Now().UTC()
	bk, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:              domainbooking.BookingID(cmd.CommandID),
		ListingID:       listing.ID,
		Traveler:        domainbooking.TravelerID(cmd.TravelerID),
		Owner:           listing.Owner,
		Stay:            stay,
		Guests:          cmd.Guests,
		TotalPriceCents: listing.Quote(stay),
		CreatedAt:       now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Bookings().Save(ctx, bk); err != nil {
		return nil, err
	}

	pending := bk.PendingEvents()
	bk.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), pending); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &RequestBookingResult{
		BookingID:       string(bk.ID),
		Nights:          bk.Nights(),
		TotalPriceCents: bk.TotalPriceCents,
		Status:          bk.Status.String(),
	}, nil
}

func (h *RequestBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[RequestBookingCommand, *RequestBookingResult] = (*RequestBookingHandler)(nil)
var _ middleware.IdempotentCommand = RequestBookingCommand{}
var _ middleware.SerializedCommand = RequestBookingCommand{}
