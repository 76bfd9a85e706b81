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
)

const (
	acceptBookingKey = "booking.accept"
	rejectBookingKey = "booking.reject"
	cancelBookingKey = "booking.cancel"
)

type DecisionResult struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

type AcceptBookingCommand struct {
	BookingID       string `validate:"required"`
	OwnerID         string `validate:"required"`
	IdempotencyKeyV string
}

func (c AcceptBookingCommand) Key() string            { return acceptBookingKey }
func (c AcceptBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }
func (c AcceptBookingCommand) ResultPrototype() any   { return &DecisionResult{} }
func (c AcceptBookingCommand) BookingRef() string     { return c.BookingID }

type RejectBookingCommand struct {
	BookingID       string `validate:"required"`
	OwnerID         string `validate:"required"`
	IdempotencyKeyV string
}

func (c RejectBookingCommand) Key() string            { return rejectBookingKey }
func (c RejectBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }
func (c RejectBookingCommand) ResultPrototype() any   { return &DecisionResult{} }
func (c RejectBookingCommand) BookingRef() string     { return c.BookingID }

type CancelBookingCommand struct {
	BookingID       string `validate:"required"`
	OwnerID         string `validate:"required"`
	IdempotencyKeyV string
}

func (c CancelBookingCommand) Key() string            { return cancelBookingKey }
func (c CancelBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }
func (c CancelBookingCommand) ResultPrototype() any   { return &DecisionResult{} }
func (c CancelBookingCommand) BookingRef() string     { return c.BookingID }

// bookingRef is implemented by decision commands, which identify a booking but
// not the listing whose calendar must be serialized.
type bookingRef interface {
	BookingRef() string
}

// ListingLockResolver maps a decision command to the listing it touches so the
// serialization middleware can take the per-listing lock before the
// transaction opens. An unknown booking resolves to no lock; the handler
// reports it as not found.
func ListingLockResolver(factory uow.UoWFactory) middleware.LockKeyResolver {
	return func(ctx context.Context, cmd commands.Command) (string, error) {
		ref, ok := cmd.(bookingRef)
		if !ok {
			return "", nil
		}
		unit, err := factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return "", err
		}
		defer func() { _ = unit.Rollback(ctx) }()
		bk, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(ref.BookingRef()))
		if err != nil {
			if errors.Is(err, domainbooking.ErrNotFound) {
				return "", nil
			}
			return "", err
		}
		return string(bk.ListingID), nil
	}
}

// DecideBookingHandler runs the owner decision workflow. Conflict checks
// happen at decision time, not creation time: overlapping pending requests
// are allowed to coexist, so acceptance is where availability is authoritative.
type DecideBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *DecideBookingHandler) decide(ctx context.Context, bookingID, ownerID string, target domainbooking.Status) (*DecisionResult, error) {
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

	bk, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(bookingID))
	if err != nil {
		return nil, err
	}
	listing, err := unit.Listings().ByID(ctx, bk.ListingID)
	if err != nil {
		if errors.Is(err, domainlistings.ErrNotFound) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	// A booking on someone else's listing is reported as absent, not
	// forbidden, so owners cannot probe for other owners' bookings.
	if !listing.OwnedBy(domainlistings.OwnerID(ownerID)) {
		return nil, domainbooking.ErrNotFound
	}

	// Repeating a decision that already took effect succeeds without a new
	// transition or event.
	if bk.Status == target {
		return &DecisionResult{BookingID: string(bk.ID), Status: bk.Status.String()}, nil
	}

	if target == domainbooking.StatusAccepted {
		booked, err := unit.Bookings().HasAcceptedOverlap(ctx, bk.ListingID, bk.Stay, bk.ID)
		if err != nil {
			return nil, err
		}
		if booked {
			return nil, ErrDatesBooked
		}
		blacked, err := unit.Blackouts().HasOverlap(ctx, bk.ListingID, bk.Stay)
		if err != nil {
			return nil, err
		}
		if blacked {
			return nil, ErrBlackedOut
		}
	}

	if err := bk.TransitionTo(target, listing.Owner, time.Now().UTC()); err != nil {
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

	return &DecisionResult{BookingID: string(bk.ID), Status: bk.Status.String()}, nil
}

func (h *DecideBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

// AcceptBookingHandler, RejectBookingHandler and CancelBookingHandler are thin
// typed fronts over the shared decision flow so each command registers on the
// bus with its own result type check.
type AcceptBookingHandler struct{ *DecideBookingHandler }

func (h AcceptBookingHandler) Handle(ctx context.Context, cmd AcceptBookingCommand) (*DecisionResult, error) {
	return h.decide(ctx, cmd.BookingID, cmd.OwnerID, domainbooking.StatusAccepted)
}

type RejectBookingHandler struct{ *DecideBookingHandler }

func (h RejectBookingHandler) Handle(ctx context.Context, cmd RejectBookingCommand) (*DecisionResult, error) {
	return h.decide(ctx, cmd.BookingID, cmd.OwnerID, domainbooking.StatusRejected)
}

type CancelBookingHandler struct{ *DecideBookingHandler }

func (h CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*DecisionResult, error) {
	return h.decide(ctx, cmd.BookingID, cmd.OwnerID, domainbooking.StatusCancelled)
}

var _ commands.Handler[AcceptBookingCommand, *DecisionResult] = AcceptBookingHandler{}
var _ commands.Handler[RejectBookingCommand, *DecisionResult] = RejectBookingHandler{}
var _ commands.Handler[CancelBookingCommand, *DecisionResult] = CancelBookingHandler{}
var _ middleware.IdempotentCommand = AcceptBookingCommand{}
