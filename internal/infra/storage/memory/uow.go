package memory

import (
	"context"
	"errors"

	"stayhub/internal/app/uow"
	domainblackout "stayhub/internal/domain/blackout"
	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
)

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	ListingsRepo  domainlistings.Repository
	BlackoutsRepo domainblackout.Repository
	BookingsRepo  domainbooking.Repository
}

// NewFactory builds a factory over fresh stores, the common test setup.
func NewFactory() Factory {
	return Factory{
		ListingsRepo:  NewListingRepository(),
		BlackoutsRepo: NewBlackoutRepository(),
		BookingsRepo:  NewBookingRepository(),
	}
}

// Begin starts a lightweight transaction boundary. No isolation is provided;
// the serialization middleware supplies the atomicity the booking workflows
// need in memory mode.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.ListingsRepo == nil || f.BlackoutsRepo == nil || f.BookingsRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		listings:  f.ListingsRepo,
		blackouts: f.BlackoutsRepo,
		bookings:  f.BookingsRepo,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	listings  domainlistings.Repository
	blackouts domainblackout.Repository
	bookings  domainbooking.Repository
}

func (u *Unit) Listings() domainlistings.Repository {
	return u.listings
}

func (u *Unit) Blackouts() domainblackout.Repository {
	return u.blackouts
}

func (u *Unit) Bookings() domainbooking.Repository {
	return u.bookings
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}

var _ uow.UoWFactory = Factory{}
