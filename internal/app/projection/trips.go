package projection

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

var ErrNotFound = errors.New("projection: trip not found")

// TripView is a non-authoritative mirror of a booking, kept for traveler-side
// reads. The booking ledger remains the source of truth; this view converges
// on it through the status event stream.
type TripView struct {
	BookingID       string    `bson:"_id" json:"booking_id"`
	TravelerID      string    `bson:"traveler_id" json:"traveler_id"`
	OwnerID         string    `bson:"owner_id" json:"owner_id"`
	ListingID       string    `bson:"listing_id" json:"listing_id"`
	CheckIn         string    `bson:"check_in" json:"check_in"`
	CheckOut        string    `bson:"check_out" json:"check_out"`
	Guests          int       `bson:"guests" json:"guests"`
	TotalPriceCents int64     `bson:"total_price_cents" json:"total_price_cents"`
	Status          string    `bson:"status" json:"status"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

type Store interface {
	Get(ctx context.Context, bookingID string) (*TripView, error)
	Upsert(ctx context.Context, view *TripView) error
	ListByTraveler(ctx context.Context, travelerID string) ([]*TripView, error)
}

type createdPayload struct {
	BookingID  string    `json:"bookingId"`
	TravelerID string    `json:"travelerId"`
	OwnerID    string    `json:"ownerId"`
	PropertyID string    `json:"propertyId"`
	Status     string    `json:"status"`
	TotalPrice int64     `json:"totalPrice"`
	CheckIn    string    `json:"checkIn"`
	CheckOut   string    `json:"checkOut"`
	Guests     int       `json:"guests"`
	CreatedAt  time.Time `json:"createdAt"`
}

type statusPayload struct {
	BookingID string    `json:"bookingId"`
	OwnerID   string    `json:"ownerId"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Applier folds booking events into the trip view. Delivery is at-least-once,
// so every apply must be a no-op on replay.
type Applier struct {
	Store  Store
	Logger *slog.Logger
}

func (a *Applier) ApplyCreated(ctx context.Context, payload []byte) error {
	var evt createdPayload
	if err := json.Unmarshal(payload, &evt); err != nil {
		return err
	}
	if evt.BookingID == "" {
		return errors.New("projection: created event missing booking id")
	}
	existing, err := a.Store.Get(ctx, evt.BookingID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if existing != nil {
		// Replayed creation; a later status may already be applied.
		return nil
	}
	view := &TripView{
		BookingID:       evt.BookingID,
		TravelerID:      evt.TravelerID,
		OwnerID:         evt.OwnerID,
		ListingID:       evt.PropertyID,
		CheckIn:         evt.CheckIn,
		CheckOut:        evt.CheckOut,
		Guests:          evt.Guests,
		TotalPriceCents: evt.TotalPrice,
		Status:          evt.Status,
		UpdatedAt:       evt.CreatedAt,
	}
	if err := a.Store.Upsert(ctx, view); err != nil {
		return err
	}
	if a.Logger != nil {
		a.Logger.Debug("trip view created", "booking_id", evt.BookingID)
	}
	return nil
}

func (a *Applier) ApplyStatus(ctx context.Context, payload []byte) error {
	var evt statusPayload
	if err := json.Unmarshal(payload, &evt); err != nil {
		return err
	}
	if evt.BookingID == "" {
		return errors.New("projection: status event missing booking id")
	}
	existing, err := a.Store.Get(ctx, evt.BookingID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Status may arrive before creation when partitions differ; keep a
			// stub so the terminal state is not lost.
			existing = &TripView{BookingID: evt.BookingID, OwnerID: evt.OwnerID}
		} else {
			return err
		}
	}
	if existing.Status == evt.Status || existing.UpdatedAt.After(evt.UpdatedAt) {
		return nil
	}
	existing.Status = evt.Status
	existing.UpdatedAt = evt.UpdatedAt
	if err := a.Store.Upsert(ctx, existing); err != nil {
		return err
	}
	if a.Logger != nil {
		a.Logger.Debug("trip view updated", "booking_id", evt.BookingID, "status", evt.Status)
	}
	return nil
}
