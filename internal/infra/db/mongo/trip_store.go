package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stayhub/internal/app/projection"
)

// TripStore holds the consumer-maintained trip read model. It lives outside
// the unit of work: the projection is non-authoritative and converges via the
// status event stream.
type TripStore struct {
	col *mongo.Collection
}

func NewTripStore(db *mongo.Database) *TripStore {
	return &TripStore{col: db.Collection("trip_views")}
}

func (s *TripStore) Get(ctx context.Context, bookingID string) (*projection.TripView, error) {
	var view projection.TripView
	if err := s.col.FindOne(ctx, bson.M{"_id": bookingID}).Decode(&view); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, projection.ErrNotFound
		}
		return nil, err
	}
	return &view, nil
}

func (s *TripStore) Upsert(ctx context.Context, view *projection.TripView) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": view.BookingID}, bson.M{"$set": view}, options.Update().SetUpsert(true))
	return err
}

func (s *TripStore) ListByTraveler(ctx context.Context, travelerID string) ([]*projection.TripView, error) {
	cursor, err := s.col.Find(ctx, bson.M{"traveler_id": travelerID},
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]*projection.TripView, 0)
	for cursor.Next(ctx) {
		var view projection.TripView
		if err := cursor.Decode(&view); err != nil {
			return nil, err
		}
		out = append(out, &view)
	}
	return out, cursor.Err()
}

var _ projection.Store = (*TripStore)(nil)
