package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainblackout "stayhub/internal/domain/blackout"
	domainlistings "stayhub/internal/domain/listings"
	domainrange "stayhub/internal/domain/shared/daterange"
)

type BlackoutRepository struct {
	col *mongo.Collection
}

func NewBlackoutRepository(db *mongo.Database) *BlackoutRepository {
	return &BlackoutRepository{col: db.Collection("blackouts")}
}

func (r *BlackoutRepository) ByID(ctx context.Context, id domainblackout.BlackoutID) (*domainblackout.Blackout, error) {
	var doc blackoutDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainblackout.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BlackoutRepository) Save(ctx context.Context, b *domainblackout.Blackout) error {
	doc := newBlackoutDocument(b)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

func (r *BlackoutRepository) Remove(ctx context.Context, id domainblackout.BlackoutID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainblackout.ErrNotFound
	}
	return nil
}

func (r *BlackoutRepository) ListByListing(ctx context.Context, listingID domainlistings.ListingID) ([]*domainblackout.Blackout, error) {
	cursor, err := r.col.Find(ctx, bson.M{"listing_id": string(listingID)},
		options.Find().SetSort(bson.D{{Key: "window.check_in", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]*domainblackout.Blackout, 0)
	for cursor.Next(ctx) {
		var doc blackoutDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *BlackoutRepository) HasOverlap(ctx context.Context, listingID domainlistings.ListingID, rng domainrange.DateRange) (bool, error) {
	filter := bson.M{
		"listing_id":       string(listingID),
		"window.check_in":  bson.M{"$lt": rng.End.UnixMilli()},
		"window.check_out": bson.M{"$gt": rng.Start.UnixMilli()},
	}
	count, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type blackoutDocument struct {
	ID        string        `bson:"_id"`
	ListingID string        `bson:"listing_id"`
	Window    rangeDocument `bson:"window"`
	CreatedAt int64         `bson:"created_at"`
}

func newBlackoutDocument(b *domainblackout.Blackout) blackoutDocument {
	return blackoutDocument{
		ID:        string(b.ID),
		ListingID: string(b.ListingID),
		Window:    rangeDocument{CheckIn: b.Window.Start.UnixMilli(), CheckOut: b.Window.End.UnixMilli()},
		CreatedAt: b.CreatedAt.UnixMilli(),
	}
}

func (d blackoutDocument) toAggregate() *domainblackout.Blackout {
	return &domainblackout.Blackout{
		ID:        domainblackout.BlackoutID(d.ID),
		ListingID: domainlistings.ListingID(d.ListingID),
		Window:    domainrange.DateRange{Start: timestampToTime(d.Window.CheckIn), End: timestampToTime(d.Window.CheckOut)},
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}

var _ domainblackout.Repository = (*BlackoutRepository)(nil)
