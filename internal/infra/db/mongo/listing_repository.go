package mongo

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlistings "stayhub/internal/domain/listings"
)

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection("listings")}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlistings.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	doc := newListingDocument(listing)
	filter := bson.M{"_id": doc.ID, "version": listing.Version}
	doc.Version = listing.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	listing.Version = doc.Version
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlistings.ListingID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainlistings.ErrNotFound
	}
	return nil
}

func (r *ListingRepository) ListByOwner(ctx context.Context, owner domainlistings.OwnerID) ([]*domainlistings.Listing, error) {
	return r.list(ctx, bson.M{"owner_id": string(owner)}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
}

func (r *ListingRepository) Search(ctx context.Context, params domainlistings.SearchParams) ([]*domainlistings.Listing, error) {
	params = params.Normalized()
	filter := bson.M{}
	if params.City != "" {
		filter["city"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(params.City) + "$", Options: "i"}
	}
	if params.Guests > 0 {
		filter["max_guests"] = bson.M{"$gte": params.Guests}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetSkip(int64(params.Offset)).
		SetLimit(int64(params.Limit))
	return r.list(ctx, filter, opts)
}

func (r *ListingRepository) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domainlistings.Listing, error) {
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]*domainlistings.Listing, 0)
	for cursor.Next(ctx) {
		var doc listingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type listingDocument struct {
	ID               string   `bson:"_id"`
	OwnerID          string   `bson:"owner_id"`
	Title            string   `bson:"title"`
	Description      string   `bson:"description,omitempty"`
	PropertyType     string   `bson:"property_type,omitempty"`
	City             string   `bson:"city"`
	Country          string   `bson:"country"`
	NightlyRateCents int64    `bson:"nightly_rate_cents"`
	MaxGuests        int      `bson:"max_guests"`
	Bedrooms         int      `bson:"bedrooms,omitempty"`
	Bathrooms        int      `bson:"bathrooms,omitempty"`
	Amenities        []string `bson:"amenities,omitempty"`
	ImageURL         string   `bson:"image_url,omitempty"`
	CreatedAt        int64    `bson:"created_at"`
	UpdatedAt        int64    `bson:"updated_at"`
	Version          int64    `bson:"version"`
}

func newListingDocument(l *domainlistings.Listing) listingDocument {
	return listingDocument{
		ID:               string(l.ID),
		OwnerID:          string(l.Owner),
		Title:            l.Title,
		Description:      l.Description,
		PropertyType:     l.PropertyType,
		City:             l.City,
		Country:          l.Country,
		NightlyRateCents: l.NightlyRateCents,
		MaxGuests:        l.MaxGuests,
		Bedrooms:         l.Bedrooms,
		Bathrooms:        l.Bathrooms,
		Amenities:        l.Amenities,
		ImageURL:         l.ImageURL,
		CreatedAt:        l.CreatedAt.UnixMilli(),
		UpdatedAt:        l.UpdatedAt.UnixMilli(),
		Version:          l.Version,
	}
}

func (d listingDocument) toAggregate() *domainlistings.Listing {
	return &domainlistings.Listing{
		ID:               domainlistings.ListingID(d.ID),
		Owner:            domainlistings.OwnerID(d.OwnerID),
		Title:            d.Title,
		Description:      d.Description,
		PropertyType:     d.PropertyType,
		City:             d.City,
		Country:          d.Country,
		NightlyRateCents: d.NightlyRateCents,
		MaxGuests:        d.MaxGuests,
		Bedrooms:         d.Bedrooms,
		Bathrooms:        d.Bathrooms,
		Amenities:        d.Amenities,
		ImageURL:         d.ImageURL,
		CreatedAt:        timestampToTime(d.CreatedAt),
		UpdatedAt:        timestampToTime(d.UpdatedAt),
		Version:          d.Version,
	}
}

var _ domainlistings.Repository = (*ListingRepository)(nil)
