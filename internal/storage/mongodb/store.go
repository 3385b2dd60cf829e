package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/GolovachevS/listings-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the collection holding listing documents.
const CollectionName = "listings"

type collection interface {
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
	InsertOne(ctx context.Context, document any, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	FindOneAndUpdate(ctx context.Context, filter any, update any, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
	FindOneAndDelete(ctx context.Context, filter any, opts ...*options.FindOneAndDeleteOptions) *mongo.SingleResult
}

type listingDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Image       string             `bson:"image"`
	Price       float64            `bson:"price"`
	Location    string             `bson:"location"`
	Country     string             `bson:"country"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

// Store implements the service.Repository interface using MongoDB.
type Store struct {
	coll collection
}

func New(db *mongo.Database) *Store {
	return &Store{coll: db.Collection(CollectionName)}
}

func (s *Store) ListListings(ctx context.Context) ([]domain.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []listingDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	listings := make([]domain.Listing, 0, len(docs))
	for _, doc := range docs {
		listings = append(listings, doc.toDomain())
	}
	return listings, nil
}

func (s *Store) GetListing(ctx context.Context, id string) (domain.Listing, error) {
	oid, err := parseID(id)
	if err != nil {
		return domain.Listing{}, err
	}
	return decodeOne(s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}))
}

func (s *Store) CreateListing(ctx context.Context, listing domain.Listing) (domain.Listing, error) {
	doc := listingDocument{
		ID:          primitive.NewObjectID(),
		Title:       listing.Title,
		Description: listing.Description,
		Image:       listing.Image,
		Price:       listing.Price,
		Location:    listing.Location,
		Country:     listing.Country,
		CreatedAt:   listing.CreatedAt,
		UpdatedAt:   listing.UpdatedAt,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return domain.Listing{}, err
	}
	return doc.toDomain(), nil
}

func (s *Store) UpdateListing(ctx context.Context, id string, input domain.ListingInput, updatedAt time.Time) (domain.Listing, error) {
	oid, err := parseID(id)
	if err != nil {
		return domain.Listing{}, err
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: input.Title},
		{Key: "description", Value: input.Description},
		{Key: "image", Value: input.Image},
		{Key: "price", Value: input.Price},
		{Key: "location", Value: input.Location},
		{Key: "country", Value: input.Country},
		{Key: "updated_at", Value: updatedAt},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return decodeOne(s.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts))
}

func (s *Store) DeleteListing(ctx context.Context, id string) (domain.Listing, error) {
	oid, err := parseID(id)
	if err != nil {
		return domain.Listing{}, err
	}
	return decodeOne(s.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}))
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.NewInvalidIDError(id, err)
	}
	return oid, nil
}

func decodeOne(res *mongo.SingleResult) (domain.Listing, error) {
	var doc listingDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Listing{}, domain.NewListingNotFoundError(err)
		}
		return domain.Listing{}, err
	}
	return doc.toDomain(), nil
}

func (d listingDocument) toDomain() domain.Listing {
	return domain.Listing{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Image:       d.Image,
		Price:       d.Price,
		Location:    d.Location,
		Country:     d.Country,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
