package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/homestay/rental-api/internal/core/domain"
)

const collectionPlaces = "places"

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection(collectionPlaces)}
}

// placeDocument keeps the field names of the existing places collection,
// including the historical "emenities" spelling.
type placeDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Owner       primitive.ObjectID `bson:"owner"`
	Name        string             `bson:"name"`
	Address     string             `bson:"address"`
	Photos      []string           `bson:"photos"`
	Description string             `bson:"description"`
	Amenities   []string           `bson:"emenities"`
	ExtraInfo   string             `bson:"extraInfo"`
	CheckIn     string             `bson:"checkIn"`
	CheckOut    string             `bson:"checkOut"`
	MaxGuests   int                `bson:"maxGuests"`
	Price       float64            `bson:"price"`
}

func newPlaceDocument(l *domain.Listing) (*placeDocument, error) {
	owner, ok := objectID(l.OwnerID)
	if !ok {
		return nil, fmt.Errorf("%w: owner id %q", domain.ErrInvalidInput, l.OwnerID)
	}
	doc := &placeDocument{
		Owner:       owner,
		Name:        l.Name,
		Address:     l.Address,
		Photos:      nonNil(l.Photos),
		Description: l.Description,
		Amenities:   nonNil(l.Amenities),
		ExtraInfo:   l.ExtraInfo,
		CheckIn:     l.CheckIn,
		CheckOut:    l.CheckOut,
		MaxGuests:   l.MaxGuests,
		Price:       l.Price,
	}
	if l.ID != "" {
		id, ok := objectID(l.ID)
		if !ok {
			return nil, domain.ErrListingNotFound
		}
		doc.ID = id
	}
	return doc, nil
}

func (d *placeDocument) toDomain() *domain.Listing {
	return &domain.Listing{
		ID:          d.ID.Hex(),
		OwnerID:     d.Owner.Hex(),
		Name:        d.Name,
		Address:     d.Address,
		Photos:      nonNil(d.Photos),
		Description: d.Description,
		Amenities:   nonNil(d.Amenities),
		ExtraInfo:   d.ExtraInfo,
		CheckIn:     d.CheckIn,
		CheckOut:    d.CheckOut,
		MaxGuests:   d.MaxGuests,
		Price:       d.Price,
	}
}

func (r *ListingRepository) Create(ctx context.Context, l *domain.Listing) (*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := newPlaceDocument(l)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NilObjectID

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert place: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert place: unexpected id type %T", res.InsertedID)
	}
	doc.ID = id
	return doc.toDomain(), nil
}

// FindByID returns domain.ErrListingNotFound for malformed ids as well as
// unknown ones.
func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrListingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc placeDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("find place: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ListingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	owner, ok := objectID(ownerID)
	if !ok {
		return []*domain.Listing{}, nil
	}
	return r.list(ctx, bson.M{"owner": owner})
}

func (r *ListingRepository) ListAll(ctx context.Context) ([]*domain.Listing, error) {
	return r.list(ctx, bson.M{})
}

func (r *ListingRepository) list(ctx context.Context, filter bson.M) ([]*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find places: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []placeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode places: %w", err)
	}

	out := make([]*domain.Listing, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// Replace overwrites the stored document matching both id and owner.
func (r *ListingRepository) Replace(ctx context.Context, l *domain.Listing) error {
	doc, err := newPlaceDocument(l)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		return domain.ErrListingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID, "owner": doc.Owner}, doc)
	if err != nil {
		return fmt.Errorf("replace place: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id, ownerID string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrListingNotFound
	}
	owner, ok := objectID(ownerID)
	if !ok {
		return domain.ErrListingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "owner": owner})
	if err != nil {
		return fmt.Errorf("delete place: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the places collection.
func (r *ListingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "owner", Value: 1}}})
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
