package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/homestay/rental-api/internal/core/domain"
)

const collectionBookings = "bookings"

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(collectionBookings)}
}

type bookingDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	UserID   primitive.ObjectID `bson:"userId"`
	Place    primitive.ObjectID `bson:"place"`
	CheckIn  string             `bson:"checkIn"`
	CheckOut string             `bson:"checkOut"`
	Guests   int                `bson:"guests"`
	Phone    string             `bson:"phone"`
	Price    float64            `bson:"price"`
}

type bookingWithPlace struct {
	Booking  bookingDocument `bson:",inline"`
	PlaceDoc placeDocument   `bson:"placeDoc"`
}

func (d *bookingDocument) toDomain() domain.Booking {
	return domain.Booking{
		ID:        d.ID.Hex(),
		GuestName: d.Name,
		GuestID:   d.UserID.Hex(),
		ListingID: d.Place.Hex(),
		CheckIn:   d.CheckIn,
		CheckOut:  d.CheckOut,
		Guests:    d.Guests,
		Phone:     d.Phone,
		Price:     d.Price,
	}
}

// Create stores a booking. The listing id must be well formed but the
// listing itself is not looked up.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	guest, ok := objectID(b.GuestID)
	if !ok {
		return nil, fmt.Errorf("%w: guest id %q", domain.ErrInvalidInput, b.GuestID)
	}
	place, ok := objectID(b.ListingID)
	if !ok {
		return nil, fmt.Errorf("%w: place id %q", domain.ErrInvalidInput, b.ListingID)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bookingDocument{
		Name:     b.GuestName,
		UserID:   guest,
		Place:    place,
		CheckIn:  b.CheckIn,
		CheckOut: b.CheckOut,
		Guests:   b.Guests,
		Phone:    b.Phone,
		Price:    b.Price,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert booking: unexpected id type %T", res.InsertedID)
	}
	doc.ID = id

	created := doc.toDomain()
	return &created, nil
}

// ListByGuest joins each booking with its place. $unwind drops bookings
// whose place has been deleted.
func (r *BookingRepository) ListByGuest(ctx context.Context, guestID string) ([]domain.BookingDetail, error) {
	guest, ok := objectID(guestID)
	if !ok {
		return []domain.BookingDetail{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "userId", Value: guest}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionPlaces},
			{Key: "localField", Value: "place"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "placeDoc"},
		}}},
		{{Key: "$unwind", Value: "$placeDoc"}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bookingWithPlace
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}

	out := make([]domain.BookingDetail, 0, len(docs))
	for i := range docs {
		out = append(out, domain.BookingDetail{
			Booking: docs[i].Booking.toDomain(),
			Listing: *docs[i].PlaceDoc.toDomain(),
		})
	}
	return out, nil
}

// EnsureIndexes creates necessary indexes on the bookings collection.
func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}})
	return err
}
