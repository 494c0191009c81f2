package store

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/trace"

	"rental_service/domain"
	errs "rental_service/errors"
)

const BOOKINGS_COLLECTION = "bookings"

type BookingMongoDBStore struct {
	bookings *mongo.Collection
	tracer   trace.Tracer
}

func NewBookingMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.BookingStore {
	bookings := client.Database(DATABASE).Collection(BOOKINGS_COLLECTION)
	return &BookingMongoDBStore{
		bookings: bookings,
		tracer:   tracer,
	}
}

func (store *BookingMongoDBStore) Insert(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	ctx, span := store.tracer.Start(ctx, "BookingStore.Insert")
	defer span.End()

	booking.ID = primitive.NewObjectID()
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	result, err := store.bookings.InsertOne(ctx, booking)
	if err != nil {
		return nil, err
	}
	booking.ID = result.InsertedID.(primitive.ObjectID)
	return booking, nil
}

func (store *BookingMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Booking, error) {
	ctx, span := store.tracer.Start(ctx, "BookingStore.Get")
	defer span.End()

	filter := bson.M{"_id": id}
	return store.filterOne(ctx, filter)
}

func (store *BookingMongoDBStore) GetAllByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Booking, error) {
	ctx, span := store.tracer.Start(ctx, "BookingStore.GetAllByUser")
	defer span.End()

	filter := bson.M{"userId": userID}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return store.filter(ctx, filter, opts)
}

func (store *BookingMongoDBStore) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	ctx, span := store.tracer.Start(ctx, "BookingStore.GetAll")
	defer span.End()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return store.filter(ctx, bson.M{}, opts)
}

func (store *BookingMongoDBStore) FindOverlapping(ctx context.Context, carID primitive.ObjectID, pickup, ret time.Time) ([]*domain.Booking, error) {
	ctx, span := store.tracer.Start(ctx, "BookingStore.FindOverlapping")
	defer span.End()

	// Closed-boundary overlap: a return on day X conflicts with a pickup on
	// day X, so same-day turnover is never admitted.
	filter := bson.M{
		"carId":      carID,
		"status":     bson.M{"$in": []domain.BookingStatus{domain.Pending, domain.Confirmed}},
		"pickupDate": bson.M{"$lte": ret},
		"returnDate": bson.M{"$gte": pickup},
	}
	return store.filter(ctx, filter, options.Find())
}

func (store *BookingMongoDBStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.BookingStatus) (*domain.Booking, error) {
	ctx, span := store.tracer.Start(ctx, "BookingStore.UpdateStatus")
	defer span.End()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking domain.Booking
	err := store.bookings.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (store *BookingMongoDBStore) CountAll(ctx context.Context) (int64, error) {
	ctx, span := store.tracer.Start(ctx, "BookingStore.CountAll")
	defer span.End()

	return store.bookings.CountDocuments(ctx, bson.M{})
}

func (store *BookingMongoDBStore) CountByStatus(ctx context.Context, statuses []domain.BookingStatus) (int64, error) {
	ctx, span := store.tracer.Start(ctx, "BookingStore.CountByStatus")
	defer span.End()

	return store.bookings.CountDocuments(ctx, bson.M{"status": bson.M{"$in": statuses}})
}

func (store *BookingMongoDBStore) CompletedRevenue(ctx context.Context) (float64, error) {
	ctx, span := store.tracer.Start(ctx, "BookingStore.CompletedRevenue")
	defer span.End()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": domain.Completed}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$totalPrice"}}}},
	}

	cursor, err := store.bookings.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

func (store *BookingMongoDBStore) GetRecent(ctx context.Context, limit int64) ([]*domain.Booking, error) {
	ctx, span := store.tracer.Start(ctx, "BookingStore.GetRecent")
	defer span.End()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
	return store.filter(ctx, bson.M{}, opts)
}

func (store *BookingMongoDBStore) filter(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]*domain.Booking, error) {
	cursor, err := store.bookings.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeBookings(ctx, cursor)
}

func (store *BookingMongoDBStore) filterOne(ctx context.Context, filter interface{}) (*domain.Booking, error) {
	result := store.bookings.FindOne(ctx, filter)

	var booking domain.Booking
	if err := result.Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		log.Println("Error decoding booking:", err)
		return nil, err
	}

	return &booking, nil
}

func decodeBookings(ctx context.Context, cursor *mongo.Cursor) (bookings []*domain.Booking, err error) {
	for cursor.Next(ctx) {
		var booking domain.Booking
		err = cursor.Decode(&booking)
		if err != nil {
			return
		}
		bookings = append(bookings, &booking)
	}
	err = cursor.Err()
	return
}
