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

const (
	DATABASE        = "rental"
	CARS_COLLECTION = "cars"
)

type CarMongoDBStore struct {
	cars   *mongo.Collection
	tracer trace.Tracer
}

func NewCarMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.CarStore {
	cars := client.Database(DATABASE).Collection(CARS_COLLECTION)
	return &CarMongoDBStore{
		cars:   cars,
		tracer: tracer,
	}
}

func (store *CarMongoDBStore) Insert(ctx context.Context, car *domain.Car) (*domain.Car, error) {
	ctx, span := store.tracer.Start(ctx, "CarStore.Insert")
	defer span.End()

	car.ID = primitive.NewObjectID()
	now := time.Now()
	car.CreatedAt = now
	car.UpdatedAt = now

	result, err := store.cars.InsertOne(ctx, car)
	if err != nil {
		return nil, err
	}
	car.ID = result.InsertedID.(primitive.ObjectID)
	return car, nil
}

func (store *CarMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Car, error) {
	ctx, span := store.tracer.Start(ctx, "CarStore.Get")
	defer span.End()

	filter := bson.M{"_id": id}
	return store.filterOne(ctx, filter)
}

func (store *CarMongoDBStore) GetAll(ctx context.Context, carFilter domain.CarFilter) ([]*domain.Car, error) {
	ctx, span := store.tracer.Start(ctx, "CarStore.GetAll")
	defer span.End()

	filter := bson.M{}
	if carFilter.Category != "" {
		filter["category"] = carFilter.Category
	}
	if carFilter.AvailableOnly {
		filter["isAvailable"] = true
	}
	if carFilter.MinPrice != nil || carFilter.MaxPrice != nil {
		price := bson.M{}
		if carFilter.MinPrice != nil {
			price["$gte"] = *carFilter.MinPrice
		}
		if carFilter.MaxPrice != nil {
			price["$lte"] = *carFilter.MaxPrice
		}
		filter["pricePerDay"] = price
	}

	// Newest first, id as the stable tiebreak.
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return store.filter(ctx, filter, opts)
}

func (store *CarMongoDBStore) Update(ctx context.Context, car *domain.Car) (*domain.Car, error) {
	ctx, span := store.tracer.Start(ctx, "CarStore.Update")
	defer span.End()

	car.UpdatedAt = time.Now()

	result, err := store.cars.UpdateOne(ctx, bson.M{"_id": car.ID}, bson.M{"$set": car})
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, errs.ErrCarNotFound
	}
	return car, nil
}

func (store *CarMongoDBStore) Count(ctx context.Context) (int64, error) {
	ctx, span := store.tracer.Start(ctx, "CarStore.Count")
	defer span.End()

	return store.cars.CountDocuments(ctx, bson.M{})
}

func (store *CarMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "CarStore.Delete")
	defer span.End()

	result, err := store.cars.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return errs.ErrCarNotFound
	}
	return nil
}

func (store *CarMongoDBStore) filter(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]*domain.Car, error) {
	cursor, err := store.cars.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeCars(ctx, cursor)
}

func (store *CarMongoDBStore) filterOne(ctx context.Context, filter interface{}) (*domain.Car, error) {
	result := store.cars.FindOne(ctx, filter)

	var car domain.Car
	if err := result.Decode(&car); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		log.Println("Error decoding car:", err)
		return nil, err
	}

	return &car, nil
}

func decodeCars(ctx context.Context, cursor *mongo.Cursor) (cars []*domain.Car, err error) {
	for cursor.Next(ctx) {
		var car domain.Car
		err = cursor.Decode(&car)
		if err != nil {
			return
		}
		cars = append(cars, &car)
	}
	err = cursor.Err()
	return
}
