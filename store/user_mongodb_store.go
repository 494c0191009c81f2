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

const USERS_COLLECTION = "users"

type UserMongoDBStore struct {
	users  *mongo.Collection
	tracer trace.Tracer
}

func NewUserMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.UserStore {
	users := client.Database(DATABASE).Collection(USERS_COLLECTION)
	return &UserMongoDBStore{
		users:  users,
		tracer: tracer,
	}
}

// EnsureIndexes backs the email-uniqueness invariant with a unique index so
// two concurrent registrations cannot both land.
func (store *UserMongoDBStore) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, err := store.users.Indexes().CreateOne(ctx, model)
	return err
}

func (store *UserMongoDBStore) Register(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.Register")
	defer span.End()

	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()

	result, err := store.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, errs.ErrEmailExists
		}
		return nil, err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return user, nil
}

func (store *UserMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.Get")
	defer span.End()

	filter := bson.M{"_id": id}
	return store.filterOne(ctx, filter)
}

func (store *UserMongoDBStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.GetByEmail")
	defer span.End()

	filter := bson.M{"email": email}
	return store.filterOne(ctx, filter)
}

func (store *UserMongoDBStore) GetAllCustomers(ctx context.Context) ([]*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.GetAllCustomers")
	defer span.End()

	filter := bson.M{"role": domain.Customer}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := store.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeUsers(ctx, cursor)
}

func (store *UserMongoDBStore) CountCustomers(ctx context.Context) (int64, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.CountCustomers")
	defer span.End()

	return store.users.CountDocuments(ctx, bson.M{"role": domain.Customer})
}

func (store *UserMongoDBStore) UpdateActive(ctx context.Context, id primitive.ObjectID, isActive bool) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.UpdateActive")
	defer span.End()

	update := bson.M{"$set": bson.M{"isActive": isActive}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user domain.User
	err := store.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (store *UserMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "UserStore.Delete")
	defer span.End()

	result, err := store.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}

func (store *UserMongoDBStore) filterOne(ctx context.Context, filter interface{}) (*domain.User, error) {
	result := store.users.FindOne(ctx, filter)

	var user domain.User
	if err := result.Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		log.Println("Error decoding user:", err)
		return nil, err
	}

	return &user, nil
}

func decodeUsers(ctx context.Context, cursor *mongo.Cursor) (users []*domain.User, err error) {
	for cursor.Next(ctx) {
		var user domain.User
		err = cursor.Decode(&user)
		if err != nil {
			return
		}
		users = append(users, &user)
	}
	err = cursor.Err()
	return
}
