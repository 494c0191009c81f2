package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/trace"

	"rental_service/domain"
)

const NOTIFICATIONS_COLLECTION = "notifications"

type NotificationMongoDBStore struct {
	notifications *mongo.Collection
	tracer        trace.Tracer
}

func NewNotificationMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.NotificationStore {
	notifications := client.Database(DATABASE).Collection(NOTIFICATIONS_COLLECTION)
	return &NotificationMongoDBStore{
		notifications: notifications,
		tracer:        tracer,
	}
}

func (store *NotificationMongoDBStore) Insert(ctx context.Context, notification *domain.Notification) (*domain.Notification, error) {
	ctx, span := store.tracer.Start(ctx, "NotificationStore.Insert")
	defer span.End()

	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()

	result, err := store.notifications.InsertOne(ctx, notification)
	if err != nil {
		return nil, err
	}
	notification.ID = result.InsertedID.(primitive.ObjectID)
	return notification, nil
}

func (store *NotificationMongoDBStore) GetAllByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Notification, error) {
	ctx, span := store.tracer.Start(ctx, "NotificationStore.GetAllByUser")
	defer span.End()

	filter := bson.M{"forUserId": userID}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := store.notifications.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []*domain.Notification
	for cursor.Next(ctx) {
		var notification domain.Notification
		if err := cursor.Decode(&notification); err != nil {
			return nil, err
		}
		notifications = append(notifications, &notification)
	}
	return notifications, cursor.Err()
}
