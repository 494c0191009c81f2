package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogCache holds serialized catalog listings keyed by their filter.
type CatalogCache interface {
	PostListing(ctx context.Context, key string, cars []*Car) error
	GetListing(ctx context.Context, key string) ([]*Car, error)
	Invalidate(ctx context.Context) error
}

type NotificationStore interface {
	Insert(ctx context.Context, notification *Notification) (*Notification, error)
	GetAllByUser(ctx context.Context, userID primitive.ObjectID) ([]*Notification, error)
}
