package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CarFilter narrows catalog listings. Zero values mean no restriction on that
// dimension; price bounds are inclusive.
type CarFilter struct {
	Category      string
	MinPrice      *float64
	MaxPrice      *float64
	AvailableOnly bool
}

type CarStore interface {
	Insert(ctx context.Context, car *Car) (*Car, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Car, error)
	GetAll(ctx context.Context, filter CarFilter) ([]*Car, error)
	Update(ctx context.Context, car *Car) (*Car, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
