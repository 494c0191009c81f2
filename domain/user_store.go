package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStore interface {
	Register(ctx context.Context, user *User) (*User, error)
	Get(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetAllCustomers(ctx context.Context) ([]*User, error)
	CountCustomers(ctx context.Context) (int64, error)
	UpdateActive(ctx context.Context, id primitive.ObjectID, isActive bool) (*User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}
