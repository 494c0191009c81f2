package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStore interface {
	Insert(ctx context.Context, booking *Booking) (*Booking, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Booking, error)
	GetAllByUser(ctx context.Context, userID primitive.ObjectID) ([]*Booking, error)
	GetAll(ctx context.Context) ([]*Booking, error)
	// FindOverlapping returns the non-terminal bookings of a car whose date
	// range conflicts with [pickup, ret] under the closed-boundary predicate
	// existingPickup <= ret && existingReturn >= pickup.
	FindOverlapping(ctx context.Context, carID primitive.ObjectID, pickup, ret time.Time) ([]*Booking, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status BookingStatus) (*Booking, error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, statuses []BookingStatus) (int64, error)
	CompletedRevenue(ctx context.Context) (float64, error)
	GetRecent(ctx context.Context, limit int64) ([]*Booking, error)
}
