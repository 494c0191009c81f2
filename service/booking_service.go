package application

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rental_service/domain"
	errs "rental_service/errors"
)

type BookingService struct {
	store         domain.BookingStore
	cars          domain.CarStore
	users         domain.UserStore
	notifications *NotificationService
	logger        *logrus.Logger
	tracer        trace.Tracer
	carLocks      sync.Map
}

func NewBookingService(bookings domain.BookingStore, cars domain.CarStore, users domain.UserStore, notifications *NotificationService, logger *logrus.Logger, tracer trace.Tracer) *BookingService {
	return &BookingService{
		store:         bookings,
		cars:          cars,
		users:         users,
		notifications: notifications,
		logger:        logger,
		tracer:        tracer,
	}
}

// carLock returns the mutex serializing admissions for one car. Holding it
// across the overlap check and the insert closes the double-booking window
// between the two ledger operations.
func (service *BookingService) carLock(carID primitive.ObjectID) *sync.Mutex {
	lock, _ := service.carLocks.LoadOrStore(carID.Hex(), &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// Create admits a new booking for the acting user. Dates are normalized to
// UTC midnight before any comparison; the car's isAvailable flag is not
// consulted at admission time, only the date-overlap predicate gates entry.
func (service *BookingService) Create(ctx context.Context, actor domain.Actor, carID primitive.ObjectID, pickup, ret time.Time) (*domain.BookingDetails, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.Create")
	defer span.End()

	pickup = domain.NormalizeDate(pickup)
	ret = domain.NormalizeDate(ret)

	if !pickup.Before(ret) {
		return nil, errs.ErrInvalidRange
	}

	car, err := service.cars.Get(ctx, carID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if car == nil {
		return nil, errs.ErrCarNotFound
	}

	lock := service.carLock(carID)
	lock.Lock()
	defer lock.Unlock()

	overlapping, err := service.store.FindOverlapping(ctx, carID, pickup, ret)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, errs.ErrDatesConflict
	}

	totalDays := domain.TotalDays(pickup, ret)
	booking := &domain.Booking{
		UserID:     actor.UserID,
		CarID:      carID,
		PickupDate: pickup,
		ReturnDate: ret,
		TotalDays:  totalDays,
		TotalPrice: float64(totalDays) * car.PricePerDay,
		Status:     domain.Pending,
	}

	saved, err := service.store.Insert(ctx, booking)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &domain.BookingDetails{Booking: *saved, Car: car}, nil
}

// IsAvailable reports whether the car has no non-terminal booking overlapping
// [pickup, ret]. Callers validate date ordering; the checker only runs the
// overlap predicate.
func (service *BookingService) IsAvailable(ctx context.Context, carID primitive.ObjectID, pickup, ret time.Time) (bool, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.IsAvailable")
	defer span.End()

	pickup = domain.NormalizeDate(pickup)
	ret = domain.NormalizeDate(ret)

	overlapping, err := service.store.FindOverlapping(ctx, carID, pickup, ret)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	return len(overlapping) == 0, nil
}

// SetStatus applies a status transition on behalf of the actor. Admins may
// set any valid status on any booking. Customers may only cancel their own
// pending or confirmed bookings; a booking owned by someone else is reported
// as not found, so existence is never leaked across owners.
func (service *BookingService) SetStatus(ctx context.Context, actor domain.Actor, bookingID primitive.ObjectID, status string) (*domain.BookingDetails, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.SetStatus")
	defer span.End()

	if !domain.ValidStatus(status) {
		return nil, errs.ErrInvalidStatus
	}
	newStatus := domain.BookingStatus(status)

	if !actor.IsAdmin() {
		booking, err := service.store.Get(ctx, bookingID)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if booking == nil || booking.UserID != actor.UserID {
			return nil, errs.ErrBookingNotFound
		}
		if newStatus != domain.Cancelled || booking.Status.IsTerminal() {
			return nil, errs.ErrInvalidTransition
		}
	}

	updated, err := service.store.UpdateStatus(ctx, bookingID, newStatus)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if service.notifications != nil {
		if err := service.notifications.NotifyStatusChange(ctx, updated); err != nil {
			service.logger.WithError(err).WithField("bookingId", updated.ID.Hex()).
				Warn("status change notification failed")
		}
	}

	details, err := service.withCar(ctx, updated)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return details, nil
}

// Cancel is the owner-facing shorthand for SetStatus(cancelled).
func (service *BookingService) Cancel(ctx context.Context, actor domain.Actor, bookingID primitive.ObjectID) (*domain.BookingDetails, error) {
	return service.SetStatus(ctx, actor, bookingID, string(domain.Cancelled))
}

// GetAllByUser lists the actor's own bookings, newest first, joined with the
// car summary.
func (service *BookingService) GetAllByUser(ctx context.Context, actor domain.Actor) ([]*domain.BookingDetails, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.GetAllByUser")
	defer span.End()

	bookings, err := service.store.GetAllByUser(ctx, actor.UserID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return service.join(ctx, bookings, false)
}

// GetAll lists every booking joined with car and user summaries. Admin only;
// the role gate sits in front, the service just asserts it.
func (service *BookingService) GetAll(ctx context.Context, actor domain.Actor) ([]*domain.BookingDetails, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.GetAll")
	defer span.End()

	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}

	bookings, err := service.store.GetAll(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return service.join(ctx, bookings, true)
}

type DashboardStats struct {
	TotalUsers     int64   `json:"totalUsers"`
	TotalCars      int64   `json:"totalCars"`
	TotalBookings  int64   `json:"totalBookings"`
	ActiveBookings int64   `json:"activeBookings"`
	TotalRevenue   float64 `json:"totalRevenue"`
}

type Dashboard struct {
	Stats          DashboardStats           `json:"stats"`
	RecentBookings []*domain.BookingDetails `json:"recentBookings"`
}

// GetDashboard aggregates the admin console figures: customer count, catalog
// size, booking totals, revenue over completed bookings and the five most
// recent bookings.
func (service *BookingService) GetDashboard(ctx context.Context, actor domain.Actor) (*Dashboard, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.GetDashboard")
	defer span.End()

	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}

	totalUsers, err := service.users.CountCustomers(ctx)
	if err != nil {
		return nil, err
	}
	totalCars, err := service.cars.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalBookings, err := service.store.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	activeBookings, err := service.store.CountByStatus(ctx, []domain.BookingStatus{domain.Pending, domain.Confirmed})
	if err != nil {
		return nil, err
	}
	totalRevenue, err := service.store.CompletedRevenue(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := service.store.GetRecent(ctx, 5)
	if err != nil {
		return nil, err
	}
	recentDetails, err := service.join(ctx, recent, true)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Stats: DashboardStats{
			TotalUsers:     totalUsers,
			TotalCars:      totalCars,
			TotalBookings:  totalBookings,
			ActiveBookings: activeBookings,
			TotalRevenue:   totalRevenue,
		},
		RecentBookings: recentDetails,
	}, nil
}

func (service *BookingService) withCar(ctx context.Context, booking *domain.Booking) (*domain.BookingDetails, error) {
	// A deleted car leaves the reference dangling; the join tolerates it and
	// exposes a nil car summary.
	car, err := service.cars.Get(ctx, booking.CarID)
	if err != nil {
		return nil, err
	}
	return &domain.BookingDetails{Booking: *booking, Car: car}, nil
}

func (service *BookingService) join(ctx context.Context, bookings []*domain.Booking, withUser bool) ([]*domain.BookingDetails, error) {
	details := make([]*domain.BookingDetails, 0, len(bookings))
	for _, booking := range bookings {
		d, err := service.withCar(ctx, booking)
		if err != nil {
			return nil, err
		}
		if withUser {
			user, err := service.users.Get(ctx, booking.UserID)
			if err != nil {
				return nil, err
			}
			if user != nil {
				d.User = user.Summary()
			}
		}
		details = append(details, d)
	}
	return details, nil
}
