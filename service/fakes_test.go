package application_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"rental_service/domain"
	errs "rental_service/errors"
)

// In-memory stores backing the service tests. They are safe for concurrent
// use so admission races can be exercised for real.

type inMemoryCarStore struct {
	mu   sync.Mutex
	cars map[primitive.ObjectID]*domain.Car
	seq  int
}

func newInMemoryCarStore() *inMemoryCarStore {
	return &inMemoryCarStore{cars: make(map[primitive.ObjectID]*domain.Car)}
}

func (s *inMemoryCarStore) Insert(ctx context.Context, car *domain.Car) (*domain.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	car.ID = primitive.NewObjectID()
	s.seq++
	car.CreatedAt = time.Unix(int64(s.seq), 0)
	copied := *car
	s.cars[car.ID] = &copied
	return car, nil
}

func (s *inMemoryCarStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	car, ok := s.cars[id]
	if !ok {
		return nil, nil
	}
	copied := *car
	return &copied, nil
}

func (s *inMemoryCarStore) GetAll(ctx context.Context, filter domain.CarFilter) ([]*domain.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domain.Car
	for _, car := range s.cars {
		if filter.Category != "" && string(car.Category) != filter.Category {
			continue
		}
		if filter.AvailableOnly && !car.IsAvailable {
			continue
		}
		if filter.MinPrice != nil && car.PricePerDay < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && car.PricePerDay > *filter.MaxPrice {
			continue
		}
		copied := *car
		result = append(result, &copied)
	}
	// newest first
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[j].CreatedAt.After(result[i].CreatedAt) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	return result, nil
}

func (s *inMemoryCarStore) Update(ctx context.Context, car *domain.Car) (*domain.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cars[car.ID]; !ok {
		return nil, errs.ErrCarNotFound
	}
	copied := *car
	s.cars[car.ID] = &copied
	return car, nil
}

func (s *inMemoryCarStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.cars)), nil
}

func (s *inMemoryCarStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cars[id]; !ok {
		return errs.ErrCarNotFound
	}
	delete(s.cars, id)
	return nil
}

type inMemoryBookingStore struct {
	mu          sync.Mutex
	bookings    []*domain.Booking
	overlapHits int
}

func newInMemoryBookingStore() *inMemoryBookingStore {
	return &inMemoryBookingStore{}
}

func (s *inMemoryBookingStore) Insert(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	copied := *booking
	s.bookings = append(s.bookings, &copied)
	return booking, nil
}

func (s *inMemoryBookingStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, booking := range s.bookings {
		if booking.ID == id {
			copied := *booking
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *inMemoryBookingStore) GetAllByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domain.Booking
	for _, booking := range s.bookings {
		if booking.UserID == userID {
			copied := *booking
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *inMemoryBookingStore) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*domain.Booking, 0, len(s.bookings))
	for _, booking := range s.bookings {
		copied := *booking
		result = append(result, &copied)
	}
	return result, nil
}

func (s *inMemoryBookingStore) FindOverlapping(ctx context.Context, carID primitive.ObjectID, pickup, ret time.Time) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlapHits++
	var result []*domain.Booking
	for _, booking := range s.bookings {
		if booking.CarID != carID || booking.Status.IsTerminal() {
			continue
		}
		if !booking.PickupDate.After(ret) && !booking.ReturnDate.Before(pickup) {
			copied := *booking
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *inMemoryBookingStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.BookingStatus) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, booking := range s.bookings {
		if booking.ID == id {
			booking.Status = status
			booking.UpdatedAt = time.Now()
			copied := *booking
			return &copied, nil
		}
	}
	return nil, errs.ErrBookingNotFound
}

func (s *inMemoryBookingStore) CountAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.bookings)), nil
}

func (s *inMemoryBookingStore) CountByStatus(ctx context.Context, statuses []domain.BookingStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, booking := range s.bookings {
		for _, status := range statuses {
			if booking.Status == status {
				count++
				break
			}
		}
	}
	return count, nil
}

func (s *inMemoryBookingStore) CompletedRevenue(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, booking := range s.bookings {
		if booking.Status == domain.Completed {
			total += booking.TotalPrice
		}
	}
	return total, nil
}

func (s *inMemoryBookingStore) GetRecent(ctx context.Context, limit int64) ([]*domain.Booking, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if int64(len(all)) > limit {
		all = all[int64(len(all))-limit:]
	}
	return all, nil
}

type inMemoryUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newInMemoryUserStore() *inMemoryUserStore {
	return &inMemoryUserStore{users: make(map[primitive.ObjectID]*domain.User)}
}

func (s *inMemoryUserStore) Register(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return nil, errs.ErrEmailExists
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	copied := *user
	s.users[user.ID] = &copied
	return user, nil
}

func (s *inMemoryUserStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (s *inMemoryUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *inMemoryUserStore) GetAllCustomers(ctx context.Context) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domain.User
	for _, user := range s.users {
		if user.Role == domain.Customer {
			copied := *user
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *inMemoryUserStore) CountCustomers(ctx context.Context) (int64, error) {
	customers, _ := s.GetAllCustomers(ctx)
	return int64(len(customers)), nil
}

func (s *inMemoryUserStore) UpdateActive(ctx context.Context, id primitive.ObjectID, isActive bool) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	user.IsActive = isActive
	copied := *user
	return &copied, nil
}

func (s *inMemoryUserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return errs.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *inMemoryUserStore) EnsureIndexes(ctx context.Context) error {
	return nil
}

var errCacheMiss = errors.New("cache miss")

type inMemoryCatalogCache struct {
	mu       sync.Mutex
	listings map[string][]*domain.Car
	posts    int
	drops    int
}

func newInMemoryCatalogCache() *inMemoryCatalogCache {
	return &inMemoryCatalogCache{listings: make(map[string][]*domain.Car)}
}

func (c *inMemoryCatalogCache) PostListing(ctx context.Context, key string, cars []*domain.Car) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listings[key] = cars
	c.posts++
	return nil
}

func (c *inMemoryCatalogCache) GetListing(ctx context.Context, key string) ([]*domain.Car, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cars, ok := c.listings[key]
	if !ok {
		return nil, errCacheMiss
	}
	return cars, nil
}

func (c *inMemoryCatalogCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listings = make(map[string][]*domain.Car)
	c.drops++
	return nil
}
