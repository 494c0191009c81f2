package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rental_service/domain"
	errs "rental_service/errors"
)

type CarService struct {
	store  domain.CarStore
	cache  domain.CatalogCache
	logger *logrus.Logger
	tracer trace.Tracer
}

func NewCarService(store domain.CarStore, cache domain.CatalogCache, logger *logrus.Logger, tracer trace.Tracer) *CarService {
	return &CarService{
		store:  store,
		cache:  cache,
		logger: logger,
		tracer: tracer,
	}
}

// GetAll lists the catalog for a filter, newest first. Listings are cached
// per filter; the cache is dropped on any catalog mutation, and a cache
// failure only costs the round trip to the store.
func (service *CarService) GetAll(ctx context.Context, filter domain.CarFilter) ([]*domain.Car, error) {
	ctx, span := service.tracer.Start(ctx, "CarService.GetAll")
	defer span.End()

	key := listingKey(filter)
	if service.cache != nil {
		cars, err := service.cache.GetListing(ctx, key)
		if err == nil {
			return cars, nil
		}
	}

	cars, err := service.store.GetAll(ctx, filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if service.cache != nil {
		if err := service.cache.PostListing(ctx, key, cars); err != nil {
			service.logger.WithError(err).Warn("caching catalog listing failed")
		}
	}
	return cars, nil
}

func (service *CarService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Car, error) {
	ctx, span := service.tracer.Start(ctx, "CarService.Get")
	defer span.End()

	car, err := service.store.Get(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if car == nil {
		return nil, errs.ErrCarNotFound
	}
	return car, nil
}

func (service *CarService) Create(ctx context.Context, actor domain.Actor, car *domain.Car) (*domain.Car, error) {
	ctx, span := service.tracer.Start(ctx, "CarService.Create")
	defer span.End()

	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}

	if car.ImageURL == "" {
		car.ImageURL = domain.DefaultCarImage
	}
	if err := car.ValidateCar(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	saved, err := service.store.Insert(ctx, car)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	service.dropListings(ctx)
	return saved, nil
}

func (service *CarService) Update(ctx context.Context, actor domain.Actor, car *domain.Car) (*domain.Car, error) {
	ctx, span := service.tracer.Start(ctx, "CarService.Update")
	defer span.End()

	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}

	if err := car.ValidateCar(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	updated, err := service.store.Update(ctx, car)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	service.dropListings(ctx)
	return updated, nil
}

// Delete removes a car from the catalog. Bookings referencing it keep their
// dangling car id; booking reads tolerate the missing record.
func (service *CarService) Delete(ctx context.Context, actor domain.Actor, id primitive.ObjectID) error {
	ctx, span := service.tracer.Start(ctx, "CarService.Delete")
	defer span.End()

	if !actor.IsAdmin() {
		return errs.ErrForbidden
	}

	if err := service.store.Delete(ctx, id); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	service.dropListings(ctx)
	return nil
}

func (service *CarService) dropListings(ctx context.Context) {
	if service.cache == nil {
		return
	}
	if err := service.cache.Invalidate(ctx); err != nil {
		service.logger.WithError(err).Warn("catalog cache invalidation failed")
	}
}

func listingKey(filter domain.CarFilter) string {
	min, max := "", ""
	if filter.MinPrice != nil {
		min = fmt.Sprintf("%g", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		max = fmt.Sprintf("%g", *filter.MaxPrice)
	}
	return fmt.Sprintf("%s:%s:%s:%t", filter.Category, min, max, filter.AvailableOnly)
}
