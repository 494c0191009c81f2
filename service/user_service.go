package application

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rental_service/domain"
	errs "rental_service/errors"
)

type UserService struct {
	store  domain.UserStore
	tracer trace.Tracer
}

func NewUserService(store domain.UserStore, tracer trace.Tracer) *UserService {
	return &UserService{
		store:  store,
		tracer: tracer,
	}
}

func (service *UserService) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.Get")
	defer span.End()

	user, err := service.store.Get(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		return nil, errs.ErrUserNotFound
	}
	return user, nil
}

func (service *UserService) GetAllCustomers(ctx context.Context, actor domain.Actor) ([]*domain.User, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.GetAllCustomers")
	defer span.End()

	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	return service.store.GetAllCustomers(ctx)
}

func (service *UserService) UpdateActive(ctx context.Context, actor domain.Actor, id primitive.ObjectID, isActive bool) (*domain.User, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.UpdateActive")
	defer span.End()

	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	return service.store.UpdateActive(ctx, id, isActive)
}

// Delete removes a customer account. Admin accounts are not deletable through
// any exposed operation.
func (service *UserService) Delete(ctx context.Context, actor domain.Actor, id primitive.ObjectID) error {
	ctx, span := service.tracer.Start(ctx, "UserService.Delete")
	defer span.End()

	if !actor.IsAdmin() {
		return errs.ErrForbidden
	}

	user, err := service.store.Get(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if user == nil {
		return errs.ErrUserNotFound
	}
	if user.Role == domain.Admin {
		return errs.ErrForbidden
	}

	return service.store.Delete(ctx, id)
}
