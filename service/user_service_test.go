package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"

	"rental_service/domain"
	errs "rental_service/errors"
	application "rental_service/service"
)

func newUserFixture(t *testing.T) (*application.UserService, *inMemoryUserStore) {
	t.Helper()
	store := newInMemoryUserStore()
	service := application.NewUserService(store, trace.NewNoopTracerProvider().Tracer("test"))
	return service, store
}

func seedUser(t *testing.T, store *inMemoryUserStore, email string, role domain.UserRole) *domain.User {
	t.Helper()
	user, err := store.Register(context.Background(), &domain.User{
		Name:     "Test User",
		Email:    email,
		Role:     role,
		IsActive: true,
	})
	require.NoError(t, err)
	return user
}

func TestUserService(t *testing.T) {
	ctx := context.Background()

	t.Run("customer listing is admin only", func(t *testing.T) {
		service, store := newUserFixture(t)
		seedUser(t, store, "a@example.com", domain.Customer)
		seedUser(t, store, "root@example.com", domain.Admin)

		_, err := service.GetAllCustomers(ctx, customer())
		assert.ErrorIs(t, err, errs.ErrForbidden)

		listed, err := service.GetAllCustomers(ctx, admin())
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, "a@example.com", listed[0].Email)
	})

	t.Run("activation toggle", func(t *testing.T) {
		service, store := newUserFixture(t)
		target := seedUser(t, store, "a@example.com", domain.Customer)

		_, err := service.UpdateActive(ctx, customer(), target.ID, false)
		assert.ErrorIs(t, err, errs.ErrForbidden)

		updated, err := service.UpdateActive(ctx, admin(), target.ID, false)
		require.NoError(t, err)
		assert.False(t, updated.IsActive)

		_, err = service.UpdateActive(ctx, admin(), primitive.NewObjectID(), false)
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})

	t.Run("delete protects admin accounts", func(t *testing.T) {
		service, store := newUserFixture(t)
		target := seedUser(t, store, "a@example.com", domain.Customer)
		root := seedUser(t, store, "root@example.com", domain.Admin)

		err := service.Delete(ctx, customer(), target.ID)
		assert.ErrorIs(t, err, errs.ErrForbidden)

		err = service.Delete(ctx, admin(), root.ID)
		assert.ErrorIs(t, err, errs.ErrForbidden)

		require.NoError(t, service.Delete(ctx, admin(), target.ID))
		err = service.Delete(ctx, admin(), target.ID)
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})

	t.Run("get unknown user", func(t *testing.T) {
		service, _ := newUserFixture(t)
		_, err := service.Get(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})
}
