package authorization

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rental_service/domain"
)

func TestGenerateAndExtract(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-signing-key")

	user := &domain.User{
		ID:    primitive.NewObjectID(),
		Email: "ana@example.com",
		Role:  domain.Customer,
	}
	token, err := GenerateJWT(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	request := httptest.NewRequest("GET", "/api/bookings", nil)
	request.Header.Set("Authorization", "Bearer "+token)

	actor, err := ExtractActor(request)
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.UserID)
	assert.Equal(t, domain.Customer, actor.Role)

	role, err := ExtractRole(request)
	require.NoError(t, err)
	assert.Equal(t, "customer", role)
}

func TestExtractRoleWithoutToken(t *testing.T) {
	request := httptest.NewRequest("GET", "/api/cars", nil)

	role, err := ExtractRole(request)
	require.NoError(t, err)
	assert.Equal(t, "Unauthenticated", role)
}

func TestExtractActorRejectsBadTokens(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-signing-key")

	t.Run("missing header", func(t *testing.T) {
		request := httptest.NewRequest("GET", "/api/bookings", nil)
		_, err := ExtractActor(request)
		assert.Error(t, err)
	})

	t.Run("malformed header", func(t *testing.T) {
		request := httptest.NewRequest("GET", "/api/bookings", nil)
		request.Header.Set("Authorization", "not-a-bearer-token")
		_, err := ExtractActor(request)
		assert.Error(t, err)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		user := &domain.User{ID: primitive.NewObjectID(), Email: "x@example.com", Role: domain.Customer}
		token, err := GenerateJWT(user)
		require.NoError(t, err)

		t.Setenv("SECRET_KEY", "a-different-key")
		request := httptest.NewRequest("GET", "/api/bookings", nil)
		request.Header.Set("Authorization", "Bearer "+token)
		_, err = ExtractActor(request)
		assert.Error(t, err)
	})
}
