package handlers

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental_service/domain"
	errs "rental_service/errors"
)

func TestWriteDomainError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", &domain.ValidationError{Message: "Year cannot be in the future"}, 400},
		{"invalid range", errs.ErrInvalidRange, 400},
		{"dates conflict", errs.ErrDatesConflict, 400},
		{"invalid status", errs.ErrInvalidStatus, 400},
		{"invalid transition", errs.ErrInvalidTransition, 400},
		{"car not found", errs.ErrCarNotFound, 404},
		{"booking not found", errs.ErrBookingNotFound, 404},
		{"user not found", errs.ErrUserNotFound, 404},
		{"email exists", errs.ErrEmailExists, 409},
		{"invalid credentials", errs.ErrInvalidCredentials, 401},
		{"forbidden", errs.ErrForbidden, 403},
		{"inactive user", errs.ErrUserInactive, 403},
		{"store failure", errors.New("connection reset"), 500},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			writeDomainError(recorder, c.err)
			assert.Equal(t, c.code, recorder.Code)
		})
	}

	t.Run("store failures never leak their message", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		writeDomainError(recorder, errors.New("dial tcp: connection refused"))
		assert.NotContains(t, recorder.Body.String(), "dial tcp")
	})
}

func TestParseDateRange(t *testing.T) {
	t.Run("plain dates", func(t *testing.T) {
		pickup, ret, err := parseDateRange("2024-01-15", "2024-01-20")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), pickup)
		assert.Equal(t, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), ret)
	})

	t.Run("timestamps are accepted too", func(t *testing.T) {
		pickup, _, err := parseDateRange("2024-01-15T10:30:00Z", "2024-01-20")
		require.NoError(t, err)
		assert.Equal(t, 15, pickup.Day())
	})

	t.Run("garbage maps to the range error", func(t *testing.T) {
		_, _, err := parseDateRange("15/01/2024", "2024-01-20")
		assert.ErrorIs(t, err, errs.ErrInvalidRange)

		_, _, err = parseDateRange("2024-01-15", "")
		assert.ErrorIs(t, err, errs.ErrInvalidRange)
	})
}
