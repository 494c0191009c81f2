package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rental_service/domain"
)

func TestNormalizeDate(t *testing.T) {
	t.Run("drops the time-of-day component", func(t *testing.T) {
		in := time.Date(2024, 1, 15, 17, 45, 12, 999, time.UTC)
		got := domain.NormalizeDate(in)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("converts other zones to UTC before truncating", func(t *testing.T) {
		zone := time.FixedZone("UTC+5", 5*3600)
		in := time.Date(2024, 1, 15, 3, 0, 0, 0, zone) // 2024-01-14T22:00Z
		got := domain.NormalizeDate(in)
		assert.Equal(t, time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC), got)
	})
}

func TestTotalDays(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
	}

	t.Run("whole day difference", func(t *testing.T) {
		assert.Equal(t, 5, domain.TotalDays(day(15), day(20)))
	})

	t.Run("single day is the minimum", func(t *testing.T) {
		assert.Equal(t, 1, domain.TotalDays(day(15), day(16)))
	})

	t.Run("partial days round up", func(t *testing.T) {
		ret := time.Date(2024, 1, 16, 6, 0, 0, 0, time.UTC)
		assert.Equal(t, 2, domain.TotalDays(day(15), ret))
	})
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{"pending", "confirmed", "completed", "cancelled"} {
		assert.True(t, domain.ValidStatus(status), status)
	}
	assert.False(t, domain.ValidStatus("archived"))
	assert.False(t, domain.ValidStatus(""))
	assert.False(t, domain.ValidStatus("Pending"))
}

func TestBookingStatusIsTerminal(t *testing.T) {
	assert.False(t, domain.Pending.IsTerminal())
	assert.False(t, domain.Confirmed.IsTerminal())
	assert.True(t, domain.Completed.IsTerminal())
	assert.True(t, domain.Cancelled.IsTerminal())
}

func TestValidateCar(t *testing.T) {
	car := func() *domain.Car {
		return &domain.Car{
			Brand:       "Toyota",
			Model:       "Camry",
			Year:        2023,
			Category:    domain.Sedan,
			PricePerDay: 50,
			ImageURL:    domain.DefaultCarImage,
		}
	}

	t.Run("valid car passes", func(t *testing.T) {
		assert.NoError(t, car().ValidateCar())
	})

	t.Run("unknown category fails", func(t *testing.T) {
		c := car()
		c.Category = "convertible"
		assert.Error(t, c.ValidateCar())
	})

	t.Run("missing brand fails", func(t *testing.T) {
		c := car()
		c.Brand = ""
		assert.Error(t, c.ValidateCar())
	})

	t.Run("year before 1900 fails", func(t *testing.T) {
		c := car()
		c.Year = 1899
		assert.Error(t, c.ValidateCar())
	})

	t.Run("year in the future fails", func(t *testing.T) {
		c := car()
		c.Year = time.Now().Year() + 2
		assert.Error(t, c.ValidateCar())
	})

	t.Run("negative price fails", func(t *testing.T) {
		c := car()
		c.PricePerDay = -1
		assert.Error(t, c.ValidateCar())
	})
}
