package seed

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"rental_service/domain"
)

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
// This is the only path that produces an admin role.
func EnsureAdmin(ctx context.Context, users domain.UserStore, name, email, password string, logger *logrus.Logger) error {
	if email == "" || password == "" {
		logger.Warn("admin credentials not configured, skipping admin bootstrap")
		return nil
	}

	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if name == "" {
		name = "Administrator"
	}
	admin := domain.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     domain.Admin,
		IsActive: true,
	}

	_, err = users.Register(ctx, &admin)
	if err != nil {
		return err
	}
	logger.WithField("email", email).Info("bootstrap admin created")
	return nil
}

// Cars inserts the demo catalog when the catalog is empty.
func Cars(ctx context.Context, cars domain.CarStore, logger *logrus.Logger) error {
	count, err := cars.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	demo := []domain.Car{
		{
			Brand:       "Toyota",
			Model:       "Camry",
			Year:        2023,
			Category:    domain.Sedan,
			PricePerDay: 50,
			IsAvailable: true,
			ImageURL:    domain.DefaultCarImage,
			Description: "Reliable mid-size sedan with great fuel economy.",
		},
		{
			Brand:       "Honda",
			Model:       "CR-V",
			Year:        2023,
			Category:    domain.SUV,
			PricePerDay: 65,
			IsAvailable: true,
			ImageURL:    domain.DefaultCarImage,
			Description: "Spacious SUV, perfect for family trips.",
		},
		{
			Brand:       "Porsche",
			Model:       "911",
			Year:        2022,
			Category:    domain.Sports,
			PricePerDay: 250,
			IsAvailable: true,
			ImageURL:    domain.DefaultCarImage,
			Description: "Iconic sports car for a weekend to remember.",
		},
		{
			Brand:       "Volkswagen",
			Model:       "Golf",
			Year:        2024,
			Category:    domain.Hatchback,
			PricePerDay: 40,
			IsAvailable: true,
			ImageURL:    domain.DefaultCarImage,
			Description: "Compact hatchback, easy to park in the city.",
		},
	}

	for i := range demo {
		if _, err := cars.Insert(ctx, &demo[i]); err != nil {
			return err
		}
	}
	logger.WithField("count", len(demo)).Info("demo catalog seeded")
	return nil
}
