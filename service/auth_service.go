package application

import (
	"context"
	"regexp"
	"unicode"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"rental_service/authorization"
	"rental_service/domain"
	errs "rental_service/errors"
)

type AuthService struct {
	store  domain.UserStore
	logger *logrus.Logger
	tracer trace.Tracer
}

func NewAuthService(store domain.UserStore, logger *logrus.Logger, tracer trace.Tracer) *AuthService {
	return &AuthService{
		store:  store,
		logger: logger,
		tracer: tracer,
	}
}

func verifyPassword(s string) (valid bool) {
	hasUpperCase := false
	hasLowerCase := false
	hasDigit := false

	for _, c := range s {
		switch {
		case unicode.IsNumber(c):
			hasDigit = true
		case unicode.IsUpper(c):
			hasUpperCase = true
		case unicode.IsLower(c):
			hasLowerCase = true
		}
	}

	valid = len(s) >= 8 && hasUpperCase && hasLowerCase && hasDigit
	return
}

func validateRegistration(user *domain.User) *domain.ValidationError {
	emailRegex := regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	nameRegex := regexp.MustCompile(`^[a-zA-Z][a-zA-Z\s'-]{1,49}$`)

	if user.Email == "" {
		return &domain.ValidationError{Message: "Email cannot be empty"}
	}
	if !emailRegex.MatchString(user.Email) {
		return &domain.ValidationError{Message: "Invalid email format"}
	}

	if user.Name == "" {
		return &domain.ValidationError{Message: "Name cannot be empty"}
	}
	if !nameRegex.MatchString(user.Name) {
		return &domain.ValidationError{Message: "Invalid name format. It must be 2-50 characters long and start with a letter"}
	}

	if user.Password == "" {
		return &domain.ValidationError{Message: "Password cannot be empty"}
	}
	if !verifyPassword(user.Password) {
		return &domain.ValidationError{Message: "Invalid password format. It should be at least 8 characters, with at least one uppercase letter, one lowercase letter and one digit"}
	}

	return nil
}

// Register creates a customer account. The role is never taken from the
// payload; admin accounts exist only through seeding.
func (service *AuthService) Register(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, span := service.tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	if err := validateRegistration(user); err != nil {
		return nil, err
	}

	existing, err := service.store.GetByEmail(ctx, user.Email)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if existing != nil {
		return nil, errs.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	userInfo := domain.User{
		Name:     user.Name,
		Email:    user.Email,
		Password: string(hash),
		Role:     domain.Customer,
		IsActive: true,
	}

	saved, err := service.store.Register(ctx, &userInfo)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	service.logger.WithField("email", saved.Email).Info("user registered")
	return saved, nil
}

// Login checks the credentials and issues a signed token. A wrong email and a
// wrong password are indistinguishable to the caller.
func (service *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	ctx, span := service.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	user, err := service.store.GetByEmail(ctx, email)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", nil, err
	}
	if user == nil {
		return "", nil, errs.ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", nil, errs.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, errs.ErrInvalidCredentials
	}

	token, err := authorization.GenerateJWT(user)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", nil, err
	}

	return token, user, nil
}
