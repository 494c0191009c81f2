package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"

	"rental_service/domain"
)

var (
	smtpServer     = envOr("SMTP_SERVER", "smtp.office365.com")
	smtpServerPort = envIntOr("SMTP_PORT", 587)
	smtpEmail      = os.Getenv("SMTP_AUTH_MAIL")
	smtpPassword   = os.Getenv("SMTP_AUTH_PASSWORD")
)

// NotificationService records booking status changes and mails the booking
// owner. The SMTP hop sits behind a circuit breaker; a tripped breaker or a
// failed send is the caller's to log, never to surface.
type NotificationService struct {
	store  domain.NotificationStore
	users  domain.UserStore
	cb     *gobreaker.CircuitBreaker
	logger *logrus.Logger
}

func NewNotificationService(store domain.NotificationStore, users domain.UserStore, logger *logrus.Logger) *NotificationService {
	return &NotificationService{
		store:  store,
		users:  users,
		cb:     CircuitBreaker("notificationService"),
		logger: logger,
	}
}

func (service *NotificationService) NotifyStatusChange(ctx context.Context, booking *domain.Booking) error {
	description := fmt.Sprintf("Your booking from %s to %s is now %s.",
		booking.PickupDate.Format("2006-01-02"),
		booking.ReturnDate.Format("2006-01-02"),
		booking.Status)

	notification := domain.Notification{
		ForUserID:   booking.UserID,
		BookingID:   booking.ID,
		Description: description,
	}

	if _, err := service.store.Insert(ctx, &notification); err != nil {
		return err
	}

	user, err := service.users.Get(ctx, booking.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New("booking owner no longer exists")
	}

	email := strings.TrimSpace(user.Email)
	if email == "" {
		return errors.New("empty email address")
	}

	_, err = service.cb.Execute(func() (interface{}, error) {
		return nil, sendStatusMail(description, email)
	})
	return err
}

func (service *NotificationService) GetAllByUser(ctx context.Context, actor domain.Actor) ([]*domain.Notification, error) {
	return service.store.GetAllByUser(ctx, actor.UserID)
}

func sendStatusMail(description, email string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", smtpEmail)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Booking status update")
	m.SetBody("text/plain", description)

	client := gomail.NewDialer(smtpServer, smtpServerPort, smtpEmail, smtpPassword)

	if err := client.DialAndSend(m); err != nil {
		return err
	}
	return nil
}

func CircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(
		gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     10 * time.Second,
			Interval:    0,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 2
			},
		},
	)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
