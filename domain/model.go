package domain

import (
	"encoding/json"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	Customer UserRole = "customer"
	Admin    UserRole = "admin"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name" validate:"required,min=2,max=50"`
	Email     string             `bson:"email" json:"email" validate:"required,email"`
	Password  string             `bson:"password" json:"-"`
	Role      UserRole           `bson:"role" json:"role"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// UserSummary is the projection of a user joined onto admin booking listings.
type UserSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}

func (user *User) Summary() *UserSummary {
	return &UserSummary{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

type CarCategory string

const (
	Sedan     CarCategory = "sedan"
	SUV       CarCategory = "suv"
	Sports    CarCategory = "sports"
	Hatchback CarCategory = "hatchback"
)

const DefaultCarImage = "https://via.placeholder.com/400x300?text=Car+Image"

type Car struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Brand       string             `bson:"brand" json:"brand" validate:"required"`
	Model       string             `bson:"model" json:"model" validate:"required"`
	Year        int                `bson:"year" json:"year" validate:"required,min=1900"`
	Category    CarCategory        `bson:"category" json:"category" validate:"required,carCategory"`
	PricePerDay float64            `bson:"pricePerDay" json:"pricePerDay" validate:"min=0"`
	IsAvailable bool               `bson:"isAvailable" json:"isAvailable"`
	ImageURL    string             `bson:"imageUrl" json:"imageUrl"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (car *Car) ValidateCar() error {
	validate := validator.New()

	err := validate.RegisterValidation("carCategory", carCategoryField)
	if err != nil {
		return err
	}

	if car.Year > time.Now().Year()+1 {
		return &ValidationError{Message: "Year cannot be in the future"}
	}

	return validate.Struct(car)
}

func carCategoryField(fl validator.FieldLevel) bool {
	switch CarCategory(fl.Field().String()) {
	case Sedan, SUV, Sports, Hatchback:
		return true
	}
	return false
}

type BookingStatus string

const (
	Pending   BookingStatus = "pending"
	Confirmed BookingStatus = "confirmed"
	Completed BookingStatus = "completed"
	Cancelled BookingStatus = "cancelled"
)

// ValidStatus reports whether value is one of the four booking statuses.
func ValidStatus(value string) bool {
	switch BookingStatus(value) {
	case Pending, Confirmed, Completed, Cancelled:
		return true
	}
	return false
}

// Terminal statuses no longer occupy a date range and accept no further transition.
func (status BookingStatus) IsTerminal() bool {
	return status == Completed || status == Cancelled
}

type Booking struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	CarID      primitive.ObjectID `bson:"carId" json:"carId"`
	PickupDate time.Time          `bson:"pickupDate" json:"pickupDate"`
	ReturnDate time.Time          `bson:"returnDate" json:"returnDate"`
	TotalDays  int                `bson:"totalDays" json:"totalDays"`
	TotalPrice float64            `bson:"totalPrice" json:"totalPrice"`
	Status     BookingStatus      `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// BookingDetails is a booking joined with its car, and for admin listings the
// owning user. Car is nil when the referenced car record has been deleted.
type BookingDetails struct {
	Booking `bson:",inline"`
	Car     *Car         `bson:"car" json:"car"`
	User    *UserSummary `bson:"user,omitempty" json:"user,omitempty"`
}

// Actor is the authenticated identity a request runs as. Role is fixed for the
// lifetime of the request; services never consult ambient session state.
type Actor struct {
	UserID primitive.ObjectID
	Role   UserRole
}

func (actor Actor) IsAdmin() bool {
	return actor.Role == Admin
}

type Claims struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Notification struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	ForUserID   primitive.ObjectID `bson:"forUserId" json:"forUserId"`
	BookingID   primitive.ObjectID `bson:"bookingId" json:"bookingId"`
	Description string             `bson:"description" json:"description"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

type ValidationError struct {
	Message string `json:"message"`
}

func (v *ValidationError) Error() string {
	return v.Message
}

func (user *User) FromJSON(reader io.Reader) error {
	d := json.NewDecoder(reader)
	return d.Decode(user)
}

func (car *Car) FromJSON(reader io.Reader) error {
	d := json.NewDecoder(reader)
	return d.Decode(car)
}

func (booking *Booking) FromJSON(reader io.Reader) error {
	d := json.NewDecoder(reader)
	return d.Decode(booking)
}
