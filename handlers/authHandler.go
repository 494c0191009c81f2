package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rental_service/domain"
	errs "rental_service/errors"
	application "rental_service/service"
)

type AuthHandler struct {
	service *application.AuthService
	tracer  trace.Tracer
}

func NewAuthHandler(service *application.AuthService, tracer trace.Tracer) *AuthHandler {
	return &AuthHandler{
		service: service,
		tracer:  tracer,
	}
}

func (handler *AuthHandler) Init(router *mux.Router) {
	router.HandleFunc("/auth/register", handler.Register).Methods("POST")
	router.HandleFunc("/auth/login", handler.Login).Methods("POST")
}

func (handler *AuthHandler) Register(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Register")
	defer span.End()

	var user domain.User
	if err := user.FromJSON(req.Body); err != nil {
		http.Error(writer, "Invalid request format", http.StatusBadRequest)
		return
	}

	saved, err := handler.service.Register(ctx, &user)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeDomainError(writer, err)
		return
	}

	writer.WriteHeader(http.StatusCreated)
	jsonResponse(saved, writer)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (handler *AuthHandler) Login(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Login")
	defer span.End()

	var request loginRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		http.Error(writer, "Invalid request format", http.StatusBadRequest)
		return
	}

	token, user, err := handler.service.Login(ctx, request.Email, request.Password)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeDomainError(writer, err)
		return
	}

	jsonResponse(loginResponse{Token: token, User: user}, writer)
}

func jsonResponse(value interface{}, writer http.ResponseWriter) {
	if err := json.NewEncoder(writer).Encode(value); err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
	}
}

// writeDomainError maps the stable domain errors onto HTTP statuses. Anything
// unrecognized is an internal store failure, never conflated with the domain
// taxonomy.
func writeDomainError(writer http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		http.Error(writer, validationErr.Message, http.StatusBadRequest)
		return
	}

	switch {
	case errors.Is(err, errs.ErrInvalidRange),
		errors.Is(err, errs.ErrDatesConflict),
		errors.Is(err, errs.ErrInvalidStatus),
		errors.Is(err, errs.ErrInvalidTransition):
		http.Error(writer, err.Error(), http.StatusBadRequest)
	case errors.Is(err, errs.ErrCarNotFound),
		errors.Is(err, errs.ErrBookingNotFound),
		errors.Is(err, errs.ErrUserNotFound):
		http.Error(writer, err.Error(), http.StatusNotFound)
	case errors.Is(err, errs.ErrEmailExists):
		http.Error(writer, err.Error(), http.StatusConflict)
	case errors.Is(err, errs.ErrInvalidCredentials):
		http.Error(writer, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, errs.ErrForbidden),
		errors.Is(err, errs.ErrUserInactive):
		http.Error(writer, err.Error(), http.StatusForbidden)
	default:
		http.Error(writer, "Server error", http.StatusInternalServerError)
	}
}
