package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rental_service/authorization"
	application "rental_service/service"
)

// AdminHandler backs the admin console: dashboard figures and the customer
// account roster.
type AdminHandler struct {
	users    *application.UserService
	bookings *application.BookingService
	tracer   trace.Tracer
}

func NewAdminHandler(users *application.UserService, bookings *application.BookingService, tracer trace.Tracer) *AdminHandler {
	return &AdminHandler{
		users:    users,
		bookings: bookings,
		tracer:   tracer,
	}
}

func (handler *AdminHandler) Init(router *mux.Router) {
	router.HandleFunc("/admin/dashboard", handler.Dashboard).Methods("GET")
	router.HandleFunc("/admin/users", handler.GetUsers).Methods("GET")
	router.HandleFunc("/admin/users/{id}/status", handler.UpdateUserStatus).Methods("PATCH")
	router.HandleFunc("/admin/users/{id}", handler.DeleteUser).Methods("DELETE")
}

func (handler *AdminHandler) Dashboard(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdminHandler.Dashboard")
	defer span.End()

	actor, err := authorization.ExtractActor(req)
	if err != nil {
		http.Error(writer, "unauthorized", http.StatusUnauthorized)
		return
	}

	dashboard, err := handler.bookings.GetDashboard(ctx, actor)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeDomainError(writer, err)
		return
	}

	jsonResponse(dashboard, writer)
}

func (handler *AdminHandler) GetUsers(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdminHandler.GetUsers")
	defer span.End()

	actor, err := authorization.ExtractActor(req)
	if err != nil {
		http.Error(writer, "unauthorized", http.StatusUnauthorized)
		return
	}

	users, err := handler.users.GetAllCustomers(ctx, actor)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeDomainError(writer, err)
		return
	}

	jsonResponse(users, writer)
}

type userStatusRequest struct {
	IsActive bool `json:"isActive"`
}

func (handler *AdminHandler) UpdateUserStatus(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdminHandler.UpdateUserStatus")
	defer span.End()

	actor, err := authorization.ExtractActor(req)
	if err != nil {
		http.Error(writer, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(req)["id"])
	if err != nil {
		http.Error(writer, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var request userStatusRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		http.Error(writer, "Invalid request format", http.StatusBadRequest)
		return
	}

	user, err := handler.users.UpdateActive(ctx, actor, id, request.IsActive)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeDomainError(writer, err)
		return
	}

	jsonResponse(user, writer)
}

func (handler *AdminHandler) DeleteUser(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AdminHandler.DeleteUser")
	defer span.End()

	actor, err := authorization.ExtractActor(req)
	if err != nil {
		http.Error(writer, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(req)["id"])
	if err != nil {
		http.Error(writer, "Invalid user ID", http.StatusBadRequest)
		return
	}

	if err := handler.users.Delete(ctx, actor, id); err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeDomainError(writer, err)
		return
	}

	jsonResponse(map[string]string{"message": "User deleted successfully"}, writer)
}
