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

type BookingHandler struct {
	service *application.BookingService
	tracer  trace.Tracer
}

func NewBookingHandler(service *application.BookingService, tracer trace.Tracer) *BookingHandler {
	return &BookingHandler{
		service: service,
		tracer:  tracer,
	}
}

func (handler *BookingHandler) Init(router *mux.Router) {
	router.HandleFunc("/bookings", handler.Create).Methods("POST")
	router.HandleFunc("/bookings/my-bookings", handler.GetMyBookings).Methods("GET")
	router.HandleFunc("/bookings/all", handler.GetAll).Methods("GET")
	router.HandleFunc("/bookings/{id}/status", handler.SetStatus).Methods("PATCH")
	router.HandleFunc("/bookings/{id}/cancel", handler.Cancel).Methods("PATCH")
}

type createBookingRequest struct {
	CarID      string `json:"carId"`
	PickupDate string `json:"pickupDate"`
	ReturnDate string `json:"returnDate"`
}

func (handler *BookingHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "BookingHandler.Create")
	defer span.End()

	actor, err := authorization.ExtractActor(req)
	if err != nil {
		http.Error(writer, "unauthorized", http.StatusUnauthorized)
		return
	}

	var request createBookingRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		http.Error(writer, "Invalid request format", http.StatusBadRequest)
		return
	}

	carID, err := primitive.ObjectIDFromHex(request.CarID)
	if err != nil {
		http.Error(writer, "Invalid car ID", http.StatusBadRequest)
		return
	}

	pickup, ret, err := parseDateRange(request.PickupDate, request.ReturnDate)
	if err != nil {
		writeDomainError(writer, err)
		return
	}

	booking, err := handler.service.Create(ctx, actor, carID, pickup, ret)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeDomainError(writer, err)
		return
	}

	writer.WriteHeader(http.StatusCreated)
	jsonResponse(booking, writer)
}

func (handler *BookingHandler) GetMyBookings(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "BookingHandler.GetMyBookings")
	defer span.End()

	actor, err := authorization.ExtractActor(req)
	if err != nil {
		http.Error(writer, "unauthorized", http.StatusUnauthorized)
		return
	}

	bookings, err := handler.service.GetAllByUser(ctx, actor)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeDomainError(writer, err)
		return
	}

	jsonResponse(bookings, writer)
}

func (handler *BookingHandler) GetAll(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "BookingHandler.GetAll")
	defer span.End()

	actor, err := authorization.ExtractActor(req)
	if err != nil {
		http.Error(writer, "unauthorized", http.StatusUnauthorized)
		return
	}

	bookings, err := handler.service.GetAll(ctx, actor)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeDomainError(writer, err)
		return
	}

	jsonResponse(bookings, writer)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (handler *BookingHandler) SetStatus(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "BookingHandler.SetStatus")
	defer span.End()

	actor, err := authorization.ExtractActor(req)
	if err != nil {
		http.Error(writer, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(req)["id"])
	if err != nil {
		http.Error(writer, "Invalid booking ID", http.StatusBadRequest)
		return
	}

	var request statusRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		http.Error(writer, "Invalid request format", http.StatusBadRequest)
		return
	}

	booking, err := handler.service.SetStatus(ctx, actor, id, request.Status)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeDomainError(writer, err)
		return
	}

	jsonResponse(booking, writer)
}

func (handler *BookingHandler) Cancel(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "BookingHandler.Cancel")
	defer span.End()

	actor, err := authorization.ExtractActor(req)
	if err != nil {
		http.Error(writer, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(req)["id"])
	if err != nil {
		http.Error(writer, "Invalid booking ID", http.StatusBadRequest)
		return
	}

	booking, err := handler.service.Cancel(ctx, actor, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeDomainError(writer, err)
		return
	}

	jsonResponse(booking, writer)
}
