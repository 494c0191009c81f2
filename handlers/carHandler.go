package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rental_service/authorization"
	"rental_service/domain"
	errs "rental_service/errors"
	application "rental_service/service"
)

type CarHandler struct {
	service  *application.CarService
	bookings *application.BookingService
	tracer   trace.Tracer
}

func NewCarHandler(service *application.CarService, bookings *application.BookingService, tracer trace.Tracer) *CarHandler {
	return &CarHandler{
		service:  service,
		bookings: bookings,
		tracer:   tracer,
	}
}

func (handler *CarHandler) Init(router *mux.Router) {
	router.HandleFunc("/cars", handler.GetAll).Methods("GET")
	router.HandleFunc("/cars", handler.Create).Methods("POST")
	router.HandleFunc("/cars/{id}", handler.Get).Methods("GET")
	router.HandleFunc("/cars/{id}", handler.Update).Methods("PUT")
	router.HandleFunc("/cars/{id}", handler.Delete).Methods("DELETE")
	router.HandleFunc("/cars/{id}/check-availability", handler.CheckAvailability).Methods("POST")
}

func (handler *CarHandler) GetAll(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "CarHandler.GetAll")
	defer span.End()

	query := req.URL.Query()
	filter := domain.CarFilter{
		Category:      query.Get("category"),
		AvailableOnly: query.Get("available") == "true",
	}
	if raw := query.Get("minPrice"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(writer, "Invalid minPrice", http.StatusBadRequest)
			return
		}
		filter.MinPrice = &price
	}
	if raw := query.Get("maxPrice"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(writer, "Invalid maxPrice", http.StatusBadRequest)
			return
		}
		filter.MaxPrice = &price
	}

	cars, err := handler.service.GetAll(ctx, filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeDomainError(writer, err)
		return
	}

	jsonResponse(cars, writer)
}

func (handler *CarHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "CarHandler.Get")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(mux.Vars(req)["id"])
	if err != nil {
		http.Error(writer, "Invalid car ID", http.StatusBadRequest)
		return
	}

	car, err := handler.service.Get(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeDomainError(writer, err)
		return
	}

	jsonResponse(car, writer)
}

type availabilityRequest struct {
	PickupDate string `json:"pickupDate"`
	ReturnDate string `json:"returnDate"`
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

func (handler *CarHandler) CheckAvailability(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "CarHandler.CheckAvailability")
	defer span.End()

	id, err := primitive.ObjectIDFromHex(mux.Vars(req)["id"])
	if err != nil {
		http.Error(writer, "Invalid car ID", http.StatusBadRequest)
		return
	}

	var request availabilityRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		http.Error(writer, "Invalid request format", http.StatusBadRequest)
		return
	}

	pickup, ret, err := parseDateRange(request.PickupDate, request.ReturnDate)
	if err != nil {
		writeDomainError(writer, err)
		return
	}

	available, err := handler.bookings.IsAvailable(ctx, id, pickup, ret)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeDomainError(writer, err)
		return
	}

	jsonResponse(availabilityResponse{Available: available}, writer)
}

func (handler *CarHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "CarHandler.Create")
	defer span.End()

	actor, err := authorization.ExtractActor(req)
	if err != nil {
		http.Error(writer, "unauthorized", http.StatusUnauthorized)
		return
	}

	var car domain.Car
	if err := car.FromJSON(req.Body); err != nil {
		http.Error(writer, "Invalid request format", http.StatusBadRequest)
		return
	}

	saved, err := handler.service.Create(ctx, actor, &car)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeDomainError(writer, err)
		return
	}

	writer.WriteHeader(http.StatusCreated)
	jsonResponse(saved, writer)
}

func (handler *CarHandler) Update(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "CarHandler.Update")
	defer span.End()

	actor, err := authorization.ExtractActor(req)
	if err != nil {
		http.Error(writer, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(req)["id"])
	if err != nil {
		http.Error(writer, "Invalid car ID", http.StatusBadRequest)
		return
	}

	existing, err := handler.service.Get(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeDomainError(writer, err)
		return
	}

	car := *existing
	if err := car.FromJSON(req.Body); err != nil {
		http.Error(writer, "Invalid request format", http.StatusBadRequest)
		return
	}
	car.ID = id
	car.CreatedAt = existing.CreatedAt

	updated, err := handler.service.Update(ctx, actor, &car)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeDomainError(writer, err)
		return
	}

	jsonResponse(updated, writer)
}

func (handler *CarHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "CarHandler.Delete")
	defer span.End()

	actor, err := authorization.ExtractActor(req)
	if err != nil {
		http.Error(writer, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(req)["id"])
	if err != nil {
		http.Error(writer, "Invalid car ID", http.StatusBadRequest)
		return
	}

	if err := handler.service.Delete(ctx, actor, id); err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeDomainError(writer, err)
		return
	}

	jsonResponse(map[string]string{"message": "Car deleted successfully"}, writer)
}

// parseDateRange accepts plain ISO dates or full RFC 3339 timestamps and
// checks chronological order before anything touches the ledger.
func parseDateRange(pickupRaw, returnRaw string) (time.Time, time.Time, error) {
	pickup, err := parseDate(pickupRaw)
	if err != nil {
		return time.Time{}, time.Time{}, errs.ErrInvalidRange
	}
	ret, err := parseDate(returnRaw)
	if err != nil {
		return time.Time{}, time.Time{}, errs.ErrInvalidRange
	}

	pickup = domain.NormalizeDate(pickup)
	ret = domain.NormalizeDate(ret)
	if !pickup.Before(ret) {
		return time.Time{}, time.Time{}, errs.ErrInvalidRange
	}
	return pickup, ret, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
