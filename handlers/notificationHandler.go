package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rental_service/authorization"
	application "rental_service/service"
)

type NotificationHandler struct {
	service *application.NotificationService
	tracer  trace.Tracer
}

func NewNotificationHandler(service *application.NotificationService, tracer trace.Tracer) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		tracer:  tracer,
	}
}

func (handler *NotificationHandler) Init(router *mux.Router) {
	router.HandleFunc("/notifications", handler.GetAll).Methods("GET")
}

func (handler *NotificationHandler) GetAll(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "NotificationHandler.GetAll")
	defer span.End()

	actor, err := authorization.ExtractActor(req)
	if err != nil {
		http.Error(writer, "unauthorized", http.StatusUnauthorized)
		return
	}

	notifications, err := handler.service.GetAllByUser(ctx, actor)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writeDomainError(writer, err)
		return
	}

	jsonResponse(notifications, writer)
}
