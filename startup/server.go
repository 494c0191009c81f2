package startup

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casbin/casbin"
	"github.com/go-redis/redis"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"

	"rental_service/cache"
	"rental_service/casbinAuthorization"
	"rental_service/domain"
	"rental_service/handlers"
	"rental_service/logging"
	"rental_service/seed"
	application "rental_service/service"
	"rental_service/startup/config"
	store2 "rental_service/store"
)

type Server struct {
	config *config.Config
	logger *logrus.Logger
}

func NewServer(config *config.Config) *Server {
	logPath := config.LogPath
	if logPath == "" {
		logPath = "/logs/rental_service.log"
	}
	return &Server{
		config: config,
		logger: logging.New(logPath, "rental_service"),
	}
}

func (server *Server) Start() {
	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     10,
		},
	}

	ctx := context.Background()
	exp, err := newExporter(server.config.JaegerAddress)
	if err != nil {
		log.Fatalf("Failed to Initialize Exporter: %v", err)
	}

	tp := newTraceProvider(exp)
	defer func() { _ = tp.Shutdown(ctx) }()
	otel.SetTracerProvider(tp)
	tracer := tp.Tracer("rental_service")

	mongoClient := server.initMongoClient(httpClient)
	defer func(mongoClient *mongo.Client, ctx context.Context) {
		err := mongoClient.Disconnect(ctx)
		if err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}(mongoClient, context.Background())

	redisClient := server.initRedisClient()

	userStore := server.initUserStore(mongoClient, tracer)
	carStore := server.initCarStore(mongoClient, tracer)
	bookingStore := server.initBookingStore(mongoClient, tracer)
	notificationStore := server.initNotificationStore(mongoClient, tracer)
	catalogCache := server.initCatalogCache(redisClient, tracer)

	if err := userStore.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to ensure user indexes: %v", err)
	}

	notificationService := application.NewNotificationService(notificationStore, userStore, server.logger)
	authService := application.NewAuthService(userStore, server.logger, tracer)
	userService := application.NewUserService(userStore, tracer)
	carService := application.NewCarService(carStore, catalogCache, server.logger, tracer)
	bookingService := application.NewBookingService(bookingStore, carStore, userStore, notificationService, server.logger, tracer)

	if server.config.SeedDB {
		if err := seed.EnsureAdmin(ctx, userStore, server.config.AdminName, server.config.AdminEmail, server.config.AdminPassword, server.logger); err != nil {
			log.Fatalf("Failed to seed admin account: %v", err)
		}
		if err := seed.Cars(ctx, carStore, server.logger); err != nil {
			log.Fatalf("Failed to seed catalog: %v", err)
		}
	}

	authHandler := handlers.NewAuthHandler(authService, tracer)
	carHandler := handlers.NewCarHandler(carService, bookingService, tracer)
	bookingHandler := handlers.NewBookingHandler(bookingService, tracer)
	adminHandler := handlers.NewAdminHandler(userService, bookingService, tracer)
	notificationHandler := handlers.NewNotificationHandler(notificationService, tracer)

	server.start(authHandler, carHandler, bookingHandler, adminHandler, notificationHandler)
}

func (server *Server) initMongoClient(httpClient *http.Client) *mongo.Client {
	client, err := store2.GetClientWithHTTPConfig(server.config.RentalDBHost, server.config.RentalDBPort, httpClient)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

func (server *Server) initRedisClient() *redis.Client {
	client, err := store2.GetRedisClient(server.config.CatalogCacheHost, server.config.CatalogCachePort)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

func (server *Server) initUserStore(client *mongo.Client, tracer trace.Tracer) domain.UserStore {
	return store2.NewUserMongoDBStore(client, tracer)
}

func (server *Server) initCarStore(client *mongo.Client, tracer trace.Tracer) domain.CarStore {
	return store2.NewCarMongoDBStore(client, tracer)
}

func (server *Server) initBookingStore(client *mongo.Client, tracer trace.Tracer) domain.BookingStore {
	return store2.NewBookingMongoDBStore(client, tracer)
}

func (server *Server) initNotificationStore(client *mongo.Client, tracer trace.Tracer) domain.NotificationStore {
	return store2.NewNotificationMongoDBStore(client, tracer)
}

func (server *Server) initCatalogCache(client *redis.Client, tracer trace.Tracer) domain.CatalogCache {
	return cache.NewCatalogCache(client, tracer)
}

func (server *Server) start(authHandler *handlers.AuthHandler, carHandler *handlers.CarHandler, bookingHandler *handlers.BookingHandler, adminHandler *handlers.AdminHandler, notificationHandler *handlers.NotificationHandler) {
	enforcer, err := casbin.NewEnforcerSafe("./rbac_model.conf", "./policy.csv")
	if err != nil {
		log.Fatal(err)
	}

	router := mux.NewRouter()
	router.Use(MiddlewareContentTypeSet)
	router.Use(logging.Middleware(server.logger))

	authHandler.Init(router)
	carHandler.Init(router)
	bookingHandler.Init(router)
	adminHandler.Init(router)
	notificationHandler.Init(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", server.config.Port),
		Handler: casbinAuthorization.CasbinMiddleware(enforcer)(router),
	}

	wait := time.Second * 15
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Println(err)
		}
	}()

	c := make(chan os.Signal, 1)

	signal.Notify(c, os.Interrupt)
	signal.Notify(c, syscall.SIGTERM)

	<-c

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Error Shutting Down Server %s", err)
	}
	log.Println("Server Gracefully Stopped")
}

func newExporter(address string) (*jaeger.Exporter, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(address)))
	if err != nil {
		return nil, err
	}
	return exp, nil
}

func newTraceProvider(exp sdktrace.SpanExporter) *sdktrace.TracerProvider {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("rental_service"),
		),
	)

	if err != nil {
		panic(err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
	)
}

func MiddlewareContentTypeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		rw.Header().Add("Content-Type", "application/json")
		rw.Header().Set("X-Content-Type-Options", "nosniff")
		rw.Header().Set("X-Frame-Options", "DENY")

		next.ServeHTTP(rw, h)
	})
}
