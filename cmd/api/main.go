package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scos-platform/order-service/api"
	"github.com/scos-platform/order-service/internal/application"
	mongoRepo "github.com/scos-platform/order-service/internal/infrastructure/mongodb"
	"github.com/scos-platform/order-service/pkg/contracts/openapi"
	"github.com/scos-platform/order-service/pkg/errors"
	"github.com/scos-platform/order-service/pkg/events"
	"github.com/scos-platform/order-service/pkg/kafka"
	"github.com/scos-platform/order-service/pkg/logging"
	"github.com/scos-platform/order-service/pkg/metrics"
	"github.com/scos-platform/order-service/pkg/middleware"
	"github.com/scos-platform/order-service/pkg/mongodb"
)

const serviceName = "order-service"

func main() {
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting order-service API")

	config := loadConfig()
	ctx := context.Background()

	// Startup self-check of the published API contract
	specValidator, err := openapi.NewValidatorFromBytes(api.SpecYAML)
	if err != nil {
		logger.WithError(err).Error("Embedded OpenAPI contract is invalid")
		os.Exit(1)
	}
	logger.Info("OpenAPI contract loaded", "paths", len(specValidator.GetPaths()))

	metricsConfig := metrics.DefaultConfig(serviceName)
	m := metrics.New(metricsConfig)
	logger.Info("Metrics initialized")

	mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	instrumentedMongo := mongodb.NewInstrumentedClient(mongoClient, m, logger)
	protectedMongo := mongodb.NewCircuitBreakerClient(instrumentedMongo, logger)
	defer protectedMongo.Close(ctx)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	if err := mongoRepo.SeedWarehouses(ctx, protectedMongo.Database()); err != nil {
		logger.WithError(err).Error("Failed to seed warehouses")
		os.Exit(1)
	}

	kafkaProducer := kafka.NewProducer(config.Kafka)
	instrumentedProducer := kafka.NewInstrumentedProducer(kafkaProducer, m, logger)
	defer instrumentedProducer.Close()
	logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)

	eventFactory := events.NewFactory("/" + serviceName)

	warehouseRepo := mongoRepo.NewWarehouseRepository(protectedMongo)
	orderRepo := mongoRepo.NewOrderRepository(protectedMongo)

	businessMetrics := middleware.NewBusinessMetrics(m)

	orderService := application.NewOrderApplicationService(
		warehouseRepo,
		orderRepo,
		instrumentedProducer,
		eventFactory,
		logger,
		businessMetrics,
	)
	warehouseService := application.NewWarehouseQueryService(warehouseRepo)

	router := gin.New()

	middlewareConfig := middleware.DefaultConfig(serviceName, logger)
	middleware.Setup(router, middlewareConfig)
	router.Use(middleware.MetricsMiddleware(m))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return protectedMongo.HealthCheck(ctx)
	}))
	router.GET("/metrics", middleware.MetricsEndpoint(m))
	router.GET("/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", api.SpecYAML)
	})

	v1 := router.Group("/api/v1")
	{
		orders := v1.Group("/orders")
		{
			orders.POST("/verify", verifyOrderHandler(orderService))
			orders.POST("", submitOrderHandler(orderService))
			orders.GET("/:orderNumber", getOrderHandler(orderService, logger))
		}

		warehouses := v1.Group("/warehouses")
		{
			warehouses.GET("", listWarehousesHandler(warehouseService, logger))
			warehouses.GET("/:id", getWarehouseHandler(warehouseService, logger))
		}
	}

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Server error")
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server stopped")
}

// Config holds application configuration
type Config struct {
	ServerAddr string
	MongoDB    *mongodb.Config
	Kafka      *kafka.Config
}

func loadConfig() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8084"),
		MongoDB: &mongodb.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "scos_orders"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    10,
			ReplicaSet:     getEnv("MONGODB_REPLICA_SET", ""),
		},
		Kafka: &kafka.Config{
			Brokers:      []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			ClientID:     serviceName,
			BatchSize:    100,
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: -1,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// OrderRequest is the request body shared by verification and submission.
// Quantity is a pointer so an explicit zero fails the gt rule rather than
// looking like a missing field.
type OrderRequest struct {
	Quantity        *int             `json:"quantity" binding:"required,gt=0"`
	ShippingAddress *ShippingAddress `json:"shippingAddress" binding:"required"`
}

// ShippingAddress is the destination part of an order request
type ShippingAddress struct {
	Latitude  *float64 `json:"latitude" binding:"required,latitude_range"`
	Longitude *float64 `json:"longitude" binding:"required,longitude_range"`
}

// requestError is the wire shape for order endpoint failures
type requestError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, requestError{
		Error:   "Validation Error",
		Message: message,
	})
}

// validationMessage surfaces the first field-level detail when present
func validationMessage(appErr *errors.AppError) string {
	for field, msg := range appErr.Details {
		return field + " " + msg
	}
	return appErr.Message
}

func verifyOrderHandler(service *application.OrderApplicationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OrderRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			respondValidationError(c, validationMessage(appErr))
			return
		}

		quote, err := service.VerifyOrder(c.Request.Context(), application.VerifyOrderCommand{
			Quantity:  *req.Quantity,
			Latitude:  *req.ShippingAddress.Latitude,
			Longitude: *req.ShippingAddress.Longitude,
		})
		if err != nil {
			if appErr, ok := errors.AsAppError(err); ok && appErr.Code == errors.CodeValidationError {
				respondValidationError(c, validationMessage(appErr))
				return
			}
			c.Error(err)
			return
		}

		c.JSON(http.StatusOK, quote)
	}
}

func submitOrderHandler(service *application.OrderApplicationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OrderRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			respondValidationError(c, validationMessage(appErr))
			return
		}

		submission, err := service.SubmitOrder(c.Request.Context(), application.SubmitOrderCommand{
			Quantity:  *req.Quantity,
			Latitude:  *req.ShippingAddress.Latitude,
			Longitude: *req.ShippingAddress.Longitude,
		})
		if err != nil {
			if appErr, ok := errors.AsAppError(err); ok {
				switch appErr.Code {
				case errors.CodeValidationError:
					respondValidationError(c, validationMessage(appErr))
				case errors.CodeInvalidOrder:
					c.JSON(http.StatusUnprocessableEntity, requestError{
						Error:   "Invalid Order",
						Message: appErr.Message,
					})
				default:
					c.Error(err)
				}
				return
			}
			c.Error(err)
			return
		}

		if !submission.IsValid {
			c.JSON(http.StatusUnprocessableEntity, requestError{
				Error:   "Invalid Order",
				Message: submission.InvalidReason,
			})
			return
		}

		c.JSON(http.StatusCreated, submission)
	}
}

// orderNumberParam captures the order number path parameter
type orderNumberParam struct {
	OrderNumber string `uri:"orderNumber" binding:"required,order_number"`
}

func getOrderHandler(service *application.OrderApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var params orderNumberParam
		if appErr := middleware.BindURIAndValidate(c, &params); appErr != nil {
			responder.RespondWithError(appErr)
			return
		}

		order, err := service.GetOrder(c.Request.Context(), params.OrderNumber)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

func listWarehousesHandler(service *application.WarehouseQueryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		warehouses, err := service.ListWarehouses(c.Request.Context())
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, warehouses)
	}
}

func getWarehouseHandler(service *application.WarehouseQueryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		warehouse, err := service.GetWarehouse(c.Request.Context(), c.Param("id"))
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, warehouse)
	}
}
