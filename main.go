package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fixly/config"
	"fixly/cron"
	"fixly/database"
	bookingRepoPkg "fixly/database/repository/booking"
	providerRepoPkg "fixly/database/repository/provider"
	reviewRepoPkg "fixly/database/repository/review"
	userRepoPkg "fixly/database/repository/user"
	"fixly/handlers"
	"fixly/middleware"
	"fixly/routes"
	"fixly/services/booking"
	"fixly/services/notification"
	"fixly/services/provider"
	"fixly/services/review"
	"fixly/services/user"
	"fixly/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

type indexedRepo interface {
	EnsureIndexes() error
}

func ensureIndexes(logger *zap.Logger, repos ...any) {
	for _, r := range repos {
		if idx, ok := r.(indexedRepo); ok {
			if err := idx.EnsureIndexes(); err != nil {
				logger.Sugar().Fatalf("main: failed to create indexes: %v", err)
			}
		}
	}
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	provRepo := providerRepoPkg.NewMongoProviderRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	bookRepo := bookingRepoPkg.NewMongoBookingRepo()
	revRepo := reviewRepoPkg.NewMongoReviewRepo()
	ensureIndexes(logger, provRepo, userRepo, bookRepo, revRepo)

	// services.
	notificationService, err := notification.NewDefaultNotificationService(userRepo, provRepo)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	queueClient := cron.NewQueueClient()
	defer queueClient.Close()

	aggregator := review.NewRatingAggregator(revRepo, provRepo, queueClient, logger)
	cron.InitRatingWorker(aggregator)

	userService := user.NewDefaultUserService(userRepo)
	providerService := provider.NewDefaultProviderService(provRepo)
	bookingService := booking.NewDefaultBookingService(
		bookRepo, provRepo, userRepo, revRepo, notificationService, logger,
	)
	reviewService := review.NewDefaultReviewService(revRepo, bookRepo, aggregator, logger)

	// Assemble the handler bundle and register routes.
	handlerBundle := &routes.HandlerBundle{
		Users:     handlers.NewUserHandler(userService),
		Providers: handlers.NewProviderHandler(providerService),
		Bookings:  handlers.NewBookingHandler(bookingService),
		Reviews:   handlers.NewReviewHandler(reviewService),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
