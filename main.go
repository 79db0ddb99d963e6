package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tech282/ecosystem-platform-api/config"
	"github.com/tech282/ecosystem-platform-api/cron"
	"github.com/tech282/ecosystem-platform-api/database"
	availabilityRepo "github.com/tech282/ecosystem-platform-api/database/repository/availability"
	bookingRepo "github.com/tech282/ecosystem-platform-api/database/repository/booking"
	providerRepo "github.com/tech282/ecosystem-platform-api/database/repository/provider"
	"github.com/tech282/ecosystem-platform-api/handlers"
	"github.com/tech282/ecosystem-platform-api/middleware"
	"github.com/tech282/ecosystem-platform-api/routes"
	"github.com/tech282/ecosystem-platform-api/services/booking"
	"github.com/tech282/ecosystem-platform-api/services/identity"
	"github.com/tech282/ecosystem-platform-api/services/provider"
	"github.com/tech282/ecosystem-platform-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	stripe.Key = config.AppConfig.StripeKey

	db := database.DB()
	bkRepo := bookingRepo.NewMongoBookingRepo(db)
	provRepo := providerRepo.NewMongoProviderRepo(db)
	availRepo := availabilityRepo.NewMongoAvailabilityRepo(db)

	// Index creation is idempotent; the active-slot uniqueness constraint is
	// load-bearing for booking-create races.
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelIndex()
	if err := bkRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}
	if err := provRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure provider indexes: %v", err)
	}

	clock := booking.NewSystemClock()

	resolver := &booking.SlotResolver{
		Providers:        provRepo,
		Availability:     availRepo,
		Bookings:         bkRepo,
		Clock:            clock,
		Granularity:      config.AppConfig.SlotGranularityMinutes,
		MaxLookaheadDays: config.AppConfig.MaxLookaheadDays,
	}

	identityProvider := &identity.DefaultIdentityProvider{
		Providers: provRepo,
		AdminIDs:  config.AdminIDs(),
	}

	bookingService := &booking.DefaultBookingService{
		Repo:               bkRepo,
		Providers:          provRepo,
		Resolver:           resolver,
		Gateway:            booking.StripeGateway{},
		Identity:           identityProvider,
		Deduper:            booking.NewRedisEventDeduper(utils.GetDedupeClient()),
		Clock:              clock,
		CancellationWindow: time.Duration(config.AppConfig.CancellationWindowHours) * time.Hour,
	}

	providerService := &provider.DefaultProviderService{
		Repo:         provRepo,
		Availability: availRepo,
		Bookings:     bkRepo,
		Cache:        utils.GetCacheClient(),
		Clock:        clock,
	}

	handlerBundle := &handlers.HandlerBundle{
		Booking:  handlers.NewBookingHandler(bookingService),
		Provider: handlers.NewProviderHandler(providerService, resolver),
		Webhook:  handlers.NewWebhookHandler(bookingService),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	routes.RegisterRoutes(router, handlerBundle)

	worker, scheduler := cron.InitLifecycleWorker(bookingService)

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

	scheduler.Shutdown()
	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
