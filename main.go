package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booked/config"
	"booked/cron"
	"booked/database"
	appointmentRepo "booked/database/repository/appointment"
	availabilityRepo "booked/database/repository/availability"
	catalogRepo "booked/database/repository/catalog"
	userRepoPkg "booked/database/repository/user"
	"booked/handlers"
	"booked/routes"
	"booked/services/booking"
	"booked/services/notification"
	"booked/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	availRepo := availabilityRepo.NewMongoAvailabilityRepo()
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()
	svcRepo := catalogRepo.NewMongoServiceRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	ctx, cancelBackground := context.WithCancel(context.Background())
	defer cancelBackground()

	indexCtx, cancelIdx := context.WithTimeout(ctx, 30*time.Second)
	defer cancelIdx()
	if err := availRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure slot indexes: %v", err)
	}
	if err := apptRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure appointment indexes: %v", err)
	}

	// services.
	notificationService, err := notification.NewDefaultNotificationService(userRepo)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	enqueuer := cron.NewEnqueuer()
	defer enqueuer.Close()

	bookingService := &booking.DefaultBookingService{
		Availability: availRepo,
		Appointments: apptRepo,
		Catalog:      svcRepo,
		Users:        userRepo,
		Notifier:     enqueuer,
		Cache:        utils.GetCacheClient(),
		CacheTTL:     time.Duration(config.AppConfig.AvailabilityCacheTTL) * time.Second,
		Grid: booking.GridConfig{
			DayStart:        config.AppConfig.BookingDayStart,
			DayEnd:          config.AppConfig.BookingDayEnd,
			IntervalMinutes: config.AppConfig.SlotIntervalMinutes,
			DefaultDuration: config.AppConfig.DefaultDurationMinutes,
		},
	}

	handlers.BookingSvc = bookingService
	handlers.UserRepo = userRepo
	handlers.CatalogRepo = svcRepo

	// Background worker: notification delivery and the reconciliation sweep.
	worker := cron.NewWorker(availRepo, apptRepo, notificationService)
	worker.Start()
	defer worker.Shutdown()
	cron.StartSweepScheduler(ctx, enqueuer)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()},
		database.MongoClient,
	)

	routes.RegisterRoutes(router, userRepo)

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

	cancelBackground()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
