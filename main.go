package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"roombook/config"
	"roombook/cron"
	"roombook/database"
	"roombook/database/repository"
	"roombook/handlers"
	"roombook/middleware"
	"roombook/routes"
	"roombook/services/availability"
	"roombook/services/booking"
	"roombook/services/tasks"
	"roombook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// presetsFromConfig overlays configured quick picks on the defaults. Viper
// lowercases map keys, so names match the defaults case-insensitively.
func presetsFromConfig(overrides map[string]config.PresetConfig) availability.PresetSet {
	presets := availability.DefaultPresets()
	for name, p := range overrides {
		if p.Start == "" || p.End == "" {
			continue
		}
		for known := range presets {
			if strings.EqualFold(known, name) {
				name = known
				break
			}
		}
		presets[name] = availability.Preset{Name: name, StartTime: p.Start, EndTime: p.End}
	}
	return presets
}

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	defer database.CloseDB()
	utils.InitRedis()

	window, err := availability.NewWindow(config.AppConfig.DayStart, config.AppConfig.DayEnd)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid operating day: %v", err)
	}

	// repositories.
	bookingRepo := repository.NewMongoBookingRepo()
	closureRepo := repository.NewMongoClosureRepo()
	if err := bookingRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to create booking indexes: %v", err)
	}
	if err := closureRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to create closure indexes: %v", err)
	}

	// background queue.
	queueClient := asynq.NewClient(cron.QueueRedisOpt())
	defer queueClient.Close()
	enqueuer := &tasks.AsynqEnqueuer{Client: queueClient}

	// services.
	roomData := booking.NewMongoRoomData(bookingRepo, closureRepo, window)

	reconciler := availability.NewReconciler(roomData, window, logger)
	if config.AppConfig.ReconcileMaxDays > 0 {
		reconciler.MaxRefinements = config.AppConfig.ReconcileMaxDays
	}
	calendarCache := booking.NewRedisCalendarCache(utils.GetCacheClient(), config.AppConfig.CalendarCacheTTL)
	calendarService := booking.NewCalendarService(roomData, reconciler, calendarCache, enqueuer, logger)

	roomService := booking.NewRoomService(roomData, window, calendarService, logger)
	sessionStore := booking.NewRedisSessionStore(utils.GetSessionClient(), config.AppConfig.SessionTTL)
	sessionService := booking.NewSessionService(roomService, sessionStore, presetsFromConfig(config.AppConfig.Presets), logger)

	bookingHandler := handlers.NewBookingHandler(roomService, sessionService, calendarService)
	handlerBundle := handlers.NewHandlerBundle(bookingHandler)

	// Create the Gin router.
	router := gin.New()
	if err := router.SetTrustedProxies(config.AppConfig.TrustedProxies); err != nil {
		logger.Sugar().Fatalf("main: invalid TRUSTED_PROXIES: %v", err)
	}
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlerBundle)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	utils.StartHealthMonitor(bgCtx, []*redis.Client{utils.GetCacheClient(), utils.GetSessionClient()}, database.MongoClient)

	worker := cron.InitCalendarWorker(bgCtx, calendarService)
	schedule, err := cron.StartCalendarSchedule(config.AppConfig.CalendarRefreshSpec, config.AppConfig.RoomIDs, enqueuer)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.Int("rooms", len(config.AppConfig.RoomIDs)))
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

	<-schedule.Stop().Done()
	worker.Shutdown()
	stopBackground()

	logger.Sugar().Info("main: server stopped gracefully")
}
