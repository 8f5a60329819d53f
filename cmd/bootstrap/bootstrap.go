package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medlink-portal/config"
	deliveryHttp "medlink-portal/internal/delivery/http"
	"medlink-portal/internal/delivery/http/handler"
	"medlink-portal/internal/delivery/http/middleware"
	"medlink-portal/internal/delivery/http/view"
	"medlink-portal/internal/infrastructure/backend"
	"medlink-portal/internal/infrastructure/cache"
	"medlink-portal/internal/infrastructure/resetstore"
	"medlink-portal/internal/session"
	"medlink-portal/internal/usecase"
	"medlink-portal/pkg/jwt"
	"medlink-portal/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	RedisClient *redis.Client
	Server      *http.Server

	resetStore  *resetstore.MemoryStore
	rateLimiter *middleware.RateLimiter
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	log := setupLogger(cfg.App.LogLevel)
	log.Info("Configuration loaded successfully")

	// Initialize Redis only when a component is configured to use it
	if cfg.NeedsRedis() {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient
		log.Info("Redis connected successfully")
	}

	server, err := app.initializeServer(cfg, log)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	return logrus.StandardLogger()
}

func (app *App) queryStore(cfg *config.Config) cache.Store {
	if cfg.Cache.Driver == config.DriverRedis {
		return cache.NewRedisStore(app.RedisClient)
	}
	return cache.NewMemoryStore(cfg.Cache.Capacity)
}

func (app *App) passwordResetStore(cfg *config.Config, log *logrus.Logger) resetstore.Store {
	if cfg.PasswordReset.Store == config.DriverRedis {
		return resetstore.NewRedisStore(app.RedisClient)
	}
	app.resetStore = resetstore.NewMemoryStore(log)
	return app.resetStore
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(cfg *config.Config, log *logrus.Logger) (*http.Server, error) {
	loc := cfg.Location()

	// Initialize infrastructure
	decoder := jwt.NewDecoder()
	sessions := session.NewManager(cfg.Session, decoder)
	backendClient := backend.NewClient(cfg.Backend, log)
	query := cache.NewQuery(app.queryStore(cfg), log)

	// Initialize validator
	customValidator := validator.NewValidator(validator.WithLocation(loc))

	// Initialize usecases
	passwordResetUsecase := usecase.NewPasswordResetUsecase(log, app.passwordResetStore(cfg, log), cfg.App.BaseURL, cfg.PasswordReset.TokenTTL, cfg.IsDev())

	var resetter usecase.PasswordResetter
	switch cfg.PasswordReset.Mode {
	case config.ResetModeMock:
		resetter = usecase.NewMockResetter(passwordResetUsecase)
	default:
		resetter = usecase.NewBackendResetter(log, backendClient, cfg.Backend.ForgotPasswordPath, cfg.Backend.ResetPasswordPath)
	}

	authUsecase := usecase.NewAuthUsecase(log, backendClient, query, decoder, resetter)
	doctorUsecase := usecase.NewDoctorUsecase(log, backendClient, query)
	patientUsecase := usecase.NewPatientUsecase(log, backendClient, query)
	slotUsecase := usecase.NewSlotUsecase(log, backendClient, query)
	appointmentUsecase := usecase.NewAppointmentUsecase(log, backendClient, query, doctorUsecase, patientUsecase, loc)

	// Initialize handlers
	renderer, err := view.NewRenderer(loc, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	base := handler.NewBase(renderer, sessions, authUsecase, customValidator, log)

	authHandler := handler.NewAuthHandler(base)
	adminHandler := handler.NewAdminHandler(base, doctorUsecase, patientUsecase, appointmentUsecase)
	slotHandler := handler.NewSlotHandler(base, doctorUsecase, slotUsecase)
	doctorHandler := handler.NewDoctorHandler(base, appointmentUsecase)
	patientHandler := handler.NewPatientHandler(base, patientUsecase, appointmentUsecase)
	bookingHandler := handler.NewBookingHandler(base, doctorUsecase, slotUsecase, appointmentUsecase)
	passwordResetHandler := handler.NewPasswordResetHandler(passwordResetUsecase, log)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(sessions)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.BaseURL)
	loggerMiddleware := middleware.NewLoggerMiddleware(log)
	app.rateLimiter = middleware.NewRateLimiter(cfg.RateLimit, log)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		adminHandler,
		slotHandler,
		doctorHandler,
		patientHandler,
		bookingHandler,
		passwordResetHandler,
		authMiddleware,
		corsMiddleware,
		loggerMiddleware,
		app.rateLimiter,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		logrus.Infof("Backend: %s", app.Config.Backend.URL)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close stops background workers and closes connections
func (app *App) Close() {
	if app.rateLimiter != nil {
		app.rateLimiter.Stop()
	}
	if app.resetStore != nil {
		app.resetStore.Stop()
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
