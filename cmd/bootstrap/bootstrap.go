package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-doctor-directory/config"
	deliveryHttp "go-doctor-directory/internal/delivery/http"
	"go-doctor-directory/internal/delivery/http/handler"
	"go-doctor-directory/internal/delivery/http/middleware"
	domainRepo "go-doctor-directory/internal/domain/repository"
	"go-doctor-directory/internal/infrastructure/cache"
	"go-doctor-directory/internal/infrastructure/database"
	"go-doctor-directory/internal/repository"
	"go-doctor-directory/internal/usecase"
	"go-doctor-directory/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server

	Listing    usecase.DoctorListingUsecase
	Navigation usecase.NavigationUsecase
	rateLimit  *middleware.RateLimitMiddleware
}

// loadConfig reads the configuration and configures the global logger from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	setupLogger(cfg.App.LogLevel)
	logrus.Info("Configuration loaded successfully")
	return cfg, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Unknown LOG_LEVEL %q, using info", level)
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// newInfrastructure connects whatever backing services the configuration
// names. Postgres and Redis are both optional.
func newInfrastructure(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg, Log: logrus.StandardLogger()}

	if cfg.DB.Enabled() {
		db, err := database.NewPostgresConnection(cfg.DB, cfg.IsDev())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.DB = db
		logrus.Info("Database connected successfully")
	}

	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient
		logrus.Info("Redis connected successfully")
	}

	return app, nil
}

// New creates a new App instance with all dependencies initialized
func New(cfg *config.Config) (*App, error) {
	app, err := newInfrastructure(cfg)
	if err != nil {
		return nil, err
	}

	source, err := app.doctorSource()
	if err != nil {
		app.Close()
		return nil, err
	}

	// Initialize repositories
	var sessionRepo domainRepo.SessionRepository
	if app.RedisClient != nil {
		sessionRepo = repository.NewRedisSessionRepository(app.RedisClient, cfg.Session.TTL)
	} else {
		sessionRepo = repository.NewMemorySessionRepository(cfg.Session.TTL)
	}

	// Initialize usecases
	app.Listing = usecase.NewDoctorListingUsecase(app.Log, source)
	app.Navigation = usecase.NewNavigationUsecase(app.Log, sessionRepo, app.Listing)

	app.Server = app.initializeServer()

	return app, nil
}

// doctorSource picks the record source named by SOURCE_DRIVER and puts the
// Redis cache in front of it when Redis is available.
func (app *App) doctorSource() (domainRepo.DoctorSource, error) {
	var source domainRepo.DoctorSource

	switch app.Config.Source.Driver {
	case config.SourceDriverPostgres:
		if app.DB == nil {
			return nil, fmt.Errorf("source driver %q needs a database connection", config.SourceDriverPostgres)
		}
		source = repository.NewPostgresDoctorSource(app.DB, repository.NewDoctorListingRepository())
	default:
		source = repository.NewHTTPDoctorSource(app.Config.Source.URL, app.Config.Source.Timeout)
	}

	if app.RedisClient != nil {
		source = repository.NewCachedDoctorSource(source, app.RedisClient, app.Config.Source.CacheTTL, app.Log)
	}

	logrus.WithField("driver", app.Config.Source.Driver).Info("Doctor source initialized")
	return source, nil
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer() *http.Server {
	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize handlers
	doctorHandler := handler.NewDoctorHandler(app.Listing, customValidator)
	sessionHandler := handler.NewSessionHandler(app.Navigation, customValidator)

	// Initialize middleware
	ipResolver := middleware.NewClientIPResolver(app.Config.App.TrustedProxies)
	corsMiddleware := middleware.NewCORSMiddleware(app.Config.App.CORSOrigins)
	loggerMiddleware := middleware.NewLoggerMiddleware(app.Log, ipResolver)
	recoveryMiddleware := middleware.NewRecoveryMiddleware(app.Log)
	app.rateLimit = middleware.NewRateLimitMiddleware(app.Config.RateLimit.RPS, app.Config.RateLimit.Burst, ipResolver)

	// Initialize router
	router := deliveryHttp.NewRouter(
		doctorHandler,
		sessionHandler,
		corsMiddleware,
		loggerMiddleware,
		recoveryMiddleware,
		app.rateLimit,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", app.Config.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown. The directory is
// loaded in the background; requests made meanwhile see the loading status.
func (app *App) Run() {
	loadCtx, cancelLoad := context.WithCancel(context.Background())
	defer cancelLoad()
	go app.Listing.Load(loadCtx)

	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
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

// Close stops background workers and closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.Navigation != nil {
		app.Navigation.Stop()
	}
	if app.rateLimit != nil {
		app.rateLimit.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
