// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	router "socialgraph/internal/api"
	"socialgraph/internal/api/handler"
	"socialgraph/internal/auth"
	"socialgraph/internal/cache"
	"socialgraph/internal/config"
	"socialgraph/internal/migrations"
	"socialgraph/internal/repository"
	"socialgraph/internal/repository/memory"
	"socialgraph/internal/repository/postgres"
	"socialgraph/internal/service"
	"socialgraph/internal/util"
	"socialgraph/pkg/db"
)

const cachePrefix = "socialgraph"

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB
	Redis  *redis.Client

	// Repositories
	UserRepository         repository.UserRepository
	GraphRepository        repository.GraphRepository
	NotificationRepository repository.NotificationRepository

	Cache cache.RecommendationCache
	JWT   *auth.JWTManager

	// Services
	UserService           service.UserService
	RelationshipService   service.RelationshipService
	NotificationService   service.NotificationService
	RecommendationService service.RecommendationService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{Logger: util.GetLogger()}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.", "storage_driver", cfg.StorageDriver)

	// 3. Storage
	if err := app.initStorage(ctx); err != nil {
		return err
	}

	// 4. Recommendation cache
	app.initCache(ctx)

	// 5. Initialize Services
	app.JWT = auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	app.UserService = service.NewUserService(app.UserRepository, app.JWT, app.Cache, cfg.Auth.BcryptCost, app.Logger)
	app.RelationshipService = service.NewRelationshipService(app.UserRepository, app.GraphRepository, app.Cache, app.Logger)
	app.NotificationService = service.NewNotificationService(app.UserRepository, app.NotificationRepository)
	app.RecommendationService = service.NewRecommendationService(
		app.UserRepository,
		app.GraphRepository,
		app.Cache,
		cfg.Recommend.Fanout,
		app.Logger,
	)
	app.Logger.Info("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	app.HTTPHandler = router.NewRouter(router.Handlers{
		Auth:            handler.NewAuthHandler(app.UserService, app.Logger),
		Users:           handler.NewUserHandler(app.UserService, app.Logger),
		Relationships:   handler.NewRelationshipHandler(app.RelationshipService, app.Logger),
		Notifications:   handler.NewNotificationHandler(app.NotificationService, app.Logger),
		Recommendations: handler.NewRecommendationHandler(app.RecommendationService, app.Logger),
	}, app.JWT, cfg.CORSOrigins)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

func (app *Application) initStorage(ctx context.Context) error {
	if app.Config.StorageDriver == config.DriverMemory {
		store := memory.NewStore()
		app.UserRepository = store
		app.GraphRepository = store
		app.NotificationRepository = store
		app.Logger.Info("Using in-memory storage.")
		return nil
	}

	database, err := db.NewPostgresDB(ctx, app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if err := db.RunMigrations(ctx, app.DB.DB, migrations.FS); err != nil {
		return err
	}
	app.Logger.Info("Database migrations applied.")

	app.UserRepository = postgres.NewUserRepository(app.DB)
	app.GraphRepository = postgres.NewGraphRepository(app.DB)
	app.NotificationRepository = postgres.NewNotificationRepository(app.DB)
	app.Logger.Info("Repositories initialized.")
	return nil
}

// initCache falls back to no caching when Redis is not configured or unreachable.
func (app *Application) initCache(ctx context.Context) {
	app.Cache = cache.Noop{}
	if app.Config.Redis.Addr == "" {
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     app.Config.Redis.Addr,
		Password: app.Config.Redis.Password,
		DB:       app.Config.Redis.DB,
	})
	redisCache := cache.NewRedisCache(client, app.Logger, cachePrefix, app.Config.Recommend.CacheTTL)
	if err := redisCache.Ping(ctx); err != nil {
		app.Logger.Warn("Redis unreachable, recommendation cache disabled", "addr", app.Config.Redis.Addr, "error", err)
		_ = client.Close()
		return
	}
	app.Redis = client
	app.Cache = redisCache
	app.Logger.Info("Recommendation cache connected.", "addr", app.Config.Redis.Addr)
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("Failed to close redis connection", "error", err)
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
