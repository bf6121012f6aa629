// Package bootstrap wires configuration into repositories, services and the
// HTTP router.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"career-backend/internal/admin"
	googleauth "career-backend/internal/auth"
	"career-backend/internal/catalog"
	"career-backend/internal/extract"
	"career-backend/internal/generation"
	"career-backend/internal/guidance"
	"career-backend/internal/notifications"
	"career-backend/internal/planning"
	"career-backend/internal/profiles"
	"career-backend/internal/services/health"
	"career-backend/internal/shared/cache"
	"career-backend/internal/shared/config"
	"career-backend/internal/shared/server"
	"career-backend/internal/shared/server/middleware"
	"career-backend/internal/shared/storage/db"
	"career-backend/internal/shared/storage/object"
	localstore "career-backend/internal/shared/storage/object/local"
	s3store "career-backend/internal/shared/storage/object/s3"
	"career-backend/internal/shared/telemetry"
)

const memoryCacheEntries = 1024

// App holds the process-wide dependencies. It is built once at startup and
// not mutated afterwards.
type App struct {
	Config     config.Config
	Router     *gin.Engine
	DB         *sql.DB
	Store      object.Store
	Redis      *cache.Redis
	Generation *generation.Client

	Careers       catalog.Repo
	Profiles      *profiles.Service
	Guidance      *guidance.Service
	Notifications *notifications.Service
	Planning      *planning.Service
}

// Build prepares dependencies and the router. Without DATABASE_URL in a
// dev-like environment it falls back to memory repositories seeded with the
// bundled catalog.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Generation: generation.New(ctx, generation.Options{
			APIKey:      cfg.GeminiAPIKey,
			Models:      cfg.GeminiModels,
			MaxAttempts: cfg.GenerationMaxAttempts,
			HTTPTimeout: cfg.GenerationHTTPTimeout,
		}),
	}

	var (
		profileRepo   profiles.Repo
		conversations guidance.ConversationRepo
		notices       notifications.Repo
		plans         planning.Repo
	)
	if sqlDB != nil {
		app.Careers = &catalog.PGRepo{DB: sqlDB}
		profileRepo = &profiles.PGRepo{DB: sqlDB}
		conversations = &guidance.PGConversations{DB: sqlDB}
		notices = &notifications.PGRepo{DB: sqlDB}
		plans = &planning.PGRepo{DB: sqlDB}
	} else {
		mem := catalog.NewMemoryRepo()
		if _, err := catalog.Seed(ctx, mem); err != nil {
			return nil, fmt.Errorf("op=bootstrap.Build seed: %w", err)
		}
		app.Careers = mem
		profileRepo = profiles.NewMemoryRepo()
		conversations = guidance.NewMemoryConversations()
		notices = notifications.NewMemoryRepo()
		plans = planning.NewMemoryRepo()
	}

	app.Profiles = profiles.NewService(profileRepo, store, extract.ExtractTextFromBytes)
	app.Guidance = guidance.NewService(app.Generation, app.Careers, conversations, app.buildCache(ctx))
	app.Guidance.CacheTTL = cfg.MarketCacheTTL
	app.Guidance.MaxAttempts = cfg.GenerationMaxAttempts
	app.Notifications = notifications.NewService(notices, profileRepo)
	app.Planning = planning.NewService(plans, app.Notifications)

	catalogHandler := catalog.NewHandler(app.Careers)
	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		Health:        health.NewService(sqlDB, app.Generation),
		Catalog:       catalogHandler,
		Profiles:      profiles.NewHandler(app.Profiles),
		Guidance:      guidance.NewHandler(app.Guidance, profileRepo, catalogHandler.ListCareers),
		Notifications: notifications.NewHandler(app.Notifications),
		Planning:      planning.NewHandler(app.Planning),
		Admin:         admin.NewHandler(app.Profiles, app.Careers),
		Google: googleauth.NewGoogleService(
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL,
			cfg.FrontendURL,
			app.Profiles,
		),
		Limiter: middleware.NewRateLimiter(nil),
	})
	return app, nil
}

// Close waits for in-flight conversation writes, then releases connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Guidance != nil {
		if err := a.Guidance.Wait(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (a *App) buildCache(ctx context.Context) cache.Cache {
	tiered := &cache.Tiered{L1: cache.NewMemory(memoryCacheEntries), TTL: a.Config.MarketCacheTTL}
	if strings.TrimSpace(a.Config.RedisURL) == "" {
		return tiered
	}
	r, err := cache.NewRedis(ctx, a.Config.RedisURL)
	if err != nil {
		telemetry.Warn("bootstrap.redis_unavailable", map[string]any{"error": err})
		return tiered
	}
	a.Redis = r
	tiered.L2 = r
	return tiered
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDev() {
			telemetry.Info("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, errors.New("op=bootstrap.buildDB: DATABASE_URL is required")
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if cfg.IsDev() {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		store, err := s3store.New(loadCtx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, fmt.Errorf("op=bootstrap.buildStore: %w", err)
		}
		return store, nil
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}
