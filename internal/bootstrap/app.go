package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"image-backend/internal/images"
	"image-backend/internal/services/health"
	"image-backend/internal/shared/config"
	"image-backend/internal/shared/server"
	"image-backend/internal/shared/storage/db"
	"image-backend/internal/shared/storage/object"
	localstore "image-backend/internal/shared/storage/object/local"
	s3store "image-backend/internal/shared/storage/object/s3"
	"image-backend/internal/shared/telemetry"
	"image-backend/internal/uploads"
)

// App holds shared dependencies.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	DB            *sql.DB
	Store         object.Store
	UploadsRepo   uploads.Repo
	UploadsSvc    *uploads.Service
	ImagesSvc     *images.Service
	ImagesHandler *images.Handler
	UploadHandler *uploads.Handler
	Health        *health.Service
}

// Build prepares every dependency and the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        app.Config,
		ImagesHandler: app.ImagesHandler,
		UploadHandler: app.UploadHandler,
		Health:        app.Health,
	})
	return app, nil
}

// Close releases the database handle, if any.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, fmt.Errorf("s3 store: %w", err)
		}
		return store, nil
	default:
		store, err := localstore.New(cfg.LocalStoreDir)
		if err != nil {
			return nil, fmt.Errorf("local store: %w", err)
		}
		return store, nil
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		telemetry.Info("bootstrap.ledger_memory", map[string]any{"reason": "DATABASE_URL empty"})
		return nil, nil
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.ledger_memory", map[string]any{"reason": "database connect failed", "err": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.ledger_memory", map[string]any{"reason": "migrations failed", "err": err.Error()})
			return nil, nil
		}
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildServices(app *App) {
	ledgerKind := "memory"
	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
		app.UploadsRepo = &uploads.PGRepo{DB: app.DB}
		ledgerKind = "postgres"
	} else {
		app.UploadsRepo = uploads.NewMemoryRepo()
	}

	app.UploadsSvc = uploads.NewService(app.UploadsRepo)
	app.ImagesSvc = images.NewService(app.Store, app.UploadsSvc, app.Config.ArchiveDir)
	app.ImagesHandler = images.NewHandler(app.ImagesSvc, app.Config.MaxUploadBytes)
	app.UploadHandler = uploads.NewHandler(app.UploadsSvc)
	app.Health = health.NewService(app.Config.ObjectStoreType, ledgerKind, pinger)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
