package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"makeup-backend/internal/account"
	"makeup-backend/internal/analyses"
	"makeup-backend/internal/photos"
	"makeup-backend/internal/profiles"
	"makeup-backend/internal/queue"
	"makeup-backend/internal/shared/cache"
	"makeup-backend/internal/shared/config"
	"makeup-backend/internal/shared/server"
	"makeup-backend/internal/shared/storage/db"
	"makeup-backend/internal/shared/storage/object"
	localstore "makeup-backend/internal/shared/storage/object/local"
	s3store "makeup-backend/internal/shared/storage/object/s3"
	"makeup-backend/internal/shared/telemetry"
	"makeup-backend/internal/vision"
	"makeup-backend/internal/vision/openai"
)

const cachePrefix = "makeup:"

// App holds shared dependencies.
type App struct {
	Config            config.Config
	Router            *gin.Engine
	DB                *sql.DB
	Store             object.ObjectStore
	Queue             queue.Client
	Cache             cache.Cache
	Analyzer          vision.Analyzer
	PhotosRepo        photos.Repo
	AnalysesRepo      analyses.Repo
	PhotosService     *photos.Service
	AnalysesService   *analyses.Service
	AnalysisProcessor AnalysisProcessor
	PhotoHandler      *photos.Handler
	AnalysisHandler   *analyses.Handler
	ProfileHandler    *profiles.Handler
	AccountHandler    *account.Handler

	closers []func() error
}

// AnalysisProcessor allows callers to override analysis processing for tests.
type AnalysisProcessor interface {
	ProcessAnalysis(ctx context.Context, analysisID string) error
}

// Build prepares shared dependencies and the HTTP router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Store = store

	if app.Queue, err = buildQueue(ctx, cfg); err != nil {
		return nil, err
	}

	if app.Cache, err = app.buildCache(ctx); err != nil {
		return nil, err
	}

	if app.Analyzer, err = buildAnalyzer(cfg); err != nil {
		return nil, err
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		PhotoHandler:    app.PhotoHandler,
		AnalysisHandler: app.AnalysisHandler,
		ProfileHandler:  app.ProfileHandler,
		AccountHandler:  app.AccountHandler,
		Ready:           app.Ready,
	})

	return app, nil
}

// Close releases connections opened by Build.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if a.DB != nil && !db.IsLambdaRuntime() {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Ready reports whether the database, when configured, answers a ping.
func (a *App) Ready(ctx context.Context) error {
	if a.DB == nil {
		return nil
	}
	return db.Ping(ctx, a.DB, 2*time.Second)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db_fallback", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	profile := db.RuntimeProfile()
	opts := db.OptionsFromEnv(db.DefaultOptions(profile))
	connect := db.Connect
	if profile == db.ProfileLambda {
		connect = db.GetSingleton
	}
	sqlDB, err := connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db_fallback", map[string]any{"reason": "connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	if cfg.IsDevLike() {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.QueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.QueueURL, cfg.AWSRegion)
}

func (a *App) buildCache(ctx context.Context) (cache.Cache, error) {
	if strings.TrimSpace(a.Config.RedisURL) == "" {
		return cache.NewMemory(), nil
	}
	rc, err := cache.NewRedis(ctx, a.Config.RedisURL, cachePrefix)
	if err != nil {
		if a.Config.IsDevLike() {
			telemetry.Warn("bootstrap.cache_fallback", map[string]any{"error": err.Error()})
			return cache.NewMemory(), nil
		}
		return nil, err
	}
	a.closers = append(a.closers, rc.Close)
	return rc, nil
}

func buildAnalyzer(cfg config.Config) (vision.Analyzer, error) {
	if cfg.AnalyzerProvider != "openai" {
		return vision.NewMockAnalyzer(cfg.AnalyzerDelay, nil), nil
	}
	analyzer, err := openai.New(cfg.OpenAIAPIKey, cfg.AnalyzerModel)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.analyzer_fallback", map[string]any{"provider": "mock", "error": err.Error()})
			return vision.NewMockAnalyzer(cfg.AnalyzerDelay, nil), nil
		}
		return nil, err
	}
	return analyzer, nil
}

func buildServices(app *App) error {
	var photoRepo photos.Repo
	var analysisRepo analyses.Repo

	if app.DB != nil {
		photoRepo = &photos.PGRepo{DB: app.DB}
		analysisRepo = &analyses.PGRepo{DB: app.DB}
	} else {
		photoRepo = photos.NewMemoryRepo()
		analysisRepo = analyses.NewMemoryRepo()
	}

	photoSvc := &photos.Service{
		Store: app.Store,
		Repo:  photoRepo,
	}

	analysisSvc := &analyses.Service{
		Repo:     analysisRepo,
		Photos:   photoSvc,
		Analyzer: app.Analyzer,
		Cache:    app.Cache,
		Queue:    app.Queue,
	}

	app.PhotosRepo = photoRepo
	app.AnalysesRepo = analysisRepo
	app.PhotosService = photoSvc
	app.AnalysesService = analysisSvc
	app.AnalysisProcessor = analysisSvc
	app.PhotoHandler = photos.NewHandler(photoSvc)
	app.AnalysisHandler = analyses.NewHandler(analysisSvc)
	app.ProfileHandler = profiles.NewHandler()
	app.AccountHandler = account.NewHandler(account.NewService(photoRepo, analysisRepo))

	if app.PhotoHandler == nil || app.AnalysisHandler == nil || app.ProfileHandler == nil {
		return errors.New("failed to initialize handlers")
	}

	return nil
}
