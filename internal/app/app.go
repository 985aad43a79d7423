package app

import (
	"context"
	"fmt"
	"net/http"

	"cendra-go/internal/auth"
	"cendra-go/internal/config"
	"cendra-go/internal/db"
	affiliatedomain "cendra-go/internal/domain/affiliate"
	censusdomain "cendra-go/internal/domain/census"
	dashboarddomain "cendra-go/internal/domain/dashboard"
	directoratedomain "cendra-go/internal/domain/directorate"
	entitydomain "cendra-go/internal/domain/entity"
	newsdomain "cendra-go/internal/domain/news"
	treasurydomain "cendra-go/internal/domain/treasury"
	userdomain "cendra-go/internal/domain/user"
	"cendra-go/internal/repository/inmemory"
	affiliaterepo "cendra-go/internal/repository/postgres/affiliate"
	censusrepo "cendra-go/internal/repository/postgres/census"
	dashboardrepo "cendra-go/internal/repository/postgres/dashboard"
	directoraterepo "cendra-go/internal/repository/postgres/directorate"
	entityrepo "cendra-go/internal/repository/postgres/entity"
	newsrepo "cendra-go/internal/repository/postgres/news"
	treasuryrepo "cendra-go/internal/repository/postgres/treasury"
	userrepo "cendra-go/internal/repository/postgres/user"
	"cendra-go/internal/repository/rediscache"
	"cendra-go/internal/storage"
	"cendra-go/internal/transport/httpserver"
	"cendra-go/internal/transport/httpserver/handler"
	authmw "cendra-go/internal/transport/httpserver/middleware"
	"cendra-go/pkg/logger"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	redis      *redis.Client
	log        logger.Logger
}

// Options tweak start up behaviour from the command line.
type Options struct {
	// Migrate forces pending migrations to run even when DB_AUTO_MIGRATE is off.
	Migrate bool
}

func New(ctx context.Context, log logger.Logger, opts Options) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, db: dbConn, log: log}

	if cfg.DB.AutoMigrate || opts.Migrate {
		if err := db.Migrate(ctx, dbConn, log); err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	files, err := newStorage(ctx, cfg.S3, log)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	cache, err := a.newDashboardCache(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hasher := auth.NewPasswordHasher()

	userService := userdomain.NewService(userrepo.NewPostgres(dbConn), hasher, tokens)
	treasuryService := treasurydomain.NewService(treasuryrepo.NewPostgres(dbConn))
	services := handler.Services{
		Users:       userService,
		Entities:    entitydomain.NewService(entityrepo.NewPostgres(dbConn), hasher, files),
		Affiliates:  affiliatedomain.NewService(affiliaterepo.NewPostgres(dbConn), files),
		Directorate: directoratedomain.NewService(directoraterepo.NewPostgres(dbConn)),
		Census:      censusdomain.NewService(censusrepo.NewPostgres(dbConn)),
		Treasury:    treasuryService,
		News:        newsdomain.NewService(newsrepo.NewPostgres(dbConn)),
		Dashboard:   dashboarddomain.NewService(dashboardrepo.NewPostgres(dbConn), treasuryService, cache, cfg.Dashboard.CacheTTL),
	}

	log.Info("app: initializing router")
	handlers := handler.New(services, files, log)
	jwtAuth := authmw.NewJWTAuth(tokens, userService, log)
	router := httpserver.NewRouter(cfg, handlers, jwtAuth, log)

	log.Info("app: initializing http server")
	a.httpServer = httpserver.New(cfg, router)

	return a, nil
}

// Migrate connects to the database, applies pending migrations and closes
// the connection again.
func Migrate(ctx context.Context, log logger.Logger) error {
	cfg, err := config.Load(log)
	if err != nil {
		return err
	}
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return err
	}
	defer closeDB(dbConn)

	return db.Migrate(ctx, dbConn, log)
}

func newStorage(ctx context.Context, cfg config.S3Config, log logger.Logger) (storage.Presigner, error) {
	s3Cfg := storage.Config{
		Endpoint:   cfg.Endpoint,
		Region:     cfg.Region,
		Bucket:     cfg.Bucket,
		AccessKey:  cfg.AccessKey,
		SecretKey:  cfg.SecretKey,
		PresignTTL: cfg.PresignTTL,
	}
	if !s3Cfg.Enabled() {
		log.Warn("app: S3_BUCKET not set, file uploads disabled")
		return storage.Disabled{}, nil
	}

	files, err := storage.NewS3(ctx, s3Cfg)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.Info("app: file storage ready", "bucket", cfg.Bucket)
	return files, nil
}

func (a *App) newDashboardCache(ctx context.Context) (dashboarddomain.Cache, error) {
	if a.cfg.Redis.URL == "" {
		a.log.Info("app: using in-memory dashboard cache")
		return inmemory.NewInMemoryDashboardCache(), nil
	}

	client, err := rediscache.Connect(ctx, a.cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}
	a.redis = client
	a.log.Info("app: using redis dashboard cache")
	return rediscache.NewDashboardCache(client, a.log), nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("app: redis close failed", "err", err)
		}
	}
	if a.db == nil {
		return nil
	}
	return closeDB(a.db)
}

func closeDB(gormDB *gorm.DB) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
