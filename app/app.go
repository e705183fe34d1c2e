// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"blogger-api/config"
	"blogger-api/db"
	"blogger-api/handler"
	"blogger-api/logger"
	"blogger-api/metrics"
	"blogger-api/repository"
	"blogger-api/router"
	"blogger-api/service"
	"blogger-api/token"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// App is a fully wired server. Build it with New.
type App struct {
	Config *config.Config
	DB     *sql.DB
	Redis  *redis.Client
	Router http.Handler

	Users   repository.IUserRepository
	Auth    *service.AuthService
	Posts   *service.PostService
	limiter *handler.RateLimiter
}

// New wires every layer. A nil database selects the in-memory repositories
// and a nil Redis client disables the post cache.
func New(cfg *config.Config, database *sql.DB, rdb *redis.Client) *App {
	var (
		userRepo  repository.IUserRepository
		tokenRepo repository.ITokenRepository
		postRepo  repository.IPostRepository
	)
	checks := map[string]handler.HealthCheckFunc{}

	if database != nil {
		userRepo = repository.NewUserRepository(database)
		tokenRepo = repository.NewTokenRepository(database)
		postRepo = repository.NewPostRepository(database)
		checks["postgres"] = database.PingContext
	} else {
		userRepo = repository.NewMemoryUserRepository()
		tokenRepo = repository.NewMemoryTokenRepository()
		postRepo = repository.NewMemoryPostRepository()
	}

	var cache service.ICacheClient
	if rdb != nil {
		cache = rdb
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	codec := token.NewCodec(cfg.JWT.Secret, cfg.JWT.TokenLifetime)
	authService := service.NewAuthService(userRepo, tokenRepo, codec, service.AuthConfig{
		RefreshTokenLifetime: cfg.JWT.RefreshTokenLifetime,
		BcryptCost:           cfg.Password.BcryptCost,
		PasswordPolicy: service.PasswordPolicy{
			MinLength:              cfg.Password.MinLength,
			RequireDigit:           cfg.Password.RequireDigit,
			RequireLowercase:       cfg.Password.RequireLowercase,
			RequireUppercase:       cfg.Password.RequireUppercase,
			RequireNonAlphanumeric: cfg.Password.RequireNonAlphanumeric,
		},
	})
	postService := service.NewPostService(postRepo, cache, cfg.Cache.TTL)

	limiter := handler.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, cfg.RateLimit.CleanupInterval, collector)

	r := router.NewRouter(router.Deps{
		Identity: handler.NewIdentityHandler(authService, collector),
		Posts:    handler.NewPostHandler(postService),
		Health:   handler.NewHealthHandler(checks),
		Codec:    codec,
		Limiter:  limiter,
		Metrics:  collector,
		Gatherer: reg,

		PostsClaim:      cfg.Authz.PostsClaim,
		PostsClaimValue: cfg.Authz.PostsClaimValue,
	})

	return &App{
		Config:  cfg,
		DB:      database,
		Redis:   rdb,
		Router:  r,
		Users:   userRepo,
		Auth:    authService,
		Posts:   postService,
		limiter: limiter,
	}
}

// Close stops background work and releases the connections the App holds.
func (a *App) Close() {
	a.limiter.Stop()
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.WithError(err).Warn("Failed to close Redis client")
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			logger.Log.WithError(err).Warn("Failed to close database")
		}
	}
}

func Run() {
	logger.Init()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Error loading configuration: %v", err)
	}
	if err := logger.Configure(cfg.Log.Level, cfg.Log.Format); err != nil {
		logger.Log.Fatalf("Error configuring logger: %v", err)
	}
	logger.Log.Info("Configuration loaded successfully")

	var database *sql.DB
	if cfg.Storage == config.StoragePostgres {
		database, err = db.Connect(cfg.Database)
		if err != nil {
			logger.Log.Fatalf("Error connecting to the database: %v", err)
		}
		if err := db.RunMigrations(cfg.Database.URL()); err != nil {
			logger.Log.Fatalf("Error running migrations: %v", err)
		}
	} else {
		logger.Log.Warn("Using in-memory storage; data is lost on shutdown")
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb, err = db.ConnectRedis(context.Background(), cfg.Redis)
		if err != nil {
			logger.Log.WithError(err).Warn("Redis unavailable; post cache disabled")
			rdb = nil
		}
	}

	a := New(cfg, database, rdb)
	defer a.Close()

	port := cfg.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Errorf("Server forced to shutdown: %v", err)
		return
	}

	logger.Log.Info("Server exited properly")
}
