package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appcustomer "github.com/hitzu/taxdown-tech-challenge/internal/application/customer"
	"github.com/hitzu/taxdown-tech-challenge/internal/domain/customer"
	"github.com/hitzu/taxdown-tech-challenge/internal/infrastructure/cache"
	"github.com/hitzu/taxdown-tech-challenge/internal/infrastructure/config"
	"github.com/hitzu/taxdown-tech-challenge/internal/infrastructure/logger"
	"github.com/hitzu/taxdown-tech-challenge/internal/infrastructure/migration"
	"github.com/hitzu/taxdown-tech-challenge/internal/infrastructure/persistence"
	"github.com/hitzu/taxdown-tech-challenge/internal/infrastructure/telemetry"
	"github.com/hitzu/taxdown-tech-challenge/internal/interfaces/http/handler"
	"github.com/hitzu/taxdown-tech-challenge/internal/interfaces/http/middleware"
	"github.com/hitzu/taxdown-tech-challenge/internal/interfaces/http/router"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	_ "github.com/hitzu/taxdown-tech-challenge/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Customers API
//	@version		1.0
//	@description	Customer management: registration, lookup, listing, partial updates and credit adjustments.

//	@BasePath	/api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	providers, err := telemetry.Setup(ctx, cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log := providers.Logs.Bridge(baseLog, logger.ParseLevel(cfg.Log.Level))
	defer func() { _ = log.Sync() }()

	log.Info("Starting customers API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        cfg.Database.Driver,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := migrateSchema(cfg, db, log); err != nil {
			log.Fatal("Failed to migrate database schema", zap.Error(err))
		}
	}

	repo, err := customerRepository(cfg, db, providers, log)
	if err != nil {
		log.Fatal("Failed to build customer repository", zap.Error(err))
	}

	var httpMetrics *telemetry.HTTPMetrics
	if providers.Meter.IsEnabled() {
		if httpMetrics, err = telemetry.NewHTTPMetrics(providers.Meter.Meter(telemetry.MeterName)); err != nil {
			log.Fatal("Failed to create HTTP metrics", zap.Error(err))
		}
	}

	engine := newEngine(cfg, log, db, appcustomer.NewCustomerService(repo), httpMetrics)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		baseLog.Error("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newEngine builds the gin engine: middleware chain, health probe, swagger
// and the /api/v1 customer routes.
func newEngine(cfg *config.Config, log *zap.Logger, db handler.Pinger, svc *appcustomer.CustomerService, httpMetrics *telemetry.HTTPMetrics) *gin.Engine {
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.HTTPMetrics(httpMetrics))
	engine.Use(middleware.Profiling(cfg.Telemetry.ProfilingEnabled))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", handler.NewHealthHandler(db).Check)

	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	customerRoutes := router.NewDomainGroup("customers", "/customers")
	handler.NewCustomerHandler(svc).RegisterRoutes(customerRoutes)
	r.Register(customerRoutes)
	r.Setup()

	for _, route := range customerRoutes.Routes() {
		log.Debug("Route registered", zap.String("method", route.Method), zap.String("path", r.BasePath()+route.Path))
	}

	return engine
}

// customerRepository stacks the decorators over the GORM adapter:
// instrumentation always, the Redis cache when enabled.
func customerRepository(cfg *config.Config, db *persistence.Database, providers *telemetry.Providers, log *zap.Logger) (customer.Repository, error) {
	var repoMetrics *telemetry.RepositoryMetrics
	if providers.Meter.IsEnabled() {
		var err error
		if repoMetrics, err = telemetry.NewRepositoryMetrics(providers.Meter.Meter(telemetry.MeterName)); err != nil {
			return nil, err
		}
	}

	var repo customer.Repository = telemetry.NewInstrumentedCustomerRepository(
		persistence.NewGormCustomerRepository(db.DB), repoMetrics)

	if !cfg.Redis.Enabled {
		return repo, nil
	}
	client, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, err
	}
	log.Info("Customer cache enabled", zap.String("addr", cfg.Redis.Addr()), zap.Duration("ttl", cfg.Redis.CacheTTL))
	return cache.NewCachedCustomerRepository(repo, client,
		cache.WithTTL(cfg.Redis.CacheTTL),
		cache.WithKeyPrefix(cfg.Redis.KeyPrefix),
		cache.WithCacheLogger(log),
	), nil
}

// migrateSchema applies migrations/ on PostgreSQL. SQLite has no migration
// files, so its schema comes from the gorm model.
func migrateSchema(cfg *config.Config, db *persistence.Database, log *zap.Logger) error {
	if db.Driver == config.DriverSQLite {
		log.Info("Auto-migrating sqlite schema from the gorm model")
		return db.AutoMigrate()
	}

	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	m, err := migration.New(sqlDB, cfg.Database.MigrationsPath, cfg.Database.Schema, log)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	start := time.Now()
	if err := m.Up(); err != nil {
		return err
	}
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	log.Info("Database schema up to date",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}
