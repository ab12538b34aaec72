package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appledger "github.com/invoicebook/backend/internal/application/ledger"
	"github.com/invoicebook/backend/internal/domain/shared"
	"github.com/invoicebook/backend/internal/infrastructure/cache"
	"github.com/invoicebook/backend/internal/infrastructure/config"
	"github.com/invoicebook/backend/internal/infrastructure/event"
	"github.com/invoicebook/backend/internal/infrastructure/logger"
	"github.com/invoicebook/backend/internal/infrastructure/migration"
	"github.com/invoicebook/backend/internal/infrastructure/persistence"
	"github.com/invoicebook/backend/internal/infrastructure/persistence/models"
	"github.com/invoicebook/backend/internal/infrastructure/telemetry"
	"github.com/invoicebook/backend/internal/interfaces/http/handler"
	"github.com/invoicebook/backend/internal/interfaces/http/middleware"
	"github.com/invoicebook/backend/internal/interfaces/http/router"
	"github.com/invoicebook/backend/migrations"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.NewForEnvironment(cfg.App.Env,
		logger.WithSettings(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output),
	)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ledger backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Tracing
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, logger.Component(log, "telemetry"))
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	log.Info("Tracing configured", zap.Bool("enabled", tp.IsEnabled()))
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// Spans from the drained requests are still batched
		if err := tp.ForceFlush(shutdownCtx); err != nil {
			log.Warn("Failed to flush pending spans", zap.Error(err))
		}
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database
	db, err := openDatabase(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("driver", db.Driver()))

	if err := migrateSchema(db, log); err != nil {
		log.Fatal("Failed to migrate schema", zap.Error(err))
	}

	// Duplicate-submit guard
	checks := map[string]handler.HealthChecker{"database": db}
	ledgerOpts := []appledger.LedgerServiceOption{}
	if cfg.Idempotency.Enabled {
		store, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
			cache.WithLogger(logger.Component(log, "idempotency")),
			cache.WithInMemoryFallback(cfg.App.Env != "production"),
		).CreateStore(ctx)
		if err != nil {
			log.Fatal("Failed to create idempotency store", zap.Error(err))
		}
		if closer, ok := store.(interface{ Close() error }); ok {
			defer func() {
				if err := closer.Close(); err != nil {
					log.Error("Error closing idempotency store", zap.Error(err))
				}
			}()
		}
		if hc, ok := store.(handler.HealthChecker); ok {
			checks["redis"] = hc
		}
		ledgerOpts = append(ledgerOpts, appledger.WithIdempotencyStore(store, cfg.Idempotency.TTL))
	}

	// Events
	bus := event.NewInMemoryEventBus(logger.Component(log, "events"))
	bus.Subscribe(event.NewLedgerLogHandler(logger.Component(log, "ledger")))
	var publisher shared.EventPublisher = bus
	ledgerOpts = append(ledgerOpts, appledger.WithEventPublisher(publisher))

	// Repositories and services
	clientRepo := persistence.NewGormClientRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	clientService := appledger.NewClientService(clientRepo, logger.Component(log, "clients"),
		appledger.WithClientEventPublisher(publisher),
	)
	ledgerService := appledger.NewLedgerService(txScope, logger.Component(log, "ledger"), ledgerOpts...)
	queryService := appledger.NewQueryService(clientRepo, invoiceRepo)

	// HTTP
	engine, err := router.NewEngine(router.EngineConfig{
		HTTP: cfg.HTTP,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		Logger: log,
	})
	if err != nil {
		log.Fatal("Failed to configure HTTP engine", zap.Error(err))
	}

	router.SetupLedgerRoutes(engine, router.Handlers{
		Clients:  handler.NewClientHandler(clientService),
		Invoices: handler.NewInvoiceHandler(ledgerService, queryService),
		System:   handler.NewSystemHandler(cfg.App.Name, version, checks),
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

func openDatabase(cfg *config.Config, log *zap.Logger) (*persistence.Database, error) {
	gormLog := logger.NewGormLogger(
		log,
		logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithSQL(cfg.App.Env != "production"),
	)

	opts := []persistence.DatabaseOption{persistence.WithGormLogger(gormLog)}
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		tracing := telemetry.DefaultDBTracingConfig()
		tracing.Enabled = true
		tracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL
		if cfg.Telemetry.DBSlowQueryThresh > 0 {
			tracing.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
		}
		if cfg.Database.Driver == config.DriverSQLite {
			tracing.DBSystem = "sqlite"
		}
		opts = append(opts, persistence.WithTracing(tracing, logger.Component(log, "db-tracing")))
	}
	return persistence.NewDatabase(&cfg.Database, opts...)
}

// migrateSchema applies the embedded SQL migrations on postgres and
// AutoMigrate on sqlite, whose schema is local to the process
func migrateSchema(db *persistence.Database, log *zap.Logger) error {
	if db.Driver() == config.DriverSQLite {
		return db.DB.AutoMigrate(models.LedgerModels()...)
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	// Closing the migrator would close the shared *sql.DB, so it is left open.
	return m.Up()
}
