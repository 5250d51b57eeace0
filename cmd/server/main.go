package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/audit"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/cache"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/config"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/handlers"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/middleware"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/migration"
	natsClient "github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/nats"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/repository"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/services"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/tracing"
)

const (
	serviceName = "taskhub-api"
	version     = "1.0.0"
)

// closableStore is a Store that owns resources released at shutdown
type closableStore interface {
	repository.Store
	Close() error
}

type memoryCloser struct{ *repository.MemoryStore }

func (memoryCloser) Close() error { return nil }

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if !cfg.IsRelease() {
		logger.SetLevel(logrus.DebugLevel)
	}
	gin.SetMode(cfg.Server.Mode)

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, logger, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName, cfg.Server.Mode)
	if err != nil {
		logger.WithError(err).Warn("Failed to initialize tracing, continuing without it")
		shutdownTracing = func(context.Context) error { return nil }
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize store")
	}

	passwords := services.NewPasswordService(cfg.Auth.BcryptCost)
	if err := bootstrap(ctx, cfg, store, passwords, logger); err != nil {
		logger.WithError(err).Fatal("Failed to seed system accounts")
	}

	// Redis tenant cache is optional; login falls back to the store
	var tenantCache services.TenantCache
	var redisCache *cache.TenantCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewTenantCache(ctx, cache.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TenantCacheTTL,
		})
		if err != nil {
			logger.WithError(err).Warn("Failed to connect to Redis, tenant cache disabled")
		} else {
			tenantCache = redisCache
			logger.Info("Connected to Redis successfully")
		}
	}

	sinks := []audit.Sink{audit.NewStoreSink(store.Audit())}
	var nc *natsClient.Client
	if cfg.NATS.Enabled {
		nc, err = natsClient.NewClient(natsClient.Config{
			URL:           cfg.NATS.URL,
			Name:          serviceName,
			SubjectPrefix: cfg.NATS.SubjectPrefix,
		}, logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to connect to NATS, audit events stay local")
		} else {
			sinks = append(sinks, natsClient.NewPublisher(nc.JetStream(), cfg.NATS.SubjectPrefix, logger))
			logger.Info("Connected to NATS successfully")
		}
	}

	dispatcher := audit.NewDispatcher(audit.Config{
		QueueSize: cfg.Audit.QueueSize,
		Workers:   cfg.Audit.Workers,
	}, logger, sinks...)
	dispatcher.Start()

	cleanup := audit.NewCleanupScheduler(store.Audit(), cfg.Audit.RetentionDays, cfg.Audit.CleanupSchedule, logger)
	if err := cleanup.Start(); err != nil {
		logger.WithError(err).Warn("Audit retention job not scheduled")
	}

	tokens := services.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	authService, err := services.NewAuthService(store, passwords, tokens, tenantCache, dispatcher, services.AuthConfig{
		SuperAdminEmail:       cfg.Auth.SuperAdminEmail,
		SystemSubdomain:       cfg.Auth.SystemSubdomain,
		BlockSuspendedTenants: cfg.Auth.BlockSuspendedTenants,
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize auth service")
	}

	optional := map[string]handlers.Pinger{}
	if redisCache != nil {
		optional["redis"] = redisCache
	}
	if nc != nil {
		optional["nats"] = natsPinger{nc}
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Logger:         logger,
		Auth:           middleware.NewAuthMiddleware(tokens, logger),
		AuthHandler:    handlers.NewAuthHandler(authService),
		Tenants:        handlers.NewTenantHandler(services.NewTenantService(store, tenantCache, dispatcher, logger)),
		Users:          handlers.NewUserHandler(services.NewUserService(store, passwords, dispatcher, logger)),
		Projects:       handlers.NewProjectHandler(services.NewProjectService(store, dispatcher, logger)),
		Tasks:          handlers.NewTaskHandler(services.NewTaskService(store, dispatcher, logger)),
		Audit:          handlers.NewAuditHandler(services.NewAuditService(store)),
		Health:         handlers.NewHealthHandler(serviceName, version, store, optional),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		StoreTimeout:   cfg.Database.AcquireTimeout,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      tracing.Handler(router, serviceName),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"addr":  server.Addr,
			"store": cfg.Database.Driver,
		}).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	cleanup.Stop()
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Warn("Audit queue not fully drained")
	}
	if nc != nil {
		nc.Close()
	}
	if redisCache != nil {
		_ = redisCache.Close()
	}
	if err := store.Close(); err != nil {
		logger.WithError(err).Warn("Failed to close store")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.WithError(err).Warn("Failed to flush traces")
	}

	logger.Info("Server exited")
}

// openStore connects the configured store. Postgres gets its pending migrations applied first.
func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (closableStore, error) {
	if cfg.Database.Driver == "memory" {
		logger.Warn("Using in-memory store; data is lost on restart")
		return memoryCloser{repository.NewMemoryStore()}, nil
	}

	store, err := repository.Open(repository.Options{
		DSN:             cfg.Database.DSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		Debug:           !cfg.IsRelease(),
	}, logger)
	if err != nil {
		return nil, err
	}

	sqlDB, err := store.DB().DB()
	if err != nil {
		return nil, err
	}
	if _, err := migration.Run(ctx, sqlDB, logger); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// bootstrap makes sure the super-admin can log in: the system tenant always, the account when a password is configured
func bootstrap(ctx context.Context, cfg *config.Config, store repository.Store, passwords *services.PasswordService, logger *logrus.Logger) error {
	seed := services.NewSeedService(store, passwords, logger)
	if _, _, err := seed.EnsureSystemTenant(ctx, cfg.Auth.SystemSubdomain); err != nil {
		return err
	}
	if cfg.Auth.SuperAdminPassword == "" {
		return nil
	}
	_, _, err := seed.EnsureSuperAdmin(ctx, cfg.Auth.SuperAdminEmail, cfg.Auth.SuperAdminPassword, "Super Admin")
	return err
}

type natsPinger struct{ c *natsClient.Client }

func (p natsPinger) Ping(context.Context) error {
	if !p.c.IsConnected() {
		return errors.New("nats disconnected")
	}
	return nil
}
