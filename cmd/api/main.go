package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/cache"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/config"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/controllers"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/database"
	applogger "github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/logger"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/middleware"
	aws_pkg "github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/pkg/aws"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/repository"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/routes"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logger, err := applogger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is empty, token issuance will fail")
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Database ---
	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}
	if cfg.AutoMigrate {
		migrator, err := database.NewMigrator(db, logger)
		if err != nil {
			logger.Fatal("Failed to load migrations", zap.Error(err))
		}
		if _, err := migrator.Up(context.Background()); err != nil {
			logger.Fatal("Migration failed", zap.Error(err))
		}
	}

	// --- Product cache (optional) ---
	var productCache cache.ProductCache = cache.NoopProductCache{}
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Fatal("Invalid REDIS_URL", zap.Error(err))
		}
		defer client.Close()
		productCache = cache.NewRedisProductCache(client, cfg.ProductCacheTTL, logger)
	}

	// --- Order events (optional) ---
	var events services.OrderEventPublisher
	if cfg.OrderSNSTopicARN != "" {
		awsCfg, err := aws_pkg.LoadAWSConfig(context.Background())
		if err != nil {
			logger.Warn("AWS config unavailable, order events disabled", zap.Error(err))
		} else {
			events = services.NewOrderEventPublisher(aws_pkg.NewSNSClient(awsCfg), cfg.OrderSNSTopicARN, logger)
		}
	}

	// --- Dependency injection ---
	categoryRepo := repository.NewGormCategoryRepository(db)
	productRepo := repository.NewGormProductRepository(db)
	customerRepo := repository.NewGormCustomerRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	userRepo := repository.NewGormUserRepository(db)

	tokens := services.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL)
	productService := services.NewProductService(productRepo, categoryRepo, productCache, logger)
	healthChecks := []services.HealthCheck{
		{Name: "database", Critical: true, Check: func(ctx context.Context) error { return database.Ping(ctx, db) }},
	}
	if cfg.RedisURL != "" {
		healthChecks = append(healthChecks, services.HealthCheck{Name: "cache", Check: productCache.Ping})
	}

	validator := controllers.NewRequestValidator(cfg.DefaultPageLimit, cfg.MaxPageLimit)
	ctrl := routes.Controllers{
		Categories: controllers.NewCategoryController(services.NewCategoryService(categoryRepo, logger), validator),
		Products:   controllers.NewProductController(productService, validator),
		Customers:  controllers.NewCustomerController(services.NewCustomerService(customerRepo, logger), validator),
		Orders: controllers.NewOrderController(
			services.NewOrderService(orderRepo, productService, customerRepo, nil, events, logger),
			validator, logger,
		),
		Users:  controllers.NewUserController(services.NewUserService(userRepo, logger), validator),
		Auth:   controllers.NewAuthController(services.NewAuthService(userRepo, tokens, logger), validator),
		Health: controllers.NewHealthController(services.NewHealthService(logger, healthChecks...)),
	}

	enforcer, err := middleware.NewEnforcer()
	if err != nil {
		logger.Fatal("RBAC setup failed", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := routes.NewRouter(ctrl, routes.RouterOptions{
		APIPrefix:          cfg.APIPrefix,
		Tokens:             tokens,
		Enforcer:           enforcer,
		Metrics:            middleware.NewServerMetrics(registry),
		Logger:             logger,
		AllowedOrigins:     cfg.AllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		RateLimitBurst:     cfg.RateLimitBurst,
		RequestTimeout:     cfg.RequestTimeout,
	})

	// --- HTTP server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Food truck API started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		logger.Error("Database close error", zap.Error(err))
	}
	logger.Info("Food truck API stopped gracefully")
}
