package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/airqo/platform/api/internal/config"
	"github.com/airqo/platform/api/internal/database"
	"github.com/airqo/platform/api/internal/handler"
	"github.com/airqo/platform/api/internal/middleware"
	"github.com/airqo/platform/api/internal/repository"
	"github.com/airqo/platform/api/internal/service"
	"github.com/airqo/platform/api/internal/tenant"
	"github.com/airqo/platform/api/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging
	level := slog.LevelInfo
	if cfg.IsDevelopment() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	resolver, err := tenant.NewResolver(cfg.Tenancy.Default, cfg.Tenancy.Allowed)
	if err != nil {
		slog.Error("invalid tenancy configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Tenant databases are opened on first use
	pool := database.NewPool(database.PoolConfig{
		Base: database.Config{
			Host:      cfg.Database.Host,
			Port:      cfg.Database.Port,
			User:      cfg.Database.User,
			Password:  cfg.Database.Password,
			Namespace: cfg.Database.Namespace,
		},
		Migrate: cfg.Database.Migrate,
	})
	defer func() { _ = pool.Close() }()

	ctx := context.Background()
	if err := pool.Ping(ctx, resolver.Default()); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("namespace", cfg.Database.Namespace),
		slog.String("default_tenant", resolver.Default().String()),
	)

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool)
	networkRepo := repository.NewNetworkRepository(pool, userRepo)
	defaultRepo := repository.NewDefaultRepository(pool)
	locationHistoryRepo := repository.NewLocationHistoryRepository(pool)
	hostRepo := repository.NewHostRepository(pool)

	// Initialize services
	userService := service.NewUserService(service.UserServiceConfig{
		UserRepo:    userRepo,
		NetworkRepo: networkRepo,
		Tokens:      jwtService,
		ListLimit:   cfg.Limits.Users,
	})
	networkService := service.NewNetworkService(service.NetworkServiceConfig{
		NetworkRepo: networkRepo,
		UserRepo:    userRepo,
		ListLimit:   cfg.Limits.Networks,
	})
	defaultService := service.NewDefaultService(defaultRepo, cfg.Limits.Defaults)
	locationHistoryService := service.NewLocationHistoryService(locationHistoryRepo, cfg.Limits.LocationHistories)
	hostService := service.NewHostService(hostRepo, cfg.Limits.Hosts)

	// Setup router
	mux := http.NewServeMux()
	authMiddleware := middleware.Auth(jwtService)
	// Network administration needs an admin token
	adminMiddleware := func(next http.Handler) http.Handler {
		return authMiddleware(middleware.RequireAdmin(next))
	}

	handler.NewHealthHandler(pool, resolver.Default()).RegisterRoutes(mux)
	handler.NewUserHandler(userService, resolver.Default()).RegisterRoutes(mux, authMiddleware)
	handler.NewNetworkHandler(networkService).RegisterRoutes(mux, adminMiddleware)
	handler.NewDefaultHandler(defaultService).RegisterRoutes(mux, authMiddleware)
	handler.NewLocationHistoryHandler(locationHistoryService).RegisterRoutes(mux, authMiddleware)
	handler.NewHostHandler(hostService).RegisterRoutes(mux, authMiddleware)

	// Tenant runs before any route so auth can compare it with the token
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.Tenant(resolver),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
