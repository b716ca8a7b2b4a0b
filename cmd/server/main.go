package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"cozinhai/docs" // swagger docs
	"cozinhai/internal/auth"
	"cozinhai/internal/config"
	"cozinhai/internal/db"
	"cozinhai/internal/handler"
	"cozinhai/internal/kv"
	"cozinhai/internal/logging"
	"cozinhai/internal/router"
	"cozinhai/internal/service"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// @title Cozinhai API
// @version 1.0
// @description Recipe sharing API: accounts, favorites and reviews mirrored between users and recipes.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.AppEnv, cfg.LogLevel)

	if cfg.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("JWT_SECRET is the built-in default; set a real secret outside development")
	}

	startCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	store, err := db.OpenStore(startCtx, cfg, logger)
	cancel()
	if err != nil {
		logger.WithError(err).Fatal("database init")
	}

	kvClient := kv.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := kvClient.Ping(context.Background()); err != nil {
		logger.WithError(err).Warn("redis unavailable: logout revocation disabled until it comes back")
	}

	ttl, _ := cfg.TokenTTL() // validated by config.Load

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, ttl)
	tokenStore := auth.NewTokenStore(kvClient)

	// Initialize services
	authService := service.NewAuthService(store.Users(), jwtService, tokenStore, logger)
	accountService := service.NewAccountService(store.Users(), logger)
	reviewService := service.NewReviewService(store, logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, accountService)
	userHandler := handler.NewUserHandler(accountService, reviewService)
	recipeHandler := handler.NewRecipeHandler(reviewService)

	if cfg.SwaggerHost != "" {
		host := strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
		docs.SwaggerInfo.Host = host
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(
		e,
		cfg,
		logger,
		store,
		jwtService,
		authService,
		authHandler,
		userHandler,
		recipeHandler,
	)

	logger.Infof("Swagger documentation available at: http://%s/swagger/index.html", docs.SwaggerInfo.Host)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		logger.WithField("addr", addr).Info("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server start")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server shutdown")
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.WithError(err).Error("store close")
	}
	_ = kvClient.Close()
}
