package router

import (
	"context"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"cozinhai/internal/auth"
	"cozinhai/internal/config"
	"cozinhai/internal/errors"
	"cozinhai/internal/handler"
	"cozinhai/internal/logging"
	"cozinhai/internal/metrics"
	"cozinhai/internal/service"
)

const healthTimeout = 2 * time.Second

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *logrus.Logger,
	store Pinger,
	jwtService *auth.JWTService,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	recipeHandler *handler.RecipeHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins(),
	}))

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			logger.WithError(err).Warn("health check failed")
			return c.String(http.StatusServiceUnavailable, "store unavailable")
		}
		return c.String(http.StatusOK, "ok")
	})

	if cfg.MetricsEnabled {
		e.Use(metrics.Middleware())
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/user", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/recipe/:recipeId/reviews", recipeHandler.ListReviews)
	api.GET("/recipe/:recipeId/rating", recipeHandler.Rating)

	// Secured routes (require JWT authentication)
	secured := api.Group("", jwtGuard(jwtService), revocationGuard(authService))
	secured.POST("/auth/logout", authHandler.Logout)

	// Routes below act on the caller's own account only
	user := secured.Group("/user/:id", ownerGuard)
	user.GET("", userHandler.GetUser)
	user.DELETE("", userHandler.Deactivate)
	user.PATCH("/name", userHandler.UpdateName)
	user.PATCH("/password", userHandler.UpdatePassword)
	user.PATCH("/favorites", userHandler.AddFavorite)
	user.GET("/favorites", userHandler.ListFavorites)
	user.DELETE("/favorites/:recipeId", userHandler.RemoveFavorite)
	user.GET("/reviews", userHandler.ListReviews)
	user.POST("/:recipeId/reviews", userHandler.UpsertReview)
}

func unauthorized(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
		Error: message,
		Code:  "UNAUTHORIZED",
	})
}

// jwtGuard verifies the bearer token and stores its *auth.Claims in the context.
func jwtGuard(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.ContextKeyClaims,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return unauthorized("invalid or missing token")
		},
	})
}

// revocationGuard rejects tokens revoked by logout.
func revocationGuard(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := handler.ClaimsFromContext(c)
			if !ok {
				return unauthorized("invalid or missing token")
			}
			if authService.IsRevoked(c.Request().Context(), claims.ID) {
				return unauthorized("token has been revoked")
			}
			return next(c)
		}
	}
}

// ownerGuard only lets the token's user act on /user/:id.
func ownerGuard(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := handler.ClaimsFromContext(c)
		if !ok || claims.UserID != c.Param("id") {
			httpErr := errors.MapErrorToHTTP(errors.ErrForbidden)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		return next(c)
	}
}
