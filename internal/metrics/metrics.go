// Package metrics holds the Prometheus collectors exposed at /metrics.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cozinhai"

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "path", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	// ReviewsUpserted counts successful review writes, labelled created or updated.
	ReviewsUpserted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_upserted_total",
		Help:      "Reviews written to both the user and the recipe.",
	}, []string{"outcome"})

	// ReviewPartialSync counts review writes that reached the user but not the recipe.
	ReviewPartialSync = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "review_partial_sync_total",
		Help:      "Review writes left half applied on a non-transactional store.",
	})

	// RevocationFailures counts logouts whose token could not be revoked.
	RevocationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_revocation_failures_total",
		Help:      "Logouts that left the token valid because the revocation store failed.",
	})

	// LoginAttempts counts logins by result.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Login attempts by result.",
	}, []string{"result"})
)

// Outcome and result label values.
const (
	OutcomeCreated = "created"
	OutcomeUpdated = "updated"
	ResultSuccess  = "success"
	ResultFailure  = "failure"
)

// Middleware records request count and latency per route template.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method
			httpRequests.WithLabelValues(method, path, strconv.Itoa(statusOf(c, err))).Inc()
			httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// statusOf predicts the status the error handler will write for err.
func statusOf(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
