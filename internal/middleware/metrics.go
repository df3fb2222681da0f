package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_auth_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "social_auth_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// Metrics records request counts and latencies per route template.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			method := c.Request().Method
			endpoint := c.Path() // route template, keeps label cardinality bounded
			if endpoint == "" {
				endpoint = "unmatched"
			}

			timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues(method, endpoint))
			err := next(c)
			timer.ObserveDuration()

			status := c.Response().Status
			if err != nil {
				// The error handler has not written the response yet.
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = 500
				}
			}
			httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
			return err
		}
	}
}
