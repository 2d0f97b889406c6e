// Package metrics records prometheus metrics for http requests.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// unmatchedPath labels requests no route matched, keeping label cardinality bounded.
const unmatchedPath = "unmatched"

var (
	httpRequestsTotal = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "content_api_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec( //nolint:gochecknoglobals
		prometheus.HistogramOpts{
			Name:    "content_api_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpActiveRequests = promauto.NewGauge( //nolint:gochecknoglobals
		prometheus.GaugeOpts{
			Name: "content_api_http_active_requests",
			Help: "Number of active HTTP requests",
		},
	)
)

// Config configures the metrics middleware.
type Config struct {
	// Skip excludes requests from the metrics, e.g. the scrape itself.
	Skip func(c *fiber.Ctx) bool
}

// New creates the metrics middleware. Requests are labeled with the route
// pattern, so /1 and /2 count as /:id<int>.
func New(config ...Config) fiber.Handler {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	return func(c *fiber.Ctx) error {
		if cfg.Skip != nil && cfg.Skip(c) {
			return c.Next()
		}

		start := time.Now()

		httpActiveRequests.Inc()
		defer httpActiveRequests.Dec()

		err := c.Next()

		method := c.Method()
		path := routePath(c)

		httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status(c, err))).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

		return err
	}
}

// status is the code the error handler will send for err.
func status(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}

	return fiber.StatusInternalServerError
}

// routePath returns the pattern of the matched route.
func routePath(c *fiber.Ctx) string {
	r := c.Route()
	if r == nil || r.Path == "" || (r.Path == "/" && c.Path() != "/") {
		return unmatchedPath
	}

	return r.Path
}
