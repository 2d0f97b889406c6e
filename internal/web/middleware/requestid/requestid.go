// Package requestid tags every request with an id.
package requestid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// HeaderName carries the request id in both directions.
	HeaderName = "X-Request-ID"

	// LocalKey is the fiber.Locals key holding the request id.
	LocalKey = "requestID"
)

// Config configures the request id middleware.
type Config struct {
	// Header is the header key for the request id.
	Header string

	// Generator creates ids for requests that bring none.
	Generator func() string
}

// ConfigDefault is the default config.
var ConfigDefault = Config{
	Header:    HeaderName,
	Generator: func() string { return uuid.New().String() },
}

// New creates the middleware. An incoming id is kept, otherwise a new one is generated.
func New(config ...Config) fiber.Handler {
	cfg := ConfigDefault
	if len(config) > 0 {
		cfg = config[0]

		if cfg.Header == "" {
			cfg.Header = ConfigDefault.Header
		}

		if cfg.Generator == nil {
			cfg.Generator = ConfigDefault.Generator
		}
	}

	return func(c *fiber.Ctx) error {
		id := c.Get(cfg.Header)
		if id == "" {
			id = cfg.Generator()
		}

		c.Set(cfg.Header, id)
		c.Locals(LocalKey, id)

		return c.Next()
	}
}
