package web

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const pingTimeout = 2 * time.Second

// CheckAlive reports whether this instance takes traffic.
// It fails while shutting down or when the store does not answer.
func (s *Service) CheckAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"alive": false})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), pingTimeout)
	defer cancel()

	if err := s.repo.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("checkalive: store ping failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"alive": false})
	}

	return c.JSON(fiber.Map{"alive": true})
}
