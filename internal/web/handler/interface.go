package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/content-api/content-api/internal/config"
	controller "github.com/content-api/content-api/internal/db/controller/content"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, repo *controller.Repository) error
}
