package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/content-api/content-api/internal/web/handler"
)

// ErrorHandler answers every error left over by the handlers with a json body.
// Unknown errors become a 500 without details, the details go to the log.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := handler.MsgInternalError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}

	if code == fiber.StatusNotFound {
		msg = handler.MsgNotFound
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	}

	return handler.SendError(c, code, msg)
}
