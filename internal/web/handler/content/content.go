// Package content implements the http handlers for content records.
package content

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/content-api/content-api/internal/config"
	controller "github.com/content-api/content-api/internal/db/controller/content"
	"github.com/content-api/content-api/internal/web/handler"
)

// Service is the content handler service.
type Service struct {
	handler.Service
	repo      *controller.Repository
	validator *validator.Validate
}

// Init registers the content routes on app, served from repo.
func (s *Service) Init(app *fiber.App, cfg *config.Config, repo *controller.Repository) error {
	if app == nil || cfg == nil || repo == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.repo = repo
	s.validator = validator.New()

	app.Get(handler.RootPath, s.List)
	app.Post(handler.RootPath, s.Create)
	app.Post(handler.SearchPath, s.Search)
	app.Get(handler.IDPath, s.Get)
	app.Put(handler.IDPath, s.Update)
	app.Delete(handler.IDPath, s.Delete)

	return nil
}

// List handles GET / and returns all records.
func (s *Service) List(c *fiber.Ctx) error {
	contents, err := s.repo.ListAll(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{"Contents": contents})
}

// Create handles POST / and echoes the submitted object on success.
func (s *Service) Create(c *fiber.Ctx) error {
	obj, err := s.jsonBody(c, false)
	if err != nil {
		return s.respondError(c, err)
	}

	in, err := parseCreate(s.validator, obj)
	if err != nil {
		return s.respondError(c, err)
	}

	created, err := s.repo.Create(c.UserContext(), in.Name, in.Location)
	if err != nil {
		return s.respondError(c, err)
	}

	log.Info().Uint64("id", created.ID).Str("name", created.Name).Msg("content created")

	return echo(c.Status(fiber.StatusCreated))
}

// Get handles GET /:id.
func (s *Service) Get(c *fiber.Ctx) error {
	id, ok := recordID(c)
	if !ok {
		return handler.SendError(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	content, err := s.repo.GetByID(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{"Content": content})
}

// Update handles PUT /:id. The record is replaced by the submitted name and
// location and the submitted object is echoed on success.
func (s *Service) Update(c *fiber.Ctx) error {
	id, ok := recordID(c)
	if !ok {
		return handler.SendError(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	// an unknown id is reported before anything about the payload
	if _, err := s.repo.GetByID(c.UserContext(), id); err != nil {
		return s.respondError(c, err)
	}

	obj, err := s.jsonBody(c, true)
	if err != nil {
		return s.respondError(c, err)
	}

	in, err := parseUpdate(s.validator, obj)
	if err != nil {
		return s.respondError(c, err)
	}

	if _, err = s.repo.Update(c.UserContext(), id, in.Name, in.Location); err != nil {
		return s.respondError(c, err)
	}

	log.Info().Uint64("id", id).Str("name", in.Name).Msg("content updated")

	return echo(c)
}

// Delete handles DELETE /:id.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, ok := recordID(c)
	if !ok {
		return handler.SendError(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	if err := s.repo.Delete(c.UserContext(), id); err != nil {
		return s.respondError(c, err)
	}

	log.Info().Uint64("id", id).Msg("content deleted")

	return c.JSON(fiber.Map{"Delete": true})
}

// Search handles POST /search and returns the records whose name contains value.
func (s *Service) Search(c *fiber.Ctx) error {
	obj, err := s.jsonBody(c, false)
	if err != nil {
		return s.respondError(c, err)
	}

	in, err := parseSearch(obj)
	if err != nil {
		return s.respondError(c, err)
	}

	contents, err := s.repo.Search(c.UserContext(), in.Value)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{"Contents": contents})
}

// jsonBody decodes the request body, which has to be declared as json.
func (s *Service) jsonBody(c *fiber.Ctx, allowEmpty bool) (object, error) {
	if !c.Is("json") {
		return nil, invalid(MsgBadRequest)
	}

	return decodeObject(c.Body(), allowEmpty)
}

// respondError maps validation and repository errors to client responses.
// Anything else is returned to the app error handler.
func (s *Service) respondError(c *fiber.Ctx, err error) error {
	var validationErr *ValidationError

	switch {
	case errors.As(err, &validationErr):
		log.Debug().Str("path", c.Path()).Str("reason", validationErr.Message).Msg("request rejected")
		return handler.SendError(c, fiber.StatusBadRequest, validationErr.Message)
	case errors.Is(err, controller.ErrDuplicateName):
		return handler.SendError(c, fiber.StatusBadRequest, handler.MsgDuplicateName)
	case errors.Is(err, controller.ErrContentNotFound):
		return handler.SendError(c, fiber.StatusNotFound, handler.MsgNotFound)
	default:
		return err
	}
}

// echo sends the validated request body back unchanged.
func echo(c *fiber.Ctx) error {
	c.Type("json")

	return c.Send(c.Body())
}

// recordID reads the id route parameter. Ids start at 1.
func recordID(c *fiber.Ctx) (uint64, bool) {
	id, err := strconv.ParseUint(c.Params(handler.IDParam), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}

	return id, true
}
