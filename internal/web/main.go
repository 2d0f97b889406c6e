// Package web builds the http surface of the service.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/content-api/content-api/internal/config"
	controller "github.com/content-api/content-api/internal/db/controller/content"
	accesslog "github.com/content-api/content-api/internal/logger/adapter/fiber"
	"github.com/content-api/content-api/internal/logger/adapter/stdlogger"
	contenthandler "github.com/content-api/content-api/internal/web/handler/content"
	"github.com/content-api/content-api/internal/web/middleware/metrics"
	"github.com/content-api/content-api/internal/web/middleware/ratelimit"
	"github.com/content-api/content-api/internal/web/middleware/requestid"
)

const (
	// CheckAlivePath answers load balancer health checks.
	CheckAlivePath = "/checkalive"

	// MetricsPath exposes the prometheus metrics.
	MetricsPath = "/metrics"

	appName = "content-api"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	repo         *controller.Repository
}

// Start serves http on addr until the server is shut down.
func (s *Service) Start(addr string) error {
	log.Info().Str("addr", addr).Msg("starting http server")

	if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return pkgerrors.Wrap(err, "fiber listen error")
	}

	return nil
}

// WaitShutdown blocks until SIGINT or SIGTERM and shuts the server down.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown stops the server. Outside dev mode /checkalive fails for
// Webserver.ShutDownTime seconds first, so load balancers drain this instance.
func (s *Service) Shutdown() {
	s.alive.Store(false)

	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates the web service with its middleware chain and routes.
func New(cfg *config.Config, db *gorm.DB) (*Service, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("config and db are required")
	}

	repo, err := controller.New(db)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        appName,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			JSONEncoder:    json.Marshal,
			JSONDecoder:    json.Unmarshal,
			ErrorHandler:   ErrorHandler,
		},
	)

	// connection level errors of fasthttp
	app.Server().Logger = stdlogger.New()

	service := &Service{
		App:          app,
		cfg:          cfg,
		fastShutDown: cfg.DevMode,
		repo:         repo,
	}
	service.alive.Store(true)

	app.Use(requestid.New())
	app.Use(metrics.New(metrics.Config{
		Skip: func(c *fiber.Ctx) bool { return c.Path() == MetricsPath },
	}))
	app.Use(accesslog.New(accesslog.Config{
		Config:         cfg.Log,
		CheckAliveURI:  CheckAlivePath,
		RequestIDLocal: requestid.LocalKey,
	}))

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	// registered ahead of the rate limit, so probes and scrapes are never limited
	app.Get(CheckAlivePath, service.CheckAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	if cfg.Webserver.RateLimit.Enabled {
		app.Use(ratelimit.New(cfg.Webserver.RateLimit).Handler())
		log.Info().
			Float64("rps", cfg.Webserver.RateLimit.RequestsPerSecond).
			Int("burst", cfg.Webserver.RateLimit.Burst).
			Msg("rate limit enabled")
	}

	contents := &contenthandler.Service{}
	if err = contents.Init(app, cfg, repo); err != nil {
		return nil, pkgerrors.Wrap(err, "content handler")
	}

	return service, nil
}
