package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"goflare.io/ticketpal"
	"goflare.io/ticketpal/config"
	"goflare.io/ticketpal/handlers"
	"goflare.io/ticketpal/metrics"
)

type Server struct {
	echo     *echo.Echo
	config   *config.Config
	app      ticketpal.TicketPal
	metrics  *metrics.Metrics
	logger   *zap.Logger
	Ticket   handlers.TicketHandler
	Webhook  handlers.WebhookHandler
	Timeline handlers.TimelineHandler
	Health   handlers.HealthHandler
}

func NewServer(
	cfg *config.Config,
	app ticketpal.TicketPal,
	m *metrics.Metrics,
	logger *zap.Logger,
	Ticket handlers.TicketHandler,
	Webhook handlers.WebhookHandler,
	Timeline handlers.TimelineHandler,
	Health handlers.HealthHandler,
) *Server {
	s := &Server{
		echo:     echo.New(),
		config:   cfg,
		app:      app,
		metrics:  m,
		logger:   logger,
		Ticket:   Ticket,
		Webhook:  Webhook,
		Timeline: Timeline,
		Health:   Health,
	}
	s.echo.HideBanner = true
	s.registerMiddlewares()
	s.registerRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on address until the server is shut down.
func (s *Server) Start(address string) error {
	s.logger.Info("Starting HTTP server", zap.String("addr", address))
	return s.echo.Start(address)
}

// Run starts the server in a goroutine and blocks until SIGINT or SIGTERM,
// then shuts down within the configured timeout.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(s.config.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		s.app.Close()
		return err
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	err := s.echo.Shutdown(ctx)
	s.app.Close()
	return err
}

func (s *Server) registerMiddlewares() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
}

func (s *Server) registerRoutes() {

	s.echo.POST("/tickets", s.Ticket.CreateTicket)
	s.echo.GET("/tickets", s.Ticket.ListTickets)
	s.echo.GET("/tickets/:id", s.Ticket.GetTicket)
	s.echo.PUT("/tickets/:id/status", s.Ticket.UpdateStatus)
	s.echo.DELETE("/tickets/:id", s.Ticket.DeleteTicket)
	s.echo.POST("/tickets/:id/price-increases", s.Ticket.AddPriceIncrease)
	s.echo.POST("/tickets/:id/challenges", s.Ticket.SubmitChallenge)

	s.echo.GET("/timelines/:issuer", s.Timeline.GetTimeline)

	s.echo.POST("/webhooks/stripe", s.Webhook.HandleStripeWebhook)
	s.echo.POST("/webhooks/revenuecat", s.Webhook.HandleRevenueCatWebhook)
	s.echo.POST("/webhooks/worker", s.Webhook.HandleWorkerWebhook)

	s.echo.GET("/health", s.Health.Health)
	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
}
