package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"goflare.io/ticketpal"
	"goflare.io/ticketpal/config"
	"goflare.io/ticketpal/metrics"
)

const metricsShutdownTimeout = 5 * time.Second

// Sweeper runs the reminder dispatch loop next to a small metrics listener.
type Sweeper struct {
	config  *config.Config
	app     ticketpal.TicketPal
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewSweeper(cfg *config.Config, app ticketpal.TicketPal, m *metrics.Metrics, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		config:  cfg,
		app:     app,
		metrics: m,
		logger:  logger,
	}
}

// Run blocks until ctx is cancelled or either goroutine fails.
func (s *Sweeper) Run(ctx context.Context) error {
	defer s.app.Close()

	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	srv := &http.Server{Addr: s.config.Reminders.MetricsAddr, Handler: mux}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting reminder sweep",
			zap.Duration("interval", s.config.Reminders.Interval),
			zap.Int("workers", s.config.Reminders.Workers))
		return s.app.RunReminderSweep(ctx, s.config.Reminders.Interval)
	})

	g.Go(func() error {
		s.logger.Info("Serving metrics", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
