//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"goflare.io/ticketpal"
	"goflare.io/ticketpal/challenge"
	"goflare.io/ticketpal/config"
	"goflare.io/ticketpal/driver"
	"goflare.io/ticketpal/event"
	"goflare.io/ticketpal/handlers"
	"goflare.io/ticketpal/metrics"
	"goflare.io/ticketpal/notify"
	"goflare.io/ticketpal/price_increase"
	"goflare.io/ticketpal/reminder"
	"goflare.io/ticketpal/server"
	"goflare.io/ticketpal/ticket"
	"goflare.io/ticketpal/user"
)

func InitializeServer() (*server.Server, error) {

	wire.Build(
		config.ProvideApplicationConfig,
		config.NewLogger,
		config.ProvidePostgresConn,
		config.ProvideRedis,
		driver.NewTransactionManager,
		ticket.NewRepository,
		ticket.NewService,
		price_increase.NewRepository,
		price_increase.NewService,
		reminder.NewRepository,
		reminder.NewService,
		user.NewRepository,
		user.NewService,
		challenge.NewClient,
		wire.Bind(new(challenge.Submitter), new(*challenge.Client)),
		challenge.NewRepository,
		challenge.NewService,
		event.NewRepository,
		event.NewService,
		metrics.New,
		notify.NewRedisPublisher,
		wire.Bind(new(ticketpal.ReminderPublisher), new(*notify.Publisher)),
		ticketpal.NewApp,
		handlers.NewTicketHandler,
		handlers.NewWebhookHandler,
		handlers.NewTimelineHandler,
		handlers.NewHealthHandler,
		server.NewServer,
	)

	return &server.Server{}, nil
}
