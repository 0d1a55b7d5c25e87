package ticketpal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"goflare.io/ticketpal/amount"
	"goflare.io/ticketpal/challenge"
	"goflare.io/ticketpal/config"
	"goflare.io/ticketpal/event"
	"goflare.io/ticketpal/metrics"
	"goflare.io/ticketpal/models"
	"goflare.io/ticketpal/models/enum"
	"goflare.io/ticketpal/price_increase"
	"goflare.io/ticketpal/reminder"
	"goflare.io/ticketpal/ticket"
	"goflare.io/ticketpal/timeline"
	"goflare.io/ticketpal/user"
)

var _ TicketPal = (*App)(nil)

type App struct {
	config       *config.Config
	eventManager *EventManager
	publisher    ReminderPublisher
	metrics      *metrics.Metrics
	logger       *zap.Logger
	now          func() time.Time

	ticket        ticket.Service
	priceIncrease price_increase.Service
	reminder      reminder.Service
	user          user.Service
	challenge     challenge.Service
	event         event.Service
}

func NewApp(config *config.Config,
	ts ticket.Service,
	pis price_increase.Service,
	rs reminder.Service,
	us user.Service,
	cs challenge.Service,
	es event.Service,
	publisher ReminderPublisher,
	m *metrics.Metrics,
	logger *zap.Logger) TicketPal {
	app := &App{
		config:        config,
		publisher:     publisher,
		metrics:       m,
		logger:        logger,
		now:           time.Now,
		ticket:        ts,
		priceIncrease: pis,
		reminder:      rs,
		user:          us,
		challenge:     cs,
		event:         es,
	}

	app.eventManager = NewEventManager(logger)
	app.registerEventHandlers()

	return app
}

// CreateTicket stores ticket and schedules its deadline reminders. Reminder
// scheduling never fails ticket creation.
func (a *App) CreateTicket(ctx context.Context, t *models.Ticket) (*models.TicketSummary, error) {
	if err := a.ticket.Create(ctx, t); err != nil {
		return nil, err
	}
	a.metrics.TicketsCreated.Inc()

	reminders := a.reminder.CreateForTicket(ctx, t)
	a.metrics.RemindersScheduled.Add(float64(len(reminders)))

	return a.summarize(t, nil), nil
}

func (a *App) GetTicketSummary(ctx context.Context, ticketID string) (*models.TicketSummary, error) {
	t, err := a.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	challenges, err := a.challenge.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	return a.summarize(t, challenges), nil
}

func (a *App) ListTickets(ctx context.Context, userID string, limit, offset uint64) ([]*models.TicketSummary, error) {
	tickets, err := a.ticket.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	summaries := make([]*models.TicketSummary, 0, len(tickets))
	for _, t := range tickets {
		if t.PriceIncreases, err = a.priceIncrease.ListByTicket(ctx, t.ID); err != nil {
			return nil, err
		}
		summaries = append(summaries, a.summarize(t, nil))
	}

	return summaries, nil
}

// UpdateTicketStatus accepts any known status. Closing a ticket drops its
// unsent reminders.
func (a *App) UpdateTicketStatus(ctx context.Context, ticketID string, status enum.TicketStatus) (*models.TicketSummary, error) {
	if err := a.ticket.UpdateStatus(ctx, ticketID, status); err != nil {
		return nil, err
	}

	if status.Closed() {
		if err := a.reminder.DeleteUnsentForTicket(ctx, ticketID); err != nil {
			a.logger.Warn("failed to drop reminders for closed ticket",
				zap.Error(err),
				zap.String("ticket_id", ticketID))
		}
	}

	return a.GetTicketSummary(ctx, ticketID)
}

func (a *App) DeleteTicket(ctx context.Context, ticketID string) error {
	return a.ticket.Delete(ctx, ticketID)
}

func (a *App) AddPriceIncrease(ctx context.Context, ticketID string, increase *models.PriceIncrease) (*models.TicketSummary, error) {
	if _, err := a.ticket.GetByID(ctx, ticketID); err != nil {
		return nil, err
	}

	increase.TicketID = ticketID
	if err := a.priceIncrease.Create(ctx, increase); err != nil {
		return nil, err
	}

	return a.GetTicketSummary(ctx, ticketID)
}

func (a *App) SubmitChallenge(ctx context.Context, ticketID, challengeType string, payload json.RawMessage) (*models.Challenge, error) {
	if _, err := a.ticket.GetByID(ctx, ticketID); err != nil {
		return nil, err
	}
	return a.challenge.Submit(ctx, ticketID, challengeType, payload)
}

func (a *App) HandleWorkerWebhook(ctx context.Context, payload []byte, signature string) (*models.Challenge, error) {
	c, err := a.challenge.HandleWebhook(ctx, payload, signature)
	if err != nil {
		a.metrics.WebhooksReceived.WithLabelValues("worker", "rejected").Inc()
		return nil, err
	}

	a.metrics.WebhooksReceived.WithLabelValues("worker", "processed").Inc()
	a.metrics.ChallengesUpdated.WithLabelValues(string(c.Status)).Inc()

	return c, nil
}

func (a *App) Close() {
	a.logger.Info("Shutting down ticket pal")
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("Failed to close reminder publisher", zap.Error(err))
		}
	}
}

func (a *App) loadTicket(ctx context.Context, ticketID string) (*models.Ticket, error) {
	t, err := a.ticket.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if t.PriceIncreases, err = a.priceIncrease.ListByTicket(ctx, ticketID); err != nil {
		return nil, fmt.Errorf("failed to load price increases: %w", err)
	}

	return t, nil
}

func (a *App) summarize(t *models.Ticket, challenges []*models.Challenge) *models.TicketSummary {
	due := amount.Due(amount.FromTicket(t), a.now())

	summary := &models.TicketSummary{
		Ticket:             t,
		AmountDue:          due,
		AmountDueFormatted: amount.Format(due),
		DiscountDeadline:   amount.DiscountDeadline(t.IssuedAt),
		FullChargeDeadline: amount.FullChargeDeadline(t.IssuedAt),
		NextStages:         timeline.NextStages(t.Status, t.IssuerType),
		Challenges:         challenges,
	}

	if stage, ok := timeline.StageInfo(t.Status, t.IssuerType); ok {
		summary.CurrentStage = &stage
	}

	return summary
}
