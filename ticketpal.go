package ticketpal

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"goflare.io/ticketpal/models"
	"goflare.io/ticketpal/models/enum"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidWebhook = errors.New("invalid webhook payload")
)

type TicketPal interface {
	CreateTicket(ctx context.Context, ticket *models.Ticket) (*models.TicketSummary, error)
	GetTicketSummary(ctx context.Context, ticketID string) (*models.TicketSummary, error)
	ListTickets(ctx context.Context, userID string, limit, offset uint64) ([]*models.TicketSummary, error)
	UpdateTicketStatus(ctx context.Context, ticketID string, status enum.TicketStatus) (*models.TicketSummary, error)
	DeleteTicket(ctx context.Context, ticketID string) error

	AddPriceIncrease(ctx context.Context, ticketID string, increase *models.PriceIncrease) (*models.TicketSummary, error)

	SubmitChallenge(ctx context.Context, ticketID, challengeType string, payload json.RawMessage) (*models.Challenge, error) // Interacts with the worker service
	HandleWorkerWebhook(ctx context.Context, payload []byte, signature string) (*models.Challenge, error)

	HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error
	HandleRevenueCatWebhook(ctx context.Context, payload []byte, authorization string) error

	// RunReminderSweep publishes due reminders every interval until ctx is done.
	RunReminderSweep(ctx context.Context, every time.Duration) error
	SweepReminders(ctx context.Context) (int, error)

	Close()
}

// ReminderPublisher hands a due reminder to the delivery services.
type ReminderPublisher interface {
	PublishReminder(ctx context.Context, reminder models.ReminderDue) error
	Close() error
}
