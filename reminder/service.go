package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/ticketpal/driver"
	"goflare.io/ticketpal/models"
	"goflare.io/ticketpal/models/enum"
)

// ErrNotFound is returned when a reminder does not exist or was already sent.
var ErrNotFound = errors.New("reminder not found")

// ClaimLease is how long a claimed reminder stays reserved for one sweep
// before another sweep may pick it up again.
const ClaimLease = 5 * time.Minute

type Service interface {
	// CreateForTicket schedules reminders for every upcoming deadline of ticket
	// on every notification channel. Failures are logged, never returned.
	CreateForTicket(ctx context.Context, ticket *models.Ticket) []*models.Reminder
	// ClaimDue reserves due reminders for the caller so concurrent sweepers
	// never hand out the same row twice within ClaimLease.
	ClaimDue(ctx context.Context, now time.Time, limit uint64) ([]*models.Reminder, error)
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	DeleteUnsentForTicket(ctx context.Context, ticketID string) error
}

type service struct {
	repo               Repository
	transactionManager driver.TransactionManager
	logger             *zap.Logger
	now                func() time.Time
}

func NewService(repo Repository, tm driver.TransactionManager, logger *zap.Logger) Service {
	return &service{
		repo:               repo,
		transactionManager: tm,
		logger:             logger,
		now:                time.Now,
	}
}

func (s *service) CreateForTicket(ctx context.Context, ticket *models.Ticket) []*models.Reminder {
	created := make([]*models.Reminder, 0)
	if ticket == nil {
		return created
	}

	for _, m := range Milestones(ticket.IssuedAt, s.now()) {
		for _, channel := range enum.NotificationTypes {
			reminder := &models.Reminder{
				ID:               uuid.NewString(),
				TicketID:         ticket.ID,
				SendAt:           m.SendAt.UTC(),
				Type:             m.Type,
				NotificationType: channel,
			}

			if err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
				return s.repo.Create(ctx, tx, reminder)
			}); err != nil {
				s.logger.Error("failed to create reminder",
					zap.Error(err),
					zap.String("ticket_id", ticket.ID),
					zap.String("type", string(m.Type)),
					zap.String("notification_type", string(channel)))
				continue
			}

			created = append(created, reminder)
		}
	}

	return created
}

func (s *service) ClaimDue(ctx context.Context, now time.Time, limit uint64) ([]*models.Reminder, error) {
	var reminders []*models.Reminder
	if err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		reminders, err = s.repo.ClaimDue(ctx, tx, now, now.Add(-ClaimLease), limit)
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to claim due reminders: %w", err)
	}
	return reminders, nil
}

func (s *service) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	if err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		return s.repo.MarkSent(ctx, tx, id, sentAt)
	}); err != nil {
		return fmt.Errorf("failed to mark reminder %s sent: %w", id, err)
	}
	return nil
}

func (s *service) DeleteUnsentForTicket(ctx context.Context, ticketID string) error {
	var deleted int64
	if err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		deleted, err = s.repo.DeleteUnsentForTicket(ctx, tx, ticketID)
		return err
	}); err != nil {
		return fmt.Errorf("failed to delete reminders for ticket %s: %w", ticketID, err)
	}

	s.logger.Debug("unsent reminders removed", zap.String("ticket_id", ticketID), zap.Int64("count", deleted))

	return nil
}
