package reminder

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/ticketpal/driver"
	"goflare.io/ticketpal/models"
)

var _ Repository = (*repository)(nil)

type Repository interface {
	Create(ctx context.Context, tx pgx.Tx, reminder *models.Reminder) error
	ClaimDue(ctx context.Context, tx pgx.Tx, now, staleBefore time.Time, limit uint64) ([]*models.Reminder, error)
	MarkSent(ctx context.Context, tx pgx.Tx, id string, sentAt time.Time) error
	DeleteUnsentForTicket(ctx context.Context, tx pgx.Tx, ticketID string) (int64, error)
}

type repository struct {
	conn   driver.PostgresPool
	logger *zap.Logger
}

func NewRepository(conn driver.PostgresPool, logger *zap.Logger) Repository {
	return &repository{
		conn:   conn,
		logger: logger,
	}
}

func (r *repository) Create(ctx context.Context, tx pgx.Tx, reminder *models.Reminder) error {
	if err := tx.QueryRow(ctx, `
		INSERT INTO reminders (id, ticket_id, send_at, type, notification_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		reminder.ID,
		reminder.TicketID,
		reminder.SendAt,
		reminder.Type,
		reminder.NotificationType,
	).Scan(&reminder.CreatedAt); err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

// ClaimDue stamps claimed_at on up to limit unsent reminders due at or before
// now and returns them oldest first. Rows claimed after staleBefore are left to
// their current claimant; rows locked by a concurrent sweep are skipped.
func (r *repository) ClaimDue(ctx context.Context, tx pgx.Tx, now, staleBefore time.Time, limit uint64) ([]*models.Reminder, error) {
	rows, err := tx.Query(ctx, `
		UPDATE reminders SET claimed_at = $1
		WHERE id IN (
			SELECT id FROM reminders
			WHERE sent_at IS NULL AND send_at <= $1
			  AND (claimed_at IS NULL OR claimed_at <= $2)
			ORDER BY send_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED)
		RETURNING id::text, ticket_id::text, send_at, type, notification_type, sent_at, claimed_at, created_at`,
		now, staleBefore, int64(limit))
	if err != nil {
		r.logger.Error("error claiming due reminders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	reminders := make([]*models.Reminder, 0)
	for rows.Next() {
		var rem models.Reminder
		if err = rows.Scan(
			&rem.ID,
			&rem.TicketID,
			&rem.SendAt,
			&rem.Type,
			&rem.NotificationType,
			&rem.SentAt,
			&rem.ClaimedAt,
			&rem.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, &rem)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(reminders, func(a, b *models.Reminder) int {
		return a.SendAt.Compare(b.SendAt)
	})

	return reminders, nil
}

func (r *repository) MarkSent(ctx context.Context, tx pgx.Tx, id string, sentAt time.Time) error {
	tag, err := tx.Exec(ctx, `UPDATE reminders SET sent_at = $2 WHERE id = $1 AND sent_at IS NULL`, id, sentAt)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) DeleteUnsentForTicket(ctx context.Context, tx pgx.Tx, ticketID string) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM reminders WHERE ticket_id = $1 AND sent_at IS NULL`, ticketID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete reminders: %w", err)
	}
	return tag.RowsAffected(), nil
}
