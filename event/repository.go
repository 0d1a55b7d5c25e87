package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/ticketpal/driver"
	"goflare.io/ticketpal/models"
	"goflare.io/ticketpal/models/enum"
)

var ErrNotFound = errors.New("event not found")

var _ Repository = (*repository)(nil)

type Repository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, source enum.EventSource, id string) (*models.Event, error)
	MarkAsProcessed(ctx context.Context, event *models.Event) error
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

// Create records event. A second delivery of the same source and ID is a no-op.
func (r *repository) Create(ctx context.Context, event *models.Event) error {
	if _, err := r.conn.Exec(ctx, `
		INSERT INTO events (id, source, type, processed)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (source, id) DO NOTHING`,
		event.ID, event.Source, event.Type, event.Processed,
	); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, source enum.EventSource, id string) (*models.Event, error) {
	var event models.Event
	if err := r.conn.QueryRow(ctx, `
		SELECT id, source, type, processed, created_at, updated_at
		FROM events WHERE source = $1 AND id = $2`, source, id,
	).Scan(&event.ID, &event.Source, &event.Type, &event.Processed, &event.CreatedAt, &event.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("error getting event", zap.Error(err), zap.String("source", string(source)), zap.String("id", id))
		return nil, err
	}
	return &event, nil
}

func (r *repository) MarkAsProcessed(ctx context.Context, event *models.Event) error {
	if _, err := r.conn.Exec(ctx, `
		INSERT INTO events (id, source, type, processed)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (source, id) DO UPDATE SET processed = TRUE, updated_at = now()`,
		event.ID, event.Source, event.Type,
	); err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	return nil
}
