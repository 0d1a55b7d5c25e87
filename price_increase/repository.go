package price_increase

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/ticketpal/driver"
	"goflare.io/ticketpal/models"
)

var _ Repository = (*repository)(nil)

type Repository interface {
	Create(ctx context.Context, tx pgx.Tx, increase *models.PriceIncrease) error
	ListByTicket(ctx context.Context, tx pgx.Tx, ticketID string) ([]models.PriceIncrease, error)
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

func (r *repository) Create(ctx context.Context, tx pgx.Tx, increase *models.PriceIncrease) error {
	if err := tx.QueryRow(ctx, `
		INSERT INTO price_increases (id, ticket_id, amount, effective_at, source_type, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		increase.ID,
		increase.TicketID,
		increase.Amount,
		increase.EffectiveAt,
		increase.SourceType,
		increase.Reason,
	).Scan(&increase.CreatedAt); err != nil {
		return fmt.Errorf("failed to create price increase: %w", err)
	}
	return nil
}

func (r *repository) ListByTicket(ctx context.Context, tx pgx.Tx, ticketID string) ([]models.PriceIncrease, error) {
	rows, err := tx.Query(ctx, `
		SELECT id::text, ticket_id::text, amount, effective_at, source_type, reason, created_at
		FROM price_increases
		WHERE ticket_id = $1
		ORDER BY effective_at, created_at`, ticketID)
	if err != nil {
		r.logger.Error("error listing price increases", zap.Error(err), zap.String("ticket_id", ticketID))
		return nil, err
	}
	defer rows.Close()

	increases := make([]models.PriceIncrease, 0)
	for rows.Next() {
		var pi models.PriceIncrease
		if err = rows.Scan(
			&pi.ID,
			&pi.TicketID,
			&pi.Amount,
			&pi.EffectiveAt,
			&pi.SourceType,
			&pi.Reason,
			&pi.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan price increase: %w", err)
		}
		increases = append(increases, pi)
	}

	return increases, rows.Err()
}
