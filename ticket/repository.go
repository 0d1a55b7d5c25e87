package ticket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"goflare.io/ticketpal/driver"
	"goflare.io/ticketpal/models"
	"goflare.io/ticketpal/models/enum"
)

const cacheTTL = 30 * time.Minute

var _ Repository = (*repository)(nil)

type Repository interface {
	Create(ctx context.Context, tx pgx.Tx, ticket *models.Ticket) error
	GetByID(ctx context.Context, tx pgx.Tx, id string) (*models.Ticket, error)
	ListByUser(ctx context.Context, tx pgx.Tx, userID string, limit, offset uint64) ([]*models.Ticket, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status enum.TicketStatus) error
	Delete(ctx context.Context, tx pgx.Tx, id string) error
	// Invalidate drops the cached copy of a ticket. Call it only after the
	// transaction that changed the ticket has committed.
	Invalidate(ctx context.Context, id string)
}

type repository struct {
	conn   driver.PostgresPool
	cache  *redis.Client
	logger *zap.Logger
}

func NewRepository(conn driver.PostgresPool, cache *redis.Client, logger *zap.Logger) Repository {
	return &repository{
		conn:   conn,
		cache:  cache,
		logger: logger,
	}
}

const selectTicket = `
	SELECT id::text, user_id::text, pcn_number, vehicle_reg, issuer_type, issuer,
	       contravention_code, location, initial_amount, status, issued_at, created_at, updated_at
	FROM tickets`

func scanTicket(row pgx.Row) (*models.Ticket, error) {
	t := models.NewTicket()
	if err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.PCNNumber,
		&t.VehicleReg,
		&t.IssuerType,
		&t.Issuer,
		&t.ContraventionCode,
		&t.Location,
		&t.InitialAmount,
		&t.Status,
		&t.IssuedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *repository) Create(ctx context.Context, tx pgx.Tx, ticket *models.Ticket) error {
	if err := tx.QueryRow(ctx, `
		INSERT INTO tickets (id, user_id, pcn_number, vehicle_reg, issuer_type, issuer,
		                     contravention_code, location, initial_amount, status, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`,
		ticket.ID,
		ticket.UserID,
		ticket.PCNNumber,
		ticket.VehicleReg,
		ticket.IssuerType,
		ticket.Issuer,
		ticket.ContraventionCode,
		ticket.Location,
		ticket.InitialAmount,
		ticket.Status,
		ticket.IssuedAt,
	).Scan(&ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, tx pgx.Tx, id string) (*models.Ticket, error) {
	cacheKey := cacheKeyFor(id)

	if cached, ok := r.fromCache(ctx, cacheKey); ok {
		return cached, nil
	}

	ticket, err := scanTicket(tx.QueryRow(ctx, selectTicket+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("error getting ticket", zap.Error(err), zap.String("id", id))
		return nil, err
	}

	r.toCache(ctx, cacheKey, ticket)

	return ticket, nil
}

func (r *repository) ListByUser(ctx context.Context, tx pgx.Tx, userID string, limit, offset uint64) ([]*models.Ticket, error) {
	rows, err := tx.Query(ctx, selectTicket+`
		WHERE user_id = $1
		ORDER BY issued_at DESC
		LIMIT $2 OFFSET $3`,
		userID, int64(limit), int64(offset))
	if err != nil {
		r.logger.Error("error listing tickets", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*models.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	return tickets, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status enum.TicketStatus) error {
	tag, err := tx.Exec(ctx, `UPDATE tickets SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update ticket status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, tx pgx.Tx, id string) error {
	tag, err := tx.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func cacheKeyFor(id string) string {
	return fmt.Sprintf("ticket:%s", id)
}

func (r *repository) fromCache(ctx context.Context, key string) (*models.Ticket, bool) {
	if r.cache == nil {
		return nil, false
	}

	data, err := r.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("Failed to get ticket from cache", zap.Error(err), zap.String("key", key))
		}
		return nil, false
	}

	ticket := models.NewTicket()
	if err = json.Unmarshal(data, ticket); err != nil {
		r.logger.Warn("Failed to decode cached ticket", zap.Error(err), zap.String("key", key))
		return nil, false
	}

	return ticket, true
}

func (r *repository) toCache(ctx context.Context, key string, ticket *models.Ticket) {
	if r.cache == nil {
		return
	}

	data, err := json.Marshal(ticket)
	if err != nil {
		r.logger.Warn("Failed to encode ticket for cache", zap.Error(err), zap.String("key", key))
		return
	}

	if err = r.cache.Set(ctx, key, data, cacheTTL).Err(); err != nil {
		r.logger.Warn("Failed to cache ticket", zap.Error(err), zap.String("key", key))
	}
}

func (r *repository) Invalidate(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}

	if err := r.cache.Del(ctx, cacheKeyFor(id)).Err(); err != nil {
		r.logger.Warn("Failed to delete ticket from cache", zap.Error(err), zap.String("id", id))
	}
}
