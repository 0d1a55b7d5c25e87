package user

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

var _ Repository = (*repository)(nil)

type Repository interface {
	Create(ctx context.Context, tx pgx.Tx, user *models.User) error
	GetByID(ctx context.Context, tx pgx.Tx, id string) (*models.User, error)
	GetByStripeCustomerID(ctx context.Context, tx pgx.Tx, customerID string) (*models.User, error)
	UpdateTier(ctx context.Context, tx pgx.Tx, id string, tier enum.Tier) error
	UpdateStripeCustomerID(ctx context.Context, tx pgx.Tx, id, customerID string) error
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

const selectUser = `
	SELECT id::text, email, tier, COALESCE(stripe_customer_id, ''), created_at, updated_at
	FROM users`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.Tier, &u.StripeCustomerID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) Create(ctx context.Context, tx pgx.Tx, user *models.User) error {
	if err := tx.QueryRow(ctx, `
		INSERT INTO users (id, email, tier, stripe_customer_id)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING created_at, updated_at`,
		user.ID, user.Email, user.Tier, user.StripeCustomerID,
	).Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, tx pgx.Tx, id string) (*models.User, error) {
	u, err := scanUser(tx.QueryRow(ctx, selectUser+` WHERE id = $1`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		r.logger.Error("error getting user", zap.Error(err), zap.String("id", id))
	}
	return u, err
}

func (r *repository) GetByStripeCustomerID(ctx context.Context, tx pgx.Tx, customerID string) (*models.User, error) {
	u, err := scanUser(tx.QueryRow(ctx, selectUser+` WHERE stripe_customer_id = $1`, customerID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		r.logger.Error("error getting user by stripe customer", zap.Error(err), zap.String("customer_id", customerID))
	}
	return u, err
}

func (r *repository) UpdateTier(ctx context.Context, tx pgx.Tx, id string, tier enum.Tier) error {
	tag, err := tx.Exec(ctx, `UPDATE users SET tier = $2, updated_at = now() WHERE id = $1`, id, tier)
	if err != nil {
		return fmt.Errorf("failed to update tier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) UpdateStripeCustomerID(ctx context.Context, tx pgx.Tx, id, customerID string) error {
	tag, err := tx.Exec(ctx, `UPDATE users SET stripe_customer_id = $2, updated_at = now() WHERE id = $1`, id, customerID)
	if err != nil {
		return fmt.Errorf("failed to link stripe customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
