package challenge

import (
	"context"
	"encoding/json"
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
	Create(ctx context.Context, tx pgx.Tx, challenge *models.Challenge) error
	GetByJobID(ctx context.Context, tx pgx.Tx, jobID string) (*models.Challenge, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, jobID string, status enum.ChallengeStatus, result json.RawMessage) error
	ListByTicket(ctx context.Context, tx pgx.Tx, ticketID string) ([]*models.Challenge, error)
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

const selectChallenge = `
	SELECT id::text, ticket_id::text, job_id, type, status, result, created_at, updated_at
	FROM challenges`

func scanChallenge(row pgx.Row) (*models.Challenge, error) {
	var c models.Challenge
	var result []byte
	if err := row.Scan(&c.ID, &c.TicketID, &c.JobID, &c.Type, &c.Status, &result, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if len(result) > 0 {
		c.Result = result
	}
	return &c, nil
}

func (r *repository) Create(ctx context.Context, tx pgx.Tx, challenge *models.Challenge) error {
	if err := tx.QueryRow(ctx, `
		INSERT INTO challenges (id, ticket_id, job_id, type, status, result)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		challenge.ID,
		challenge.TicketID,
		challenge.JobID,
		challenge.Type,
		challenge.Status,
		nullableJSON(challenge.Result),
	).Scan(&challenge.CreatedAt, &challenge.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}
	return nil
}

func (r *repository) GetByJobID(ctx context.Context, tx pgx.Tx, jobID string) (*models.Challenge, error) {
	c, err := scanChallenge(tx.QueryRow(ctx, selectChallenge+` WHERE job_id = $1`, jobID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChallengeNotFound
		}
		r.logger.Error("error getting challenge", zap.Error(err), zap.String("job_id", jobID))
		return nil, err
	}
	return c, nil
}

func (r *repository) UpdateStatus(ctx context.Context, tx pgx.Tx, jobID string, status enum.ChallengeStatus, result json.RawMessage) error {
	tag, err := tx.Exec(ctx, `
		UPDATE challenges
		SET status = $2, result = COALESCE($3, result), updated_at = now()
		WHERE job_id = $1`,
		jobID, status, nullableJSON(result))
	if err != nil {
		return fmt.Errorf("failed to update challenge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrChallengeNotFound
	}
	return nil
}

func (r *repository) ListByTicket(ctx context.Context, tx pgx.Tx, ticketID string) ([]*models.Challenge, error) {
	rows, err := tx.Query(ctx, selectChallenge+` WHERE ticket_id = $1 ORDER BY created_at DESC`, ticketID)
	if err != nil {
		r.logger.Error("error listing challenges", zap.Error(err), zap.String("ticket_id", ticketID))
		return nil, err
	}
	defer rows.Close()

	challenges := make([]*models.Challenge, 0)
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, c)
	}

	return challenges, rows.Err()
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return string(raw)
}
