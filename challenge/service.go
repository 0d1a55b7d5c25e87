package challenge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/ticketpal/config"
	"goflare.io/ticketpal/driver"
	"goflare.io/ticketpal/models"
	"goflare.io/ticketpal/models/enum"
)

var (
	ErrInvalidSignature  = errors.New("invalid worker signature")
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrInvalidPayload    = errors.New("invalid worker payload")
	ErrInvalidChallenge  = errors.New("invalid challenge")
)

// WebhookPayload is the body the worker posts when a job changes state.
type WebhookPayload struct {
	JobID  string          `json:"jobId"`
	Type   string          `json:"type"`
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
}

type Service interface {
	Submit(ctx context.Context, ticketID, challengeType string, payload json.RawMessage) (*models.Challenge, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) (*models.Challenge, error)
	ListByTicket(ctx context.Context, ticketID string) ([]*models.Challenge, error)
}

type service struct {
	repo               Repository
	transactionManager driver.TransactionManager
	submitter          Submitter
	secret             string
	logger             *zap.Logger
}

func NewService(repo Repository, tm driver.TransactionManager, submitter Submitter, cfg *config.Config, logger *zap.Logger) Service {
	return &service{
		repo:               repo,
		transactionManager: tm,
		submitter:          submitter,
		secret:             cfg.Worker.Secret,
		logger:             logger,
	}
}

// Submit asks the worker to run a challenge and records it as pending.
func (s *service) Submit(ctx context.Context, ticketID, challengeType string, payload json.RawMessage) (*models.Challenge, error) {
	challengeType = strings.TrimSpace(challengeType)
	if ticketID == "" || challengeType == "" {
		return nil, fmt.Errorf("%w: ticket id and type are required", ErrInvalidChallenge)
	}

	jobID, err := s.submitter.Submit(ctx, Job{TicketID: ticketID, Type: challengeType, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to submit challenge: %w", err)
	}

	challenge := &models.Challenge{
		ID:       uuid.NewString(),
		TicketID: ticketID,
		JobID:    jobID,
		Type:     challengeType,
		Status:   enum.ChallengeStatusPending,
	}

	if err = s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		return s.repo.Create(ctx, tx, challenge)
	}); err != nil {
		s.logger.Error("challenge submitted but not recorded",
			zap.Error(err),
			zap.String("ticket_id", ticketID),
			zap.String("job_id", jobID))
		return nil, fmt.Errorf("failed to record challenge: %w", err)
	}

	s.logger.Info("challenge submitted",
		zap.String("ticket_id", ticketID),
		zap.String("job_id", jobID),
		zap.String("type", challengeType))

	return challenge, nil
}

// HandleWebhook verifies a worker callback and writes the reported status.
func (s *service) HandleWebhook(ctx context.Context, body []byte, signature string) (*models.Challenge, error) {
	if !Verify(s.secret, body, signature) {
		return nil, ErrInvalidSignature
	}

	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if payload.JobID == "" {
		return nil, fmt.Errorf("%w: jobId is required", ErrInvalidPayload)
	}

	status, ok := MapWorkerStatus(payload.Status)
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidPayload, payload.Status)
	}

	var challenge *models.Challenge
	if err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		if challenge, err = s.repo.GetByJobID(ctx, tx, payload.JobID); err != nil {
			return err
		}
		return s.repo.UpdateStatus(ctx, tx, payload.JobID, status, payload.Result)
	}); err != nil {
		if errors.Is(err, ErrChallengeNotFound) {
			s.logger.Warn("worker webhook for unknown job", zap.String("job_id", payload.JobID))
		}
		return nil, fmt.Errorf("failed to update challenge: %w", err)
	}

	challenge.Status = status
	if len(payload.Result) > 0 {
		challenge.Result = payload.Result
	}

	s.logger.Info("challenge updated",
		zap.String("job_id", payload.JobID),
		zap.String("ticket_id", challenge.TicketID),
		zap.String("status", string(status)))

	return challenge, nil
}

func (s *service) ListByTicket(ctx context.Context, ticketID string) ([]*models.Challenge, error) {
	var challenges []*models.Challenge
	if err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		challenges, err = s.repo.ListByTicket(ctx, tx, ticketID)
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	return challenges, nil
}
