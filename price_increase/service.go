package price_increase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/ticketpal/driver"
	"goflare.io/ticketpal/models"
	"goflare.io/ticketpal/models/enum"
)

var ErrInvalidPriceIncrease = errors.New("invalid price increase")

type Service interface {
	Create(ctx context.Context, increase *models.PriceIncrease) error
	ListByTicket(ctx context.Context, ticketID string) ([]models.PriceIncrease, error)
}

type service struct {
	repo               Repository
	transactionManager driver.TransactionManager
	logger             *zap.Logger
}

func NewService(repo Repository, tm driver.TransactionManager, logger *zap.Logger) Service {
	return &service{
		repo:               repo,
		transactionManager: tm,
		logger:             logger,
	}
}

func (s *service) Create(ctx context.Context, increase *models.PriceIncrease) error {
	switch {
	case increase.TicketID == "":
		return fmt.Errorf("%w: ticket_id is required", ErrInvalidPriceIncrease)
	case increase.Amount <= 0:
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidPriceIncrease)
	case increase.EffectiveAt.IsZero():
		return fmt.Errorf("%w: effective_at is required", ErrInvalidPriceIncrease)
	}

	if increase.SourceType == "" {
		increase.SourceType = enum.PriceIncreaseSourceManualUpdate
	}
	if !increase.SourceType.Valid() {
		return fmt.Errorf("%w: unknown source_type %q", ErrInvalidPriceIncrease, increase.SourceType)
	}
	if increase.ID == "" {
		increase.ID = uuid.NewString()
	}
	increase.EffectiveAt = increase.EffectiveAt.UTC()

	if err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		return s.repo.Create(ctx, tx, increase)
	}); err != nil {
		return fmt.Errorf("failed to create price increase: %w", err)
	}

	s.logger.Info("price increase recorded",
		zap.String("ticket_id", increase.TicketID),
		zap.Int64("amount", increase.Amount),
		zap.Time("effective_at", increase.EffectiveAt))

	return nil
}

func (s *service) ListByTicket(ctx context.Context, ticketID string) ([]models.PriceIncrease, error) {
	var increases []models.PriceIncrease
	if err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		increases, err = s.repo.ListByTicket(ctx, tx, ticketID)
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list price increases: %w", err)
	}
	return increases, nil
}
