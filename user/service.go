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

var (
	ErrNotFound    = errors.New("user not found")
	ErrInvalidTier = errors.New("invalid tier")
)

type Service interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	SetTier(ctx context.Context, id string, tier enum.Tier) error
	SetTierByStripeCustomer(ctx context.Context, customerID string, tier enum.Tier) error
	LinkStripeCustomer(ctx context.Context, id, customerID string) error
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

func (s *service) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u *models.User
	if err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		u, err = s.repo.GetByID(ctx, tx, id)
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (s *service) SetTier(ctx context.Context, id string, tier enum.Tier) error {
	if !validTier(tier) {
		return fmt.Errorf("%w: %q", ErrInvalidTier, tier)
	}

	if err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		return s.repo.UpdateTier(ctx, tx, id, tier)
	}); err != nil {
		return fmt.Errorf("failed to set tier for user %s: %w", id, err)
	}

	s.logger.Info("user tier updated", zap.String("user_id", id), zap.String("tier", string(tier)))

	return nil
}

func (s *service) SetTierByStripeCustomer(ctx context.Context, customerID string, tier enum.Tier) error {
	if !validTier(tier) {
		return fmt.Errorf("%w: %q", ErrInvalidTier, tier)
	}

	var userID string
	if err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		u, err := s.repo.GetByStripeCustomerID(ctx, tx, customerID)
		if err != nil {
			return err
		}
		userID = u.ID
		return s.repo.UpdateTier(ctx, tx, u.ID, tier)
	}); err != nil {
		return fmt.Errorf("failed to set tier for stripe customer %s: %w", customerID, err)
	}

	s.logger.Info("user tier updated",
		zap.String("user_id", userID),
		zap.String("customer_id", customerID),
		zap.String("tier", string(tier)))

	return nil
}

func (s *service) LinkStripeCustomer(ctx context.Context, id, customerID string) error {
	if customerID == "" {
		return nil
	}
	if err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		return s.repo.UpdateStripeCustomerID(ctx, tx, id, customerID)
	}); err != nil {
		return fmt.Errorf("failed to link stripe customer: %w", err)
	}
	return nil
}

func validTier(tier enum.Tier) bool {
	return tier == enum.TierFree || tier == enum.TierPremium
}
