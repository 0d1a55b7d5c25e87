package ticket

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/ticketpal/driver"
	"goflare.io/ticketpal/models"
	"goflare.io/ticketpal/models/enum"
)

var (
	ErrNotFound      = errors.New("ticket not found")
	ErrInvalidTicket = errors.New("invalid ticket")
	ErrInvalidStatus = errors.New("invalid ticket status")
)

const maxListLimit = 100

type Service interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	GetByID(ctx context.Context, id string) (*models.Ticket, error)
	ListByUser(ctx context.Context, userID string, limit, offset uint64) ([]*models.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status enum.TicketStatus) error
	Delete(ctx context.Context, id string) error
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

// Create validates ticket, fills in its ID and default status, and stores it.
func (s *service) Create(ctx context.Context, ticket *models.Ticket) error {
	if err := validate(ticket); err != nil {
		return err
	}

	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	if ticket.Status == "" {
		ticket.Status = enum.TicketStatusIssuedDiscountPeriod
	}
	ticket.PCNNumber = strings.ToUpper(strings.TrimSpace(ticket.PCNNumber))
	ticket.VehicleReg = normalizeRegistration(ticket.VehicleReg)
	ticket.IssuedAt = ticket.IssuedAt.UTC()

	if err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		return s.repo.Create(ctx, tx, ticket)
	}); err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("user_id", ticket.UserID),
		zap.String("issuer_type", string(ticket.IssuerType)))

	return nil
}

func (s *service) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	var ticket *models.Ticket
	if err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		ticket, err = s.repo.GetByID(ctx, tx, id)
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return ticket, nil
}

func (s *service) ListByUser(ctx context.Context, userID string, limit, offset uint64) ([]*models.Ticket, error) {
	if limit == 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	var tickets []*models.Ticket
	if err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		tickets, err = s.repo.ListByUser(ctx, tx, userID, limit, offset)
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// UpdateStatus writes status as given. Any known status is accepted from any
// other status; the issuer timelines are display metadata only.
func (s *service) UpdateStatus(ctx context.Context, id string, status enum.TicketStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		return s.repo.UpdateStatus(ctx, tx, id, status)
	}); err != nil {
		return fmt.Errorf("failed to update ticket status: %w", err)
	}
	s.repo.Invalidate(ctx, id)

	s.logger.Info("ticket status updated", zap.String("ticket_id", id), zap.String("status", string(status)))

	return nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		return s.repo.Delete(ctx, tx, id)
	}); err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}
	s.repo.Invalidate(ctx, id)
	return nil
}

func validate(ticket *models.Ticket) error {
	switch {
	case ticket == nil:
		return fmt.Errorf("%w: missing ticket", ErrInvalidTicket)
	case strings.TrimSpace(ticket.UserID) == "":
		return fmt.Errorf("%w: user_id is required", ErrInvalidTicket)
	case strings.TrimSpace(ticket.PCNNumber) == "":
		return fmt.Errorf("%w: pcn_number is required", ErrInvalidTicket)
	case ticket.InitialAmount <= 0:
		return fmt.Errorf("%w: initial_amount must be greater than zero", ErrInvalidTicket)
	case !ticket.IssuerType.Valid():
		return fmt.Errorf("%w: unknown issuer_type %q", ErrInvalidTicket, ticket.IssuerType)
	case ticket.Status != "" && !ticket.Status.Valid():
		return fmt.Errorf("%w: %q", ErrInvalidStatus, ticket.Status)
	case ticket.IssuedAt.IsZero():
		return fmt.Errorf("%w: issued_at is required", ErrInvalidTicket)
	case ticket.IssuedAt.After(time.Now().Add(24 * time.Hour)):
		return fmt.Errorf("%w: issued_at is in the future", ErrInvalidTicket)
	}
	return nil
}

func normalizeRegistration(reg string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(reg), " ", ""))
}
