package event

import (
	"context"
	"errors"

	"goflare.io/ticketpal/models"
	"goflare.io/ticketpal/models/enum"
)

type Service interface {
	Create(ctx context.Context, event *models.Event) error
	IsEventProcessed(ctx context.Context, source enum.EventSource, eventID string) (bool, error)
	MarkEventAsProcessed(ctx context.Context, source enum.EventSource, eventID, eventType string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, event *models.Event) error {
	return s.repo.Create(ctx, event)
}

// IsEventProcessed reports false for events never seen before. IDs are scoped
// per source.
func (s *service) IsEventProcessed(ctx context.Context, source enum.EventSource, eventID string) (bool, error) {
	event, err := s.repo.GetByID(ctx, source, eventID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return event.Processed, nil
}

func (s *service) MarkEventAsProcessed(ctx context.Context, source enum.EventSource, eventID, eventType string) error {
	return s.repo.MarkAsProcessed(ctx, &models.Event{
		ID:        eventID,
		Source:    source,
		Type:      eventType,
		Processed: true,
	})
}
