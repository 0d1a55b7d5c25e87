package handlers

import (
	"context"
	"encoding/json"
	"time"

	"goflare.io/ticketpal"
	"goflare.io/ticketpal/models"
	"goflare.io/ticketpal/models/enum"
)

var _ ticketpal.TicketPal = (*fakeTicketPal)(nil)

// fakeTicketPal records its inputs and returns the configured result.
type fakeTicketPal struct {
	summary    *models.TicketSummary
	summaries  []*models.TicketSummary
	challenge  *models.Challenge
	err        error
	lastTicket *models.Ticket
	lastID     string
	lastStatus enum.TicketStatus
	lastLimit  uint64
	lastOffset uint64
	lastBody   []byte
	lastHeader string
	lastType   string
}

func (f *fakeTicketPal) CreateTicket(_ context.Context, t *models.Ticket) (*models.TicketSummary, error) {
	f.lastTicket = t
	return f.summary, f.err
}

func (f *fakeTicketPal) GetTicketSummary(_ context.Context, id string) (*models.TicketSummary, error) {
	f.lastID = id
	return f.summary, f.err
}

func (f *fakeTicketPal) ListTickets(_ context.Context, userID string, limit, offset uint64) ([]*models.TicketSummary, error) {
	f.lastID, f.lastLimit, f.lastOffset = userID, limit, offset
	return f.summaries, f.err
}

func (f *fakeTicketPal) UpdateTicketStatus(_ context.Context, id string, status enum.TicketStatus) (*models.TicketSummary, error) {
	f.lastID, f.lastStatus = id, status
	return f.summary, f.err
}

func (f *fakeTicketPal) DeleteTicket(_ context.Context, id string) error {
	f.lastID = id
	return f.err
}

func (f *fakeTicketPal) AddPriceIncrease(_ context.Context, id string, _ *models.PriceIncrease) (*models.TicketSummary, error) {
	f.lastID = id
	return f.summary, f.err
}

func (f *fakeTicketPal) SubmitChallenge(_ context.Context, id, challengeType string, _ json.RawMessage) (*models.Challenge, error) {
	f.lastID, f.lastType = id, challengeType
	return f.challenge, f.err
}

func (f *fakeTicketPal) HandleWorkerWebhook(_ context.Context, payload []byte, signature string) (*models.Challenge, error) {
	f.lastBody, f.lastHeader = payload, signature
	return f.challenge, f.err
}

func (f *fakeTicketPal) HandleStripeWebhook(_ context.Context, payload []byte, signature string) error {
	f.lastBody, f.lastHeader = payload, signature
	return f.err
}

func (f *fakeTicketPal) HandleRevenueCatWebhook(_ context.Context, payload []byte, authorization string) error {
	f.lastBody, f.lastHeader = payload, authorization
	return f.err
}

func (f *fakeTicketPal) RunReminderSweep(context.Context, time.Duration) error { return nil }

func (f *fakeTicketPal) SweepReminders(context.Context) (int, error) { return 0, nil }

func (f *fakeTicketPal) Close() {}
