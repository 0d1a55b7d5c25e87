package ticketpal

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/ticketpal/challenge"
	"goflare.io/ticketpal/config"
	"goflare.io/ticketpal/driver/drivertest"
	"goflare.io/ticketpal/event"
	"goflare.io/ticketpal/metrics"
	"goflare.io/ticketpal/models"
	"goflare.io/ticketpal/models/enum"
	"goflare.io/ticketpal/price_increase"
	"goflare.io/ticketpal/reminder"
	"goflare.io/ticketpal/ticket"
	"goflare.io/ticketpal/user"
)

const (
	testStripeSecret     = "whsec_test"
	testRevenueCatSecret = "rc_secret"
	testWorkerSecret     = "worker_secret"
)

// store backs every fake repository. The reminder sweep touches it from
// worker goroutines, so it is locked.
type store struct {
	mu             sync.Mutex
	tickets        map[string]*models.Ticket
	priceIncreases []models.PriceIncrease
	reminders      []*models.Reminder
	users          map[string]*models.User
	challenges     map[string]*models.Challenge
	events         map[string]*models.Event
}

func newStore() *store {
	return &store{
		tickets:    map[string]*models.Ticket{},
		users:      map[string]*models.User{},
		challenges: map[string]*models.Challenge{},
		events:     map[string]*models.Event{},
	}
}

type ticketRepo struct{ *store }

func (r ticketRepo) Create(_ context.Context, _ pgx.Tx, t *models.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *t
	r.tickets[t.ID] = &copied
	return nil
}

func (r ticketRepo) GetByID(_ context.Context, _ pgx.Tx, id string) (*models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok {
		return nil, ticket.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (r ticketRepo) ListByUser(_ context.Context, _ pgx.Tx, userID string, limit, offset uint64) ([]*models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Ticket
	for _, t := range r.tickets {
		if t.UserID == userID {
			copied := *t
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssuedAt.After(out[j].IssuedAt) })
	return out, nil
}

func (r ticketRepo) UpdateStatus(_ context.Context, _ pgx.Tx, id string, status enum.TicketStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok {
		return ticket.ErrNotFound
	}
	t.Status = status
	return nil
}

func (r ticketRepo) Delete(_ context.Context, _ pgx.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return ticket.ErrNotFound
	}
	delete(r.tickets, id)
	return nil
}

func (r ticketRepo) Invalidate(context.Context, string) {}

type priceIncreaseRepo struct{ *store }

func (r priceIncreaseRepo) Create(_ context.Context, _ pgx.Tx, pi *models.PriceIncrease) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pi.CreatedAt = time.Now()
	r.priceIncreases = append(r.priceIncreases, *pi)
	return nil
}

func (r priceIncreaseRepo) ListByTicket(_ context.Context, _ pgx.Tx, ticketID string) ([]models.PriceIncrease, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PriceIncrease
	for _, pi := range r.priceIncreases {
		if pi.TicketID == ticketID {
			out = append(out, pi)
		}
	}
	return out, nil
}

type reminderRepo struct{ *store }

func (r reminderRepo) Create(_ context.Context, _ pgx.Tx, rem *models.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *rem
	r.reminders = append(r.reminders, &copied)
	return nil
}

func (r reminderRepo) ClaimDue(_ context.Context, _ pgx.Tx, now, staleBefore time.Time, limit uint64) ([]*models.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Reminder
	for _, rem := range r.reminders {
		if rem.SentAt != nil || rem.SendAt.After(now) || uint64(len(out)) >= limit {
			continue
		}
		if rem.ClaimedAt != nil && rem.ClaimedAt.After(staleBefore) {
			continue
		}
		claimed := now
		rem.ClaimedAt = &claimed
		copied := *rem
		out = append(out, &copied)
	}
	return out, nil
}

func (r reminderRepo) MarkSent(_ context.Context, _ pgx.Tx, id string, sentAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rem := range r.reminders {
		if rem.ID == id && rem.SentAt == nil {
			rem.SentAt = &sentAt
			return nil
		}
	}
	return reminder.ErrNotFound
}

func (r reminderRepo) DeleteUnsentForTicket(_ context.Context, _ pgx.Tx, ticketID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := make([]*models.Reminder, 0, len(r.reminders))
	var deleted int64
	for _, rem := range r.reminders {
		if rem.TicketID == ticketID && rem.SentAt == nil {
			deleted++
			continue
		}
		kept = append(kept, rem)
	}
	r.reminders = kept
	return deleted, nil
}

func (s *store) unsentReminders(ticketID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, rem := range s.reminders {
		if rem.TicketID == ticketID && rem.SentAt == nil {
			n++
		}
	}
	return n
}

type userRepo struct{ *store }

func (r userRepo) Create(_ context.Context, _ pgx.Tx, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r userRepo) GetByID(_ context.Context, _ pgx.Tx, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r userRepo) GetByStripeCustomerID(_ context.Context, _ pgx.Tx, customerID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.StripeCustomerID == customerID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r userRepo) UpdateTier(_ context.Context, _ pgx.Tx, id string, tier enum.Tier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.Tier = tier
	return nil
}

func (r userRepo) UpdateStripeCustomerID(_ context.Context, _ pgx.Tx, id, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.StripeCustomerID = customerID
	return nil
}

func (s *store) user(id string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.users[id]
}

type challengeRepo struct{ *store }

func (r challengeRepo) Create(_ context.Context, _ pgx.Tx, c *models.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *c
	r.challenges[c.JobID] = &copied
	return nil
}

func (r challengeRepo) GetByJobID(_ context.Context, _ pgx.Tx, jobID string) (*models.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.challenges[jobID]
	if !ok {
		return nil, challenge.ErrChallengeNotFound
	}
	copied := *c
	return &copied, nil
}

func (r challengeRepo) UpdateStatus(_ context.Context, _ pgx.Tx, jobID string, status enum.ChallengeStatus, result json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.challenges[jobID]
	if !ok {
		return challenge.ErrChallengeNotFound
	}
	c.Status = status
	if len(result) > 0 {
		c.Result = result
	}
	return nil
}

func (r challengeRepo) ListByTicket(_ context.Context, _ pgx.Tx, ticketID string) ([]*models.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Challenge
	for _, c := range r.challenges {
		if c.TicketID == ticketID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

type eventRepo struct{ *store }

func eventKey(source enum.EventSource, id string) string {
	return string(source) + "/" + id
}

func (r eventRepo) Create(_ context.Context, e *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[eventKey(e.Source, e.ID)]; !ok {
		copied := *e
		r.events[eventKey(e.Source, e.ID)] = &copied
	}
	return nil
}

func (r eventRepo) GetByID(_ context.Context, source enum.EventSource, id string) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[eventKey(source, id)]
	if !ok {
		return nil, event.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (r eventRepo) MarkAsProcessed(_ context.Context, e *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *e
	copied.Processed = true
	r.events[eventKey(e.Source, e.ID)] = &copied
	return nil
}

type stubSubmitter struct {
	jobID string
	err   error
}

func (s *stubSubmitter) Submit(context.Context, challenge.Job) (string, error) {
	return s.jobID, s.err
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []models.ReminderDue
	err       error
	closed    bool
}

func (p *recordingPublisher) PublishReminder(_ context.Context, r models.ReminderDue) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, r)
	return nil
}

func (p *recordingPublisher) Close() error {
	p.closed = true
	return nil
}

func (p *recordingPublisher) messages() []models.ReminderDue {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.ReminderDue(nil), p.published...)
}

type fixture struct {
	app       *App
	store     *store
	publisher *recordingPublisher
	submitter *stubSubmitter
	metrics   *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{
		Stripe:     config.StripeConfig{WebhookSecret: testStripeSecret},
		RevenueCat: config.RevenueCatConfig{WebhookSecret: testRevenueCatSecret},
		Worker:     config.WorkerConfig{Secret: testWorkerSecret},
		Reminders:  config.RemindersConfig{Workers: 3, QueueSize: 4, BatchSize: 50},
	}
	logger := zap.NewNop()
	tm := &drivertest.TransactionManager{}
	s := newStore()
	s.users["u1"] = &models.User{ID: "u1", Email: "driver@example.com", Tier: enum.TierFree}

	f := &fixture{
		store:     s,
		publisher: &recordingPublisher{},
		submitter: &stubSubmitter{jobID: "job_1"},
		metrics:   metrics.New(),
	}

	app := NewApp(cfg,
		ticket.NewService(ticketRepo{s}, tm, logger),
		price_increase.NewService(priceIncreaseRepo{s}, tm, logger),
		reminder.NewService(reminderRepo{s}, tm, logger),
		user.NewService(userRepo{s}, tm, logger),
		challenge.NewService(challengeRepo{s}, tm, f.submitter, cfg, logger),
		event.NewService(eventRepo{s}),
		f.publisher,
		f.metrics,
		logger,
	)
	f.app = app.(*App)

	return f
}

var errPublish = errors.New("stream unavailable")
