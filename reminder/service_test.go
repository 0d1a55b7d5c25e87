package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"goflare.io/ticketpal/driver/drivertest"
	"goflare.io/ticketpal/models"
	"goflare.io/ticketpal/models/enum"
)

type memoryRepository struct {
	reminders []*models.Reminder
	failOn    enum.NotificationType
}

func (m *memoryRepository) Create(_ context.Context, _ pgx.Tx, reminder *models.Reminder) error {
	if reminder.NotificationType == m.failOn {
		return errors.New("insert failed")
	}
	reminder.CreatedAt = time.Now()
	m.reminders = append(m.reminders, reminder)
	return nil
}

func (m *memoryRepository) ClaimDue(_ context.Context, _ pgx.Tx, now, staleBefore time.Time, limit uint64) ([]*models.Reminder, error) {
	var out []*models.Reminder
	for _, r := range m.reminders {
		if r.SentAt != nil || r.SendAt.After(now) || uint64(len(out)) >= limit {
			continue
		}
		if r.ClaimedAt != nil && r.ClaimedAt.After(staleBefore) {
			continue
		}
		claimed := now
		r.ClaimedAt = &claimed
		out = append(out, r)
	}
	return out, nil
}

func (m *memoryRepository) MarkSent(_ context.Context, _ pgx.Tx, id string, sentAt time.Time) error {
	for _, r := range m.reminders {
		if r.ID == id && r.SentAt == nil {
			r.SentAt = &sentAt
			return nil
		}
	}
	return ErrNotFound
}

func (m *memoryRepository) DeleteUnsentForTicket(_ context.Context, _ pgx.Tx, ticketID string) (int64, error) {
	kept := m.reminders[:0]
	var deleted int64
	for _, r := range m.reminders {
		if r.TicketID == ticketID && r.SentAt == nil {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	m.reminders = kept
	return deleted, nil
}

func newTestService(repo Repository, now time.Time, logger *zap.Logger) *service {
	return &service{
		repo:               repo,
		transactionManager: &drivertest.TransactionManager{},
		logger:             logger,
		now:                func() time.Time { return now },
	}
}

func TestCreateForTicket(t *testing.T) {
	issued := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := &memoryRepository{}
	svc := newTestService(repo, issued.Add(time.Hour), zap.NewNop())

	created := svc.CreateForTicket(context.Background(), &models.Ticket{ID: "t1", IssuedAt: issued})

	require.Len(t, created, 6)
	counts := map[enum.ReminderType]int{}
	for _, r := range created {
		assert.Equal(t, "t1", r.TicketID)
		assert.NotEmpty(t, r.ID)
		counts[r.Type]++
	}
	assert.Equal(t, 3, counts[enum.ReminderTypeDiscountPeriod])
	assert.Equal(t, 3, counts[enum.ReminderTypeFullCharge])
}

func TestCreateForTicketOnlyFutureMilestones(t *testing.T) {
	issued := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := &memoryRepository{}
	svc := newTestService(repo, issued.AddDate(0, 0, 20), zap.NewNop())

	created := svc.CreateForTicket(context.Background(), &models.Ticket{ID: "t1", IssuedAt: issued})

	require.Len(t, created, 3)
	for _, r := range created {
		assert.Equal(t, enum.ReminderTypeFullCharge, r.Type)
	}
}

func TestCreateForTicketSwallowsFailures(t *testing.T) {
	issued := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	core, logs := observer.New(zap.ErrorLevel)
	repo := &memoryRepository{failOn: enum.NotificationTypeSMS}
	svc := newTestService(repo, issued, zap.New(core))

	created := svc.CreateForTicket(context.Background(), &models.Ticket{ID: "t1", IssuedAt: issued})

	assert.Len(t, created, 4)
	assert.Equal(t, 2, logs.FilterMessage("failed to create reminder").Len())
}

func TestCreateForTicketTransactionFailure(t *testing.T) {
	issued := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestService(&memoryRepository{}, issued, zap.NewNop())
	svc.transactionManager = &drivertest.TransactionManager{Err: errors.New("db down")}

	assert.NotPanics(t, func() {
		created := svc.CreateForTicket(context.Background(), &models.Ticket{ID: "t1", IssuedAt: issued})
		assert.Empty(t, created)
	})
}

func TestClaimDueAndMarkSent(t *testing.T) {
	issued := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	sweepAt := issued.AddDate(0, 0, 15)
	repo := &memoryRepository{}
	svc := newTestService(repo, issued, zap.NewNop())
	svc.CreateForTicket(context.Background(), &models.Ticket{ID: "t1", IssuedAt: issued})

	due, err := svc.ClaimDue(context.Background(), sweepAt, 10)
	require.NoError(t, err)
	require.Len(t, due, 3)

	require.NoError(t, svc.MarkSent(context.Background(), due[0].ID, sweepAt))
	assert.ErrorIs(t, svc.MarkSent(context.Background(), due[0].ID, sweepAt), ErrNotFound)

	again, err := svc.ClaimDue(context.Background(), sweepAt.Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Empty(t, again, "claimed reminders stay reserved within the lease")

	expired, err := svc.ClaimDue(context.Background(), sweepAt.Add(ClaimLease+time.Second), 10)
	require.NoError(t, err)
	assert.Len(t, expired, 2)
}

func TestDeleteUnsentForTicket(t *testing.T) {
	issued := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := &memoryRepository{}
	svc := newTestService(repo, issued, zap.NewNop())
	svc.CreateForTicket(context.Background(), &models.Ticket{ID: "t1", IssuedAt: issued})
	svc.CreateForTicket(context.Background(), &models.Ticket{ID: "t2", IssuedAt: issued})

	require.NoError(t, svc.DeleteUnsentForTicket(context.Background(), "t1"))

	assert.Len(t, repo.reminders, 6)
	for _, r := range repo.reminders {
		assert.Equal(t, "t2", r.TicketID)
	}
}
