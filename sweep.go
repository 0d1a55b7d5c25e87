package ticketpal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"goflare.io/ticketpal/amount"
	"goflare.io/ticketpal/models"
	"goflare.io/ticketpal/reminder"
	"goflare.io/ticketpal/ticket"
)

const defaultSweepInterval = time.Minute

// RunReminderSweep sweeps once immediately and then on every tick until ctx
// is canceled.
func (a *App) RunReminderSweep(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		every = defaultSweepInterval
	}

	d := NewDispatcher(a.config.Reminders.Workers, a.config.Reminders.QueueSize, a)
	d.Run()
	defer d.Stop()

	a.logger.Info("Reminder sweep started",
		zap.Duration("interval", every),
		zap.Int("workers", d.maxWorkers))

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		if n, err := a.sweep(ctx, d); err != nil {
			a.logger.Error("Reminder sweep failed", zap.Error(err))
		} else if n > 0 {
			a.logger.Info("Reminder sweep finished", zap.Int("reminders", n))
		}

		select {
		case <-ctx.Done():
			a.logger.Info("Reminder sweep stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// SweepReminders runs a single sweep on a short-lived dispatcher.
func (a *App) SweepReminders(ctx context.Context) (int, error) {
	d := NewDispatcher(a.config.Reminders.Workers, a.config.Reminders.QueueSize, a)
	d.Run()
	defer d.Stop()

	return a.sweep(ctx, d)
}

// sweep claims due reminders, hands them to d and waits until all of them are handled.
func (a *App) sweep(ctx context.Context, d *Dispatcher) (int, error) {
	limit := a.config.Reminders.BatchSize
	if limit == 0 {
		limit = 200
	}

	due, err := a.reminder.ClaimDue(ctx, a.now(), limit)
	if err != nil {
		return 0, err
	}

	var wg sync.WaitGroup
	submitted := 0
	for _, r := range due {
		wg.Add(1)
		if err = d.Submit(WorkRequest{Reminder: r, Ctx: ctx, done: wg.Done}); err != nil {
			wg.Done()
			break
		}
		submitted++
	}
	wg.Wait()

	return submitted, err
}

// deliverReminder publishes r with the ticket's current amount due and marks
// it sent. Reminders of closed tickets are marked sent without publishing.
func (a *App) deliverReminder(ctx context.Context, r *models.Reminder) error {
	t, err := a.loadTicket(ctx, r.TicketID)
	if err != nil {
		if errors.Is(err, ticket.ErrNotFound) {
			a.logger.Warn("Reminder for missing ticket", zap.String("reminder_id", r.ID))
			return nil
		}
		return err
	}

	now := a.now()
	if t.Status.Closed() {
		a.logger.Info("Skipping reminder for closed ticket",
			zap.String("reminder_id", r.ID),
			zap.String("status", string(t.Status)))
		return a.markSent(ctx, r.ID, now)
	}

	due := amount.Due(amount.FromTicket(t), now)
	msg := models.ReminderDue{
		ReminderID:         r.ID,
		TicketID:           t.ID,
		UserID:             t.UserID,
		PCNNumber:          t.PCNNumber,
		VehicleReg:         t.VehicleReg,
		Issuer:             t.Issuer,
		Type:               r.Type,
		NotificationType:   r.NotificationType,
		Deadline:           r.SendAt,
		AmountDue:          due,
		AmountDueFormatted: amount.Format(due),
	}

	if err = a.publisher.PublishReminder(ctx, msg); err != nil {
		return err
	}
	a.metrics.RemindersPublished.WithLabelValues(string(r.NotificationType)).Inc()

	return a.markSent(ctx, r.ID, now)
}

func (a *App) markSent(ctx context.Context, id string, at time.Time) error {
	if err := a.reminder.MarkSent(ctx, id, at); err != nil {
		if errors.Is(err, reminder.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return nil
}
