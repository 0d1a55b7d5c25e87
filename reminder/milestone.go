package reminder

import (
	"time"

	"goflare.io/ticketpal/amount"
	"goflare.io/ticketpal/models/enum"
)

// Milestone is a deadline a ticket holder should be reminded about.
type Milestone struct {
	Type   enum.ReminderType
	SendAt time.Time
}

// Milestones returns the discount and full charge deadlines for a ticket
// issued at issuedAt, keeping only those whose UTC calendar date is today or later.
func Milestones(issuedAt, now time.Time) []Milestone {
	candidates := []Milestone{
		{Type: enum.ReminderTypeDiscountPeriod, SendAt: amount.DiscountDeadline(issuedAt)},
		{Type: enum.ReminderTypeFullCharge, SendAt: amount.FullChargeDeadline(issuedAt)},
	}

	today := truncateToDay(now)
	milestones := make([]Milestone, 0, len(candidates))
	for _, m := range candidates {
		if truncateToDay(m.SendAt).Before(today) {
			continue
		}
		milestones = append(milestones, m)
	}
	return milestones
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
