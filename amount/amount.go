// Package amount derives how much is owed on a ticket at a given moment.
package amount

import (
	"fmt"
	"math"
	"time"

	"goflare.io/ticketpal/models"
	"goflare.io/ticketpal/models/enum"
)

const (
	// DiscountPeriodDays is how long the discounted amount stays payable.
	DiscountPeriodDays = 14
	// FullChargePeriodDays is when the full charge window closes.
	FullChargePeriodDays = 28

	defaultMultiplier = 2.0
	day               = 24 * time.Hour
)

var multipliers = map[enum.TicketStatus]float64{
	enum.TicketStatusIssuedFullCharge:          2.0,
	enum.TicketStatusNoticeToOwner:             2.0,
	enum.TicketStatusFormalRepresentation:      2.0,
	enum.TicketStatusNoticeOfRejection:         2.0,
	enum.TicketStatusAppealToTribunal:          2.0,
	enum.TicketStatusNoticeToKeeper:            2.0,
	enum.TicketStatusAppealSubmittedToOperator: 2.0,
	enum.TicketStatusAppealRejectedByOperator:  2.0,
	enum.TicketStatusPoplaAppeal:               2.0,
	enum.TicketStatusIasAppeal:                 2.0,
	enum.TicketStatusAppealRejected:            2.0,

	enum.TicketStatusChargeCertificate:       3.0,
	enum.TicketStatusOrderForRecovery:        3.0,
	enum.TicketStatusTecOutOfTimeApplication: 3.0,
	enum.TicketStatusPe2Pe3Application:       3.0,
	enum.TicketStatusEnforcementBailiffStage: 3.0,
	enum.TicketStatusFormalLetterOfClaim:     3.0,
	enum.TicketStatusDebtCollection:          3.0,
	enum.TicketStatusCourtProceedings:        3.0,
	enum.TicketStatusCcjIssued:               3.0,
}

// Input is what Due needs to know about a ticket.
type Input struct {
	InitialAmount  int64
	IssuedAt       time.Time
	Status         enum.TicketStatus
	PriceIncreases []models.PriceIncrease
}

// FromTicket builds an Input from a stored ticket.
func FromTicket(ticket *models.Ticket) Input {
	return Input{
		InitialAmount:  ticket.InitialAmount,
		IssuedAt:       ticket.IssuedAt,
		Status:         ticket.Status,
		PriceIncreases: ticket.PriceIncreases,
	}
}

// Due returns the amount owed in pence at now.
func Due(in Input, now time.Time) int64 {
	if in.Status.Closed() {
		return 0
	}

	if increase, ok := EffectivePriceIncrease(in.PriceIncreases, now); ok {
		return increase.Amount
	}

	if DaysSinceIssued(in.IssuedAt, now) <= DiscountPeriodDays {
		return in.InitialAmount
	}

	m, _ := Multiplier(in.Status)
	return int64(math.Round(float64(in.InitialAmount) * m))
}

// Multiplier returns the escalation factor for status. Statuses missing from the
// table fall back to 2.0 and report false.
// TODO: confirm with the product owners whether the 2.0 fallback is meant for
// statuses added later or hides missing entries.
func Multiplier(status enum.TicketStatus) (float64, bool) {
	m, ok := multipliers[status]
	if !ok {
		return defaultMultiplier, false
	}
	return m, true
}

// EffectivePriceIncrease picks the increase with the latest EffectiveAt that is not
// after now. Equal EffectiveAt values resolve to the later CreatedAt, then to the
// later position in the slice.
func EffectivePriceIncrease(increases []models.PriceIncrease, now time.Time) (models.PriceIncrease, bool) {
	var (
		best  models.PriceIncrease
		found bool
	)
	for _, pi := range increases {
		if pi.EffectiveAt.After(now) {
			continue
		}
		if !found ||
			pi.EffectiveAt.After(best.EffectiveAt) ||
			(pi.EffectiveAt.Equal(best.EffectiveAt) && !pi.CreatedAt.Before(best.CreatedAt)) {
			best = pi
			found = true
		}
	}
	return best, found
}

// DaysSinceIssued is the number of whole days between issuedAt and now.
func DaysSinceIssued(issuedAt, now time.Time) int {
	return int(math.Floor(float64(now.Sub(issuedAt)) / float64(day)))
}

// DiscountDeadline is the last moment the discounted amount applies.
func DiscountDeadline(issuedAt time.Time) time.Time {
	return issuedAt.Add(DiscountPeriodDays * day)
}

// FullChargeDeadline is when the full charge window closes.
func FullChargeDeadline(issuedAt time.Time) time.Time {
	return issuedAt.Add(FullChargePeriodDays * day)
}

// Format renders pence as pounds, e.g. 7000 -> "£70.00".
func Format(pence int64) string {
	sign := ""
	if pence < 0 {
		sign = "-"
		pence = -pence
	}
	return fmt.Sprintf("%s£%d.%02d", sign, pence/100, pence%100)
}
