package models

import (
	"time"

	"goflare.io/ticketpal/models/enum"
)

// PriceIncrease 代表罰單金額的覆寫紀錄
// PriceIncrease overrides the computed amount of a ticket once EffectiveAt has passed.
type PriceIncrease struct {
	ID          string                   `json:"id"`
	TicketID    string                   `json:"ticket_id"`
	Amount      int64                    `json:"amount"`
	EffectiveAt time.Time                `json:"effective_at"`
	SourceType  enum.PriceIncreaseSource `json:"source_type"`
	Reason      string                   `json:"reason,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
}
