package models

import (
	"encoding/json"
	"time"

	"goflare.io/ticketpal/models/enum"
)

// Challenge 代表交給自動化 worker 的申訴工作
// Challenge tracks an appeal job delegated to the automation worker service.
type Challenge struct {
	ID        string               `json:"id"`
	TicketID  string               `json:"ticket_id"`
	JobID     string               `json:"job_id"`
	Type      string               `json:"type"`
	Status    enum.ChallengeStatus `json:"status"`
	Result    json.RawMessage      `json:"result,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}
