package models

import (
	"time"

	"goflare.io/ticketpal/models/enum"
)

// Event records a delivered billing webhook so redeliveries are ignored.
type Event struct {
	ID        string           `json:"id"`
	Source    enum.EventSource `json:"source"`
	Type      string           `json:"type"`
	Processed bool             `json:"processed"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
