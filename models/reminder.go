package models

import (
	"time"

	"goflare.io/ticketpal/models/enum"
)

// Reminder 代表排程中的截止日提醒
// Reminder represents a scheduled deadline notification for a ticket.
type Reminder struct {
	ID               string                `json:"id"`
	TicketID         string                `json:"ticket_id"`
	SendAt           time.Time             `json:"send_at"`
	Type             enum.ReminderType     `json:"type"`
	NotificationType enum.NotificationType `json:"notification_type"`
	SentAt           *time.Time            `json:"sent_at,omitempty"`
	ClaimedAt        *time.Time            `json:"claimed_at,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
}

// ReminderDue is the message handed to the delivery service when a reminder fires.
type ReminderDue struct {
	ReminderID         string                `json:"reminder_id"`
	TicketID           string                `json:"ticket_id"`
	UserID             string                `json:"user_id"`
	PCNNumber          string                `json:"pcn_number"`
	VehicleReg         string                `json:"vehicle_reg"`
	Issuer             string                `json:"issuer"`
	Type               enum.ReminderType     `json:"type"`
	NotificationType   enum.NotificationType `json:"notification_type"`
	Deadline           time.Time             `json:"deadline"`
	AmountDue          int64                 `json:"amount_due"`
	AmountDueFormatted string                `json:"amount_due_formatted"`
}
