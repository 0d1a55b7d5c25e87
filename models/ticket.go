package models

import (
	"time"

	"goflare.io/ticketpal/models/enum"
)

// Ticket 代表使用者登記的罰單
// Ticket represents a parking ticket tracked by a user.
// InitialAmount is always the discounted amount in pence; escalated amounts are
// derived from it and never stored.
type Ticket struct {
	ID                string            `json:"id"`
	UserID            string            `json:"user_id"`
	PCNNumber         string            `json:"pcn_number"`
	VehicleReg        string            `json:"vehicle_reg"`
	IssuerType        enum.IssuerType   `json:"issuer_type"`
	Issuer            string            `json:"issuer"`
	ContraventionCode string            `json:"contravention_code,omitempty"`
	Location          string            `json:"location,omitempty"`
	InitialAmount     int64             `json:"initial_amount"`
	Status            enum.TicketStatus `json:"status"`
	IssuedAt          time.Time         `json:"issued_at"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	PriceIncreases    []PriceIncrease   `json:"price_increases,omitempty"`
}

func NewTicket() *Ticket {
	return &Ticket{}
}

// TicketSummary is a ticket together with the values derived from it at a point in time.
type TicketSummary struct {
	Ticket             *Ticket      `json:"ticket"`
	AmountDue          int64        `json:"amount_due"`
	AmountDueFormatted string       `json:"amount_due_formatted"`
	DiscountDeadline   time.Time    `json:"discount_deadline"`
	FullChargeDeadline time.Time    `json:"full_charge_deadline"`
	CurrentStage       *Stage       `json:"current_stage,omitempty"`
	NextStages         []Stage      `json:"next_stages"`
	Challenges         []*Challenge `json:"challenges,omitempty"`
}

// Stage describes one step of an issuer's ticket lifecycle.
type Stage struct {
	Status  enum.TicketStatus   `json:"status"`
	Label   string              `json:"label"`
	Trigger string              `json:"trigger"`
	Next    []enum.TicketStatus `json:"next"`
}
