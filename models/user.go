package models

import (
	"time"

	"goflare.io/ticketpal/models/enum"
)

// User 代表系統中的使用者
// User represents an account and its subscription tier.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Tier             enum.Tier `json:"tier"`
	StripeCustomerID string    `json:"stripe_customer_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
