package models

import "time"

const (
	SessionStatusActive    = "ACTIVE"
	SessionStatusCompleted = "COMPLETED"

	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
)

// AuctionSession is one day's auction event. payment_status is a derived
// aggregate: COMPLETED when every item in the session carries a bill_id. It is
// recomputed inside the same transaction as every item mutation, never lazily.
type AuctionSession struct {
	ID             int       `json:"id"`
	CommissionerID int       `json:"commissioner_id"`
	SessionDate    time.Time `json:"session_date"`
	Status         string    `json:"status"`
	PaymentStatus  string    `json:"payment_status"`
	ItemCount      int       `json:"item_count,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CreateSessionRequest struct {
	SessionDate string `json:"session_date" validate:"required"` // YYYY-MM-DD
}

type UpdateSessionRequest struct {
	SessionDate string `json:"session_date"` // YYYY-MM-DD, empty keeps current
	Status      string `json:"status" validate:"omitempty,oneof=ACTIVE COMPLETED"`
}

// SessionValidation is the Session Validator's verdict for one operation.
// Restrictions accumulate: every applicable rule contributes a message.
type SessionValidation struct {
	Session      *AuctionSession `json:"session"`
	CanModify    bool            `json:"can_modify"`
	CanDelete    bool            `json:"can_delete"`
	Restrictions []string        `json:"restrictions"`
}
