package models

import "time"

type PasswordReset struct {
	ID             int       `json:"id"`
	CommissionerID int       `json:"commissioner_id"`
	Token          string    `json:"token"`
	ExpiresAt      time.Time `json:"expires_at"`
	Used           bool      `json:"used"`
	CreatedAt      time.Time `json:"created_at"`
}
