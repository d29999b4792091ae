package models

import "time"

type Buyer struct {
	ID             int       `json:"id"`
	CommissionerID int       `json:"commissioner_id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CreateBuyerRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"omitempty,len=10"`
}

type UpdateBuyerRequest struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"omitempty,len=10"`
	IsActive *bool  `json:"is_active"`
}
