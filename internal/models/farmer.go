package models

import "time"

type Farmer struct {
	ID             int       `json:"id"`
	CommissionerID int       `json:"commissioner_id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Village        string    `json:"village"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CreateFarmerRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"omitempty,len=10"`
	Village string `json:"village"`
}

type UpdateFarmerRequest struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"omitempty,len=10"`
	Village  string `json:"village"`
	IsActive *bool  `json:"is_active"`
}
