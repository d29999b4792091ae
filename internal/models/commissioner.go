package models

import "time"

// Commissioner is the tenant/business owner. Every farmer, buyer, session and
// bill in the system is scoped under exactly one commissioner.
type Commissioner struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Location       string    `json:"location"`
	PasswordHash   string    `json:"-"`
	CommissionRate float64   `json:"commission_rate"` // percent of gross, 0-100
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type SignupRequest struct {
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Phone          string  `json:"phone" validate:"omitempty,len=10"`
	Location       string  `json:"location"`
	Password       string  `json:"password" validate:"required,min=6"`
	CommissionRate float64 `json:"commission_rate" validate:"gte=0,lte=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token        string        `json:"token"`
	Commissioner *Commissioner `json:"commissioner"`
}

type UpdateProfileRequest struct {
	Name           string  `json:"name" validate:"required"`
	Phone          string  `json:"phone" validate:"omitempty,len=10"`
	Location       string  `json:"location"`
	CommissionRate float64 `json:"commission_rate" validate:"gte=0,lte=100"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}
