package models

import "time"

type Category struct {
	ID             int       `json:"id"`
	CommissionerID int       `json:"commissioner_id"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
}

type Product struct {
	ID             int       `json:"id"`
	CommissionerID int       `json:"commissioner_id"`
	CategoryID     int       `json:"category_id"`
	CategoryName   string    `json:"category_name,omitempty"` // joined for display
	Name           string    `json:"name"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type CreateProductRequest struct {
	CategoryID int    `json:"category_id" validate:"required,gt=0"`
	Name       string `json:"name" validate:"required"`
}

type UpdateProductRequest struct {
	CategoryID int    `json:"category_id" validate:"required,gt=0"`
	Name       string `json:"name" validate:"required"`
	IsActive   *bool  `json:"is_active"`
}
