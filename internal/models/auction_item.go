package models

import "time"

// Auction item lifecycle states, derived from which optional fields are set.
// DRAFT has no buyer/rate, COMPLETED has both, BILLED additionally carries a
// bill_id and is immutable.
const (
	ItemStatusDraft     = "DRAFT"
	ItemStatusCompleted = "COMPLETED"
	ItemStatusBilled    = "BILLED"
)

// AuctionItem is one farmer's lot of one product within a session.
type AuctionItem struct {
	ID        int       `json:"id"`
	SessionID int       `json:"session_id"`
	FarmerID  int       `json:"farmer_id"`
	ProductID int       `json:"product_id"`
	BuyerID   *int      `json:"buyer_id"`
	Unit      string    `json:"unit"`
	Quantity  float64   `json:"quantity"`
	Rate      *float64  `json:"rate"`
	BillID    *int      `json:"bill_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined fields for display
	FarmerName  string    `json:"farmer_name,omitempty"`
	ProductName string    `json:"product_name,omitempty"`
	BuyerName   string    `json:"buyer_name,omitempty"`
	SessionDate time.Time `json:"session_date,omitempty"`
}

// Status derives the lifecycle state from the nullable fields.
func (i *AuctionItem) Status() string {
	switch {
	case i.BillID != nil:
		return ItemStatusBilled
	case i.BuyerID != nil && i.Rate != nil:
		return ItemStatusCompleted
	default:
		return ItemStatusDraft
	}
}

// IsBilled reports whether the item is linked to a bill and therefore frozen.
func (i *AuctionItem) IsBilled() bool {
	return i.BillID != nil
}

type CreateAuctionItemRequest struct {
	FarmerID  int      `json:"farmer_id" validate:"required,gt=0"`
	ProductID int      `json:"product_id" validate:"required,gt=0"`
	Unit      string   `json:"unit"`
	Quantity  float64  `json:"quantity" validate:"required,gt=0"`
	BuyerID   *int     `json:"buyer_id" validate:"omitempty,gt=0"`
	Rate      *float64 `json:"rate" validate:"omitempty,gt=0"`
}

type UpdateAuctionItemRequest struct {
	FarmerID  int      `json:"farmer_id" validate:"required,gt=0"`
	ProductID int      `json:"product_id" validate:"required,gt=0"`
	Unit      string   `json:"unit"`
	Quantity  float64  `json:"quantity" validate:"required,gt=0"`
	BuyerID   *int     `json:"buyer_id" validate:"omitempty,gt=0"`
	Rate      *float64 `json:"rate" validate:"omitempty,gt=0"`
}

// CompleteAuctionItemRequest attaches the sale outcome to a draft item.
type CompleteAuctionItemRequest struct {
	BuyerID int     `json:"buyer_id" validate:"required,gt=0"`
	Rate    float64 `json:"rate" validate:"required,gt=0"`
}
