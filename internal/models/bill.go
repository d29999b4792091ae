package models

import "time"

const (
	BillStatusUnpaid = "UNPAID"
	BillStatusPaid   = "PAID"

	// BillNumberPrefix is the document-number prefix; numbers are sequential
	// and zero-padded to three digits (BILL001, BILL002, ...).
	BillNumberPrefix = "BILL"
)

// OtherCharges is an open string-keyed map of operator-defined deductions
// (transport, loading, market fee, free text). Stored as JSONB so labels and
// amounts round-trip exactly.
type OtherCharges map[string]float64

func (c OtherCharges) Total() float64 {
	var total float64
	for _, amount := range c {
		total += amount
	}
	return total
}

// Bill is an immutable invoice for one (farmer, product, session) triple.
// Only the payment fields ever change after generation.
type Bill struct {
	ID               int          `json:"id"`
	CommissionerID   int          `json:"commissioner_id"`
	BillNumber       string       `json:"bill_number"`
	FarmerID         int          `json:"farmer_id"`
	ProductID        int          `json:"product_id"`
	SessionID        int          `json:"session_id"`
	TotalQuantity    float64      `json:"total_quantity"`
	GrossAmount      float64      `json:"gross_amount"`
	CommissionRate   float64      `json:"commission_rate"` // copied at generation time
	CommissionAmount float64      `json:"commission_amount"`
	OtherCharges     OtherCharges `json:"other_charges"`
	NetPayable       float64      `json:"net_payable"`
	PaymentStatus    string       `json:"payment_status"`
	PaymentMethod    string       `json:"payment_method"`
	PaymentDate      *time.Time   `json:"payment_date"`
	Notes            string       `json:"notes"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`

	// Joined names for display
	FarmerName  string     `json:"farmer_name,omitempty"`
	ProductName string     `json:"product_name,omitempty"`
	SessionDate *time.Time `json:"session_date,omitempty"`
}

// BillPreview is one proposed bill for a (product, session) group of unbilled
// items. Nothing is persisted at preview time.
type BillPreview struct {
	ProductID        int          `json:"product_id"`
	ProductName      string       `json:"product_name"`
	SessionID        int          `json:"session_id"`
	SessionDate      time.Time    `json:"session_date"`
	ItemCount        int          `json:"item_count"`
	Bags             int          `json:"bags"`
	TotalQuantity    float64      `json:"total_quantity"`
	GrossAmount      float64      `json:"gross_amount"`
	CommissionRate   float64      `json:"commission_rate"`
	CommissionAmount float64      `json:"commission_amount"`
	SuggestedCharges OtherCharges `json:"suggested_other_charges"`
	NetPayable       float64      `json:"net_payable"`
}

type BillPreviewSummary struct {
	PreviewCount int     `json:"preview_count"`
	ItemCount    int     `json:"item_count"`
	TotalGross   float64 `json:"total_gross"`
	TotalNet     float64 `json:"total_net"`
}

type BillPreviewResponse struct {
	Farmer   *Farmer            `json:"farmer"`
	Previews []BillPreview      `json:"previews"`
	Summary  BillPreviewSummary `json:"summary"`
}

// GenerateBillsRequest accepts previews back from the operator. other_charges
// are taken as submitted; suggestions from preview are not re-derived here.
type GenerateBillsRequest struct {
	FarmerID int                    `json:"farmer_id" validate:"required,gt=0"`
	Previews []GenerateBillsPreview `json:"previews" validate:"required,min=1,dive"`
}

type GenerateBillsPreview struct {
	ProductID    int          `json:"product_id" validate:"required,gt=0"`
	SessionID    int          `json:"session_id" validate:"required,gt=0"`
	OtherCharges OtherCharges `json:"other_charges"`
	Notes        string       `json:"notes"`
}

// GenerateBillError records a per-preview business failure; the batch keeps
// going past these.
type GenerateBillError struct {
	ProductID int    `json:"product_id"`
	SessionID int    `json:"session_id"`
	Reason    string `json:"reason"`
}

type GenerateBillsResponse struct {
	GeneratedBills []*Bill             `json:"generated_bills"`
	TotalGenerated int                 `json:"total_generated"`
	Errors         []GenerateBillError `json:"errors,omitempty"`
	TotalErrors    int                 `json:"total_errors"`
}

type PayBillsRequest struct {
	BillIDs       []int  `json:"bill_ids" validate:"required,min=1"`
	PaymentMethod string `json:"payment_method" validate:"required"`
	Notes         string `json:"notes"`
}

type PayBillsResponse struct {
	PaidBills     []*Bill `json:"paid_bills"`
	TotalPaid     int     `json:"total_paid"`
	TotalAmount   float64 `json:"total_amount"`
	PaymentDate   string  `json:"payment_date"`
	PaymentMethod string  `json:"payment_method"`
}
