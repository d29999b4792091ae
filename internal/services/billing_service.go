package services

import (
	"context"

	"mandi-backend/internal/apperrors"
	"mandi-backend/internal/billing"
	"mandi-backend/internal/models"
)

// BillStore is the bill persistence surface the service needs.
type BillStore interface {
	Get(ctx context.Context, id, commissionerID int) (*models.Bill, error)
	List(ctx context.Context, commissionerID int, paymentStatus string, farmerID int) ([]*models.Bill, error)
	MarkPaid(ctx context.Context, commissionerID int, req *models.PayBillsRequest) (*models.PayBillsResponse, error)
	GetReceiptData(ctx context.Context, id, commissionerID int) (*billing.ReceiptData, error)
}

// GenerationTx is one open bill-generation transaction. All reads and writes
// share the transaction, so a bill inserted for an earlier preview is visible
// to the duplicate checks of later previews in the same batch.
type GenerationTx interface {
	BillExists(ctx context.Context, farmerID, productID, sessionID int) (bool, error)
	UnbilledItems(ctx context.Context, farmerID, commissionerID, productID, sessionID int) ([]*models.AuctionItem, error)
	HighestBillNumber(ctx context.Context) (string, error)
	InsertBill(ctx context.Context, bill *models.Bill) error
	LinkItems(ctx context.Context, billID int, itemIDs []int) error
	RecomputeSessionPaymentStatus(ctx context.Context, sessionID int) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// BeginGenerationFunc opens a GenerationTx; main wires it to the bill
// repository's transaction wrapper.
type BeginGenerationFunc func(ctx context.Context) (GenerationTx, error)

// UnbilledItemStore feeds preview with the live candidate items.
type UnbilledItemStore interface {
	ListUnbilledForFarmer(ctx context.Context, farmerID, commissionerID, productID, sessionID int) ([]*models.AuctionItem, error)
}

// FarmerStore resolves the farmer a preview or bill batch is for.
type FarmerStore interface {
	Get(ctx context.Context, id, commissionerID int) (*models.Farmer, error)
}

// CommissionerStore supplies the caller's current commission rate.
type CommissionerStore interface {
	Get(ctx context.Context, id int) (*models.Commissioner, error)
}

// BillingService runs the two-phase billing workflow: a read-only preview the
// operator confirms, then transactional generation.
type BillingService struct {
	bills           BillStore
	beginGeneration BeginGenerationFunc
	items           UnbilledItemStore
	farmers         FarmerStore
	commissioners   CommissionerStore
}

func NewBillingService(bills BillStore, beginGeneration BeginGenerationFunc, items UnbilledItemStore, farmers FarmerStore, commissioners CommissionerStore) *BillingService {
	return &BillingService{
		bills:           bills,
		beginGeneration: beginGeneration,
		items:           items,
		farmers:         farmers,
		commissioners:   commissioners,
	}
}

// Preview groups a farmer's unbilled completed items by (product, session)
// and prices each group with the commissioner's current rate. Suggested other
// charges are advisory; generation only applies charges the operator submits
// back. Nothing is persisted.
func (s *BillingService) Preview(ctx context.Context, commissionerID, farmerID, productID, sessionID int) (*models.BillPreviewResponse, error) {
	farmer, err := s.farmers.Get(ctx, farmerID, commissionerID)
	if err != nil {
		return nil, err
	}
	commissioner, err := s.commissioners.Get(ctx, commissionerID)
	if err != nil {
		return nil, err
	}

	items, err := s.items.ListUnbilledForFarmer(ctx, farmerID, commissionerID, productID, sessionID)
	if err != nil {
		return nil, err
	}

	type groupKey struct{ productID, sessionID int }
	var order []groupKey
	grouped := make(map[groupKey][]*models.AuctionItem)
	for _, item := range items {
		key := groupKey{item.ProductID, item.SessionID}
		if _, ok := grouped[key]; !ok {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], item)
	}

	resp := &models.BillPreviewResponse{Farmer: farmer, Previews: []models.BillPreview{}}
	for _, key := range order {
		group := grouped[key]

		rated := make([]billing.RatedItem, 0, len(group))
		var qty float64
		for _, item := range group {
			rated = append(rated, billing.RatedItem{Quantity: item.Quantity, Rate: *item.Rate})
			qty += item.Quantity
		}

		suggested := billing.SuggestOtherCharges(group[0].ProductName, qty)
		amounts := billing.CalculateBillAmounts(rated, commissioner.CommissionRate, suggested)

		resp.Previews = append(resp.Previews, models.BillPreview{
			ProductID:        key.productID,
			ProductName:      group[0].ProductName,
			SessionID:        key.sessionID,
			SessionDate:      group[0].SessionDate,
			ItemCount:        len(group),
			Bags:             billing.CountBags(rated),
			TotalQuantity:    qty,
			GrossAmount:      amounts.GrossAmount,
			CommissionRate:   commissioner.CommissionRate,
			CommissionAmount: amounts.CommissionAmount,
			SuggestedCharges: suggested,
			NetPayable:       amounts.NetPayable,
		})

		resp.Summary.ItemCount += len(group)
		resp.Summary.TotalGross += amounts.GrossAmount
		resp.Summary.TotalNet += amounts.NetPayable
	}
	resp.Summary.PreviewCount = len(resp.Previews)

	return resp, nil
}

// Generate turns confirmed previews into bills, all inside one transaction.
// Each preview walks the same steps: duplicate-bill check, live item re-fetch,
// amount calculation, number allocation, insert, item linking. Business
// failures (bill already exists, no items left) are collected per preview and
// the batch keeps going; only storage errors abort the transaction. A batch
// that produced nothing but errors is a Conflict.
func (s *BillingService) Generate(ctx context.Context, commissionerID int, req *models.GenerateBillsRequest) (*models.GenerateBillsResponse, error) {
	if _, err := s.farmers.Get(ctx, req.FarmerID, commissionerID); err != nil {
		return nil, err
	}
	commissioner, err := s.commissioners.Get(ctx, commissionerID)
	if err != nil {
		return nil, err
	}

	tx, err := s.beginGeneration(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	number, err := tx.HighestBillNumber(ctx)
	if err != nil {
		return nil, err
	}

	resp := &models.GenerateBillsResponse{}
	sessions := make(map[int]bool)
	for _, preview := range req.Previews {
		// The duplicate check runs first: an already-billed triple, or a
		// repeat of the same preview within this batch, must report as a
		// duplicate even though its items no longer pass the unbilled filter.
		exists, err := tx.BillExists(ctx, req.FarmerID, preview.ProductID, preview.SessionID)
		if err != nil {
			return nil, err
		}
		if exists {
			resp.Errors = append(resp.Errors, models.GenerateBillError{
				ProductID: preview.ProductID,
				SessionID: preview.SessionID,
				Reason:    "a bill already exists for this farmer, product and session",
			})
			continue
		}

		items, err := tx.UnbilledItems(ctx, req.FarmerID, commissionerID, preview.ProductID, preview.SessionID)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			resp.Errors = append(resp.Errors, models.GenerateBillError{
				ProductID: preview.ProductID,
				SessionID: preview.SessionID,
				Reason:    "no unbilled completed items remain for this product and session",
			})
			continue
		}

		rated := make([]billing.RatedItem, 0, len(items))
		var qty float64
		for _, item := range items {
			rated = append(rated, billing.RatedItem{Quantity: item.Quantity, Rate: *item.Rate})
			qty += item.Quantity
		}

		charges := preview.OtherCharges
		if charges == nil {
			charges = models.OtherCharges{}
		}
		amounts := billing.CalculateBillAmounts(rated, commissioner.CommissionRate, charges)
		number = billing.NextBillNumbers(number, 1)[0]

		bill := &models.Bill{
			CommissionerID:   commissionerID,
			BillNumber:       number,
			FarmerID:         req.FarmerID,
			ProductID:        preview.ProductID,
			SessionID:        preview.SessionID,
			TotalQuantity:    qty,
			GrossAmount:      amounts.GrossAmount,
			CommissionRate:   commissioner.CommissionRate,
			CommissionAmount: amounts.CommissionAmount,
			OtherCharges:     charges,
			NetPayable:       amounts.NetPayable,
			PaymentStatus:    models.BillStatusUnpaid,
			Notes:            preview.Notes,
		}
		if err := tx.InsertBill(ctx, bill); err != nil {
			return nil, err
		}

		itemIDs := make([]int, 0, len(items))
		for _, item := range items {
			itemIDs = append(itemIDs, item.ID)
		}
		if err := tx.LinkItems(ctx, bill.ID, itemIDs); err != nil {
			return nil, err
		}

		sessions[preview.SessionID] = true
		bill.FarmerName = items[0].FarmerName
		bill.ProductName = items[0].ProductName
		date := items[0].SessionDate
		bill.SessionDate = &date
		resp.GeneratedBills = append(resp.GeneratedBills, bill)
	}

	for sessionID := range sessions {
		if err := tx.RecomputeSessionPaymentStatus(ctx, sessionID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	resp.TotalGenerated = len(resp.GeneratedBills)
	resp.TotalErrors = len(resp.Errors)
	if resp.TotalGenerated == 0 && resp.TotalErrors > 0 {
		return nil, apperrors.Conflictf("no bills generated: %s", resp.Errors[0].Reason)
	}
	return resp, nil
}

// PayMultiple settles a batch of bills. Repeated ids in the request count
// once.
func (s *BillingService) PayMultiple(ctx context.Context, commissionerID int, req *models.PayBillsRequest) (*models.PayBillsResponse, error) {
	seen := make(map[int]bool, len(req.BillIDs))
	ids := make([]int, 0, len(req.BillIDs))
	for _, id := range req.BillIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	deduped := *req
	deduped.BillIDs = ids
	return s.bills.MarkPaid(ctx, commissionerID, &deduped)
}

func (s *BillingService) List(ctx context.Context, commissionerID int, paymentStatus string, farmerID int) ([]*models.Bill, error) {
	return s.bills.List(ctx, commissionerID, paymentStatus, farmerID)
}

func (s *BillingService) Get(ctx context.Context, id, commissionerID int) (*models.Bill, error) {
	return s.bills.Get(ctx, id, commissionerID)
}

// Print renders a stored bill as html, text or pdf. Amounts come verbatim
// from the bill row.
func (s *BillingService) Print(ctx context.Context, id, commissionerID int, format string) ([]byte, string, error) {
	data, err := s.bills.GetReceiptData(ctx, id, commissionerID)
	if err != nil {
		return nil, "", err
	}

	switch format {
	case "", "html":
		out, err := billing.RenderHTML(data)
		if err != nil {
			return nil, "", err
		}
		return []byte(out), "text/html; charset=utf-8", nil
	case "text":
		return []byte(billing.RenderText(data)), "text/plain; charset=utf-8", nil
	case "pdf":
		out, err := billing.RenderPDF(data)
		if err != nil {
			return nil, "", err
		}
		return out, "application/pdf", nil
	default:
		return nil, "", apperrors.Validation("format must be html, text or pdf")
	}
}
