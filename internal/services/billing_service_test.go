package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mandi-backend/internal/apperrors"
	"mandi-backend/internal/billing"
	"mandi-backend/internal/models"
	"mandi-backend/internal/timeutil"
)

type fakeBillStore struct {
	bills       map[int]*models.Bill
	paidRequest *models.PayBillsRequest
	receiptData *billing.ReceiptData
}

func (f *fakeBillStore) Get(ctx context.Context, id, commissionerID int) (*models.Bill, error) {
	b, ok := f.bills[id]
	if !ok {
		return nil, apperrors.NotFound("bill not found")
	}
	return b, nil
}

func (f *fakeBillStore) List(ctx context.Context, commissionerID int, paymentStatus string, farmerID int) ([]*models.Bill, error) {
	return nil, nil
}

func (f *fakeBillStore) MarkPaid(ctx context.Context, commissionerID int, req *models.PayBillsRequest) (*models.PayBillsResponse, error) {
	f.paidRequest = req
	return &models.PayBillsResponse{TotalPaid: len(req.BillIDs)}, nil
}

func (f *fakeBillStore) GetReceiptData(ctx context.Context, id, commissionerID int) (*billing.ReceiptData, error) {
	if f.receiptData == nil {
		return nil, apperrors.NotFound("bill not found")
	}
	return f.receiptData, nil
}

// fakeGenerationTx mirrors the transactional contract: bills inserted earlier
// in the batch are visible to later BillExists checks.
type fakeGenerationTx struct {
	existing   map[[3]int]bool
	unbilled   map[[2]int][]*models.AuctionItem
	highest    string
	inserted   []*models.Bill
	linked     map[int][]int
	recomputed []int
	committed  bool
	rolledBack bool
}

func (f *fakeGenerationTx) BillExists(ctx context.Context, farmerID, productID, sessionID int) (bool, error) {
	return f.existing[[3]int{farmerID, productID, sessionID}], nil
}

func (f *fakeGenerationTx) UnbilledItems(ctx context.Context, farmerID, commissionerID, productID, sessionID int) ([]*models.AuctionItem, error) {
	return f.unbilled[[2]int{productID, sessionID}], nil
}

func (f *fakeGenerationTx) HighestBillNumber(ctx context.Context) (string, error) {
	return f.highest, nil
}

func (f *fakeGenerationTx) InsertBill(ctx context.Context, bill *models.Bill) error {
	bill.ID = len(f.inserted) + 1
	f.inserted = append(f.inserted, bill)
	f.existing[[3]int{bill.FarmerID, bill.ProductID, bill.SessionID}] = true
	return nil
}

func (f *fakeGenerationTx) LinkItems(ctx context.Context, billID int, itemIDs []int) error {
	f.linked[billID] = itemIDs
	return nil
}

func (f *fakeGenerationTx) RecomputeSessionPaymentStatus(ctx context.Context, sessionID int) error {
	f.recomputed = append(f.recomputed, sessionID)
	return nil
}

func (f *fakeGenerationTx) Commit(ctx context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeGenerationTx) Rollback(ctx context.Context) error {
	if !f.committed {
		f.rolledBack = true
	}
	return nil
}

type fakeUnbilledStore struct {
	items []*models.AuctionItem
}

func (f *fakeUnbilledStore) ListUnbilledForFarmer(ctx context.Context, farmerID, commissionerID, productID, sessionID int) ([]*models.AuctionItem, error) {
	return f.items, nil
}

type fakeFarmerStore struct {
	farmers map[int]*models.Farmer
}

func (f *fakeFarmerStore) Get(ctx context.Context, id, commissionerID int) (*models.Farmer, error) {
	farmer, ok := f.farmers[id]
	if !ok {
		return nil, apperrors.NotFound("farmer not found")
	}
	return farmer, nil
}

type fakeCommissionerStore struct {
	rate float64
}

func (f *fakeCommissionerStore) Get(ctx context.Context, id int) (*models.Commissioner, error) {
	return &models.Commissioner{ID: id, CommissionRate: f.rate}, nil
}

func unbilledItem(productID, sessionID int, productName string, qty, rate float64, date time.Time) *models.AuctionItem {
	return &models.AuctionItem{
		ProductID:   productID,
		SessionID:   sessionID,
		ProductName: productName,
		Quantity:    qty,
		Rate:        &rate,
		SessionDate: date,
	}
}

func newBillingFixture(items []*models.AuctionItem, rate float64) (*BillingService, *fakeBillStore, *fakeGenerationTx) {
	bills := &fakeBillStore{bills: map[int]*models.Bill{}}
	tx := &fakeGenerationTx{
		existing: map[[3]int]bool{},
		unbilled: map[[2]int][]*models.AuctionItem{},
		linked:   map[int][]int{},
	}
	svc := NewBillingService(
		bills,
		func(ctx context.Context) (GenerationTx, error) { return tx, nil },
		&fakeUnbilledStore{items: items},
		&fakeFarmerStore{farmers: map[int]*models.Farmer{1: {ID: 1, Name: "Ramesh"}}},
		&fakeCommissionerStore{rate: rate},
	)
	return svc, bills, tx
}

func TestPreviewGroupsByProductAndSession(t *testing.T) {
	day := timeutil.StartOfDay(timeutil.Now())
	svc, _, _ := newBillingFixture([]*models.AuctionItem{
		unbilledItem(10, 100, "Tomato", 10, 25, day),
		unbilledItem(20, 100, "Potato", 40, 12, day),
		unbilledItem(10, 100, "Tomato", 15, 30, day),
		unbilledItem(10, 200, "Tomato", 5, 28, day.AddDate(0, 0, -1)),
	}, 5)

	resp, err := svc.Preview(context.Background(), 7, 1, 0, 0)
	require.NoError(t, err)
	require.Len(t, resp.Previews, 3)

	// Groups keep first-seen order
	assert.Equal(t, 10, resp.Previews[0].ProductID)
	assert.Equal(t, 100, resp.Previews[0].SessionID)
	assert.Equal(t, 20, resp.Previews[1].ProductID)
	assert.Equal(t, 200, resp.Previews[2].SessionID)

	first := resp.Previews[0]
	assert.Equal(t, 2, first.ItemCount)
	assert.Equal(t, 2, first.Bags)
	assert.InDelta(t, 25, first.TotalQuantity, 0.001)
	assert.InDelta(t, 700, first.GrossAmount, 0.001) // 10*25 + 15*30
	assert.InDelta(t, 35, first.CommissionAmount, 0.001)
	assert.NotEmpty(t, first.SuggestedCharges)

	assert.Equal(t, 3, resp.Summary.PreviewCount)
	assert.Equal(t, 4, resp.Summary.ItemCount)
	assert.InDelta(t, 700+480+140, resp.Summary.TotalGross, 0.001)
}

func TestPreviewSuggestedChargesReduceNet(t *testing.T) {
	day := timeutil.StartOfDay(timeutil.Now())
	svc, _, _ := newBillingFixture([]*models.AuctionItem{
		unbilledItem(10, 100, "Tomato", 100, 10, day),
	}, 5)

	resp, err := svc.Preview(context.Background(), 7, 1, 0, 0)
	require.NoError(t, err)
	require.Len(t, resp.Previews, 1)

	p := resp.Previews[0]
	assert.InDelta(t, 1000, p.GrossAmount, 0.001)
	expectedNet := p.GrossAmount - p.CommissionAmount - p.SuggestedCharges.Total()
	assert.InDelta(t, expectedNet, p.NetPayable, 0.001)
}

func TestPreviewNoItems(t *testing.T) {
	svc, _, _ := newBillingFixture(nil, 5)

	resp, err := svc.Preview(context.Background(), 7, 1, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, resp.Previews)
	assert.Equal(t, 0, resp.Summary.PreviewCount)
	assert.Equal(t, "Ramesh", resp.Farmer.Name)
}

func TestPreviewUnknownFarmer(t *testing.T) {
	svc, _, _ := newBillingFixture(nil, 5)

	_, err := svc.Preview(context.Background(), 7, 42, 0, 0)
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestGeneratePartialSuccess(t *testing.T) {
	day := timeutil.StartOfDay(timeutil.Now())
	svc, _, tx := newBillingFixture(nil, 5)
	tx.unbilled[[2]int{10, 100}] = []*models.AuctionItem{
		unbilledItem(10, 100, "Tomato", 25, 25, day),
	}

	resp, err := svc.Generate(context.Background(), 7, &models.GenerateBillsRequest{
		FarmerID: 1,
		Previews: []models.GenerateBillsPreview{
			{ProductID: 10, SessionID: 100},
			{ProductID: 20, SessionID: 100},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalGenerated)
	assert.Equal(t, 1, resp.TotalErrors)
	assert.Contains(t, resp.Errors[0].Reason, "no unbilled")
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestGenerateExistingBillReportsDuplicate(t *testing.T) {
	// After a successful generate the items carry a bill_id, so the unbilled
	// fetch comes back empty. The duplicate check still has to win: the
	// operator must see "already exists", not "no items".
	day := timeutil.StartOfDay(timeutil.Now())
	svc, _, tx := newBillingFixture(nil, 5)
	tx.existing[[3]int{1, 10, 100}] = true
	tx.unbilled[[2]int{20, 100}] = []*models.AuctionItem{
		unbilledItem(20, 100, "Potato", 40, 12, day),
	}

	resp, err := svc.Generate(context.Background(), 7, &models.GenerateBillsRequest{
		FarmerID: 1,
		Previews: []models.GenerateBillsPreview{
			{ProductID: 10, SessionID: 100},
			{ProductID: 20, SessionID: 100},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalGenerated)
	require.Equal(t, 1, resp.TotalErrors)
	assert.Equal(t, 10, resp.Errors[0].ProductID)
	assert.Contains(t, resp.Errors[0].Reason, "already exists")
}

func TestGenerateRepeatedPreviewInBatch(t *testing.T) {
	// The same (product, session) submitted twice: the first generates, the
	// second reports a duplicate, and the batch still commits.
	day := timeutil.StartOfDay(timeutil.Now())
	svc, _, tx := newBillingFixture(nil, 5)
	tx.unbilled[[2]int{10, 100}] = []*models.AuctionItem{
		unbilledItem(10, 100, "Tomato", 25, 25, day),
	}

	resp, err := svc.Generate(context.Background(), 7, &models.GenerateBillsRequest{
		FarmerID: 1,
		Previews: []models.GenerateBillsPreview{
			{ProductID: 10, SessionID: 100},
			{ProductID: 10, SessionID: 100},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalGenerated)
	require.Equal(t, 1, resp.TotalErrors)
	assert.Contains(t, resp.Errors[0].Reason, "already exists")
	assert.Len(t, tx.inserted, 1)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestGenerateSequentialNumbersAndAmounts(t *testing.T) {
	day := timeutil.StartOfDay(timeutil.Now())
	svc, _, tx := newBillingFixture(nil, 5)
	tx.highest = "BILL007"
	tx.unbilled[[2]int{10, 100}] = []*models.AuctionItem{
		unbilledItem(10, 100, "Tomato", 25, 25, day),
	}
	tx.unbilled[[2]int{20, 100}] = []*models.AuctionItem{
		unbilledItem(20, 100, "Potato", 40, 12, day),
	}

	resp, err := svc.Generate(context.Background(), 7, &models.GenerateBillsRequest{
		FarmerID: 1,
		Previews: []models.GenerateBillsPreview{
			{ProductID: 10, SessionID: 100, OtherCharges: models.OtherCharges{"transport_cost": 20}},
			{ProductID: 20, SessionID: 100},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, resp.TotalGenerated)
	assert.Equal(t, "BILL008", resp.GeneratedBills[0].BillNumber)
	assert.Equal(t, "BILL009", resp.GeneratedBills[1].BillNumber)

	// 25*25 gross, 5% commission, submitted charges applied verbatim
	first := resp.GeneratedBills[0]
	assert.InDelta(t, 625, first.GrossAmount, 0.001)
	assert.InDelta(t, 31.25, first.CommissionAmount, 0.001)
	assert.InDelta(t, 625-31.25-20, first.NetPayable, 0.001)
	assert.Equal(t, models.BillStatusUnpaid, first.PaymentStatus)
}

func TestGenerateRecomputesEachSessionOnce(t *testing.T) {
	day := timeutil.StartOfDay(timeutil.Now())
	svc, _, tx := newBillingFixture(nil, 5)
	tx.unbilled[[2]int{10, 100}] = []*models.AuctionItem{
		unbilledItem(10, 100, "Tomato", 25, 25, day),
	}
	tx.unbilled[[2]int{20, 100}] = []*models.AuctionItem{
		unbilledItem(20, 100, "Potato", 40, 12, day),
	}

	resp, err := svc.Generate(context.Background(), 7, &models.GenerateBillsRequest{
		FarmerID: 1,
		Previews: []models.GenerateBillsPreview{
			{ProductID: 10, SessionID: 100},
			{ProductID: 20, SessionID: 100},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalGenerated)
	assert.Equal(t, []int{100}, tx.recomputed)
	assert.Len(t, tx.linked, 2)
}

func TestGenerateAllFailedIsConflict(t *testing.T) {
	svc, _, tx := newBillingFixture(nil, 5)

	_, err := svc.Generate(context.Background(), 7, &models.GenerateBillsRequest{
		FarmerID: 1,
		Previews: []models.GenerateBillsPreview{{ProductID: 10, SessionID: 100}},
	})
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
	assert.Contains(t, appErr.Message, "no unbilled")
	assert.Empty(t, tx.inserted)
}

func TestGenerateUnknownFarmer(t *testing.T) {
	svc, _, _ := newBillingFixture(nil, 5)

	_, err := svc.Generate(context.Background(), 7, &models.GenerateBillsRequest{FarmerID: 42})
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestPayMultipleDropsRepeatedIDs(t *testing.T) {
	svc, bills, _ := newBillingFixture(nil, 5)

	resp, err := svc.PayMultiple(context.Background(), 7, &models.PayBillsRequest{
		BillIDs:       []int{3, 3, 5},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 5}, bills.paidRequest.BillIDs)
	assert.Equal(t, 2, resp.TotalPaid)
}

func TestPrintFormats(t *testing.T) {
	svc, bills, _ := newBillingFixture(nil, 5)
	bills.receiptData = &billing.ReceiptData{
		Bill: &models.Bill{
			ID: 1, BillNumber: "BILL007",
			GrossAmount: 625, CommissionAmount: 31.25, NetPayable: 573.75,
			OtherCharges:  models.OtherCharges{"transport_cost": 20},
			PaymentStatus: models.BillStatusUnpaid,
		},
		FarmerName:  "Ramesh",
		ProductName: "Tomato",
		SessionDate: timeutil.Now(),
		Groups:      []billing.RateGroup{{Rate: 25, Quantities: []float64{25}, Bags: 1, Amount: 625}},
	}

	body, contentType, err := svc.Print(context.Background(), 1, 7, "")
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=utf-8", contentType)
	assert.Contains(t, string(body), "BILL007")

	body, contentType, err = svc.Print(context.Background(), 1, 7, "text")
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", contentType)
	assert.Contains(t, string(body), "NET PAYABLE")

	body, contentType, err = svc.Print(context.Background(), 1, 7, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, len(body) > 0)

	_, _, err = svc.Print(context.Background(), 1, 7, "csv")
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
}
