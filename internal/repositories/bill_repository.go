package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mandi-backend/internal/apperrors"
	"mandi-backend/internal/billing"
	"mandi-backend/internal/models"
	"mandi-backend/internal/timeutil"
)

type BillRepository struct {
	DB *pgxpool.Pool
}

func NewBillRepository(db *pgxpool.Pool) *BillRepository {
	return &BillRepository{DB: db}
}

const billColumns = `
	b.id, b.commissioner_id, b.bill_number, b.farmer_id, b.product_id, b.session_id,
	b.total_quantity, b.gross_amount, b.commission_rate, b.commission_amount,
	b.other_charges, b.net_payable, b.payment_status, COALESCE(b.payment_method, ''),
	b.payment_date, COALESCE(b.notes, ''), b.created_at, b.updated_at,
	COALESCE(f.name, ''), COALESCE(p.name, ''), s.session_date
`

const billJoins = `
	FROM bills b
	LEFT JOIN farmers f ON b.farmer_id = f.id
	LEFT JOIN products p ON b.product_id = p.id
	LEFT JOIN auction_sessions s ON b.session_id = s.id
`

func scanBill(row pgx.Row) (*models.Bill, error) {
	b := &models.Bill{}
	var chargesJSON []byte
	err := row.Scan(
		&b.ID, &b.CommissionerID, &b.BillNumber, &b.FarmerID, &b.ProductID, &b.SessionID,
		&b.TotalQuantity, &b.GrossAmount, &b.CommissionRate, &b.CommissionAmount,
		&chargesJSON, &b.NetPayable, &b.PaymentStatus, &b.PaymentMethod,
		&b.PaymentDate, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
		&b.FarmerName, &b.ProductName, &b.SessionDate,
	)
	if err != nil {
		return nil, err
	}
	if len(chargesJSON) > 0 {
		if err := json.Unmarshal(chargesJSON, &b.OtherCharges); err != nil {
			return nil, fmt.Errorf("decoding other_charges for bill %d: %w", b.ID, err)
		}
	}
	if b.OtherCharges == nil {
		b.OtherCharges = models.OtherCharges{}
	}
	return b, nil
}

func (r *BillRepository) Get(ctx context.Context, id, commissionerID int) (*models.Bill, error) {
	bill, err := scanBill(r.DB.QueryRow(ctx,
		`SELECT `+billColumns+billJoins+` WHERE b.id = $1 AND b.commissioner_id = $2`,
		id, commissionerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("bill not found")
	}
	if err != nil {
		return nil, err
	}
	return bill, nil
}

// List returns the commissioner's bills, newest first. paymentStatus and
// farmerID narrow the result when non-zero.
func (r *BillRepository) List(ctx context.Context, commissionerID int, paymentStatus string, farmerID int) ([]*models.Bill, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+billColumns+billJoins+`
		WHERE b.commissioner_id = $1
		  AND ($2 = '' OR b.payment_status = $2)
		  AND ($3 = 0 OR b.farmer_id = $3)
		ORDER BY b.created_at DESC, b.id DESC
	`, commissionerID, paymentStatus, farmerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	return bills, rows.Err()
}

// highestBillNumber reads the numerically greatest existing bill number.
// Lexicographic MAX breaks past BILL999 (BILL999 > BILL1000), so order by
// length first.
func highestBillNumber(ctx context.Context, q querier) (string, error) {
	var number string
	err := q.QueryRow(ctx, `
		SELECT bill_number FROM bills
		ORDER BY LENGTH(bill_number) DESC, bill_number DESC
		LIMIT 1
	`).Scan(&number)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return number, err
}

// BillGenerationTx is one open transaction for a bill-generation batch. The
// billing service drives the per-preview steps; everything here reads and
// writes through the same pgx transaction, so bills inserted for earlier
// previews are visible to later duplicate checks in the batch.
type BillGenerationTx struct {
	tx pgx.Tx
}

func (r *BillRepository) BeginGeneration(ctx context.Context) (*BillGenerationTx, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &BillGenerationTx{tx: tx}, nil
}

func (g *BillGenerationTx) BillExists(ctx context.Context, farmerID, productID, sessionID int) (bool, error) {
	var exists bool
	err := g.tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bills
			WHERE farmer_id = $1 AND product_id = $2 AND session_id = $3
		)
	`, farmerID, productID, sessionID).Scan(&exists)
	return exists, err
}

// UnbilledItems re-fetches the candidate items live: the frontend's preview
// is advisory, the rows read here are authoritative.
func (g *BillGenerationTx) UnbilledItems(ctx context.Context, farmerID, commissionerID, productID, sessionID int) ([]*models.AuctionItem, error) {
	return selectUnbilledItems(ctx, g.tx, farmerID, commissionerID, productID, sessionID)
}

func (g *BillGenerationTx) HighestBillNumber(ctx context.Context) (string, error) {
	return highestBillNumber(ctx, g.tx)
}

func (g *BillGenerationTx) InsertBill(ctx context.Context, bill *models.Bill) error {
	chargesJSON, err := json.Marshal(bill.OtherCharges)
	if err != nil {
		return err
	}

	err = g.tx.QueryRow(ctx, `
		INSERT INTO bills (commissioner_id, bill_number, farmer_id, product_id, session_id,
		                   total_quantity, gross_amount, commission_rate, commission_amount,
		                   other_charges, net_payable, payment_status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, bill.CommissionerID, bill.BillNumber, bill.FarmerID, bill.ProductID, bill.SessionID,
		bill.TotalQuantity, bill.GrossAmount, bill.CommissionRate, bill.CommissionAmount,
		chargesJSON, bill.NetPayable, bill.PaymentStatus, bill.Notes,
	).Scan(&bill.ID, &bill.CreatedAt, &bill.UpdatedAt)
	// The in-tx duplicate check cannot see other transactions' uncommitted
	// bills; the unique constraints catch a genuine cross-request race.
	if isUniqueViolation(err, "") {
		return apperrors.Conflict("bill generation raced with another request, retry")
	}
	return err
}

func (g *BillGenerationTx) LinkItems(ctx context.Context, billID int, itemIDs []int) error {
	_, err := g.tx.Exec(ctx, `
		UPDATE auction_items
		SET bill_id = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ANY($2) AND bill_id IS NULL
	`, billID, itemIDs)
	return err
}

func (g *BillGenerationTx) RecomputeSessionPaymentStatus(ctx context.Context, sessionID int) error {
	return recomputeSessionPaymentStatus(ctx, g.tx, sessionID)
}

func (g *BillGenerationTx) Commit(ctx context.Context) error {
	return g.tx.Commit(ctx)
}

func (g *BillGenerationTx) Rollback(ctx context.Context) error {
	return g.tx.Rollback(ctx)
}

// MarkPaid settles a batch of bills atomically: every bill must exist under
// the commissioner and be UNPAID, or nothing is changed.
func (r *BillRepository) MarkPaid(ctx context.Context, commissionerID int, req *models.PayBillsRequest) (*models.PayBillsResponse, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT id, bill_number, payment_status FROM bills
		WHERE id = ANY($1) AND commissioner_id = $2
		FOR UPDATE
	`, req.BillIDs, commissionerID)
	if err != nil {
		return nil, err
	}

	found := make(map[int]string)
	for rows.Next() {
		var id int
		var number, status string
		if err := rows.Scan(&id, &number, &status); err != nil {
			rows.Close()
			return nil, err
		}
		if status == models.BillStatusPaid {
			rows.Close()
			return nil, apperrors.Conflictf("bill %s is already paid", number)
		}
		found[id] = number
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, id := range req.BillIDs {
		if _, ok := found[id]; !ok {
			return nil, apperrors.NotFoundf("bill %d not found", id)
		}
	}

	paidAt := timeutil.Now()
	_, err = tx.Exec(ctx, `
		UPDATE bills
		SET payment_status = $1, payment_method = $2, payment_date = $3,
		    notes = CASE WHEN $4 = '' THEN notes ELSE $4 END,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ANY($5)
	`, models.BillStatusPaid, req.PaymentMethod, paidAt, req.Notes, req.BillIDs)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	resp := &models.PayBillsResponse{
		PaymentDate:   paidAt.Format(timeutil.DisplayLayout),
		PaymentMethod: req.PaymentMethod,
	}
	for _, id := range req.BillIDs {
		bill, err := r.Get(ctx, id, commissionerID)
		if err != nil {
			return nil, err
		}
		resp.PaidBills = append(resp.PaidBills, bill)
		resp.TotalAmount += bill.NetPayable
	}
	resp.TotalPaid = len(resp.PaidBills)
	return resp, nil
}

// GetReceiptData loads everything the print formatters need: the bill, its
// joined display names and the billed items regrouped by rate.
func (r *BillRepository) GetReceiptData(ctx context.Context, id, commissionerID int) (*billing.ReceiptData, error) {
	bill, err := r.Get(ctx, id, commissionerID)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx,
		`SELECT quantity, rate FROM auction_items WHERE bill_id = $1 ORDER BY id`, bill.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rated []billing.RatedItem
	for rows.Next() {
		var item billing.RatedItem
		if err := rows.Scan(&item.Quantity, &item.Rate); err != nil {
			return nil, err
		}
		rated = append(rated, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	data := &billing.ReceiptData{
		Bill:        bill,
		FarmerName:  bill.FarmerName,
		ProductName: bill.ProductName,
		Groups:      billing.GroupQuantitiesByRate(rated),
	}
	if bill.SessionDate != nil {
		data.SessionDate = *bill.SessionDate
	}
	return data, nil
}
