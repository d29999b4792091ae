package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"mandi-backend/internal/apperrors"
	"mandi-backend/internal/models"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so item queries can
// run inside the bill-generation transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type AuctionItemRepository struct {
	DB *pgxpool.Pool
}

func NewAuctionItemRepository(db *pgxpool.Pool) *AuctionItemRepository {
	return &AuctionItemRepository{DB: db}
}

// recomputeSessionPaymentStatus re-derives the session's aggregate payment
// status from its items: COMPLETED when no item is missing a bill_id. It must
// run inside the same transaction as the item mutation that made it stale —
// the session validator depends on it being current on the very next request.
func recomputeSessionPaymentStatus(ctx context.Context, q querier, sessionID int) error {
	var unbilled int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM auction_items WHERE session_id = $1 AND bill_id IS NULL`,
		sessionID).Scan(&unbilled)
	if err != nil {
		return err
	}

	status := models.PaymentStatusCompleted
	if unbilled > 0 {
		status = models.PaymentStatusPending
	}

	_, err = q.Exec(ctx, `
		UPDATE auction_sessions
		SET payment_status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND payment_status <> $1
	`, status, sessionID)
	return err
}

const auctionItemColumns = `
	i.id, i.session_id, i.farmer_id, i.product_id, i.buyer_id, i.unit,
	i.quantity, i.rate, i.bill_id, i.created_at, i.updated_at,
	COALESCE(f.name, ''), COALESCE(p.name, ''), COALESCE(b.name, '')
`

const auctionItemJoins = `
	FROM auction_items i
	LEFT JOIN farmers f ON i.farmer_id = f.id
	LEFT JOIN products p ON i.product_id = p.id
	LEFT JOIN buyers b ON i.buyer_id = b.id
`

func scanAuctionItem(row pgx.Row) (*models.AuctionItem, error) {
	i := &models.AuctionItem{}
	err := row.Scan(
		&i.ID, &i.SessionID, &i.FarmerID, &i.ProductID, &i.BuyerID, &i.Unit,
		&i.Quantity, &i.Rate, &i.BillID, &i.CreatedAt, &i.UpdatedAt,
		&i.FarmerName, &i.ProductName, &i.BuyerName,
	)
	if err != nil {
		return nil, err
	}
	return i, nil
}

// Create inserts an item and recomputes the owning session's payment status
// in one transaction. A new item is always unbilled, so the session drops
// back to PENDING.
func (r *AuctionItemRepository) Create(ctx context.Context, item *models.AuctionItem) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO auction_items (session_id, farmer_id, product_id, buyer_id, unit, quantity, rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		item.SessionID, item.FarmerID, item.ProductID, item.BuyerID,
		item.Unit, item.Quantity, item.Rate,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return err
	}

	if err := recomputeSessionPaymentStatus(ctx, tx, item.SessionID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *AuctionItemRepository) Get(ctx context.Context, id int) (*models.AuctionItem, error) {
	item, err := scanAuctionItem(r.DB.QueryRow(ctx,
		`SELECT `+auctionItemColumns+auctionItemJoins+` WHERE i.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("auction item not found")
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetForCommissioner fetches an item only if its session belongs to the
// commissioner; anything else is NotFound.
func (r *AuctionItemRepository) GetForCommissioner(ctx context.Context, id, commissionerID int) (*models.AuctionItem, error) {
	item, err := scanAuctionItem(r.DB.QueryRow(ctx, `
		SELECT `+auctionItemColumns+auctionItemJoins+`
		JOIN auction_sessions s ON i.session_id = s.id
		WHERE i.id = $1 AND s.commissioner_id = $2
	`, id, commissionerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("auction item not found")
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *AuctionItemRepository) ListBySession(ctx context.Context, sessionID int) ([]*models.AuctionItem, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+auctionItemColumns+auctionItemJoins+` WHERE i.session_id = $1 ORDER BY i.id`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.AuctionItem
	for rows.Next() {
		item, err := scanAuctionItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Update rewrites a draft or completed item. Billed items are frozen; the
// service layer rejects them first, and the WHERE clause backstops it.
func (r *AuctionItemRepository) Update(ctx context.Context, item *models.AuctionItem) error {
	query := `
		UPDATE auction_items
		SET farmer_id = $1, product_id = $2, buyer_id = $3, unit = $4,
		    quantity = $5, rate = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $7 AND bill_id IS NULL
		RETURNING updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		item.FarmerID, item.ProductID, item.BuyerID, item.Unit,
		item.Quantity, item.Rate, item.ID,
	).Scan(&item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.Conflict("auction item is billed and cannot be updated")
	}
	return err
}

// Complete attaches the sale outcome (buyer and rate) to an item.
func (r *AuctionItemRepository) Complete(ctx context.Context, id, buyerID int, rate float64) error {
	query := `
		UPDATE auction_items
		SET buyer_id = $1, rate = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3 AND bill_id IS NULL
	`
	tag, err := r.DB.Exec(ctx, query, buyerID, rate, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Conflict("auction item is billed and cannot be completed")
	}
	return nil
}

// Delete removes an unbilled item and recomputes the session's payment
// status in the same transaction.
func (r *AuctionItemRepository) Delete(ctx context.Context, id, sessionID int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM auction_items WHERE id = $1 AND session_id = $2 AND bill_id IS NULL`,
		id, sessionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Conflict("auction item is billed or missing and cannot be deleted")
	}

	if err := recomputeSessionPaymentStatus(ctx, tx, sessionID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

const unbilledItemFilter = `
	i.bill_id IS NULL
	AND i.rate IS NOT NULL
	AND i.buyer_id IS NOT NULL
	AND i.farmer_id = $1
	AND s.commissioner_id = $2
	AND ($3 = 0 OR i.product_id = $3)
	AND ($4 = 0 OR i.session_id = $4)
`

// selectUnbilledItems fetches completed-but-unbilled items for a farmer under
// a commissioner's sessions, optionally narrowed to one product and/or
// session (zero means no filter). Shared between the preview read and the
// generate transaction so both see the same candidate set.
func selectUnbilledItems(ctx context.Context, q querier, farmerID, commissionerID, productID, sessionID int) ([]*models.AuctionItem, error) {
	rows, err := q.Query(ctx, `
		SELECT i.id, i.session_id, i.farmer_id, i.product_id, i.buyer_id, i.unit,
		       i.quantity, i.rate, i.bill_id, i.created_at, i.updated_at,
		       COALESCE(f.name, ''), COALESCE(p.name, ''), s.session_date
		FROM auction_items i
		JOIN auction_sessions s ON i.session_id = s.id
		LEFT JOIN farmers f ON i.farmer_id = f.id
		LEFT JOIN products p ON i.product_id = p.id
		WHERE `+unbilledItemFilter+`
		ORDER BY i.session_id, i.product_id, i.id
	`, farmerID, commissionerID, productID, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.AuctionItem
	for rows.Next() {
		i := &models.AuctionItem{}
		err := rows.Scan(
			&i.ID, &i.SessionID, &i.FarmerID, &i.ProductID, &i.BuyerID, &i.Unit,
			&i.Quantity, &i.Rate, &i.BillID, &i.CreatedAt, &i.UpdatedAt,
			&i.FarmerName, &i.ProductName, &i.SessionDate,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// ListUnbilledForFarmer is the pool-backed entry point used by preview.
func (r *AuctionItemRepository) ListUnbilledForFarmer(ctx context.Context, farmerID, commissionerID, productID, sessionID int) ([]*models.AuctionItem, error) {
	return selectUnbilledItems(ctx, r.DB, farmerID, commissionerID, productID, sessionID)
}
