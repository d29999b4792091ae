package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mandi-backend/internal/apperrors"
	"mandi-backend/internal/models"
)

type BuyerRepository struct {
	DB *pgxpool.Pool
}

func NewBuyerRepository(db *pgxpool.Pool) *BuyerRepository {
	return &BuyerRepository{DB: db}
}

func (r *BuyerRepository) Create(ctx context.Context, b *models.Buyer) error {
	query := `
		INSERT INTO buyers (commissioner_id, name, phone, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, is_active, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query,
		b.CommissionerID, b.Name, b.Phone,
	).Scan(&b.ID, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
}

func (r *BuyerRepository) Get(ctx context.Context, id, commissionerID int) (*models.Buyer, error) {
	query := `
		SELECT id, commissioner_id, name, phone, is_active, created_at, updated_at
		FROM buyers WHERE id = $1 AND commissioner_id = $2
	`
	b := &models.Buyer{}
	err := r.DB.QueryRow(ctx, query, id, commissionerID).Scan(
		&b.ID, &b.CommissionerID, &b.Name, &b.Phone, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("buyer not found")
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BuyerRepository) List(ctx context.Context, commissionerID int) ([]*models.Buyer, error) {
	query := `
		SELECT id, commissioner_id, name, phone, is_active, created_at, updated_at
		FROM buyers WHERE commissioner_id = $1 ORDER BY name
	`
	rows, err := r.DB.Query(ctx, query, commissionerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buyers []*models.Buyer
	for rows.Next() {
		b := &models.Buyer{}
		err := rows.Scan(
			&b.ID, &b.CommissionerID, &b.Name, &b.Phone, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		buyers = append(buyers, b)
	}
	return buyers, rows.Err()
}

func (r *BuyerRepository) Update(ctx context.Context, b *models.Buyer) error {
	query := `
		UPDATE buyers
		SET name = $1, phone = $2, is_active = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4 AND commissioner_id = $5
		RETURNING updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		b.Name, b.Phone, b.IsActive, b.ID, b.CommissionerID,
	).Scan(&b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound("buyer not found")
	}
	return err
}

// Delete removes a buyer unless auction items still reference them.
func (r *BuyerRepository) Delete(ctx context.Context, id, commissionerID int) error {
	var itemRefs int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM auction_items WHERE buyer_id = $1`, id).Scan(&itemRefs)
	if err != nil {
		return err
	}
	if itemRefs > 0 {
		return apperrors.Conflictf("buyer is referenced by %d auction item(s)", itemRefs)
	}

	tag, err := r.DB.Exec(ctx,
		`DELETE FROM buyers WHERE id = $1 AND commissioner_id = $2`, id, commissionerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("buyer not found")
	}
	return nil
}
