package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mandi-backend/internal/apperrors"
	"mandi-backend/internal/models"
)

type FarmerRepository struct {
	DB *pgxpool.Pool
}

func NewFarmerRepository(db *pgxpool.Pool) *FarmerRepository {
	return &FarmerRepository{DB: db}
}

func (r *FarmerRepository) Create(ctx context.Context, f *models.Farmer) error {
	query := `
		INSERT INTO farmers (commissioner_id, name, phone, village, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, is_active, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query,
		f.CommissionerID, f.Name, f.Phone, f.Village,
	).Scan(&f.ID, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
}

func (r *FarmerRepository) Get(ctx context.Context, id, commissionerID int) (*models.Farmer, error) {
	query := `
		SELECT id, commissioner_id, name, phone, village, is_active, created_at, updated_at
		FROM farmers WHERE id = $1 AND commissioner_id = $2
	`
	f := &models.Farmer{}
	err := r.DB.QueryRow(ctx, query, id, commissionerID).Scan(
		&f.ID, &f.CommissionerID, &f.Name, &f.Phone, &f.Village,
		&f.IsActive, &f.CreatedAt, &f.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("farmer not found")
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *FarmerRepository) List(ctx context.Context, commissionerID int) ([]*models.Farmer, error) {
	query := `
		SELECT id, commissioner_id, name, phone, village, is_active, created_at, updated_at
		FROM farmers WHERE commissioner_id = $1 ORDER BY name
	`
	rows, err := r.DB.Query(ctx, query, commissionerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var farmers []*models.Farmer
	for rows.Next() {
		f := &models.Farmer{}
		err := rows.Scan(
			&f.ID, &f.CommissionerID, &f.Name, &f.Phone, &f.Village,
			&f.IsActive, &f.CreatedAt, &f.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		farmers = append(farmers, f)
	}
	return farmers, rows.Err()
}

func (r *FarmerRepository) Update(ctx context.Context, f *models.Farmer) error {
	query := `
		UPDATE farmers
		SET name = $1, phone = $2, village = $3, is_active = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5 AND commissioner_id = $6
		RETURNING updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		f.Name, f.Phone, f.Village, f.IsActive, f.ID, f.CommissionerID,
	).Scan(&f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound("farmer not found")
	}
	return err
}

// Delete removes a farmer unless auction items or bills still reference them.
func (r *FarmerRepository) Delete(ctx context.Context, id, commissionerID int) error {
	var itemRefs, billRefs int
	err := r.DB.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM auction_items WHERE farmer_id = $1),
			(SELECT COUNT(*) FROM bills WHERE farmer_id = $1)
	`, id).Scan(&itemRefs, &billRefs)
	if err != nil {
		return err
	}
	if itemRefs > 0 || billRefs > 0 {
		return apperrors.Conflictf("farmer is referenced by %d auction item(s) and %d bill(s)", itemRefs, billRefs)
	}

	tag, err := r.DB.Exec(ctx,
		`DELETE FROM farmers WHERE id = $1 AND commissioner_id = $2`, id, commissionerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("farmer not found")
	}
	return nil
}
