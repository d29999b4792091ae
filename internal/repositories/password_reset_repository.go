package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mandi-backend/internal/apperrors"
	"mandi-backend/internal/models"
)

type PasswordResetRepository struct {
	DB *pgxpool.Pool
}

func NewPasswordResetRepository(db *pgxpool.Pool) *PasswordResetRepository {
	return &PasswordResetRepository{DB: db}
}

func (r *PasswordResetRepository) Create(ctx context.Context, reset *models.PasswordReset) error {
	query := `
		INSERT INTO password_resets (commissioner_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(ctx, query, reset.CommissionerID, reset.Token, reset.ExpiresAt).
		Scan(&reset.ID, &reset.CreatedAt)
}

// GetByToken returns an unused, unexpired reset. Expired and consumed tokens
// are indistinguishable from unknown ones.
func (r *PasswordResetRepository) GetByToken(ctx context.Context, token string) (*models.PasswordReset, error) {
	reset := &models.PasswordReset{}
	query := `
		SELECT id, commissioner_id, token, expires_at, used, created_at
		FROM password_resets
		WHERE token = $1 AND used = FALSE AND expires_at > CURRENT_TIMESTAMP
	`
	err := r.DB.QueryRow(ctx, query, token).Scan(
		&reset.ID, &reset.CommissionerID, &reset.Token,
		&reset.ExpiresAt, &reset.Used, &reset.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.Validation("invalid or expired reset token")
	}
	if err != nil {
		return nil, err
	}
	return reset, nil
}

func (r *PasswordResetRepository) MarkUsed(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `UPDATE password_resets SET used = TRUE WHERE id = $1`, id)
	return err
}
