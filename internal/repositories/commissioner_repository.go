package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"mandi-backend/internal/apperrors"
	"mandi-backend/internal/models"
)

type CommissionerRepository struct {
	DB *pgxpool.Pool
}

func NewCommissionerRepository(db *pgxpool.Pool) *CommissionerRepository {
	return &CommissionerRepository{DB: db}
}

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation, optionally on the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

func (r *CommissionerRepository) Create(ctx context.Context, c *models.Commissioner) error {
	query := `
		INSERT INTO commissioners (name, email, phone, location, password_hash, commission_rate)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		c.Name, c.Email, c.Phone, c.Location, c.PasswordHash, c.CommissionRate,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if isUniqueViolation(err, "") {
		return apperrors.Conflict("an account with this email already exists")
	}
	return err
}

func (r *CommissionerRepository) Get(ctx context.Context, id int) (*models.Commissioner, error) {
	query := `
		SELECT id, name, email, phone, location, password_hash, commission_rate, created_at, updated_at
		FROM commissioners WHERE id = $1
	`
	c := &models.Commissioner{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Location,
		&c.PasswordHash, &c.CommissionRate, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("commissioner not found")
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CommissionerRepository) GetByEmail(ctx context.Context, email string) (*models.Commissioner, error) {
	query := `
		SELECT id, name, email, phone, location, password_hash, commission_rate, created_at, updated_at
		FROM commissioners WHERE email = $1
	`
	c := &models.Commissioner{}
	err := r.DB.QueryRow(ctx, query, email).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Location,
		&c.PasswordHash, &c.CommissionRate, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("commissioner not found")
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CommissionerRepository) UpdateProfile(ctx context.Context, c *models.Commissioner) error {
	query := `
		UPDATE commissioners
		SET name = $1, phone = $2, location = $3, commission_rate = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
		RETURNING updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		c.Name, c.Phone, c.Location, c.CommissionRate, c.ID,
	).Scan(&c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound("commissioner not found")
	}
	return err
}

func (r *CommissionerRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE commissioners SET password_hash = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("commissioner not found")
	}
	return nil
}
