package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mandi-backend/internal/apperrors"
	"mandi-backend/internal/models"
)

type SessionRepository struct {
	DB *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{DB: db}
}

// Create inserts a new ACTIVE session. The partial unique index on
// (commissioner_id, session_date) WHERE status='ACTIVE' enforces one active
// session per commissioner per date; violations surface as a conflict.
func (r *SessionRepository) Create(ctx context.Context, s *models.AuctionSession) error {
	query := `
		INSERT INTO auction_sessions (commissioner_id, session_date, status, payment_status)
		VALUES ($1, $2, 'ACTIVE', 'PENDING')
		RETURNING id, status, payment_status, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query, s.CommissionerID, s.SessionDate).Scan(
		&s.ID, &s.Status, &s.PaymentStatus, &s.CreatedAt, &s.UpdatedAt,
	)
	if isUniqueViolation(err, "uniq_active_session_per_date") {
		return apperrors.Conflict("an active session already exists for this date")
	}
	return err
}

func (r *SessionRepository) Get(ctx context.Context, id, commissionerID int) (*models.AuctionSession, error) {
	query := `
		SELECT s.id, s.commissioner_id, s.session_date, s.status, s.payment_status,
		       (SELECT COUNT(*) FROM auction_items i WHERE i.session_id = s.id),
		       s.created_at, s.updated_at
		FROM auction_sessions s
		WHERE s.id = $1 AND s.commissioner_id = $2
	`
	s := &models.AuctionSession{}
	err := r.DB.QueryRow(ctx, query, id, commissionerID).Scan(
		&s.ID, &s.CommissionerID, &s.SessionDate, &s.Status, &s.PaymentStatus,
		&s.ItemCount, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("session not found")
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List returns the commissioner's sessions, optionally filtered by payment status.
func (r *SessionRepository) List(ctx context.Context, commissionerID int, paymentStatus string) ([]*models.AuctionSession, error) {
	query := `
		SELECT s.id, s.commissioner_id, s.session_date, s.status, s.payment_status,
		       (SELECT COUNT(*) FROM auction_items i WHERE i.session_id = s.id),
		       s.created_at, s.updated_at
		FROM auction_sessions s
		WHERE s.commissioner_id = $1
		  AND ($2 = '' OR s.payment_status = $2)
		ORDER BY s.session_date DESC, s.id DESC
	`
	rows, err := r.DB.Query(ctx, query, commissionerID, paymentStatus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.AuctionSession
	for rows.Next() {
		s := &models.AuctionSession{}
		err := rows.Scan(
			&s.ID, &s.CommissionerID, &s.SessionDate, &s.Status, &s.PaymentStatus,
			&s.ItemCount, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *SessionRepository) Update(ctx context.Context, s *models.AuctionSession) error {
	query := `
		UPDATE auction_sessions
		SET session_date = $1, status = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3 AND commissioner_id = $4
		RETURNING updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		s.SessionDate, s.Status, s.ID, s.CommissionerID,
	).Scan(&s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound("session not found")
	}
	if isUniqueViolation(err, "uniq_active_session_per_date") {
		return apperrors.Conflict("an active session already exists for this date")
	}
	return err
}

// Delete removes a session, its items, and its bills in one transaction.
// Callers must have passed the session through the validator first: a session
// is deletable either empty or fully reconciled, and in the reconciled case
// the bills go with it.
func (r *SessionRepository) Delete(ctx context.Context, id, commissionerID int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM auction_items WHERE session_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM bills WHERE session_id = $1`, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM auction_sessions WHERE id = $1 AND commissioner_id = $2`, id, commissionerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("session not found")
	}

	return tx.Commit(ctx)
}

// CountItems returns the number of auction items in a session.
func (r *SessionRepository) CountItems(ctx context.Context, sessionID int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM auction_items WHERE session_id = $1`, sessionID).Scan(&count)
	return count, err
}
