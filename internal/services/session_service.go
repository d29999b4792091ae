package services

import (
	"context"
	"fmt"
	"strings"

	"mandi-backend/internal/apperrors"
	"mandi-backend/internal/models"
	"mandi-backend/internal/timeutil"
)

// Session operations gated by the validator.
const (
	OpCreate = "CREATE"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

// SessionStore is the session persistence surface the service needs.
type SessionStore interface {
	Create(ctx context.Context, s *models.AuctionSession) error
	Get(ctx context.Context, id, commissionerID int) (*models.AuctionSession, error)
	List(ctx context.Context, commissionerID int, paymentStatus string) ([]*models.AuctionSession, error)
	Update(ctx context.Context, s *models.AuctionSession) error
	Delete(ctx context.Context, id, commissionerID int) error
}

// SessionItemStore is the slice of the item repository the validator needs.
type SessionItemStore interface {
	Get(ctx context.Context, id int) (*models.AuctionItem, error)
	ListBySession(ctx context.Context, sessionID int) ([]*models.AuctionItem, error)
}

// SessionService handles auction session lifecycle and the modification rules
// around it.
type SessionService struct {
	sessions SessionStore
	items    SessionItemStore
}

func NewSessionService(sessions SessionStore, items SessionItemStore) *SessionService {
	return &SessionService{sessions: sessions, items: items}
}

// Validate evaluates every modification rule against a session and reports
// the combined verdict. Rules accumulate: a session frozen for two reasons
// lists both restrictions.
func (s *SessionService) Validate(ctx context.Context, sessionID, commissionerID int) (*models.SessionValidation, error) {
	session, err := s.sessions.Get(ctx, sessionID, commissionerID)
	if err != nil {
		return nil, err
	}

	v := &models.SessionValidation{Session: session}

	if session.Status == models.SessionStatusCompleted {
		v.Restrictions = append(v.Restrictions, "session is completed and can no longer be modified")
	} else {
		v.CanModify = true
	}

	if session.PaymentStatus == models.PaymentStatusCompleted {
		v.CanModify = false
		v.Restrictions = append(v.Restrictions, "all items in this session are billed; the session is reconciled")
	}

	if session.Status == models.SessionStatusActive &&
		session.SessionDate.Before(timeutil.StartOfDay(timeutil.Now())) {
		v.CanModify = false
		v.Restrictions = append(v.Restrictions, "session is dated in the past and can no longer be modified")
	}

	switch {
	case session.PaymentStatus == models.PaymentStatusCompleted:
		v.CanDelete = true
	case session.ItemCount == 0:
		v.CanDelete = true
	default:
		v.Restrictions = append(v.Restrictions,
			fmt.Sprintf("session has %d unreconciled items and cannot be deleted", session.ItemCount))
	}

	return v, nil
}

// ValidateSessionForOperation enforces the verdict for one operation:
// CREATE/UPDATE need CanModify, DELETE needs CanDelete or CanModify.
// A blocked operation returns Conflict carrying every applicable restriction.
func (s *SessionService) ValidateSessionForOperation(ctx context.Context, sessionID, commissionerID int, op string) (*models.SessionValidation, error) {
	v, err := s.Validate(ctx, sessionID, commissionerID)
	if err != nil {
		return nil, err
	}

	allowed := v.CanModify
	if op == OpDelete {
		allowed = v.CanDelete || v.CanModify
	}
	if !allowed {
		return nil, apperrors.Conflict(strings.Join(v.Restrictions, "; "))
	}
	return v, nil
}

// ValidateAuctionItemForOperation checks that an item exists in the given
// session and is not frozen by billing.
func (s *SessionService) ValidateAuctionItemForOperation(ctx context.Context, itemID, sessionID int, op string) (*models.AuctionItem, error) {
	item, err := s.items.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.SessionID != sessionID {
		return nil, apperrors.NotFound("auction item not found")
	}
	if item.IsBilled() {
		return nil, apperrors.Conflictf("item is billed under bill %d and cannot be changed", *item.BillID)
	}
	return item, nil
}

// Create opens a session for a date. The storage layer enforces one ACTIVE
// session per date.
func (s *SessionService) Create(ctx context.Context, commissionerID int, req *models.CreateSessionRequest) (*models.AuctionSession, error) {
	date, err := timeutil.ParseInIST(timeutil.DateLayout, req.SessionDate)
	if err != nil {
		return nil, apperrors.Validation("session_date must be in YYYY-MM-DD format")
	}

	session := &models.AuctionSession{
		CommissionerID: commissionerID,
		SessionDate:    date,
		Status:         models.SessionStatusActive,
		PaymentStatus:  models.PaymentStatusPending,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) Get(ctx context.Context, id, commissionerID int) (*models.AuctionSession, []*models.AuctionItem, error) {
	session, err := s.sessions.Get(ctx, id, commissionerID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.items.ListBySession(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return session, items, nil
}

func (s *SessionService) List(ctx context.Context, commissionerID int, paymentStatus string) ([]*models.AuctionSession, error) {
	return s.sessions.List(ctx, commissionerID, paymentStatus)
}

// Update changes the date or closes the session. Closing (status COMPLETED)
// is one-way: the validator refuses every later modification.
func (s *SessionService) Update(ctx context.Context, id, commissionerID int, req *models.UpdateSessionRequest) (*models.AuctionSession, error) {
	v, err := s.ValidateSessionForOperation(ctx, id, commissionerID, OpUpdate)
	if err != nil {
		return nil, err
	}
	session := v.Session

	if req.SessionDate != "" {
		date, err := timeutil.ParseInIST(timeutil.DateLayout, req.SessionDate)
		if err != nil {
			return nil, apperrors.Validation("session_date must be in YYYY-MM-DD format")
		}
		session.SessionDate = date
	}
	if req.Status != "" {
		session.Status = req.Status
	}

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) Delete(ctx context.Context, id, commissionerID int) error {
	if _, err := s.ValidateSessionForOperation(ctx, id, commissionerID, OpDelete); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, id, commissionerID)
}
