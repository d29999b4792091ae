package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mandi-backend/internal/apperrors"
	"mandi-backend/internal/models"
	"mandi-backend/internal/timeutil"
)

type fakeSessionStore struct {
	sessions map[int]*models.AuctionSession
	updated  []*models.AuctionSession
	deleted  []int
}

func (f *fakeSessionStore) Create(ctx context.Context, s *models.AuctionSession) error {
	s.ID = len(f.sessions) + 1
	if f.sessions == nil {
		f.sessions = map[int]*models.AuctionSession{}
	}
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionStore) Get(ctx context.Context, id, commissionerID int) (*models.AuctionSession, error) {
	s, ok := f.sessions[id]
	if !ok || s.CommissionerID != commissionerID {
		return nil, apperrors.NotFound("session not found")
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSessionStore) List(ctx context.Context, commissionerID int, paymentStatus string) ([]*models.AuctionSession, error) {
	var out []*models.AuctionSession
	for _, s := range f.sessions {
		if s.CommissionerID == commissionerID &&
			(paymentStatus == "" || s.PaymentStatus == paymentStatus) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) Update(ctx context.Context, s *models.AuctionSession) error {
	f.updated = append(f.updated, s)
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, id, commissionerID int) error {
	f.deleted = append(f.deleted, id)
	delete(f.sessions, id)
	return nil
}

type fakeItemStore struct {
	items map[int]*models.AuctionItem
}

func (f *fakeItemStore) Get(ctx context.Context, id int) (*models.AuctionItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, apperrors.NotFound("auction item not found")
	}
	return item, nil
}

func (f *fakeItemStore) ListBySession(ctx context.Context, sessionID int) ([]*models.AuctionItem, error) {
	var out []*models.AuctionItem
	for _, item := range f.items {
		if item.SessionID == sessionID {
			out = append(out, item)
		}
	}
	return out, nil
}

func newSessionFixture(t *testing.T, sessions ...*models.AuctionSession) (*SessionService, *fakeSessionStore, *fakeItemStore) {
	t.Helper()
	store := &fakeSessionStore{sessions: map[int]*models.AuctionSession{}}
	for _, s := range sessions {
		store.sessions[s.ID] = s
	}
	items := &fakeItemStore{items: map[int]*models.AuctionItem{}}
	return NewSessionService(store, items), store, items
}

func today() time.Time {
	return timeutil.StartOfDay(timeutil.Now())
}

func TestValidateActiveSessionToday(t *testing.T) {
	svc, _, _ := newSessionFixture(t, &models.AuctionSession{
		ID: 1, CommissionerID: 7, SessionDate: today(),
		Status: models.SessionStatusActive, PaymentStatus: models.PaymentStatusPending,
		ItemCount: 3,
	})

	v, err := svc.Validate(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.True(t, v.CanModify)
	assert.False(t, v.CanDelete)
	require.Len(t, v.Restrictions, 1)
	assert.Contains(t, v.Restrictions[0], "3 unreconciled items")
}

func TestValidateCompletedSessionFrozen(t *testing.T) {
	svc, _, _ := newSessionFixture(t, &models.AuctionSession{
		ID: 1, CommissionerID: 7, SessionDate: today(),
		Status: models.SessionStatusCompleted, PaymentStatus: models.PaymentStatusPending,
		ItemCount: 2,
	})

	v, err := svc.Validate(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.False(t, v.CanModify)
	assert.False(t, v.CanDelete)
}

func TestValidateReconciledSessionDeletableNotModifiable(t *testing.T) {
	svc, _, _ := newSessionFixture(t, &models.AuctionSession{
		ID: 1, CommissionerID: 7, SessionDate: today(),
		Status: models.SessionStatusActive, PaymentStatus: models.PaymentStatusCompleted,
		ItemCount: 5,
	})

	v, err := svc.Validate(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.False(t, v.CanModify)
	assert.True(t, v.CanDelete)
}

func TestValidatePastActiveSessionFrozen(t *testing.T) {
	svc, _, _ := newSessionFixture(t, &models.AuctionSession{
		ID: 1, CommissionerID: 7, SessionDate: today().AddDate(0, 0, -1),
		Status: models.SessionStatusActive, PaymentStatus: models.PaymentStatusPending,
		ItemCount: 1,
	})

	v, err := svc.Validate(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.False(t, v.CanModify)
	assert.Contains(t, v.Restrictions[0], "past")
}

func TestValidateEmptyPendingSessionDeletable(t *testing.T) {
	svc, _, _ := newSessionFixture(t, &models.AuctionSession{
		ID: 1, CommissionerID: 7, SessionDate: today(),
		Status: models.SessionStatusActive, PaymentStatus: models.PaymentStatusPending,
		ItemCount: 0,
	})

	v, err := svc.Validate(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.True(t, v.CanModify)
	assert.True(t, v.CanDelete)
	assert.Empty(t, v.Restrictions)
}

func TestValidateRestrictionsAccumulate(t *testing.T) {
	// Completed, reconciled and past-dated: every applicable rule reports
	svc, _, _ := newSessionFixture(t, &models.AuctionSession{
		ID: 1, CommissionerID: 7, SessionDate: today().AddDate(0, 0, -3),
		Status: models.SessionStatusCompleted, PaymentStatus: models.PaymentStatusCompleted,
		ItemCount: 4,
	})

	v, err := svc.Validate(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.False(t, v.CanModify)
	assert.True(t, v.CanDelete)
	assert.Len(t, v.Restrictions, 2)
}

func TestValidateOtherCommissionersSessionIsNotFound(t *testing.T) {
	svc, _, _ := newSessionFixture(t, &models.AuctionSession{
		ID: 1, CommissionerID: 7, SessionDate: today(),
		Status: models.SessionStatusActive, PaymentStatus: models.PaymentStatusPending,
	})

	_, err := svc.Validate(context.Background(), 1, 99)
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestValidateSessionForOperationBlocksUpdate(t *testing.T) {
	svc, _, _ := newSessionFixture(t, &models.AuctionSession{
		ID: 1, CommissionerID: 7, SessionDate: today(),
		Status: models.SessionStatusCompleted, PaymentStatus: models.PaymentStatusPending,
		ItemCount: 2,
	})

	_, err := svc.ValidateSessionForOperation(context.Background(), 1, 7, OpUpdate)
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
	assert.Contains(t, appErr.Message, "completed")
}

func TestValidateSessionForOperationAllowsDeleteOfReconciled(t *testing.T) {
	svc, _, _ := newSessionFixture(t, &models.AuctionSession{
		ID: 1, CommissionerID: 7, SessionDate: today(),
		Status: models.SessionStatusActive, PaymentStatus: models.PaymentStatusCompleted,
		ItemCount: 5,
	})

	v, err := svc.ValidateSessionForOperation(context.Background(), 1, 7, OpDelete)
	require.NoError(t, err)
	assert.True(t, v.CanDelete)
}

func TestValidateAuctionItemForOperation(t *testing.T) {
	svc, _, items := newSessionFixture(t)
	billID := 9
	items.items[1] = &models.AuctionItem{ID: 1, SessionID: 5, BillID: &billID}
	items.items[2] = &models.AuctionItem{ID: 2, SessionID: 5}

	_, err := svc.ValidateAuctionItemForOperation(context.Background(), 1, 5, OpUpdate)
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)

	// Item from a different session is invisible
	_, err = svc.ValidateAuctionItemForOperation(context.Background(), 2, 6, OpUpdate)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)

	item, err := svc.ValidateAuctionItemForOperation(context.Background(), 2, 5, OpUpdate)
	require.NoError(t, err)
	assert.Equal(t, 2, item.ID)
}

func TestCreateSessionParsesDate(t *testing.T) {
	svc, store, _ := newSessionFixture(t)

	session, err := svc.Create(context.Background(), 7, &models.CreateSessionRequest{SessionDate: "2025-03-14"})
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusActive, session.Status)
	assert.Equal(t, models.PaymentStatusPending, session.PaymentStatus)
	assert.Equal(t, "2025-03-14", session.SessionDate.Format(timeutil.DateLayout))
	assert.Len(t, store.sessions, 1)
}

func TestCreateSessionRejectsBadDate(t *testing.T) {
	svc, _, _ := newSessionFixture(t)

	_, err := svc.Create(context.Background(), 7, &models.CreateSessionRequest{SessionDate: "14/03/2025"})
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
}

func TestUpdateSessionCloses(t *testing.T) {
	svc, store, _ := newSessionFixture(t, &models.AuctionSession{
		ID: 1, CommissionerID: 7, SessionDate: today(),
		Status: models.SessionStatusActive, PaymentStatus: models.PaymentStatusPending,
	})

	session, err := svc.Update(context.Background(), 1, 7, &models.UpdateSessionRequest{Status: models.SessionStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusCompleted, session.Status)
	require.Len(t, store.updated, 1)

	// Closing is one-way
	_, err = svc.Update(context.Background(), 1, 7, &models.UpdateSessionRequest{Status: models.SessionStatusActive})
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
}

func TestDeleteSessionBlockedWithUnreconciledItems(t *testing.T) {
	svc, store, _ := newSessionFixture(t, &models.AuctionSession{
		ID: 1, CommissionerID: 7, SessionDate: today().AddDate(0, 0, -2),
		Status: models.SessionStatusActive, PaymentStatus: models.PaymentStatusPending,
		ItemCount: 2,
	})

	err := svc.Delete(context.Background(), 1, 7)
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
	assert.Empty(t, store.deleted)
}
