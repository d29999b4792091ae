package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mandi-backend/internal/apperrors"
	"mandi-backend/internal/auth"
	"mandi-backend/internal/config"
	"mandi-backend/internal/models"
	"mandi-backend/internal/timeutil"
)

type fakeAccountStore struct {
	byID    map[int]*models.Commissioner
	byEmail map[string]*models.Commissioner
}

func (f *fakeAccountStore) Create(ctx context.Context, c *models.Commissioner) error {
	if _, taken := f.byEmail[c.Email]; taken {
		return apperrors.Conflict("an account with this email already exists")
	}
	c.ID = len(f.byID) + 1
	f.byID[c.ID] = c
	f.byEmail[c.Email] = c
	return nil
}

func (f *fakeAccountStore) Get(ctx context.Context, id int) (*models.Commissioner, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, apperrors.NotFound("commissioner not found")
	}
	return c, nil
}

func (f *fakeAccountStore) GetByEmail(ctx context.Context, email string) (*models.Commissioner, error) {
	c, ok := f.byEmail[email]
	if !ok {
		return nil, apperrors.NotFound("commissioner not found")
	}
	return c, nil
}

func (f *fakeAccountStore) UpdateProfile(ctx context.Context, c *models.Commissioner) error {
	f.byID[c.ID] = c
	return nil
}

func (f *fakeAccountStore) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	f.byID[id].PasswordHash = passwordHash
	return nil
}

type fakeResetStore struct {
	resets map[string]*models.PasswordReset
	used   []int
}

func (f *fakeResetStore) Create(ctx context.Context, reset *models.PasswordReset) error {
	reset.ID = len(f.resets) + 1
	f.resets[reset.Token] = reset
	return nil
}

func (f *fakeResetStore) GetByToken(ctx context.Context, token string) (*models.PasswordReset, error) {
	reset, ok := f.resets[token]
	if !ok || reset.Used || reset.ExpiresAt.Before(timeutil.Now()) {
		return nil, apperrors.Validation("invalid or expired reset token")
	}
	return reset, nil
}

func (f *fakeResetStore) MarkUsed(ctx context.Context, id int) error {
	f.used = append(f.used, id)
	return nil
}

func newAccountFixture(t *testing.T) (*CommissionerService, *fakeAccountStore, *fakeResetStore) {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "mandi-backend"

	accounts := &fakeAccountStore{
		byID:    map[int]*models.Commissioner{},
		byEmail: map[string]*models.Commissioner{},
	}
	resets := &fakeResetStore{resets: map[string]*models.PasswordReset{}}
	return NewCommissionerService(accounts, resets, auth.NewJWTManager(cfg)), accounts, resets
}

func signupReq() *models.SignupRequest {
	return &models.SignupRequest{
		Name: "Suresh Traders", Email: "suresh@example.com",
		Phone: "9876543210", Location: "Azadpur Mandi",
		Password: "secret123", CommissionRate: 6,
	}
}

func TestSignupReturnsToken(t *testing.T) {
	svc, accounts, _ := newAccountFixture(t)

	resp, err := svc.Signup(context.Background(), signupReq())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "suresh@example.com", resp.Commissioner.Email)
	assert.NotEqual(t, "secret123", accounts.byID[resp.Commissioner.ID].PasswordHash)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAccountFixture(t)
	_, err := svc.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &models.LoginRequest{
		Email: "suresh@example.com", Password: "wrong",
	})
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
	assert.Equal(t, "invalid email or password", appErr.Message)
}

func TestLoginUnknownEmailSameMessage(t *testing.T) {
	svc, _, _ := newAccountFixture(t)

	_, err := svc.Login(context.Background(), &models.LoginRequest{
		Email: "nobody@example.com", Password: "whatever",
	})
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "invalid email or password", appErr.Message)
}

func TestLoginSuccess(t *testing.T) {
	svc, _, _ := newAccountFixture(t)
	_, err := svc.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Email: "suresh@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestForgotPasswordUnknownEmailSucceedsSilently(t *testing.T) {
	svc, _, resets := newAccountFixture(t)

	token, err := svc.ForgotPassword(context.Background(), &models.ForgotPasswordRequest{
		Email: "nobody@example.com",
	})
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, resets.resets)
}

func TestResetPasswordFlow(t *testing.T) {
	svc, _, resets := newAccountFixture(t)
	signup, err := svc.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	token, err := svc.ForgotPassword(context.Background(), &models.ForgotPasswordRequest{
		Email: "suresh@example.com",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, signup.Commissioner.ID, resets.resets[token].CommissionerID)

	err = svc.ResetPassword(context.Background(), &models.ResetPasswordRequest{
		Token: token, Password: "newsecret",
	})
	require.NoError(t, err)
	require.Len(t, resets.used, 1)

	_, err = svc.Login(context.Background(), &models.LoginRequest{
		Email: "suresh@example.com", Password: "newsecret",
	})
	require.NoError(t, err)
}

func TestResetPasswordBadToken(t *testing.T) {
	svc, _, _ := newAccountFixture(t)

	err := svc.ResetPassword(context.Background(), &models.ResetPasswordRequest{
		Token: "deadbeef", Password: "newsecret",
	})
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
}
