package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"time"

	"mandi-backend/internal/apperrors"
	"mandi-backend/internal/auth"
	"mandi-backend/internal/cache"
	"mandi-backend/internal/models"
	"mandi-backend/internal/timeutil"
)

const resetTokenTTL = 30 * time.Minute

// CommissionerAccountStore is the account persistence surface.
type CommissionerAccountStore interface {
	Create(ctx context.Context, c *models.Commissioner) error
	Get(ctx context.Context, id int) (*models.Commissioner, error)
	GetByEmail(ctx context.Context, email string) (*models.Commissioner, error)
	UpdateProfile(ctx context.Context, c *models.Commissioner) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
}

// PasswordResetStore persists single-use reset tokens.
type PasswordResetStore interface {
	Create(ctx context.Context, reset *models.PasswordReset) error
	GetByToken(ctx context.Context, token string) (*models.PasswordReset, error)
	MarkUsed(ctx context.Context, id int) error
}

// CommissionerService handles signup, login and account management.
type CommissionerService struct {
	commissioners CommissionerAccountStore
	resets        PasswordResetStore
	jwtManager    *auth.JWTManager
}

func NewCommissionerService(commissioners CommissionerAccountStore, resets PasswordResetStore, jwtManager *auth.JWTManager) *CommissionerService {
	return &CommissionerService{commissioners: commissioners, resets: resets, jwtManager: jwtManager}
}

func (s *CommissionerService) Signup(ctx context.Context, req *models.SignupRequest) (*models.LoginResponse, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	c := &models.Commissioner{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Location:       req.Location,
		PasswordHash:   hash,
		CommissionRate: req.CommissionRate,
	}
	if err := s.commissioners.Create(ctx, c); err != nil {
		return nil, err
	}

	token, err := s.jwtManager.GenerateToken(c)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, Commissioner: c}, nil
}

// Login verifies credentials, consulting the redis cache first to skip the
// bcrypt compare on repeat logins.
func (s *CommissionerService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	var c *models.Commissioner

	if id, ok := cache.GetCachedAuth(ctx, req.Email, req.Password); ok {
		cached, err := s.commissioners.Get(ctx, id)
		if err == nil {
			c = cached
		}
	}

	if c == nil {
		found, err := s.commissioners.GetByEmail(ctx, req.Email)
		if err != nil {
			return nil, apperrors.Validation("invalid email or password")
		}
		if !auth.VerifyPassword(found.PasswordHash, req.Password) {
			return nil, apperrors.Validation("invalid email or password")
		}
		c = found
		cache.CacheAuth(ctx, req.Email, req.Password, c.ID)
	}

	token, err := s.jwtManager.GenerateToken(c)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, Commissioner: c}, nil
}

func (s *CommissionerService) GetProfile(ctx context.Context, id int) (*models.Commissioner, error) {
	return s.commissioners.Get(ctx, id)
}

func (s *CommissionerService) UpdateProfile(ctx context.Context, id int, req *models.UpdateProfileRequest) (*models.Commissioner, error) {
	c, err := s.commissioners.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Name = req.Name
	c.Phone = req.Phone
	c.Location = req.Location
	c.CommissionRate = req.CommissionRate
	if err := s.commissioners.UpdateProfile(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ForgotPassword issues a reset token. The token is returned to the caller
// for now; there is no mail integration. Unknown emails succeed silently so
// the endpoint cannot be used to probe accounts.
func (s *CommissionerService) ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) (string, error) {
	c, err := s.commissioners.GetByEmail(ctx, req.Email)
	if err != nil {
		log.Printf("[Auth] Password reset requested for unknown email")
		return "", nil
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	reset := &models.PasswordReset{
		CommissionerID: c.ID,
		Token:          token,
		ExpiresAt:      timeutil.Now().Add(resetTokenTTL),
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword consumes a reset token and replaces the password. Cached
// credentials for the account are dropped wholesale.
func (s *CommissionerService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	reset, err := s.resets.GetByToken(ctx, req.Token)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}
	if err := s.commissioners.UpdatePassword(ctx, reset.CommissionerID, hash); err != nil {
		return err
	}
	if err := s.resets.MarkUsed(ctx, reset.ID); err != nil {
		return err
	}

	cache.InvalidatePattern(ctx, "auth:*")
	return nil
}
