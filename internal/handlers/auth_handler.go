package handlers

import (
	"net/http"

	"mandi-backend/internal/apperrors"
	"mandi-backend/internal/models"
	"mandi-backend/internal/services"
	"mandi-backend/pkg/utils"
)

type AuthHandler struct {
	Service *services.CommissionerService
}

func NewAuthHandler(s *services.CommissionerService) *AuthHandler {
	return &AuthHandler{Service: s}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.Service.Signup(r.Context(), &req)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// ForgotPassword issues a reset token. The response is identical whether or
// not the email exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	token, err := h.Service.ForgotPassword(r.Context(), &req)
	if err != nil {
		apperrors.Write(w, err)
		return
	}

	resp := map[string]string{"message": "if the account exists, a reset token has been issued"}
	if token != "" {
		resp["reset_token"] = token
	}
	utils.JSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.Service.ResetPassword(r.Context(), &req); err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := commissionerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	c, err := h.Service.GetProfile(r.Context(), id)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := commissionerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.Service.UpdateProfile(r.Context(), id, &req)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}
