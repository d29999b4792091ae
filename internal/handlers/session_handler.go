package handlers

import (
	"net/http"

	"mandi-backend/internal/apperrors"
	"mandi-backend/internal/models"
	"mandi-backend/internal/services"
	"mandi-backend/pkg/utils"
)

type SessionHandler struct {
	Service *services.SessionService
}

func NewSessionHandler(s *services.SessionService) *SessionHandler {
	return &SessionHandler{Service: s}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	cid, ok := commissionerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreateSessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.Service.Create(r.Context(), cid, &req)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, session)
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	cid, ok := commissionerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sessions, err := h.Service.List(r.Context(), cid, r.URL.Query().Get("payment_status"))
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, sessions)
}

// Get returns the session with its items and the validator's verdict so the
// frontend can disable controls instead of discovering conflicts on submit.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	cid, ok := commissionerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		apperrors.Write(w, err)
		return
	}

	session, items, err := h.Service.Get(r.Context(), id, cid)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	validation, err := h.Service.Validate(r.Context(), id, cid)
	if err != nil {
		apperrors.Write(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"session":    session,
		"items":      items,
		"validation": validation,
	})
}

func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	cid, ok := commissionerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		apperrors.Write(w, err)
		return
	}

	var req models.UpdateSessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.Service.Update(r.Context(), id, cid, &req)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, session)
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cid, ok := commissionerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		apperrors.Write(w, err)
		return
	}

	if err := h.Service.Delete(r.Context(), id, cid); err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "session deleted"})
}
