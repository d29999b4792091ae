package handlers

import (
	"net/http"

	"mandi-backend/internal/apperrors"
	"mandi-backend/internal/models"
	"mandi-backend/internal/repositories"
	"mandi-backend/pkg/utils"
)

type BuyerHandler struct {
	Repo *repositories.BuyerRepository
}

func NewBuyerHandler(repo *repositories.BuyerRepository) *BuyerHandler {
	return &BuyerHandler{Repo: repo}
}

func (h *BuyerHandler) Create(w http.ResponseWriter, r *http.Request) {
	cid, ok := commissionerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreateBuyerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	buyer := &models.Buyer{
		CommissionerID: cid,
		Name:           req.Name,
		Phone:          req.Phone,
		IsActive:       true,
	}
	if err := h.Repo.Create(r.Context(), buyer); err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, buyer)
}

func (h *BuyerHandler) List(w http.ResponseWriter, r *http.Request) {
	cid, ok := commissionerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	buyers, err := h.Repo.List(r.Context(), cid)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, buyers)
}

func (h *BuyerHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	buyer, err := h.Repo.Get(r.Context(), id, cid)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, buyer)
}

func (h *BuyerHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req models.UpdateBuyerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	buyer, err := h.Repo.Get(r.Context(), id, cid)
	if err != nil {
		apperrors.Write(w, err)
		return
	}

	buyer.Name = req.Name
	buyer.Phone = req.Phone
	if req.IsActive != nil {
		buyer.IsActive = *req.IsActive
	}
	if err := h.Repo.Update(r.Context(), buyer); err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, buyer)
}

func (h *BuyerHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Repo.Delete(r.Context(), id, cid); err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "buyer deleted"})
}
