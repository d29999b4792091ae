package handlers

import (
	"net/http"

	"mandi-backend/internal/apperrors"
	"mandi-backend/internal/models"
	"mandi-backend/internal/repositories"
	"mandi-backend/pkg/utils"
)

type FarmerHandler struct {
	Repo *repositories.FarmerRepository
}

func NewFarmerHandler(repo *repositories.FarmerRepository) *FarmerHandler {
	return &FarmerHandler{Repo: repo}
}

func (h *FarmerHandler) Create(w http.ResponseWriter, r *http.Request) {
	cid, ok := commissionerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreateFarmerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	farmer := &models.Farmer{
		CommissionerID: cid,
		Name:           req.Name,
		Phone:          req.Phone,
		Village:        req.Village,
		IsActive:       true,
	}
	if err := h.Repo.Create(r.Context(), farmer); err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, farmer)
}

func (h *FarmerHandler) List(w http.ResponseWriter, r *http.Request) {
	cid, ok := commissionerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	farmers, err := h.Repo.List(r.Context(), cid)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, farmers)
}

func (h *FarmerHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	farmer, err := h.Repo.Get(r.Context(), id, cid)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, farmer)
}

func (h *FarmerHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req models.UpdateFarmerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	farmer, err := h.Repo.Get(r.Context(), id, cid)
	if err != nil {
		apperrors.Write(w, err)
		return
	}

	farmer.Name = req.Name
	farmer.Phone = req.Phone
	farmer.Village = req.Village
	if req.IsActive != nil {
		farmer.IsActive = *req.IsActive
	}
	if err := h.Repo.Update(r.Context(), farmer); err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, farmer)
}

func (h *FarmerHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	utils.JSON(w, http.StatusOK, map[string]string{"message": "farmer deleted"})
}
