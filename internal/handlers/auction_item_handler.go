package handlers

import (
	"net/http"

	"mandi-backend/internal/apperrors"
	"mandi-backend/internal/models"
	"mandi-backend/internal/services"
	"mandi-backend/pkg/utils"
)

type AuctionItemHandler struct {
	Service *services.AuctionItemService
}

func NewAuctionItemHandler(s *services.AuctionItemService) *AuctionItemHandler {
	return &AuctionItemHandler{Service: s}
}

// Create adds an item to a session. Draft items carry only farmer, product
// and quantity; buyer and rate may come now or later via Complete.
func (h *AuctionItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	cid, ok := commissionerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	sessionID, err := pathID(r, "id")
	if err != nil {
		apperrors.Write(w, err)
		return
	}

	var req models.CreateAuctionItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if (req.BuyerID == nil) != (req.Rate == nil) {
		apperrors.Write(w, apperrors.Validation("buyer_id and rate must be provided together"))
		return
	}

	item, err := h.Service.Create(r.Context(), sessionID, cid, &req)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, item)
}

func (h *AuctionItemHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req models.UpdateAuctionItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if (req.BuyerID == nil) != (req.Rate == nil) {
		apperrors.Write(w, apperrors.Validation("buyer_id and rate must be provided together"))
		return
	}

	item, err := h.Service.Update(r.Context(), id, cid, &req)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, item)
}

// Complete records the sale outcome for a draft item.
func (h *AuctionItemHandler) Complete(w http.ResponseWriter, r *http.Request) {
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

	var req models.CompleteAuctionItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.Service.Complete(r.Context(), id, cid, &req)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, item)
}

func (h *AuctionItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	utils.JSON(w, http.StatusOK, map[string]string{"message": "auction item deleted"})
}
