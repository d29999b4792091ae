package handlers

import (
	"net/http"

	"mandi-backend/internal/apperrors"
	"mandi-backend/internal/metrics"
	"mandi-backend/internal/models"
	"mandi-backend/internal/services"
	"mandi-backend/pkg/utils"
)

type BillHandler struct {
	Service *services.BillingService
}

func NewBillHandler(s *services.BillingService) *BillHandler {
	return &BillHandler{Service: s}
}

// Preview returns proposed bills for a farmer's unbilled items. Read-only;
// the operator confirms the previews back through Generate.
func (h *BillHandler) Preview(w http.ResponseWriter, r *http.Request) {
	cid, ok := commissionerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	farmerID := queryInt(r, "farmer_id")
	if farmerID == 0 {
		apperrors.Write(w, apperrors.Validation("farmer_id is required"))
		return
	}

	resp, err := h.Service.Preview(r.Context(), cid, farmerID,
		queryInt(r, "product_id"), queryInt(r, "session_id"))
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

func (h *BillHandler) Generate(w http.ResponseWriter, r *http.Request) {
	cid, ok := commissionerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.GenerateBillsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.Service.Generate(r.Context(), cid, &req)
	if err != nil {
		apperrors.Write(w, err)
		return
	}

	metrics.BillsGeneratedTotal.Add(float64(resp.TotalGenerated))
	utils.JSON(w, http.StatusCreated, resp)
}

func (h *BillHandler) PayMultiple(w http.ResponseWriter, r *http.Request) {
	cid, ok := commissionerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.PayBillsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.Service.PayMultiple(r.Context(), cid, &req)
	if err != nil {
		apperrors.Write(w, err)
		return
	}

	metrics.BillsPaidTotal.Add(float64(resp.TotalPaid))
	utils.JSON(w, http.StatusOK, resp)
}

func (h *BillHandler) List(w http.ResponseWriter, r *http.Request) {
	cid, ok := commissionerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	bills, err := h.Service.List(r.Context(), cid,
		r.URL.Query().Get("payment_status"), queryInt(r, "farmer_id"))
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, bills)
}

func (h *BillHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	bill, err := h.Service.Get(r.Context(), id, cid)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, bill)
}

// Print renders a receipt. format=html|text|pdf, default html.
func (h *BillHandler) Print(w http.ResponseWriter, r *http.Request) {
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

	body, contentType, err := h.Service.Print(r.Context(), id, cid, r.URL.Query().Get("format"))
	if err != nil {
		apperrors.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
