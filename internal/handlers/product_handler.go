package handlers

import (
	"net/http"

	"mandi-backend/internal/apperrors"
	"mandi-backend/internal/models"
	"mandi-backend/internal/repositories"
	"mandi-backend/pkg/utils"
)

// ProductHandler serves both product categories and products.
type ProductHandler struct {
	Repo *repositories.ProductRepository
}

func NewProductHandler(repo *repositories.ProductRepository) *ProductHandler {
	return &ProductHandler{Repo: repo}
}

func (h *ProductHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	cid, ok := commissionerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreateCategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	category := &models.Category{CommissionerID: cid, Name: req.Name}
	if err := h.Repo.CreateCategory(r.Context(), category); err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, category)
}

func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cid, ok := commissionerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	categories, err := h.Repo.ListCategories(r.Context(), cid)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, categories)
}

func (h *ProductHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Repo.DeleteCategory(r.Context(), id, cid); err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	cid, ok := commissionerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreateProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	product := &models.Product{
		CommissionerID: cid,
		CategoryID:     req.CategoryID,
		Name:           req.Name,
		IsActive:       true,
	}
	if err := h.Repo.Create(r.Context(), product); err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	cid, ok := commissionerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	products, err := h.Repo.List(r.Context(), cid)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	product, err := h.Repo.Get(r.Context(), id, cid)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req models.UpdateProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	product, err := h.Repo.Get(r.Context(), id, cid)
	if err != nil {
		apperrors.Write(w, err)
		return
	}

	product.CategoryID = req.CategoryID
	product.Name = req.Name
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if err := h.Repo.Update(r.Context(), product); err != nil {
		apperrors.Write(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	utils.JSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}
