package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mandi-backend/internal/handlers"
	"mandi-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	farmerHandler *handlers.FarmerHandler,
	buyerHandler *handlers.BuyerHandler,
	productHandler *handlers.ProductHandler,
	sessionHandler *handlers.SessionHandler,
	itemHandler *handlers.AuctionItemHandler,
	billHandler *handlers.BillHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/forgot-password", authHandler.ForgotPassword).Methods("POST")
	r.HandleFunc("/auth/reset-password", authHandler.ResetPassword).Methods("POST")

	// Protected API routes - Profile
	profileAPI := r.PathPrefix("/api/profile").Subrouter()
	profileAPI.Use(authMiddleware.Authenticate)
	profileAPI.HandleFunc("", authHandler.GetProfile).Methods("GET")
	profileAPI.HandleFunc("", authHandler.UpdateProfile).Methods("PUT")

	// Protected API routes - Farmers
	farmersAPI := r.PathPrefix("/api/farmers").Subrouter()
	farmersAPI.Use(authMiddleware.Authenticate)
	farmersAPI.HandleFunc("", farmerHandler.List).Methods("GET")
	farmersAPI.HandleFunc("", farmerHandler.Create).Methods("POST")
	farmersAPI.HandleFunc("/{id}", farmerHandler.Get).Methods("GET")
	farmersAPI.HandleFunc("/{id}", farmerHandler.Update).Methods("PUT")
	farmersAPI.HandleFunc("/{id}", farmerHandler.Delete).Methods("DELETE")

	// Protected API routes - Buyers
	buyersAPI := r.PathPrefix("/api/buyers").Subrouter()
	buyersAPI.Use(authMiddleware.Authenticate)
	buyersAPI.HandleFunc("", buyerHandler.List).Methods("GET")
	buyersAPI.HandleFunc("", buyerHandler.Create).Methods("POST")
	buyersAPI.HandleFunc("/{id}", buyerHandler.Get).Methods("GET")
	buyersAPI.HandleFunc("/{id}", buyerHandler.Update).Methods("PUT")
	buyersAPI.HandleFunc("/{id}", buyerHandler.Delete).Methods("DELETE")

	// Protected API routes - Categories
	categoriesAPI := r.PathPrefix("/api/categories").Subrouter()
	categoriesAPI.Use(authMiddleware.Authenticate)
	categoriesAPI.HandleFunc("", productHandler.ListCategories).Methods("GET")
	categoriesAPI.HandleFunc("", productHandler.CreateCategory).Methods("POST")
	categoriesAPI.HandleFunc("/{id}", productHandler.DeleteCategory).Methods("DELETE")

	// Protected API routes - Products
	productsAPI := r.PathPrefix("/api/products").Subrouter()
	productsAPI.Use(authMiddleware.Authenticate)
	productsAPI.HandleFunc("", productHandler.List).Methods("GET")
	productsAPI.HandleFunc("", productHandler.Create).Methods("POST")
	productsAPI.HandleFunc("/{id}", productHandler.Get).Methods("GET")
	productsAPI.HandleFunc("/{id}", productHandler.Update).Methods("PUT")
	productsAPI.HandleFunc("/{id}", productHandler.Delete).Methods("DELETE")

	// Protected API routes - Auction Sessions
	sessionsAPI := r.PathPrefix("/api/sessions").Subrouter()
	sessionsAPI.Use(authMiddleware.Authenticate)
	sessionsAPI.HandleFunc("", sessionHandler.List).Methods("GET")
	sessionsAPI.HandleFunc("", sessionHandler.Create).Methods("POST")
	sessionsAPI.HandleFunc("/{id}", sessionHandler.Get).Methods("GET")
	sessionsAPI.HandleFunc("/{id}", sessionHandler.Update).Methods("PUT")
	sessionsAPI.HandleFunc("/{id}", sessionHandler.Delete).Methods("DELETE")
	sessionsAPI.HandleFunc("/{id}/items", itemHandler.Create).Methods("POST")

	// Protected API routes - Auction Items
	itemsAPI := r.PathPrefix("/api/items").Subrouter()
	itemsAPI.Use(authMiddleware.Authenticate)
	itemsAPI.HandleFunc("/{id}", itemHandler.Update).Methods("PUT")
	itemsAPI.HandleFunc("/{id}", itemHandler.Delete).Methods("DELETE")
	itemsAPI.HandleFunc("/{id}/complete", itemHandler.Complete).Methods("POST")

	// Protected API routes - Bills
	// Preview and generate are desktop-only: the confirmation flow needs the
	// full preview table.
	billsAPI := r.PathPrefix("/api/bills").Subrouter()
	billsAPI.Use(authMiddleware.Authenticate)
	billsAPI.Handle("/preview", middleware.RequireDesktop(http.HandlerFunc(billHandler.Preview))).Methods("GET")
	billsAPI.Handle("/generate", middleware.RequireDesktop(http.HandlerFunc(billHandler.Generate))).Methods("POST")
	billsAPI.HandleFunc("/pay-multiple", billHandler.PayMultiple).Methods("POST")
	billsAPI.HandleFunc("", billHandler.List).Methods("GET")
	billsAPI.HandleFunc("/{id}", billHandler.Get).Methods("GET")
	billsAPI.HandleFunc("/{id}/print", billHandler.Print).Methods("GET")

	// Health and metrics
	r.HandleFunc("/health", healthHandler.Basic).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.Detailed).Methods("GET")
	r.Handle("/metrics", promhttp.Handler())

	return r
}
