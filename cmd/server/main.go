package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"mandi-backend/internal/auth"
	"mandi-backend/internal/cache"
	"mandi-backend/internal/config"
	"mandi-backend/internal/database"
	"mandi-backend/internal/db"
	"mandi-backend/internal/handlers"
	"mandi-backend/internal/health"
	h "mandi-backend/internal/http"
	"mandi-backend/internal/middleware"
	"mandi-backend/internal/monitoring"
	"mandi-backend/internal/repositories"
	"mandi-backend/internal/services"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Connect to PostgreSQL
	pool := db.Connect(cfg)
	defer pool.Close()

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (login will use bcrypt only)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations
	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Start monitoring dashboard server in background
	go monitoring.NewMonitoringServer(pool, cfg.Server.MonitoringPort).Start()

	// Initialize JWT manager and health checker
	jwtManager := auth.NewJWTManager(cfg)
	healthChecker := health.NewHealthChecker(pool)

	// Initialize repositories
	commissionerRepo := repositories.NewCommissionerRepository(pool)
	passwordResetRepo := repositories.NewPasswordResetRepository(pool)
	farmerRepo := repositories.NewFarmerRepository(pool)
	buyerRepo := repositories.NewBuyerRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	sessionRepo := repositories.NewSessionRepository(pool)
	itemRepo := repositories.NewAuctionItemRepository(pool)
	billRepo := repositories.NewBillRepository(pool)

	// Initialize services
	commissionerService := services.NewCommissionerService(commissionerRepo, passwordResetRepo, jwtManager)
	sessionService := services.NewSessionService(sessionRepo, itemRepo)
	entityChecker := &services.RepoEntityChecker{
		Farmers:  farmerRepo,
		Buyers:   buyerRepo,
		Products: productRepo,
	}
	itemService := services.NewAuctionItemService(itemRepo, sessionService, entityChecker)
	beginGeneration := func(ctx context.Context) (services.GenerationTx, error) {
		return billRepo.BeginGeneration(ctx)
	}
	billingService := services.NewBillingService(billRepo, beginGeneration, itemRepo, farmerRepo, commissionerRepo)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)
	corsMiddleware := middleware.NewCORS(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(commissionerService)
	farmerHandler := handlers.NewFarmerHandler(farmerRepo)
	buyerHandler := handlers.NewBuyerHandler(buyerRepo)
	productHandler := handlers.NewProductHandler(productRepo)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	itemHandler := handlers.NewAuctionItemHandler(itemService)
	billHandler := handlers.NewBillHandler(billingService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := h.NewRouter(
		authHandler,
		farmerHandler,
		buyerHandler,
		productHandler,
		sessionHandler,
		itemHandler,
		billHandler,
		healthHandler,
		authMiddleware,
	)

	// Wrap with panic recovery, logging, metrics and CORS
	handler := middleware.PanicRecovery(
		middleware.RequestLogging(
			middleware.MetricsMiddleware(
				corsMiddleware(router))))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
