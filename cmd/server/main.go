package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "rentmarket-backend/internal/api/http"
	"rentmarket-backend/internal/config"
	"rentmarket-backend/internal/logger"
	"rentmarket-backend/internal/repository/postgres"
	"rentmarket-backend/internal/security"
	"rentmarket-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// .env is optional; real deployments set environment variables directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Rentmarket Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize Email Service
	emailSvc := service.NewSendGridEmailService(
		cfg.SendGrid.APIKey,
		cfg.SendGrid.FromEmail,
		cfg.SendGrid.FromName,
	)

	// Initialize Services
	inventorySvc := service.NewInventoryService(store.ProductRepository)
	quotationSvc := service.NewQuotationService(
		store.QuotationRepository,
		store.OrderRepository,
		store.SaleOrderRepository,
		store.ProductRepository,
		store.UserRepository,
		store.SequenceRepository,
		inventorySvc,
		emailSvc,
		service.QuotationPolicy{
			ValidityDays:                   cfg.Quotation.ValidityDays,
			FreezeTaxRateDuringNegotiation: *cfg.Quotation.FreezeTaxRateDuringNegotiation,
		},
	)
	orderSvc := service.NewOrderService(
		store.OrderRepository,
		store.PickupRepository,
		store.UserRepository,
		inventorySvc,
		emailSvc,
	)
	saleOrderSvc := service.NewSaleOrderService(
		store.SaleOrderRepository,
		store.ProductRepository,
		store.UserRepository,
		store.SequenceRepository,
		emailSvc,
	)
	invoiceSvc := service.NewInvoiceService(
		store.InvoiceRepository,
		store.OrderRepository,
		store.SaleOrderRepository,
		store.ProductRepository,
		store.UserRepository,
		store.SequenceRepository,
		emailSvc,
		service.InvoicePolicy{DueDays: cfg.Invoice.DueDays},
	)

	// Set up HTTP server
	router := httpapi.NewRouter(tokenManager, quotationSvc, orderSvc, saleOrderSvc, invoiceSvc)
	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := server.ListenAndServe(); err != nil {
		logger.Error("Failed to serve HTTP", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
