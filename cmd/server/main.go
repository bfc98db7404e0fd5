package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	apihttp "closetshare-backend/internal/api/http"
	"closetshare-backend/internal/config"
	"closetshare-backend/internal/logger"
	"closetshare-backend/internal/payment"
	"closetshare-backend/internal/repository/postgres"
	"closetshare-backend/internal/security"
	"closetshare-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting ClosetShare rental engine...", "environment", cfg.Environment, "log_level", cfg.Log.Level)

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)
	tokens := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	emailService := service.NewSendGridEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	gateway := payment.NewMockGateway()

	otpService := service.NewOTPService(store.OTPRepository, store.UserRepository, emailService, cfg.OTP)
	ledgerService := service.NewLedgerService(store.LedgerRepository, store.RentalRepository, gateway)
	availabilityService := service.NewAvailabilityService(store.CalendarRepository, store.ProductRepository, store.WaitlistRepository)
	waitlistService := service.NewWaitlistService(store.WaitlistRepository, store.ProductRepository, store.UserRepository,
		store.CalendarRepository, store.NotificationRepository, emailService, cfg.Rental)
	disputeService := service.NewDisputeService(store.DisputeRepository, store.RentalRepository, store.UserRepository,
		store.ProductRepository, store.NotificationRepository, emailService)
	notificationService := service.NewNotificationService(store.NotificationRepository)
	rentalService := service.NewRentalService(store.RentalRepository, store.CalendarRepository, store.ProductRepository,
		store.UserRepository, store.DisputeRepository, store.NotificationRepository,
		ledgerService, otpService, waitlistService, emailService, gateway, cfg)

	router := apihttp.NewRouter(apihttp.Handlers{
		Rental:       apihttp.NewRentalHandler(rentalService, ledgerService),
		OTP:          apihttp.NewOTPHandler(otpService, cfg.OTP, cfg.IsProduction()),
		Ledger:       apihttp.NewLedgerHandler(ledgerService),
		Dispute:      apihttp.NewDisputeHandler(disputeService),
		Availability: apihttp.NewAvailabilityHandler(availabilityService),
		Waitlist:     apihttp.NewWaitlistHandler(waitlistService),
		Notification: apihttp.NewNotificationHandler(notificationService),
	}, tokens)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
