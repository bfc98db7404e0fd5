package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"closetshare-backend/internal/config"
	"closetshare-backend/internal/jobs"
	"closetshare-backend/internal/logger"
	"closetshare-backend/internal/repository/postgres"
	"closetshare-backend/internal/scheduler"
	"closetshare-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'expire-otps', 'mark-overdue-rentals', 'expire-waitlist', 'sync-calendar', 'all')")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting ClosetShare cronjob runner...", "log_level", cfg.Log.Level)

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
	emailService := service.NewSendGridEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	waitlistService := service.NewWaitlistService(store.WaitlistRepository, store.ProductRepository, store.UserRepository,
		store.CalendarRepository, store.NotificationRepository, emailService, cfg.Rental)

	jobRunner := jobs.NewJobRunner(db, store, &jobs.Services{
		Email:    emailService,
		Waitlist: waitlistService,
	}, cfg)

	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	cronScheduler.Stop()
}

func runJobOnce(jr *jobs.JobRunner, name string) {
	switch name {
	case "expire-otps":
		jr.ExpireOTPs()
	case "mark-overdue-rentals":
		jr.MarkOverdueRentals()
	case "expire-waitlist":
		jr.ExpireWaitlistNotifications()
	case "sync-calendar":
		jr.SyncCalendarWindows()
	case "all":
		jr.RunAllSweeps()
	default:
		logger.Error("Unknown job", "job", name)
	}
}
