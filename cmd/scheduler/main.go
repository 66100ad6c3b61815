package main

import (
	"context"
	"database/sql"
	"log"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"mailflow/internal/config"
	"mailflow/internal/mailer"
	"mailflow/internal/metrics"
	"mailflow/internal/repository"
	"mailflow/internal/service"
)

// The scheduler runs one dispatch-and-sweep pass and exits. Periodic
// execution is cron's job, not ours.
func main() {
	// Load .env file (ignore error in production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("✅ Connected to database")

	metrics.MustRegister()

	var m mailer.Mailer
	if cfg.SMTP.DryRun {
		m = mailer.NewLogMailer()
		log.Println("📧 SMTP dry-run enabled, messages will be logged")
	} else {
		m = mailer.NewSMTPMailer(cfg.SMTP)
	}

	mailingRepo := repository.NewMailingRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)

	dispatcher := service.NewDispatchService(mailingRepo, messageRepo, attemptRepo, m)

	if err := dispatcher.RunScheduledPass(context.Background()); err != nil {
		log.Fatalf("Scheduled pass failed: %v", err)
	}

	log.Println("✅ Scheduled pass complete")
}
