package main

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"mailflow/internal/cache"
	"mailflow/internal/config"
	"mailflow/internal/handler"
	"mailflow/internal/mailer"
	"mailflow/internal/metrics"
	"mailflow/internal/repository"
	"mailflow/internal/service"
)

func main() {
	// Load .env file (ignore error in production)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Verify database connection
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("✅ Connected to database")

	metrics.MustRegister()

	// Pick the stats cache backend
	var statsCache cache.Cache
	switch cfg.Cache.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		statsCache = cache.NewRedisCache(rdb)
		log.Println("✅ Using Redis stats cache")
	default:
		statsCache = cache.NewMemoryCache()
		log.Println("✅ Using in-memory stats cache")
	}

	// Pick the outbound mailer
	var m mailer.Mailer
	if cfg.SMTP.DryRun {
		m = mailer.NewLogMailer()
		log.Println("📧 SMTP dry-run enabled, messages will be logged")
	} else {
		m = mailer.NewSMTPMailer(cfg.SMTP)
	}

	// Repositories
	recipientRepo := repository.NewRecipientRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	mailingRepo := repository.NewMailingRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	recipientService := service.NewRecipientService(recipientRepo)
	messageService := service.NewMessageService(messageRepo)
	mailingService := service.NewMailingService(mailingRepo, messageRepo, recipientRepo, attemptRepo)
	dispatchService := service.NewDispatchService(mailingRepo, messageRepo, attemptRepo, m)
	attemptService := service.NewAttemptService(attemptRepo)
	statsService := service.NewStatsService(mailingRepo, recipientRepo, attemptRepo, statsCache, cfg.Cache.TTL)
	userService := service.NewUserService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Router
	router := handler.NewRouter(handler.Handlers{
		Auth:      handler.NewAuthHandler(userService),
		Recipient: handler.NewRecipientHandler(recipientService),
		Message:   handler.NewMessageHandler(messageService),
		Mailing:   handler.NewMailingHandler(mailingService, dispatchService),
		Attempt:   handler.NewAttemptHandler(attemptService),
		Stats:     handler.NewStatsHandler(statsService),
		Health:    handler.NewHealthHandler(db),
	}, userService)

	// Start server
	port := ":" + cfg.Server.Port
	log.Printf("🚀 API Server starting on port %s", port)
	log.Printf("📍 Health check: http://localhost%s/health", port)
	log.Printf("🌍 Environment: %s", cfg.Env)

	if err := http.ListenAndServe(port, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
