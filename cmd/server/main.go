package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "parish-ledger-backend/internal/api/http"
	"parish-ledger-backend/internal/config"
	"parish-ledger-backend/internal/events"
	"parish-ledger-backend/internal/jobs"
	"parish-ledger-backend/internal/logger"
	"parish-ledger-backend/internal/repository/postgres"
	"parish-ledger-backend/internal/scheduler"
	"parish-ledger-backend/internal/security"
	"parish-ledger-backend/internal/service"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// .env is optional; environment variables override the YAML file.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting parish ledger backend", "address", cfg.GetServerAddress())

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established", "host", cfg.Database.Host, "database", cfg.Database.Database)

	store := postgres.NewStore(db)

	var publisher events.Publisher = events.Nop{}
	if len(cfg.Events.Brokers) > 0 {
		logger.Info("Kafka publisher enabled", "brokers", cfg.Events.Brokers, "topic", cfg.Events.Topic)
		kafkaPublisher := events.NewKafkaPublisher(cfg.Events.Brokers, cfg.Events.Topic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	tokens := security.NewTokenManager(cfg.Auth.JWTSecret)

	auditSvc := service.NewAuditService(store.AuditRepository)
	codes := service.NewCodeGenerator(store.SequenceRepository)
	entrySvc := service.NewEntryService(store.EntryRepository, codes, auditSvc, cfg.Ledger.MaxPageSize)
	approvalSvc := service.NewApprovalService(store.EntryRepository, store.ReceiptRepository, codes, auditSvc, publisher, store)
	receiptSvc := service.NewReceiptService(store.ReceiptRepository, cfg.Ledger.MaxPageSize)
	bridgeSvc := service.NewRentalBridgeService(store.ContractRepository, store.ContactRepository, entrySvc)

	handlers := httpapi.NewHandlers(entrySvc, approvalSvc, receiptSvc, bridgeSvc, auditSvc)
	router := httpapi.NewRouter(handlers, tokens)

	jobRunner := jobs.NewJobRunner(store.EntryRepository, auditSvc, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
