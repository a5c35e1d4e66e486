package main

import (
	"database/sql"
	"flag"
	"log"

	"parish-ledger-backend/internal/config"
	"parish-ledger-backend/internal/jobs"
	"parish-ledger-backend/internal/logger"
	"parish-ledger-backend/internal/repository/postgres"
	"parish-ledger-backend/internal/service"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Manually runs the receipt reconciliation pass, for operators responding
// to a reported inconsistency without waiting for the nightly schedule.
func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	store := postgres.NewStore(db)
	auditSvc := service.NewAuditService(store.AuditRepository)

	runner := jobs.NewJobRunner(store.EntryRepository, auditSvc, cfg)
	runner.ReconcileReceipts()
}
