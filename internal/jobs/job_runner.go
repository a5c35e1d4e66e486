package jobs

import (
	"context"
	"time"

	"parish-ledger-backend/internal/config"
	"parish-ledger-backend/internal/domain"
	"parish-ledger-backend/internal/logger"
	"parish-ledger-backend/internal/repository"
	"parish-ledger-backend/internal/service"
)

// JobRunner coordinates scheduled maintenance jobs.
type JobRunner struct {
	entryRepo repository.EntryRepository
	audit     service.AuditService
	config    *config.Config
}

func NewJobRunner(entryRepo repository.EntryRepository, audit service.AuditService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		entryRepo: entryRepo,
		audit:     audit,
		config:    cfg,
	}
}

// Config exposes the loaded configuration to the scheduler.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// ReconcileReceipts flags approved income/expense entries that never gained
// a receipt back-reference. Approval and consolidation share a transaction,
// so findings here mean either an opted-out consolidation or rows restored
// from an older backup; both need a human decision, so the job only reports.
func (jr *JobRunner) ReconcileReceipts() {
	jr.runWithRecovery("ReconcileReceipts", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		cutoff := time.Now().Add(-24 * time.Hour)
		orphaned, err := jr.entryRepo.ListApprovedWithoutReceipt(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list approved entries without receipt", "error", err)
			return
		}
		if len(orphaned) == 0 {
			logger.Info("No approved entries missing a receipt")
			return
		}

		system := domain.Actor{Name: "reconciler", Role: domain.RoleSuperAdmin}
		for _, entry := range orphaned {
			logger.Warn("Approved entry has no receipt",
				"entry_id", entry.ID, "code", entry.Code, "kind", entry.Kind,
				"parish_id", entry.ParishID, "approved_at", entry.ApprovedAt)
			jr.audit.Record(ctx, system, domain.AuditActionUpdate, "reconciliation", entry.Code,
				nil, map[string]any{"entry_id": entry.ID, "code": entry.Code, "finding": "approved_without_receipt"})
		}
		logger.Warn("Reconciliation findings recorded", "count", len(orphaned))
	})
}
