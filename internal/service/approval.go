package service

import (
	"context"
	"fmt"
	"time"

	"parish-ledger-backend/internal/domain"
	"parish-ledger-backend/internal/events"
	"parish-ledger-backend/internal/logger"
	"parish-ledger-backend/internal/repository"
)

type approvalService struct {
	entryRepo   repository.EntryRepository
	receiptRepo repository.ReceiptRepository
	codes       CodeGenerator
	audit       AuditService
	publisher   events.Publisher
	txer        repository.Tx
}

func NewApprovalService(
	entryRepo repository.EntryRepository,
	receiptRepo repository.ReceiptRepository,
	codes CodeGenerator,
	audit AuditService,
	publisher events.Publisher,
	txer repository.Tx,
) ApprovalService {
	return &approvalService{
		entryRepo:   entryRepo,
		receiptRepo: receiptRepo,
		codes:       codes,
		audit:       audit,
		publisher:   publisher,
		txer:        txer,
	}
}

// Approve transitions the pending entries among entryIDs to approved and,
// unless the caller opts out, consolidates them into one receipt. Entries
// already in a terminal state are silently excluded. The status update,
// receipt insert and back-reference update share one transaction.
func (s *approvalService) Approve(ctx context.Context, actor domain.Actor, kind domain.EntryKind, entryIDs []int32, consolidate bool) (*ApprovalResult, error) {
	pending, err := s.loadPending(ctx, actor, kind, entryIDs, "approve")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := &ApprovalResult{}

	err = s.txer.WithinTx(ctx, func(ctx context.Context) error {
		transitioned, err := s.entryRepo.Transition(ctx, kind, idsOf(pending), domain.EntryStatusApproved, actor.ID, now)
		if err != nil {
			return fmt.Errorf("approve entries: %w", err)
		}
		if len(transitioned) == 0 {
			// A concurrent call won the race for every entry.
			return domain.NewValidationError("entry_ids", "no pending entries to approve")
		}

		approved, err := s.entryRepo.ListByIDs(ctx, kind, transitioned)
		if err != nil {
			return fmt.Errorf("reload approved entries: %w", err)
		}

		result.ApprovedCount = int32(len(approved))
		result.EntryIDs = transitioned

		if !consolidate {
			return nil
		}

		receipt, err := s.consolidate(ctx, actor, kind, approved, now)
		if err != nil {
			return err
		}
		result.Receipt = receipt
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordID := ""
	if result.Receipt != nil {
		recordID = result.Receipt.Code
	}
	s.audit.Record(ctx, actor, domain.AuditActionApprove, string(kind), recordID,
		map[string]any{"status": string(domain.EntryStatusPending), "entry_ids": result.EntryIDs},
		map[string]any{"status": string(domain.EntryStatusApproved), "entry_ids": result.EntryIDs, "approved_count": result.ApprovedCount},
	)

	s.publish(ctx, events.TopicEntriesApproved, events.EntriesEvent{
		Kind:     string(kind),
		EntryIDs: result.EntryIDs,
		ParishID: pending[0].ParishID,
		ActorID:  actor.ID,
	})
	if result.Receipt != nil {
		s.publish(ctx, events.TopicReceiptCreated, events.ReceiptEvent{
			ReceiptID: result.Receipt.ID,
			Code:      result.Receipt.Code,
			ParishID:  result.Receipt.ParishID,
			Amount:    result.Receipt.Amount.String(),
			EntryIDs:  result.Receipt.EntryIDs,
		})
	}

	return result, nil
}

// Reject transitions the pending entries among entryIDs to rejected. The
// approver identity and timestamp fields record who rejected and when.
func (s *approvalService) Reject(ctx context.Context, actor domain.Actor, kind domain.EntryKind, entryIDs []int32) (*ApprovalResult, error) {
	pending, err := s.loadPending(ctx, actor, kind, entryIDs, "reject")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	transitioned, err := s.entryRepo.Transition(ctx, kind, idsOf(pending), domain.EntryStatusRejected, actor.ID, now)
	if err != nil {
		return nil, fmt.Errorf("reject entries: %w", err)
	}
	if len(transitioned) == 0 {
		return nil, domain.NewValidationError("entry_ids", "no pending entries to reject")
	}

	result := &ApprovalResult{
		ApprovedCount: int32(len(transitioned)),
		EntryIDs:      transitioned,
	}

	s.audit.Record(ctx, actor, domain.AuditActionUpdate, string(kind), "",
		map[string]any{"status": string(domain.EntryStatusPending), "entry_ids": transitioned},
		map[string]any{"status": string(domain.EntryStatusRejected), "entry_ids": transitioned},
	)

	s.publish(ctx, events.TopicEntriesRejected, events.EntriesEvent{
		Kind:     string(kind),
		EntryIDs: transitioned,
		ParishID: pending[0].ParishID,
		ActorID:  actor.ID,
	})

	return result, nil
}

// loadPending validates the request and returns the pending subset of the
// referenced entries, enforcing single-parish homogeneity before anything
// is mutated.
func (s *approvalService) loadPending(ctx context.Context, actor domain.Actor, kind domain.EntryKind, entryIDs []int32, action string) ([]domain.LedgerEntry, error) {
	if !actor.Role.CanApprove() {
		return nil, domain.NewAuthorizationError(string(actor.Role), action+" ledger entries")
	}
	if len(entryIDs) == 0 {
		return nil, domain.NewValidationError("entry_ids", "at least one entry id is required")
	}
	if !kind.Ledgerable() {
		return nil, domain.NewValidationError("kind", fmt.Sprintf("kind must be income or expense, got %q", kind))
	}

	entries, err := s.entryRepo.ListByIDs(ctx, kind, dedupe(entryIDs))
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}

	var pending []domain.LedgerEntry
	for _, entry := range entries {
		if entry.Status == domain.EntryStatusPending {
			pending = append(pending, entry)
		}
	}
	if len(pending) == 0 {
		return nil, domain.NewValidationError("entry_ids", "no pending entries to "+action)
	}

	parish := pending[0].ParishID
	for _, entry := range pending[1:] {
		if entry.ParishID != parish {
			return nil, domain.NewValidationError("entry_ids", "entries span multiple parishes")
		}
	}

	return pending, nil
}

func (s *approvalService) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		logger.Error("failed to publish event", "topic", topic, "error", err)
	}
}

func idsOf(entries []domain.LedgerEntry) []int32 {
	ids := make([]int32, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ID
	}
	return ids
}

func dedupe(ids []int32) []int32 {
	seen := make(map[int32]struct{}, len(ids))
	out := make([]int32, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
