package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"parish-ledger-backend/internal/domain"
	"parish-ledger-backend/internal/repository"

	"github.com/shopspring/decimal"
)

// consolidate builds one receipt from the just-approved entries and points
// every member back at it. Runs inside the approval transaction. The total
// is recomputed from the entries' current amounts, never taken from the
// client.
func (s *approvalService) consolidate(ctx context.Context, actor domain.Actor, kind domain.EntryKind, entries []domain.LedgerEntry, now time.Time) (*domain.Receipt, error) {
	receipt := buildReceipt(kind, entries, actor.ID, now)

	code, err := s.codes.NextCode(ctx, DocTypeReceipt, now)
	if err != nil {
		return nil, err
	}
	receipt.Code = code

	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		return nil, fmt.Errorf("create receipt: %w", err)
	}
	if err := s.entryRepo.SetReceipt(ctx, receipt.EntryIDs, receipt.ID); err != nil {
		return nil, fmt.Errorf("link entries to receipt: %w", err)
	}

	return receipt, nil
}

func buildReceipt(kind domain.EntryKind, entries []domain.LedgerEntry, createdBy int32, now time.Time) *domain.Receipt {
	receiptType := domain.ReceiptTypeIncome
	if kind == domain.EntryKindExpense {
		receiptType = domain.ReceiptTypeExpense
	}

	total := decimal.Zero
	items := make([]domain.ReceiptItem, len(entries))
	ids := make([]int32, len(entries))
	for i, entry := range entries {
		total = total.Add(entry.Amount)
		ids[i] = entry.ID
		items[i] = domain.ReceiptItem{
			EntryID:      entry.ID,
			EntryCode:    entry.Code,
			Amount:       entry.Amount,
			EntryDate:    entry.EntryDate,
			Counterparty: entry.Counterparty,
			Description:  entry.Description,
		}
	}

	return &domain.Receipt{
		Type:         receiptType,
		ParishID:     entries[0].ParishID,
		EntryIDs:     ids,
		Amount:       total,
		Counterparty: aggregateCounterparty(receiptType, entries),
		Description:  aggregateDescription(kind, entries),
		Items:        items,
		CreatedBy:    createdBy,
		CreatedAt:    now,
	}
}

// aggregateCounterparty picks the display string for the receipt header:
// the single distinct name if there is exactly one, a count otherwise, and
// empty when no entry names a counterparty.
func aggregateCounterparty(receiptType domain.ReceiptType, entries []domain.LedgerEntry) string {
	distinct := make(map[string]struct{})
	var first string
	for _, entry := range entries {
		if entry.Counterparty == "" {
			continue
		}
		if len(distinct) == 0 {
			first = entry.Counterparty
		}
		distinct[entry.Counterparty] = struct{}{}
	}

	switch len(distinct) {
	case 0:
		return ""
	case 1:
		return first
	}

	noun := "payers"
	if receiptType == domain.ReceiptTypeExpense {
		noun = "payees"
	}
	return fmt.Sprintf("%d %s", len(distinct), noun)
}

func aggregateDescription(kind domain.EntryKind, entries []domain.LedgerEntry) string {
	var parts []string
	for _, entry := range entries {
		if entry.Description != "" {
			parts = append(parts, entry.Description)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("Consolidated %s slip for %d items", kind, len(entries))
	}
	return strings.Join(parts, "; ")
}

type receiptService struct {
	receiptRepo repository.ReceiptRepository
	maxPageSize int32
}

func NewReceiptService(receiptRepo repository.ReceiptRepository, maxPageSize int32) ReceiptService {
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &receiptService{receiptRepo: receiptRepo, maxPageSize: maxPageSize}
}

func (s *receiptService) GetReceipt(ctx context.Context, id int32) (*domain.Receipt, error) {
	return s.receiptRepo.GetByID(ctx, id)
}

func (s *receiptService) ListReceipts(ctx context.Context, filter domain.ReceiptFilter) ([]domain.Receipt, int32, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > s.maxPageSize {
		filter.PageSize = s.maxPageSize
	}
	return s.receiptRepo.List(ctx, filter)
}
