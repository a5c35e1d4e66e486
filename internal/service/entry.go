package service

import (
	"context"
	"fmt"
	"time"

	"parish-ledger-backend/internal/domain"
	"parish-ledger-backend/internal/repository"

	"github.com/shopspring/decimal"
)

// codeRetries bounds regeneration attempts on a duplicate-code conflict.
// The sequence counter is atomic, so a conflict only happens when rows were
// loaded from a backup with stale counters.
const codeRetries = 3

type entryService struct {
	entryRepo   repository.EntryRepository
	codes       CodeGenerator
	audit       AuditService
	maxPageSize int32
}

func NewEntryService(entryRepo repository.EntryRepository, codes CodeGenerator, audit AuditService, maxPageSize int32) EntryService {
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &entryService{
		entryRepo:   entryRepo,
		codes:       codes,
		audit:       audit,
		maxPageSize: maxPageSize,
	}
}

func (s *entryService) CreateEntry(ctx context.Context, actor domain.Actor, input CreateEntryInput) (*domain.LedgerEntry, error) {
	if !actor.Role.CanSubmit() {
		return nil, domain.NewAuthorizationError(string(actor.Role), "create ledger entries")
	}
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	entryDate := input.EntryDate
	if entryDate.IsZero() {
		entryDate = time.Now()
	}

	method := input.PaymentMethod
	if method == "" {
		method = domain.PaymentMethodOffline
	}

	source := input.Source
	if source == "" {
		source = domain.EntrySourceManual
	}

	entry := &domain.LedgerEntry{
		Kind:          input.Kind,
		ParishID:      input.ParishID,
		FundID:        input.FundID,
		CategoryID:    input.CategoryID,
		Amount:        input.Amount.Abs(),
		PaymentMethod: method,
		BankAccountID: input.BankAccountID,
		ContactID:     input.ContactID,
		Counterparty:  input.Counterparty,
		PayerBankName: input.PayerBankName,
		PayerBankAcct: input.PayerBankAcct,
		Description:   input.Description,
		Direction:     input.Direction,
		EntryDate:     entryDate,
		// Fiscal fields are always derived from the entry date, never from
		// client input.
		FiscalYear:   entryDate.Year(),
		FiscalPeriod: int(entryDate.Month()),
		Status:       domain.EntryStatusPending,
		ImageURLs:    input.ImageURLs,
		SubmittedBy:  actor.ID,
		SubmittedAt:  time.Now().UTC(),
		ContractID:   input.ContractID,
		Source:       source,
	}

	if err := s.createWithCode(ctx, entry); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, domain.AuditActionCreate, string(entry.Kind), entry.Code, nil, entry)
	return entry, nil
}

// createWithCode assigns a fresh code and inserts, regenerating on a code
// collision up to codeRetries times before surfacing the conflict.
func (s *entryService) createWithCode(ctx context.Context, entry *domain.LedgerEntry) error {
	docType := DocTypeForKind(entry.Kind)

	var err error
	for attempt := 0; attempt < codeRetries; attempt++ {
		entry.Code, err = s.codes.NextCode(ctx, docType, entry.EntryDate)
		if err != nil {
			return err
		}
		err = s.entryRepo.Create(ctx, entry)
		if err == nil || !domain.IsConflict(err) {
			return err
		}
	}
	return err
}

func (s *entryService) GetEntry(ctx context.Context, id int32) (*domain.LedgerEntry, error) {
	return s.entryRepo.GetByID(ctx, id)
}

func (s *entryService) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.LedgerEntry, int32, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > s.maxPageSize {
		filter.PageSize = s.maxPageSize
	}
	return s.entryRepo.List(ctx, filter)
}

func validateCreateInput(input CreateEntryInput) error {
	if !input.Kind.Valid() {
		return domain.NewValidationError("kind", fmt.Sprintf("unknown entry kind %q", input.Kind))
	}
	if input.ParishID == 0 {
		return domain.NewValidationError("parish_id", "parish is required")
	}
	if input.Amount.IsZero() {
		return domain.NewValidationError("amount", "amount must be a non-zero number")
	}

	switch input.Kind {
	case domain.EntryKindIncome, domain.EntryKindAdjustment:
		if input.FundID == nil {
			return domain.NewValidationError("fund_id", "fund is required for income and adjustment entries")
		}
	}

	if input.Kind == domain.EntryKindAdjustment {
		if input.Direction != domain.AdjustmentIncrease && input.Direction != domain.AdjustmentDecrease {
			return domain.NewValidationError("direction", "adjustment direction must be increase or decrease")
		}
	} else if input.Direction != "" {
		return domain.NewValidationError("direction", "direction is only valid for adjustment entries")
	}

	if input.PaymentMethod != "" &&
		input.PaymentMethod != domain.PaymentMethodOnline &&
		input.PaymentMethod != domain.PaymentMethodOffline {
		return domain.NewValidationError("payment_method", "payment method must be online or offline")
	}

	return nil
}

// ParseAmount coerces a client-supplied amount into a positive decimal.
// Accepts any numeric string; the sign is discarded since direction is
// implied by the entry kind.
func ParseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, domain.NewValidationError("amount", "amount is required")
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domain.NewValidationError("amount", "amount must be numeric")
	}
	return amount.Abs(), nil
}
