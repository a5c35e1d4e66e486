package service

import (
	"context"
	"time"

	"parish-ledger-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// CreateEntryInput carries the client-controlled fields of a new ledger
// entry. Code, status, fiscal fields and timestamps are assigned server-side.
type CreateEntryInput struct {
	Kind          domain.EntryKind
	ParishID      int32
	FundID        *int32
	CategoryID    *int32
	Amount        decimal.Decimal
	PaymentMethod domain.PaymentMethod
	BankAccountID *int32
	ContactID     *int32
	Counterparty  string
	PayerBankName string
	PayerBankAcct string
	Description   string
	Direction     domain.AdjustmentDirection
	EntryDate     time.Time
	ImageURLs     []string
	ContractID    *int32
	Source        domain.EntrySource
}

type EntryService interface {
	CreateEntry(ctx context.Context, actor domain.Actor, input CreateEntryInput) (*domain.LedgerEntry, error)
	GetEntry(ctx context.Context, id int32) (*domain.LedgerEntry, error)
	ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.LedgerEntry, int32, error)
}

// ApprovalResult reports what a batch transition actually did. ApprovedCount
// counts entries newly transitioned; ids already in a terminal state are
// excluded, so a repeated call reports zero.
type ApprovalResult struct {
	ApprovedCount int32           `json:"approved_count"`
	EntryIDs      []int32         `json:"entry_ids"`
	Receipt       *domain.Receipt `json:"receipt,omitempty"`
}

type ApprovalService interface {
	Approve(ctx context.Context, actor domain.Actor, kind domain.EntryKind, entryIDs []int32, consolidate bool) (*ApprovalResult, error)
	Reject(ctx context.Context, actor domain.Actor, kind domain.EntryKind, entryIDs []int32) (*ApprovalResult, error)
}

type ReceiptService interface {
	GetReceipt(ctx context.Context, id int32) (*domain.Receipt, error)
	ListReceipts(ctx context.Context, filter domain.ReceiptFilter) ([]domain.Receipt, int32, error)
}

type RentalBridgeService interface {
	ConvertPayment(ctx context.Context, actor domain.Actor, contractID int32, payment domain.ContractPayment) (*domain.LedgerEntry, error)
}

// AuditService records before/after snapshots of mutating operations.
// Record never returns an error: audit failure must not abort the primary
// business transaction.
type AuditService interface {
	Record(ctx context.Context, actor domain.Actor, action domain.AuditAction, module string, recordID string, oldValue, newValue any)
	List(ctx context.Context, actor domain.Actor, filter domain.AuditFilter) ([]domain.AuditLogEntry, int32, error)
}

type CodeGenerator interface {
	NextCode(ctx context.Context, docType DocType, date time.Time) (string, error)
}
