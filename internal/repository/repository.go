package repository

import (
	"context"
	"time"

	"parish-ledger-backend/internal/domain"
)

type EntryRepository interface {
	Create(ctx context.Context, entry *domain.LedgerEntry) error
	GetByID(ctx context.Context, id int32) (*domain.LedgerEntry, error)
	List(ctx context.Context, filter domain.EntryFilter) ([]domain.LedgerEntry, int32, error)
	ListByIDs(ctx context.Context, kind domain.EntryKind, ids []int32) ([]domain.LedgerEntry, error)

	// Transition flips pending entries to a terminal status and returns the
	// ids actually transitioned. The pending-only predicate lives in the SQL
	// so a repeated call is a no-op.
	Transition(ctx context.Context, kind domain.EntryKind, ids []int32, status domain.EntryStatus, actorID int32, at time.Time) ([]int32, error)
	SetReceipt(ctx context.Context, ids []int32, receiptID int32) error

	// ListApprovedWithoutReceipt feeds the reconciliation pass.
	ListApprovedWithoutReceipt(ctx context.Context, olderThan time.Time) ([]domain.LedgerEntry, error)
}

type ReceiptRepository interface {
	Create(ctx context.Context, receipt *domain.Receipt) error
	GetByID(ctx context.Context, id int32) (*domain.Receipt, error)
	List(ctx context.Context, filter domain.ReceiptFilter) ([]domain.Receipt, int32, error)
}

// SequenceRepository hands out the next value of an atomic counter keyed by
// (document type, year, month). month is 0 for year-scoped schemes.
type SequenceRepository interface {
	Next(ctx context.Context, docType string, year, month int) (int, error)
}

type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLogEntry) error
	List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditLogEntry, int32, error)
}

type ContractRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.RentalContract, error)
}

type ContactRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Contact, error)
}

// Tx runs fn inside a single database transaction. Approval, receipt
// creation and the back-reference update share one transaction so a crash
// cannot leave entries approved but receipt-less.
type Tx interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
