package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	EntryKindIncome     EntryKind = "income"
	EntryKindExpense    EntryKind = "expense"
	EntryKindAdjustment EntryKind = "adjustment"
)

func (k EntryKind) Valid() bool {
	switch k {
	case EntryKindIncome, EntryKindExpense, EntryKindAdjustment:
		return true
	}
	return false
}

// Ledgerable reports whether the kind participates in batch approval and
// receipt consolidation. Adjustments are approved individually.
func (k EntryKind) Ledgerable() bool {
	return k == EntryKindIncome || k == EntryKindExpense
}

type EntryStatus string

const (
	EntryStatusPending  EntryStatus = "pending"
	EntryStatusApproved EntryStatus = "approved"
	EntryStatusRejected EntryStatus = "rejected"
)

type PaymentMethod string

const (
	PaymentMethodOnline  PaymentMethod = "online"
	PaymentMethodOffline PaymentMethod = "offline"
)

type AdjustmentDirection string

const (
	AdjustmentIncrease AdjustmentDirection = "increase"
	AdjustmentDecrease AdjustmentDirection = "decrease"
)

type EntrySource string

const (
	EntrySourceManual         EntrySource = "manual"
	EntrySourceRentalContract EntrySource = "rental_contract"
)

// LedgerEntry is a single income, expense or adjustment record. Amount is
// always a positive magnitude; direction is implied by Kind, except for
// adjustments which carry an explicit Direction.
type LedgerEntry struct {
	ID            int32               `json:"id"`
	Code          string              `json:"code"`
	Kind          EntryKind           `json:"kind"`
	ParishID      int32               `json:"parish_id"`
	FundID        *int32              `json:"fund_id,omitempty"`
	CategoryID    *int32              `json:"category_id,omitempty"`
	Amount        decimal.Decimal     `json:"amount"`
	PaymentMethod PaymentMethod       `json:"payment_method"`
	BankAccountID *int32              `json:"bank_account_id,omitempty"`
	ContactID     *int32              `json:"contact_id,omitempty"`
	Counterparty  string              `json:"counterparty"` // payer or payee display name
	PayerBankName string              `json:"payer_bank_name,omitempty"`
	PayerBankAcct string              `json:"payer_bank_acct,omitempty"`
	Description   string              `json:"description"`
	Direction     AdjustmentDirection `json:"direction,omitempty"` // adjustments only
	EntryDate     time.Time           `json:"entry_date"`
	FiscalYear    int                 `json:"fiscal_year"`
	FiscalPeriod  int                 `json:"fiscal_period"` // calendar month 1-12
	Status        EntryStatus         `json:"status"`
	ImageURLs     []string            `json:"image_urls,omitempty"`
	SubmittedBy   int32               `json:"submitted_by"`
	SubmittedAt   time.Time           `json:"submitted_at"`
	ApprovedBy    *int32              `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time          `json:"approved_at,omitempty"`
	ReceiptID     *int32              `json:"receipt_id,omitempty"`
	ContractID    *int32              `json:"contract_id,omitempty"`
	Source        EntrySource         `json:"source"`
}

// EntryFilter narrows ListEntries. Zero values mean "no constraint".
type EntryFilter struct {
	Kind         EntryKind
	Status       EntryStatus
	ParishID     int32
	FundID       int32
	CategoryID   int32
	FiscalYear   int
	FiscalPeriod int
	DateFrom     *time.Time
	DateTo       *time.Time
	Page         int32
	PageSize     int32
}
