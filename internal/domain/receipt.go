package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReceiptType string

const (
	ReceiptTypeIncome  ReceiptType = "income"
	ReceiptTypeExpense ReceiptType = "expense"
)

// Receipt is an immutable consolidation of one or more approved ledger
// entries from a single parish. No update or delete operation exists.
type Receipt struct {
	ID           int32           `json:"id"`
	Code         string          `json:"code"`
	Type         ReceiptType     `json:"type"`
	ParishID     int32           `json:"parish_id"`
	EntryIDs     []int32         `json:"entry_ids"`
	Amount       decimal.Decimal `json:"amount"`
	Counterparty string          `json:"counterparty"` // aggregated payer/payee display
	Description  string          `json:"description"`
	Items        []ReceiptItem   `json:"items"`
	CreatedBy    int32           `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ReceiptItem mirrors one consolidated entry at the time of consolidation.
type ReceiptItem struct {
	EntryID      int32           `json:"entry_id"`
	EntryCode    string          `json:"entry_code"`
	Amount       decimal.Decimal `json:"amount"`
	EntryDate    time.Time       `json:"entry_date"`
	Counterparty string          `json:"counterparty"`
	Description  string          `json:"description"`
}

type ReceiptFilter struct {
	Type     ReceiptType
	ParishID int32
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int32
	PageSize int32
}
