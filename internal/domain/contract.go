package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ContractStatus string

const (
	ContractStatusActive     ContractStatus = "active"
	ContractStatusExpired    ContractStatus = "expired"
	ContractStatusTerminated ContractStatus = "terminated"
)

// RentalContract is the master record a bridged income entry originates
// from. Contract CRUD is owned elsewhere; the ledger only reads it.
type RentalContract struct {
	ID              int32           `json:"id"`
	Code            string          `json:"code"`
	ParishID        int32           `json:"parish_id"`
	PropertyName    string          `json:"property_name"`
	TenantContactID *int32          `json:"tenant_contact_id,omitempty"`
	TenantName      string          `json:"tenant_name"`
	TenantBankName  string          `json:"tenant_bank_name"`
	TenantBankAcct  string          `json:"tenant_bank_acct"`
	MonthlyRent     decimal.Decimal `json:"monthly_rent"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	Status          ContractStatus  `json:"status"`
}

// Contact is a directory record supplying payer/payee display name and bank
// details.
type Contact struct {
	ID       int32  `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	BankName string `json:"bank_name"`
	BankAcct string `json:"bank_acct"`
}

// ContractPayment is a bridge request: one expected payment period of a
// rental contract, to be turned into a pending income entry.
type ContractPayment struct {
	Amount      decimal.Decimal `json:"amount"`
	PeriodLabel string          `json:"period_label"` // e.g. "2024-04"
	FundID      int32           `json:"fund_id"`
	Date        time.Time       `json:"date"`
	PayerName   string          `json:"payer_name,omitempty"`
	PayerBank   string          `json:"payer_bank,omitempty"`
	PayerAcct   string          `json:"payer_acct,omitempty"`
}
