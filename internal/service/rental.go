package service

import (
	"context"
	"fmt"

	"parish-ledger-backend/internal/domain"
	"parish-ledger-backend/internal/logger"
	"parish-ledger-backend/internal/repository"
	"parish-ledger-backend/internal/utils"
)

type rentalBridgeService struct {
	contractRepo repository.ContractRepository
	contactRepo  repository.ContactRepository
	entrySvc     EntryService
}

func NewRentalBridgeService(
	contractRepo repository.ContractRepository,
	contactRepo repository.ContactRepository,
	entrySvc EntryService,
) RentalBridgeService {
	return &rentalBridgeService{
		contractRepo: contractRepo,
		contactRepo:  contactRepo,
		entrySvc:     entrySvc,
	}
}

// ConvertPayment turns one expected payment period of a rental contract
// into a pending income entry. The payer identity is resolved in priority
// order: explicit request payer, then the contract's tenant contact, then
// the tenant bank fields stored on the contract itself.
func (s *rentalBridgeService) ConvertPayment(ctx context.Context, actor domain.Actor, contractID int32, payment domain.ContractPayment) (*domain.LedgerEntry, error) {
	if !actor.Role.CanSubmit() {
		return nil, domain.NewAuthorizationError(string(actor.Role), "convert contract payments")
	}

	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}

	if payment.PeriodLabel == "" {
		return nil, domain.NewValidationError("period_label", "payment period is required")
	}
	period, err := utils.ParsePeriodLabel(payment.PeriodLabel)
	if err != nil {
		return nil, domain.NewValidationError("period_label", err.Error())
	}
	if payment.FundID == 0 {
		return nil, domain.NewValidationError("fund_id", "fund is required")
	}

	// An omitted amount means the tenant paid exactly what the period owes.
	amount := payment.Amount
	if amount.IsZero() {
		amount, err = utils.ExpectedRent(contract.MonthlyRent, period, contract.StartDate, contract.EndDate)
		if err != nil {
			return nil, domain.NewValidationError("period_label", err.Error())
		}
		if amount.IsZero() {
			return nil, domain.NewValidationError("period_label", "contract does not cover the requested period")
		}
	}

	entryDate := payment.Date
	if entryDate.IsZero() {
		entryDate, _ = period.Bounds()
	}

	payerName, bankName, bankAcct, contactID := s.resolvePayer(ctx, contract, payment)

	fundID := payment.FundID
	input := CreateEntryInput{
		Kind:          domain.EntryKindIncome,
		ParishID:      contract.ParishID,
		FundID:        &fundID,
		Amount:        amount,
		PaymentMethod: domain.PaymentMethodOffline,
		ContactID:     contactID,
		Counterparty:  payerName,
		PayerBankName: bankName,
		PayerBankAcct: bankAcct,
		Description:   fmt.Sprintf("Rent for %s, period %s (contract %s)", contract.PropertyName, payment.PeriodLabel, contract.Code),
		EntryDate:     entryDate,
		ContractID:    &contract.ID,
		Source:        domain.EntrySourceRentalContract,
	}

	return s.entrySvc.CreateEntry(ctx, actor, input)
}

func (s *rentalBridgeService) resolvePayer(ctx context.Context, contract *domain.RentalContract, payment domain.ContractPayment) (name, bankName, bankAcct string, contactID *int32) {
	if payment.PayerName != "" {
		return payment.PayerName, payment.PayerBank, payment.PayerAcct, nil
	}

	if contract.TenantContactID != nil {
		contact, err := s.contactRepo.GetByID(ctx, *contract.TenantContactID)
		if err == nil {
			return contact.Name, contact.BankName, contact.BankAcct, &contact.ID
		}
		// A dangling contact reference falls back to the contract fields.
		logger.Warn("contract tenant contact lookup failed", "contract_id", contract.ID, "contact_id", *contract.TenantContactID, "error", err)
	}

	return contract.TenantName, contract.TenantBankName, contract.TenantBankAcct, nil
}
