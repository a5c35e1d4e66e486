package postgres

import (
	"context"
	"database/sql"
	"errors"

	"parish-ledger-backend/internal/domain"
	"parish-ledger-backend/internal/repository"
)

type contractRepository struct {
	db *sql.DB
}

func NewContractRepository(db *sql.DB) repository.ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) GetByID(ctx context.Context, id int32) (*domain.RentalContract, error) {
	query := `SELECT id, code, parish_id, COALESCE(property_name, ''), tenant_contact_id,
	                 COALESCE(tenant_name, ''), COALESCE(tenant_bank_name, ''),
	                 COALESCE(tenant_bank_acct, ''), monthly_rent, start_date, end_date, status
	          FROM rental_contracts WHERE id = $1`
	var c domain.RentalContract
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Code, &c.ParishID, &c.PropertyName, &c.TenantContactID,
		&c.TenantName, &c.TenantBankName, &c.TenantBankAcct,
		&c.MonthlyRent, &c.StartDate, &c.EndDate, &c.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("contract", id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
