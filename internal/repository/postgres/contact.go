package postgres

import (
	"context"
	"database/sql"
	"errors"

	"parish-ledger-backend/internal/domain"
	"parish-ledger-backend/internal/repository"
)

type contactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) repository.ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) GetByID(ctx context.Context, id int32) (*domain.Contact, error) {
	query := `SELECT id, name, COALESCE(phone, ''), COALESCE(bank_name, ''), COALESCE(bank_acct, '')
	          FROM contacts WHERE id = $1`
	var c domain.Contact
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Phone, &c.BankName, &c.BankAcct,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("contact", id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
