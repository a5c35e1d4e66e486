package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"parish-ledger-backend/internal/domain"
	"parish-ledger-backend/internal/repository"

	"github.com/lib/pq"
)

const entryColumns = `id, code, kind, parish_id, fund_id, category_id, amount, payment_method,
	bank_account_id, contact_id, COALESCE(counterparty, ''), COALESCE(payer_bank_name, ''),
	COALESCE(payer_bank_acct, ''), COALESCE(description, ''),
	COALESCE(direction, ''), entry_date, fiscal_year, fiscal_period, status, image_urls,
	submitted_by, submitted_at, approved_by, approved_at, receipt_id, contract_id, source`

type entryRepository struct {
	db *sql.DB
}

func NewEntryRepository(db *sql.DB) repository.EntryRepository {
	return &entryRepository{db: db}
}

func (r *entryRepository) Create(ctx context.Context, entry *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries
		(code, kind, parish_id, fund_id, category_id, amount, payment_method, bank_account_id,
		 contact_id, counterparty, payer_bank_name, payer_bank_acct, description, direction,
		 entry_date, fiscal_year, fiscal_period, status, image_urls, submitted_by, submitted_at,
		 contract_id, source)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NULLIF($14, ''), $15, $16, $17, $18, $19, $20, $21, $22, $23)
	RETURNING id`
	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		entry.Code, entry.Kind, entry.ParishID, entry.FundID, entry.CategoryID,
		entry.Amount, entry.PaymentMethod, entry.BankAccountID, entry.ContactID,
		entry.Counterparty, entry.PayerBankName, entry.PayerBankAcct, entry.Description,
		string(entry.Direction), entry.EntryDate, entry.FiscalYear, entry.FiscalPeriod,
		entry.Status, pq.Array(entry.ImageURLs), entry.SubmittedBy, entry.SubmittedAt,
		entry.ContractID, entry.Source,
	).Scan(&entry.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return &domain.ConflictError{Message: fmt.Sprintf("entry code %s already exists", entry.Code)}
		}
		return err
	}
	return nil
}

func (r *entryRepository) GetByID(ctx context.Context, id int32) (*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE id = $1`
	entry, err := scanEntry(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("entry", id)
	}
	return entry, err
}

func (r *entryRepository) List(ctx context.Context, filter domain.EntryFilter) ([]domain.LedgerEntry, int32, error) {
	where := []string{"1=1"}
	args := []any{}
	add := func(clause string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.Kind != "" {
		add("kind = $%d", filter.Kind)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.ParishID != 0 {
		add("parish_id = $%d", filter.ParishID)
	}
	if filter.FundID != 0 {
		add("fund_id = $%d", filter.FundID)
	}
	if filter.CategoryID != 0 {
		add("category_id = $%d", filter.CategoryID)
	}
	if filter.FiscalYear != 0 {
		add("fiscal_year = $%d", filter.FiscalYear)
	}
	if filter.FiscalPeriod != 0 {
		add("fiscal_period = $%d", filter.FiscalPeriod)
	}
	if filter.DateFrom != nil {
		add("entry_date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		add("entry_date <= $%d", *filter.DateTo)
	}

	cond := strings.Join(where, " AND ")

	var count int32
	countQuery := `SELECT count(*) FROM ledger_entries WHERE ` + cond
	if err := conn(ctx, r.db).QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	query := fmt.Sprintf(`SELECT %s FROM ledger_entries WHERE %s ORDER BY entry_date DESC, id DESC LIMIT $%d OFFSET $%d`,
		entryColumns, cond, len(args)+1, len(args)+2)
	args = append(args, filter.PageSize, offset)

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, count, nil
}

func (r *entryRepository) ListByIDs(ctx context.Context, kind domain.EntryKind, ids []int32) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE kind = $1 AND id = ANY($2) ORDER BY id`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, kind, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *entryRepository) Transition(ctx context.Context, kind domain.EntryKind, ids []int32, status domain.EntryStatus, actorID int32, at time.Time) ([]int32, error) {
	query := `UPDATE ledger_entries SET status = $1, approved_by = $2, approved_at = $3
	          WHERE kind = $4 AND id = ANY($5) AND status = 'pending' RETURNING id`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, status, actorID, at, kind, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transitioned []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		transitioned = append(transitioned, id)
	}
	return transitioned, rows.Err()
}

func (r *entryRepository) SetReceipt(ctx context.Context, ids []int32, receiptID int32) error {
	query := `UPDATE ledger_entries SET receipt_id = $1 WHERE id = ANY($2)`
	_, err := conn(ctx, r.db).ExecContext(ctx, query, receiptID, pq.Array(ids))
	return err
}

func (r *entryRepository) ListApprovedWithoutReceipt(ctx context.Context, olderThan time.Time) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries
	          WHERE status = 'approved' AND receipt_id IS NULL AND kind IN ('income', 'expense')
	            AND approved_at < $1 ORDER BY approved_at`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	var direction string
	err := row.Scan(
		&e.ID, &e.Code, &e.Kind, &e.ParishID, &e.FundID, &e.CategoryID, &e.Amount,
		&e.PaymentMethod, &e.BankAccountID, &e.ContactID, &e.Counterparty,
		&e.PayerBankName, &e.PayerBankAcct, &e.Description,
		&direction, &e.EntryDate, &e.FiscalYear, &e.FiscalPeriod, &e.Status,
		pq.Array(&e.ImageURLs), &e.SubmittedBy, &e.SubmittedAt, &e.ApprovedBy, &e.ApprovedAt,
		&e.ReceiptID, &e.ContractID, &e.Source,
	)
	if err != nil {
		return nil, err
	}
	e.Direction = domain.AdjustmentDirection(direction)
	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]domain.LedgerEntry, error) {
	var entries []domain.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}
