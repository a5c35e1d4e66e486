package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"parish-ledger-backend/internal/domain"
	"parish-ledger-backend/internal/repository"

	"github.com/lib/pq"
)

type receiptRepository struct {
	db *sql.DB
}

func NewReceiptRepository(db *sql.DB) repository.ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *domain.Receipt) error {
	items, err := json.Marshal(receipt.Items)
	if err != nil {
		return fmt.Errorf("marshal receipt items: %w", err)
	}

	query := `INSERT INTO receipts
		(code, type, parish_id, entry_ids, amount, counterparty, description, items, created_by, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err = conn(ctx, r.db).QueryRowContext(ctx, query,
		receipt.Code, receipt.Type, receipt.ParishID, pq.Array(receipt.EntryIDs),
		receipt.Amount, receipt.Counterparty, receipt.Description, items,
		receipt.CreatedBy, receipt.CreatedAt,
	).Scan(&receipt.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return &domain.ConflictError{Message: fmt.Sprintf("receipt code %s already exists", receipt.Code)}
		}
		return err
	}
	return nil
}

func (r *receiptRepository) GetByID(ctx context.Context, id int32) (*domain.Receipt, error) {
	query := `SELECT id, code, type, parish_id, entry_ids, amount, COALESCE(counterparty, ''),
	                 COALESCE(description, ''), items, created_by, created_at
	          FROM receipts WHERE id = $1`
	receipt, err := scanReceipt(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("receipt", id)
	}
	return receipt, err
}

func (r *receiptRepository) List(ctx context.Context, filter domain.ReceiptFilter) ([]domain.Receipt, int32, error) {
	where := []string{"1=1"}
	args := []any{}
	add := func(clause string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.Type != "" {
		add("type = $%d", filter.Type)
	}
	if filter.ParishID != 0 {
		add("parish_id = $%d", filter.ParishID)
	}
	if filter.DateFrom != nil {
		add("created_at >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		add("created_at <= $%d", *filter.DateTo)
	}

	cond := strings.Join(where, " AND ")

	var count int32
	if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT count(*) FROM receipts WHERE `+cond, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	query := fmt.Sprintf(`SELECT id, code, type, parish_id, entry_ids, amount, COALESCE(counterparty, ''),
	                 COALESCE(description, ''), items, created_by, created_at
	          FROM receipts WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		cond, len(args)+1, len(args)+2)
	args = append(args, filter.PageSize, offset)

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var receipts []domain.Receipt
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, 0, err
		}
		receipts = append(receipts, *receipt)
	}
	return receipts, count, rows.Err()
}

func scanReceipt(row rowScanner) (*domain.Receipt, error) {
	var rec domain.Receipt
	var items []byte
	err := row.Scan(
		&rec.ID, &rec.Code, &rec.Type, &rec.ParishID, pq.Array(&rec.EntryIDs),
		&rec.Amount, &rec.Counterparty, &rec.Description, &items,
		&rec.CreatedBy, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &rec.Items); err != nil {
			return nil, fmt.Errorf("unmarshal receipt items: %w", err)
		}
	}
	return &rec, nil
}
