package postgres

import (
	"context"
	"database/sql"

	"parish-ledger-backend/internal/repository"
)

type sequenceRepository struct {
	db *sql.DB
}

func NewSequenceRepository(db *sql.DB) repository.SequenceRepository {
	return &sequenceRepository{db: db}
}

// Next increments the counter for (doc_type, year, month) in a single upsert
// so two racing creates can never observe the same value. This replaces the
// count-then-insert scheme, which is unsafe under concurrency.
func (r *sequenceRepository) Next(ctx context.Context, docType string, year, month int) (int, error) {
	query := `INSERT INTO document_sequences (doc_type, fiscal_year, fiscal_month, value)
	          VALUES ($1, $2, $3, 1)
	          ON CONFLICT (doc_type, fiscal_year, fiscal_month)
	          DO UPDATE SET value = document_sequences.value + 1
	          RETURNING value`
	var value int
	err := conn(ctx, r.db).QueryRowContext(ctx, query, docType, year, month).Scan(&value)
	return value, err
}
