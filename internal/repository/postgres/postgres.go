package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"parish-ledger-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so repositories can run
// inside or outside a transaction transparently.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// conn returns the transaction bound to ctx by WithinTx, or the shared pool.
func conn(ctx context.Context, db *sql.DB) DBTX {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

type Store struct {
	db *sql.DB
	repository.EntryRepository
	repository.ReceiptRepository
	repository.SequenceRepository
	repository.AuditRepository
	repository.ContractRepository
	repository.ContactRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                 db,
		EntryRepository:    NewEntryRepository(db),
		ReceiptRepository:  NewReceiptRepository(db),
		SequenceRepository: NewSequenceRepository(db),
		AuditRepository:    NewAuditRepository(db),
		ContractRepository: NewContractRepository(db),
		ContactRepository:  NewContactRepository(db),
	}
}

// WithinTx runs fn with a transaction bound to the context. Nested calls
// reuse the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
