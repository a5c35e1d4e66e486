package postgres_test

import (
	"context"
	"errors"
	"testing"

	"parish-ledger-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceRepository_Next(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewSequenceRepository(db)
	ctx := context.Background()

	t.Run("FirstCallStartsAtOne", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO document_sequences").
			WithArgs("income", 2024, 0).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(1))

		value, err := repo.Next(ctx, "income", 2024, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, value)
	})

	t.Run("ExistingCounterIncrements", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO document_sequences").
			WithArgs("payment", 2024, 4).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(43))

		value, err := repo.Next(ctx, "payment", 2024, 4)
		require.NoError(t, err)
		assert.Equal(t, 43, value)
	})
}

func TestStore_WithinTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	store := postgres.NewStore(db)
	ctx := context.Background()

	t.Run("CommitsOnSuccess", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE ledger_entries SET receipt_id").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.WithinTx(ctx, func(ctx context.Context) error {
			return store.SetReceipt(ctx, []int32{7}, 55)
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollsBackOnError", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := store.WithinTx(ctx, func(ctx context.Context) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NestedCallReusesTransaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE ledger_entries SET receipt_id").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.WithinTx(ctx, func(ctx context.Context) error {
			return store.WithinTx(ctx, func(ctx context.Context) error {
				return store.SetReceipt(ctx, []int32{7}, 55)
			})
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
