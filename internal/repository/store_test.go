package repository

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewStore(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

func TestTransactCommitsOnSuccess(t *testing.T) {
	store, mock, cleanup := newTestStore(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM payment_plans").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewBillingRepository(store)
	err := store.Transact(context.Background(), func(ctx context.Context) error {
		return repo.DeletePlan(ctx, 1)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactRollsBackOnError(t *testing.T) {
	store, mock, cleanup := newTestStore(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM payment_plans").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	repo := NewBillingRepository(store)
	boom := errors.New("boom")
	err := store.Transact(context.Background(), func(ctx context.Context) error {
		if err := repo.DeletePlan(ctx, 1); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactJoinsNestedCall(t *testing.T) {
	store, mock, cleanup := newTestStore(t)
	defer cleanup()

	// One begin and one commit despite the nested Transact.
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM installments").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM payment_plans").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewBillingRepository(store)
	err := store.Transact(context.Background(), func(ctx context.Context) error {
		if err := repo.DeleteInstallmentsByPlan(ctx, 1); err != nil {
			return err
		}
		return store.Transact(ctx, func(ctx context.Context) error {
			return repo.DeletePlan(ctx, 1)
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
