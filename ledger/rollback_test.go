package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"papertrade.com/types"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return NewStore(gdb), mock
}

func expectUserAndLookups(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "cash_cents"}).AddRow(1, "ana", 1000000))
	mock.ExpectQuery(`SELECT \* FROM "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM "holdings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
}

func TestAppend_RollsBackWhenInsertFails(t *testing.T) {
	s, mock := newMockStore(t)

	expectUserAndLookups(mock)
	mock.ExpectQuery(`INSERT INTO "transactions"`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := s.AppendTransactionAndAdjust(context.Background(), entry(1, "AAPL", types.Buy, 10, "150.00"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_RollsBackWhenCashUpdateFails(t *testing.T) {
	s, mock := newMockStore(t)

	expectUserAndLookups(mock)
	mock.ExpectQuery(`INSERT INTO "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`INSERT INTO "holdings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec(`UPDATE "users"`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := s.AppendTransactionAndAdjust(context.Background(), entry(1, "AAPL", types.Buy, 10, "150.00"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update cash")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_BusinessRejectionRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	expectUserAndLookups(mock)
	mock.ExpectRollback()

	_, err := s.AppendTransactionAndAdjust(context.Background(), entry(1, "AAPL", types.Sell, 1, "150.00"))
	assert.ErrorIs(t, err, types.ErrInsufficientShares)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_LosingConcurrentRegistration(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	_, err := s.CreateUser(context.Background(), "ana", decimal.NewFromInt(100))
	assert.ErrorIs(t, err, types.ErrUsernameTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}
