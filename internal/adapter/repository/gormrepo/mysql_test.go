package gormrepo

import (
	"context"
	"testing"

	"lendbox/internal/domain/borrow"
	"lendbox/internal/domain/uow"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openMockMySQL(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return db, mock
}

// The limit row must be read with FOR UPDATE on mysql; sqlite ignores the clause.
func TestWithinLimitTx_MySQLLocksLimitRow(t *testing.T) {
	db, mock := openMockMySQL(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `borrow_limit`.*ON DUPLICATE KEY").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT \\* FROM `borrow_limit` WHERE user_id = \\?.*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "max_borrow_amount", "available_borrow", "is_locked"}).
			AddRow(3, 7, "20.00", "12.50", false))
	mock.ExpectCommit()

	var got *borrow.Limit
	err := NewGormUoW(db).WithinLimitTx(context.Background(), borrow.NewLimit(7, decimal.NewFromInt(20)),
		func(_ uow.Repos, l *borrow.Limit) error {
			got = l
			return nil
		})
	if err != nil {
		t.Fatalf("WithinLimitTx: %v", err)
	}
	if got.ID != 3 || got.IsLocked || !got.AvailableBorrow.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected limit: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWithinTx_MySQLRollsBackOnError(t *testing.T) {
	db, mock := openMockMySQL(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `otp`").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectRollback()

	err := NewGormUoW(db).WithinTx(context.Background(), func(r uow.Repos) error {
		if _, err := r.OTPs.DeleteUnused(context.Background(), "+15550001"); err != nil {
			return err
		}
		return borrow.ErrInsufficientLimit
	})
	if err != borrow.ErrInsufficientLimit {
		t.Fatalf("err = %v, want ErrInsufficientLimit", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
