package gormrepo

import (
	"context"

	"lendbox/internal/domain/borrow"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BorrowRepository struct{ db *gorm.DB }

func NewBorrowRepository(db *gorm.DB) *BorrowRepository { return &BorrowRepository{db: db} }

func (r *BorrowRepository) EnsureLimit(ctx context.Context, l *borrow.Limit) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(l).Error
}

func (r *BorrowRepository) GetLimitByUserID(ctx context.Context, userID uint64) (*borrow.Limit, error) {
	var out borrow.Limit
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out).Error; err != nil {
		return nil, mapNotFound(err, borrow.ErrLimitNotFound)
	}
	return &out, nil
}

func (r *BorrowRepository) GetLimitForUpdate(ctx context.Context, userID uint64) (*borrow.Limit, error) {
	var out borrow.Limit
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&out).Error
	if err != nil {
		return nil, mapNotFound(err, borrow.ErrLimitNotFound)
	}
	return &out, nil
}

func (r *BorrowRepository) SaveLimit(ctx context.Context, l *borrow.Limit) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *BorrowRepository) CreateTransaction(ctx context.Context, t *borrow.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *BorrowRepository) SaveTransaction(ctx context.Context, t *borrow.Transaction) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *BorrowRepository) GetTransaction(ctx context.Context, id uint64) (*borrow.Transaction, error) {
	var out borrow.Transaction
	if err := r.db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, mapNotFound(err, borrow.ErrNotFound)
	}
	return &out, nil
}

func (r *BorrowRepository) GetTransactionForUpdate(ctx context.Context, id uint64) (*borrow.Transaction, error) {
	var out borrow.Transaction
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&out, id).Error
	if err != nil {
		return nil, mapNotFound(err, borrow.ErrNotFound)
	}
	return &out, nil
}

func (r *BorrowRepository) ListTransactions(ctx context.Context, userID uint64, n int) ([]borrow.Transaction, error) {
	var out []borrow.Transaction
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")
	if n > 0 {
		q = q.Limit(n)
	}
	err := q.Find(&out).Error
	return out, err
}

func (r *BorrowRepository) SumProcessedDebits(ctx context.Context, userID uint64, statuses ...borrow.Status) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	q := r.db.WithContext(ctx).
		Model(&borrow.Transaction{}).
		Where("user_id = ? AND processed = ?", userID, true)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Pluck("amount_debit", &amounts).Error; err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}

func (r *BorrowRepository) SumProcessedRepayments(ctx context.Context, userID uint64) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&borrow.Repayment{}).
		Joins("JOIN borrow_transaction ON borrow_transaction.id = borrow_repayment.transaction_id").
		Where("borrow_transaction.user_id = ? AND borrow_transaction.processed = ?", userID, true).
		Pluck("borrow_repayment.amount_paid", &amounts).Error
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}

func (r *BorrowRepository) CreateRepayment(ctx context.Context, p *borrow.Repayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *BorrowRepository) SumRepayments(ctx context.Context, transactionID uint64) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&borrow.Repayment{}).
		Where("transaction_id = ?", transactionID).
		Pluck("amount_paid", &amounts).Error
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}

func (r *BorrowRepository) ListRepayments(ctx context.Context, transactionID uint64) ([]borrow.Repayment, error) {
	var out []borrow.Repayment
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("repaid_at ASC, id ASC").
		Find(&out).Error
	return out, err
}
