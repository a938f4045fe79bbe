package borrow

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	// Inserts the limit unless the user already has one.
	EnsureLimit(ctx context.Context, l *Limit) error
	GetLimitByUserID(ctx context.Context, userID uint64) (*Limit, error)
	GetLimitForUpdate(ctx context.Context, userID uint64) (*Limit, error)
	SaveLimit(ctx context.Context, l *Limit) error

	CreateTransaction(ctx context.Context, t *Transaction) error
	SaveTransaction(ctx context.Context, t *Transaction) error
	GetTransaction(ctx context.Context, id uint64) (*Transaction, error)
	GetTransactionForUpdate(ctx context.Context, id uint64) (*Transaction, error)
	// Newest first; n <= 0 means no limit.
	ListTransactions(ctx context.Context, userID uint64, n int) ([]Transaction, error)

	// Sum of amount_debit over processed transactions, optionally narrowed to statuses.
	SumProcessedDebits(ctx context.Context, userID uint64, statuses ...Status) (decimal.Decimal, error)
	// Sum of repayments made against the user's processed transactions.
	SumProcessedRepayments(ctx context.Context, userID uint64) (decimal.Decimal, error)

	CreateRepayment(ctx context.Context, r *Repayment) error
	SumRepayments(ctx context.Context, transactionID uint64) (decimal.Decimal, error)
	ListRepayments(ctx context.Context, transactionID uint64) ([]Repayment, error)
}
