package borrowmock

import (
	"context"

	domain "lendbox/internal/domain/borrow"

	"github.com/shopspring/decimal"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to no-op success; reads default to context.Canceled.
type Repo struct {
	EnsureLimitFn             func(ctx context.Context, l *domain.Limit) error
	GetLimitByUserIDFn        func(ctx context.Context, userID uint64) (*domain.Limit, error)
	GetLimitForUpdateFn       func(ctx context.Context, userID uint64) (*domain.Limit, error)
	SaveLimitFn               func(ctx context.Context, l *domain.Limit) error
	CreateTransactionFn       func(ctx context.Context, t *domain.Transaction) error
	SaveTransactionFn         func(ctx context.Context, t *domain.Transaction) error
	GetTransactionFn          func(ctx context.Context, id uint64) (*domain.Transaction, error)
	GetTransactionForUpdateFn func(ctx context.Context, id uint64) (*domain.Transaction, error)
	ListTransactionsFn        func(ctx context.Context, userID uint64, n int) ([]domain.Transaction, error)
	SumProcessedDebitsFn      func(ctx context.Context, userID uint64, statuses ...domain.Status) (decimal.Decimal, error)
	SumProcessedRepaymentsFn  func(ctx context.Context, userID uint64) (decimal.Decimal, error)
	CreateRepaymentFn         func(ctx context.Context, r *domain.Repayment) error
	SumRepaymentsFn           func(ctx context.Context, transactionID uint64) (decimal.Decimal, error)
	ListRepaymentsFn          func(ctx context.Context, transactionID uint64) ([]domain.Repayment, error)
}

func (m *Repo) EnsureLimit(ctx context.Context, l *domain.Limit) error {
	if m.EnsureLimitFn != nil {
		return m.EnsureLimitFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetLimitByUserID(ctx context.Context, userID uint64) (*domain.Limit, error) {
	if m.GetLimitByUserIDFn != nil {
		return m.GetLimitByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetLimitForUpdate(ctx context.Context, userID uint64) (*domain.Limit, error) {
	if m.GetLimitForUpdateFn != nil {
		return m.GetLimitForUpdateFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) SaveLimit(ctx context.Context, l *domain.Limit) error {
	if m.SaveLimitFn != nil {
		return m.SaveLimitFn(ctx, l)
	}
	return nil
}

func (m *Repo) CreateTransaction(ctx context.Context, t *domain.Transaction) error {
	if m.CreateTransactionFn != nil {
		return m.CreateTransactionFn(ctx, t)
	}
	return nil
}

func (m *Repo) SaveTransaction(ctx context.Context, t *domain.Transaction) error {
	if m.SaveTransactionFn != nil {
		return m.SaveTransactionFn(ctx, t)
	}
	return nil
}

func (m *Repo) GetTransaction(ctx context.Context, id uint64) (*domain.Transaction, error) {
	if m.GetTransactionFn != nil {
		return m.GetTransactionFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetTransactionForUpdate(ctx context.Context, id uint64) (*domain.Transaction, error) {
	if m.GetTransactionForUpdateFn != nil {
		return m.GetTransactionForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) ListTransactions(ctx context.Context, userID uint64, n int) ([]domain.Transaction, error) {
	if m.ListTransactionsFn != nil {
		return m.ListTransactionsFn(ctx, userID, n)
	}
	return nil, context.Canceled
}

func (m *Repo) SumProcessedDebits(ctx context.Context, userID uint64, statuses ...domain.Status) (decimal.Decimal, error) {
	if m.SumProcessedDebitsFn != nil {
		return m.SumProcessedDebitsFn(ctx, userID, statuses...)
	}
	return decimal.Zero, context.Canceled
}

func (m *Repo) SumProcessedRepayments(ctx context.Context, userID uint64) (decimal.Decimal, error) {
	if m.SumProcessedRepaymentsFn != nil {
		return m.SumProcessedRepaymentsFn(ctx, userID)
	}
	return decimal.Zero, context.Canceled
}

func (m *Repo) CreateRepayment(ctx context.Context, r *domain.Repayment) error {
	if m.CreateRepaymentFn != nil {
		return m.CreateRepaymentFn(ctx, r)
	}
	return nil
}

func (m *Repo) SumRepayments(ctx context.Context, transactionID uint64) (decimal.Decimal, error) {
	if m.SumRepaymentsFn != nil {
		return m.SumRepaymentsFn(ctx, transactionID)
	}
	return decimal.Zero, context.Canceled
}

func (m *Repo) ListRepayments(ctx context.Context, transactionID uint64) ([]domain.Repayment, error) {
	if m.ListRepaymentsFn != nil {
		return m.ListRepaymentsFn(ctx, transactionID)
	}
	return nil, context.Canceled
}
