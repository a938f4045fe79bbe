package uowmock

import (
	"context"
	"errors"

	"lendbox/internal/domain/borrow"
	"lendbox/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn      func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLimitTxFn func(ctx context.Context, seed *borrow.Limit, fn func(r uow.Repos, l *borrow.Limit) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough runs every callback directly against repos, with limit as the
// locked row for WithinLimitTx.
func Passthrough(repos uow.Repos, limit *borrow.Limit) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error {
			return fn(repos)
		},
		WithinLimitTxFn: func(_ context.Context, _ *borrow.Limit, fn func(uow.Repos, *borrow.Limit) error) error {
			return fn(repos, limit)
		},
	}
}

func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}

func (m *UoW) WithWithinLimitTx(fn func(context.Context, *borrow.Limit, func(uow.Repos, *borrow.Limit) error) error) *UoW {
	m.WithinLimitTxFn = fn
	return m
}

func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinLimitTx(ctx context.Context, seed *borrow.Limit, fn func(r uow.Repos, l *borrow.Limit) error) error {
	if m.WithinLimitTxFn != nil {
		return m.WithinLimitTxFn(ctx, seed, fn)
	}
	return errUnimplemented
}
