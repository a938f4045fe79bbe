package uowmock

import (
	"context"
	"errors"
	"testing"

	"lendbox/internal/domain/borrow"
	"lendbox/internal/domain/uow"
	"lendbox/internal/testutil/borrowmock"
	"lendbox/internal/testutil/otpmock"
)

func TestUoW_WithinTx_Happy(t *testing.T) {
	ctx := context.Background()

	b := &borrowmock.Repo{}
	o := &otpmock.Repo{}
	repos := uow.Repos{Borrow: b, OTPs: o}

	innerCalled := false
	m := &UoW{
		WithinTxFn: func(gotCtx context.Context, fn func(r uow.Repos) error) error {
			if gotCtx != ctx {
				t.Fatalf("WithinTx: ctx mismatch")
			}
			return fn(repos)
		},
	}

	err := m.WithinTx(ctx, func(r uow.Repos) error {
		innerCalled = true
		if r.Borrow != b || r.OTPs != o {
			t.Fatalf("WithinTx: repos not forwarded correctly")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: unexpected err: %v", err)
	}
	if !innerCalled {
		t.Fatalf("WithinTx: inner fn not called")
	}
}

func TestUoW_Unimplemented(t *testing.T) {
	m := New()
	if err := m.WithinTx(context.Background(), func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx: want errUnimplemented, got %v", err)
	}
	err := m.WithinLimitTx(context.Background(), &borrow.Limit{}, func(uow.Repos, *borrow.Limit) error { return nil })
	if !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinLimitTx: want errUnimplemented, got %v", err)
	}
}

func TestPassthrough_ForwardsLimitAndErrors(t *testing.T) {
	lim := &borrow.Limit{UserID: 3}
	m := Passthrough(uow.Repos{}, lim)
	sentinel := errors.New("boom")
	err := m.WithinLimitTx(context.Background(), borrow.NewLimit(3, lim.MaxBorrowAmount), func(_ uow.Repos, got *borrow.Limit) error {
		if got != lim {
			t.Fatalf("limit not forwarded")
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("want sentinel, got %v", err)
	}
}
