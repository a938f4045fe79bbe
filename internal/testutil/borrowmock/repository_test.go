package borrowmock

import (
	"context"
	"errors"
	"testing"

	domain "lendbox/internal/domain/borrow"

	"github.com/shopspring/decimal"
)

func TestRepo_CreateTransaction(t *testing.T) {
	ctx := context.Background()
	tx := &domain.Transaction{UserID: 1}

	called := false
	wantErr := errors.New("boom")
	m := &Repo{
		CreateTransactionFn: func(gotCtx context.Context, got *domain.Transaction) error {
			called = true
			if gotCtx != ctx || got != tx {
				t.Fatalf("CreateTransaction args mismatch")
			}
			return wantErr
		},
	}
	if err := m.CreateTransaction(ctx, tx); !errors.Is(err, wantErr) {
		t.Fatalf("CreateTransaction: want %v, got %v", wantErr, err)
	}
	if !called {
		t.Fatalf("CreateTransactionFn not called")
	}

	// nil func: writes succeed
	if err := (&Repo{}).CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("CreateTransaction default: want nil, got %v", err)
	}
}

func TestRepo_ReadDefaults(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}
	if _, err := m.GetLimitForUpdate(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("GetLimitForUpdate default: %v", err)
	}
	if _, err := m.SumProcessedDebits(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("SumProcessedDebits default: %v", err)
	}
}

func TestRepo_SumProcessedDebitsForwardsStatuses(t *testing.T) {
	var got []domain.Status
	m := &Repo{
		SumProcessedDebitsFn: func(_ context.Context, _ uint64, statuses ...domain.Status) (decimal.Decimal, error) {
			got = statuses
			return decimal.NewFromInt(7), nil
		},
	}
	sum, err := m.SumProcessedDebits(context.Background(), 1, domain.StatusApproved, domain.StatusCompleted)
	if err != nil || !sum.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("sum = %s, err = %v", sum, err)
	}
	if len(got) != 2 || got[0] != domain.StatusApproved {
		t.Fatalf("statuses = %v", got)
	}
}
