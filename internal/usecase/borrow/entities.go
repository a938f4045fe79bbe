package borrow

import (
	"time"

	"lendbox/internal/domain/borrow"

	"github.com/shopspring/decimal"
)

type CreateTransactionInput struct {
	Amount decimal.Decimal `json:"amount" validate:"money"`
}

type RepaymentInput struct {
	Amount decimal.Decimal `json:"amount" validate:"money"`
	Notes  string          `json:"notes" validate:"max=1000"`
}

type LimitDTO struct {
	MaxBorrowAmount decimal.Decimal `json:"max_borrow_amount"`
	AvailableBorrow decimal.Decimal `json:"available_borrow"`
	IsLocked        bool            `json:"is_locked"`
	FeePercent      decimal.Decimal `json:"fee_percent"`
	RepaymentPolicy string          `json:"repayment_policy"`
}

type TransactionDTO struct {
	ID              uint64          `json:"id"`
	AmountRequested decimal.Decimal `json:"amount_requested"`
	BorrowFee       decimal.Decimal `json:"borrow_fee"`
	AmountDebit     decimal.Decimal `json:"amount_debit"`
	AmountBefore    decimal.Decimal `json:"amount_before"`
	AmountAfter     decimal.Decimal `json:"amount_after"`
	Status          borrow.Status   `json:"status"`
	Processed       bool            `json:"processed"`
	CreatedAt       time.Time       `json:"created_at"`
	ProcessedAt     *time.Time      `json:"processed_at,omitempty"`
	RepaidAt        *time.Time      `json:"repaid_at,omitempty"`
}

type RepaymentDTO struct {
	ID          uint64          `json:"id"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	Notes       string          `json:"notes"`
	RepaidAt    time.Time       `json:"repaid_at"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Transaction TransactionDTO  `json:"transaction"`
	Limit       LimitDTO        `json:"limit"`
}

func ToTransactionDTO(t *borrow.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:              t.ID,
		AmountRequested: t.AmountRequested,
		BorrowFee:       t.BorrowFee,
		AmountDebit:     t.AmountDebit,
		AmountBefore:    t.AmountBefore,
		AmountAfter:     t.AmountAfter,
		Status:          t.Status,
		Processed:       t.Processed,
		CreatedAt:       t.CreatedAt,
		ProcessedAt:     t.ProcessedAt,
		RepaidAt:        t.RepaidAt,
	}
}
