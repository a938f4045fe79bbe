package borrow

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound              = errors.New("borrow transaction not found")
	ErrLimitNotFound         = errors.New("borrow limit not found")
	ErrInvalidAmount         = errors.New("amount must be greater than zero")
	ErrInsufficientLimit     = errors.New("insufficient borrow limit")
	ErrLimitLocked           = errors.New("borrow limit is locked until kyc level 1")
	ErrInvalidTransition     = errors.New("invalid transaction state transition")
	ErrRepaymentExceedsDebit = errors.New("repayment exceeds outstanding debit")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusRepaid    Status = "repaid"
)

// Table: borrow_limit
type Limit struct {
	ID              uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	UserID          uint64          `gorm:"column:user_id;not null;uniqueIndex:ux_borrow_limit_user" json:"user_id"`
	MaxBorrowAmount decimal.Decimal `gorm:"column:max_borrow_amount;type:decimal(10,2);not null" json:"max_borrow_amount"`
	AvailableBorrow decimal.Decimal `gorm:"column:available_borrow;type:decimal(10,2);not null" json:"available_borrow"`
	IsLocked        bool            `gorm:"column:is_locked;not null" json:"is_locked"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Limit) TableName() string { return "borrow_limit" }

// NewLimit is the lazily created limit: full amount available, locked until KYC level 1.
func NewLimit(userID uint64, max decimal.Decimal) *Limit {
	return &Limit{
		UserID:          userID,
		MaxBorrowAmount: max,
		AvailableBorrow: max,
		IsLocked:        true,
	}
}

// Table: borrow_transaction
type Transaction struct {
	ID              uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID          uint64          `gorm:"column:user_id;not null;index:idx_borrow_tx_user_created" json:"user_id"`
	AmountBefore    decimal.Decimal `gorm:"column:amount_before;type:decimal(10,2);not null" json:"amount_before"`
	AmountRequested decimal.Decimal `gorm:"column:amount_requested;type:decimal(10,2);not null" json:"amount_requested"`
	BorrowFee       decimal.Decimal `gorm:"column:borrow_fee;type:decimal(10,2);not null" json:"borrow_fee"`
	AmountDebit     decimal.Decimal `gorm:"column:amount_debit;type:decimal(10,2);not null" json:"amount_debit"`
	AmountAfter     decimal.Decimal `gorm:"column:amount_after;type:decimal(10,2);not null" json:"amount_after"`
	Status          Status          `gorm:"column:status;size:20;not null;index" json:"status"`
	Processed       bool            `gorm:"column:processed;not null" json:"processed"`
	CreatedAt       time.Time       `gorm:"column:created_at;not null;index:idx_borrow_tx_user_created" json:"created_at"`
	ProcessedAt     *time.Time      `gorm:"column:processed_at" json:"processed_at,omitempty"`
	RepaidAt        *time.Time      `gorm:"column:repaid_at" json:"repaid_at,omitempty"`
}

func (Transaction) TableName() string { return "borrow_transaction" }

// Table: borrow_repayment
type Repayment struct {
	ID            uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TransactionID uint64          `gorm:"column:transaction_id;not null;index" json:"transaction_id"`
	AmountPaid    decimal.Decimal `gorm:"column:amount_paid;type:decimal(10,2);not null" json:"amount_paid"`
	Notes         string          `gorm:"column:notes;type:text" json:"notes"`
	RepaidAt      time.Time       `gorm:"column:repaid_at;not null" json:"repaid_at"`
}

func (Repayment) TableName() string { return "borrow_repayment" }
