package borrow

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeFee returns requested × feePercent / 100 rounded to cents.
func ComputeFee(requested, feePercent decimal.Decimal) decimal.Decimal {
	return requested.Mul(feePercent).Div(hundred).Round(2)
}

// RepaymentPolicy decides whether repayments give limit back.
type RepaymentPolicy string

const (
	// PolicyHold keeps a processed debit spent regardless of repayments.
	PolicyHold RepaymentPolicy = "hold"
	// PolicyRestore counts only the unpaid part of each processed debit.
	PolicyRestore RepaymentPolicy = "restore"
)

func ParsePolicy(s string) (RepaymentPolicy, error) {
	switch RepaymentPolicy(s) {
	case PolicyHold, PolicyRestore:
		return RepaymentPolicy(s), nil
	default:
		return "", fmt.Errorf("unknown repayment policy %q", s)
	}
}

// Available derives the spendable amount from the limit and the ledger totals.
// It is always computed from full sums, never adjusted incrementally.
func Available(max, processedDebits, repaid decimal.Decimal, policy RepaymentPolicy) decimal.Decimal {
	spent := processedDebits
	if policy == PolicyRestore {
		spent = spent.Sub(repaid)
	}
	return max.Sub(spent)
}

// CanTransition reports whether status may move from -> to.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusCompleted || to == StatusRejected
	case StatusApproved:
		return to == StatusCompleted || to == StatusRepaid
	case StatusCompleted:
		return to == StatusRepaid
	}
	return false
}

// IsProcessingStatus is true for the statuses that debit the limit.
func IsProcessingStatus(s Status) bool {
	return s == StatusApproved || s == StatusCompleted
}
