package dashboard

import (
	"lendbox/internal/domain/kyc"
	borrowuc "lendbox/internal/usecase/borrow"

	"github.com/shopspring/decimal"
)

type LimitDTO struct {
	MaxBorrowAmount decimal.Decimal `json:"max_borrow_amount"`
	AvailableBorrow decimal.Decimal `json:"available_borrow"`
	IsLocked        bool            `json:"is_locked"`
}

type StatsDTO struct {
	KYCLevel          int     `json:"kyc_level"`
	Score             int     `json:"score"`
	AidRecipient      bool    `json:"aid_recipient"`
	StorageUsed       int64   `json:"storage_used"`
	StorageQuota      int64   `json:"storage_quota"`
	StoragePercentage float64 `json:"storage_percentage"`
}

type DashboardDTO struct {
	PhoneNumber        string                    `json:"phone_number"`
	KYCProfile         kyc.Profile               `json:"kyc_profile"`
	BorrowLimit        LimitDTO                  `json:"borrow_limit"`
	RecentTransactions []borrowuc.TransactionDTO `json:"recent_transactions"`
	ReferralCount      int64                     `json:"referral_count"`
	TotalBorrowed      decimal.Decimal           `json:"total_borrowed"`
	Stats              StatsDTO                  `json:"user_stats"`
}
