package dashboard

import (
	"context"
	"math"

	"lendbox/internal/domain/borrow"
	"lendbox/internal/domain/uow"
	borrowuc "lendbox/internal/usecase/borrow"
	kycuc "lendbox/internal/usecase/kyc"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// RecentCount is how many transactions the dashboard shows.
const RecentCount = 5

type Usecase struct {
	uow        uow.UnitOfWork
	defaultMax decimal.Decimal
	log        *logrus.Logger
}

func NewUsecase(u uow.UnitOfWork, defaultMax decimal.Decimal, log *logrus.Logger) *Usecase {
	return &Usecase{uow: u, defaultMax: defaultMax, log: log}
}

// Get composes the dashboard for userID. The KYC profile and borrow limit
// are created on first access; nothing else is written.
func (u *Usecase) Get(ctx context.Context, userID uint64) (*DashboardDTO, error) {
	var out DashboardDTO
	err := u.uow.WithinLimitTx(ctx, borrow.NewLimit(userID, u.defaultMax), func(r uow.Repos, l *borrow.Limit) error {
		usr, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		p, err := kycuc.EnsureProfile(ctx, r, userID)
		if err != nil {
			return err
		}
		txs, err := r.Borrow.ListTransactions(ctx, userID, RecentCount)
		if err != nil {
			return err
		}
		refs, err := r.Scoring.CountReferrals(ctx, userID)
		if err != nil {
			return err
		}
		total, err := r.Borrow.SumProcessedDebits(ctx, userID, borrow.StatusApproved, borrow.StatusCompleted)
		if err != nil {
			return err
		}

		recent := make([]borrowuc.TransactionDTO, 0, len(txs))
		for i := range txs {
			recent = append(recent, borrowuc.ToTransactionDTO(&txs[i]))
		}
		out = DashboardDTO{
			PhoneNumber: usr.PhoneNumber,
			KYCProfile:  *p,
			BorrowLimit: LimitDTO{
				MaxBorrowAmount: l.MaxBorrowAmount,
				AvailableBorrow: l.AvailableBorrow,
				IsLocked:        l.IsLocked,
			},
			RecentTransactions: recent,
			ReferralCount:      refs,
			TotalBorrowed:      total.Round(2),
			Stats: StatsDTO{
				KYCLevel:          usr.KYCLevel,
				Score:             usr.Score,
				AidRecipient:      usr.AidRecipient,
				StorageUsed:       usr.StorageUsed,
				StorageQuota:      usr.StorageQuota,
				StoragePercentage: math.Round(usr.StoragePercentage()*100) / 100,
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
