package dashboard

import (
	"context"
	"io"
	"testing"

	"lendbox/internal/adapter/repository/gormrepo"
	"lendbox/internal/domain/borrow"
	"lendbox/internal/domain/scoring"
	"lendbox/internal/domain/user"
	borrowuc "lendbox/internal/usecase/borrow"
	"lendbox/internal/testutil/sqlitedb"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestGet_FreshUser(t *testing.T) {
	db := sqlitedb.Open(t)
	repos := gormrepo.Repos(db)
	ctx := context.Background()
	log := logrus.New()
	log.SetOutput(io.Discard)

	u := user.New("+254711000000", 1000)
	if err := repos.Users.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	uc := NewUsecase(gormrepo.NewGormUoW(db), dec("20"), log)

	got, err := uc.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.BorrowLimit.IsLocked || !got.BorrowLimit.AvailableBorrow.Equal(dec("20")) {
		t.Fatalf("limit = %+v", got.BorrowLimit)
	}
	if got.KYCProfile.UserID != u.ID {
		t.Fatalf("profile not created: %+v", got.KYCProfile)
	}
	if len(got.RecentTransactions) != 0 || !got.TotalBorrowed.IsZero() || got.ReferralCount != 0 {
		t.Fatalf("unexpected activity: %+v", got)
	}

	// a second read must not create anything new
	if _, err := uc.Get(ctx, u.ID); err != nil {
		t.Fatalf("second Get: %v", err)
	}
}

func TestGet_Aggregates(t *testing.T) {
	db := sqlitedb.Open(t)
	repos := gormrepo.Repos(db)
	u0w := gormrepo.NewGormUoW(db)
	ctx := context.Background()
	log := logrus.New()
	log.SetOutput(io.Discard)

	u := user.New("+254711000001", 1000)
	u.StorageUsed = 250
	u.Score = 15
	if err := repos.Users.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	ledger := borrowuc.NewUsecase(u0w, repos, borrowuc.Config{
		FeePercent: dec("5"),
		DefaultMax: dec("20"),
		Policy:     borrow.PolicyHold,
	}, log)
	if _, err := ledger.SetMaxLimit(ctx, u.ID, dec("1000")); err != nil {
		t.Fatalf("SetMaxLimit: %v", err)
	}
	if err := ledger.Unlock(ctx, u.ID); err != nil {
		t.Fatalf("Unlock: %v", err)
	}

	steps := []struct {
		amount string
		status borrow.Status // "" leaves it pending
		repay  bool
	}{
		{"100", borrow.StatusApproved, false},
		{"100", borrow.StatusCompleted, false},
		{"10", "", false},
		{"10", borrow.StatusRejected, false},
		{"20", borrow.StatusApproved, true},
		{"10", borrow.StatusApproved, false},
	}
	for i, s := range steps {
		tx, err := ledger.RecordTransaction(ctx, u.ID, borrowuc.CreateTransactionInput{Amount: dec(s.amount)})
		if err != nil {
			t.Fatalf("step %d RecordTransaction: %v", i, err)
		}
		switch s.status {
		case "":
		case borrow.StatusRejected:
			if _, err := ledger.Reject(ctx, tx.ID); err != nil {
				t.Fatalf("step %d Reject: %v", i, err)
			}
		default:
			if _, err := ledger.MarkProcessed(ctx, tx.ID, s.status); err != nil {
				t.Fatalf("step %d MarkProcessed: %v", i, err)
			}
		}
		if s.repay {
			if _, err := ledger.RecordRepayment(ctx, u.ID, tx.ID, borrowuc.RepaymentInput{Amount: tx.AmountDebit}); err != nil {
				t.Fatalf("step %d RecordRepayment: %v", i, err)
			}
		}
	}

	for i, phone := range []string{"+254722000001", "+254722000002"} {
		ref := &scoring.Referral{ReferrerID: u.ID, ReferralCode: "CODE000" + string(rune('A'+i)), ReferredPhone: phone}
		if err := repos.Scoring.CreateReferral(ctx, ref); err != nil {
			t.Fatalf("CreateReferral: %v", err)
		}
	}

	got, err := NewUsecase(u0w, dec("20"), log).Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if n := len(got.RecentTransactions); n != RecentCount {
		t.Fatalf("recent = %d, want %d", n, RecentCount)
	}
	if !got.RecentTransactions[0].AmountRequested.Equal(dec("10")) {
		t.Fatalf("newest first expected, got %+v", got.RecentTransactions[0])
	}
	// 105 + 105 + 10.50; the repaid transaction no longer counts
	if !got.TotalBorrowed.Equal(dec("220.50")) {
		t.Fatalf("total borrowed = %s, want 220.50", got.TotalBorrowed)
	}
	if got.ReferralCount != 2 {
		t.Fatalf("referral count = %d", got.ReferralCount)
	}
	if got.Stats.StoragePercentage != 25 || got.Stats.Score != 15 || !got.Stats.AidRecipient {
		t.Fatalf("stats = %+v", got.Stats)
	}
	if got.BorrowLimit.IsLocked {
		t.Fatalf("limit should be unlocked")
	}
}
