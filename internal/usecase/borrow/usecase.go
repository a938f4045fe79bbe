package borrow

import (
	"context"
	"fmt"
	"time"

	"lendbox/internal/domain/borrow"
	"lendbox/internal/domain/uow"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Config struct {
	FeePercent decimal.Decimal
	DefaultMax decimal.Decimal
	Policy     borrow.RepaymentPolicy
}

type Usecase struct {
	uow   uow.UnitOfWork
	repos uow.Repos
	cfg   Config
	log   *logrus.Logger
	now   func() time.Time
}

func NewUsecase(u uow.UnitOfWork, repos uow.Repos, cfg Config, log *logrus.Logger) *Usecase {
	return &Usecase{uow: u, repos: repos, cfg: cfg, log: log, now: time.Now}
}

func (u *Usecase) seed(userID uint64) *borrow.Limit {
	return borrow.NewLimit(userID, u.cfg.DefaultMax)
}

func (u *Usecase) limitDTO(l *borrow.Limit) LimitDTO {
	return LimitDTO{
		MaxBorrowAmount: l.MaxBorrowAmount,
		AvailableBorrow: l.AvailableBorrow,
		IsLocked:        l.IsLocked,
		FeePercent:      u.cfg.FeePercent,
		RepaymentPolicy: string(u.cfg.Policy),
	}
}

// validAmount is positive with at most two decimal places.
func validAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Round(2))
}

// recompute derives available from full ledger sums; it never trusts the stored value.
func recompute(ctx context.Context, r uow.Repos, l *borrow.Limit, policy borrow.RepaymentPolicy) (decimal.Decimal, error) {
	debits, err := r.Borrow.SumProcessedDebits(ctx, l.UserID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum debits: %w", err)
	}
	repaid := decimal.Zero
	if policy == borrow.PolicyRestore {
		if repaid, err = r.Borrow.SumProcessedRepayments(ctx, l.UserID); err != nil {
			return decimal.Zero, fmt.Errorf("sum repayments: %w", err)
		}
	}
	return borrow.Available(l.MaxBorrowAmount, debits, repaid, policy), nil
}

// refresh recomputes and stores available, refusing a negative result.
func refresh(ctx context.Context, r uow.Repos, l *borrow.Limit, policy borrow.RepaymentPolicy) error {
	avail, err := recompute(ctx, r, l, policy)
	if err != nil {
		return err
	}
	if avail.IsNegative() {
		return borrow.ErrInsufficientLimit
	}
	l.AvailableBorrow = avail
	return r.Borrow.SaveLimit(ctx, l)
}

// GetLimit returns the user's limit, creating it on first access.
func (u *Usecase) GetLimit(ctx context.Context, userID uint64) (*LimitDTO, error) {
	var out LimitDTO
	err := u.uow.WithinLimitTx(ctx, u.seed(userID), func(r uow.Repos, l *borrow.Limit) error {
		avail, err := recompute(ctx, r, l, u.cfg.Policy)
		if err != nil {
			return err
		}
		if !avail.Equal(l.AvailableBorrow) {
			l.AvailableBorrow = avail
			if err := r.Borrow.SaveLimit(ctx, l); err != nil {
				return err
			}
		}
		out = u.limitDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RecordTransaction creates a pending request for requested plus fee.
func (u *Usecase) RecordTransaction(ctx context.Context, userID uint64, in CreateTransactionInput) (*TransactionDTO, error) {
	if !validAmount(in.Amount) {
		return nil, borrow.ErrInvalidAmount
	}
	var out TransactionDTO
	err := u.uow.WithinLimitTx(ctx, u.seed(userID), func(r uow.Repos, l *borrow.Limit) error {
		if l.IsLocked {
			return borrow.ErrLimitLocked
		}
		avail, err := recompute(ctx, r, l, u.cfg.Policy)
		if err != nil {
			return err
		}
		fee := borrow.ComputeFee(in.Amount, u.cfg.FeePercent)
		debit := in.Amount.Add(fee)
		if debit.GreaterThan(avail) {
			return fmt.Errorf("%w: need %s, available %s", borrow.ErrInsufficientLimit, debit.StringFixed(2), avail.StringFixed(2))
		}
		if !avail.Equal(l.AvailableBorrow) {
			l.AvailableBorrow = avail
			if err := r.Borrow.SaveLimit(ctx, l); err != nil {
				return err
			}
		}

		tx := &borrow.Transaction{
			UserID:          userID,
			AmountBefore:    avail,
			AmountRequested: in.Amount,
			BorrowFee:       fee,
			AmountDebit:     debit,
			AmountAfter:     avail.Sub(debit),
			Status:          borrow.StatusPending,
			CreatedAt:       u.now().UTC(),
		}
		if err := r.Borrow.CreateTransaction(ctx, tx); err != nil {
			return err
		}
		out = ToTransactionDTO(tx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"user_id": userID, "transaction_id": out.ID, "debit": out.AmountDebit.StringFixed(2)}).Info("borrow requested")
	return &out, nil
}

// lockTransaction takes the owner's limit lock, then the transaction row.
func (u *Usecase) lockTransaction(ctx context.Context, txID uint64, fn func(r uow.Repos, l *borrow.Limit, t *borrow.Transaction) error) error {
	t, err := u.repos.Borrow.GetTransaction(ctx, txID)
	if err != nil {
		return err
	}
	return u.uow.WithinLimitTx(ctx, u.seed(t.UserID), func(r uow.Repos, l *borrow.Limit) error {
		locked, err := r.Borrow.GetTransactionForUpdate(ctx, txID)
		if err != nil {
			return err
		}
		return fn(r, l, locked)
	})
}

// MarkProcessed settles a pending transaction as approved or completed and
// debits the limit.
func (u *Usecase) MarkProcessed(ctx context.Context, txID uint64, status borrow.Status) (*TransactionDTO, error) {
	if !borrow.IsProcessingStatus(status) {
		return nil, fmt.Errorf("%w: %s is not a processing status", borrow.ErrInvalidTransition, status)
	}
	var out TransactionDTO
	err := u.lockTransaction(ctx, txID, func(r uow.Repos, l *borrow.Limit, t *borrow.Transaction) error {
		if t.Processed || !borrow.CanTransition(t.Status, status) {
			return fmt.Errorf("%w: %s -> %s", borrow.ErrInvalidTransition, t.Status, status)
		}
		before, err := recompute(ctx, r, l, u.cfg.Policy)
		if err != nil {
			return err
		}
		after := before.Sub(t.AmountDebit)
		if after.IsNegative() {
			return fmt.Errorf("%w: need %s, available %s", borrow.ErrInsufficientLimit, t.AmountDebit.StringFixed(2), before.StringFixed(2))
		}

		now := u.now().UTC()
		t.AmountBefore = before
		t.AmountAfter = after
		t.Processed = true
		t.ProcessedAt = &now
		t.Status = status
		if err := r.Borrow.SaveTransaction(ctx, t); err != nil {
			return err
		}
		if err := refresh(ctx, r, l, u.cfg.Policy); err != nil {
			return err
		}
		out = ToTransactionDTO(t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"transaction_id": txID, "status": status}).Info("borrow processed")
	return &out, nil
}

// Reject closes a pending transaction without touching the limit.
func (u *Usecase) Reject(ctx context.Context, txID uint64) (*TransactionDTO, error) {
	var out TransactionDTO
	err := u.lockTransaction(ctx, txID, func(r uow.Repos, _ *borrow.Limit, t *borrow.Transaction) error {
		if t.Processed || !borrow.CanTransition(t.Status, borrow.StatusRejected) {
			return fmt.Errorf("%w: %s -> %s", borrow.ErrInvalidTransition, t.Status, borrow.StatusRejected)
		}
		t.Status = borrow.StatusRejected
		if err := r.Borrow.SaveTransaction(ctx, t); err != nil {
			return err
		}
		out = ToTransactionDTO(t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RecordRepayment appends a repayment by userID against one of their
// processed transactions. Paying the debit in full marks it repaid.
func (u *Usecase) RecordRepayment(ctx context.Context, userID, txID uint64, in RepaymentInput) (*RepaymentDTO, error) {
	if !validAmount(in.Amount) {
		return nil, borrow.ErrInvalidAmount
	}
	t, err := u.repos.Borrow.GetTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, borrow.ErrNotFound
	}

	var out RepaymentDTO
	err = u.lockTransaction(ctx, txID, func(r uow.Repos, l *borrow.Limit, t *borrow.Transaction) error {
		if !t.Processed || t.Status == borrow.StatusRepaid {
			return fmt.Errorf("%w: cannot repay a %s transaction", borrow.ErrInvalidTransition, t.Status)
		}
		paid, err := r.Borrow.SumRepayments(ctx, t.ID)
		if err != nil {
			return err
		}
		total := paid.Add(in.Amount)
		if total.GreaterThan(t.AmountDebit) {
			return fmt.Errorf("%w: outstanding %s", borrow.ErrRepaymentExceedsDebit, t.AmountDebit.Sub(paid).StringFixed(2))
		}

		now := u.now().UTC()
		rep := &borrow.Repayment{TransactionID: t.ID, AmountPaid: in.Amount, Notes: in.Notes, RepaidAt: now}
		if err := r.Borrow.CreateRepayment(ctx, rep); err != nil {
			return err
		}
		if total.Equal(t.AmountDebit) && borrow.CanTransition(t.Status, borrow.StatusRepaid) {
			t.Status = borrow.StatusRepaid
			t.RepaidAt = &now
			if err := r.Borrow.SaveTransaction(ctx, t); err != nil {
				return err
			}
		}
		if err := refresh(ctx, r, l, u.cfg.Policy); err != nil {
			return err
		}

		out = RepaymentDTO{
			ID:          rep.ID,
			AmountPaid:  rep.AmountPaid,
			Notes:       rep.Notes,
			RepaidAt:    rep.RepaidAt,
			Outstanding: t.AmountDebit.Sub(total),
			Transaction: ToTransactionDTO(t),
			Limit:       u.limitDTO(l),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetMaxLimit changes the ceiling and recomputes available.
func (u *Usecase) SetMaxLimit(ctx context.Context, userID uint64, max decimal.Decimal) (*LimitDTO, error) {
	if max.IsNegative() || !max.Equal(max.Round(2)) {
		return nil, borrow.ErrInvalidAmount
	}
	var out LimitDTO
	err := u.uow.WithinLimitTx(ctx, u.seed(userID), func(r uow.Repos, l *borrow.Limit) error {
		l.MaxBorrowAmount = max
		if err := refresh(ctx, r, l, u.cfg.Policy); err != nil {
			return err
		}
		out = u.limitDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Unlock opens the user's limit for borrowing.
func (u *Usecase) Unlock(ctx context.Context, userID uint64) error {
	return u.uow.WithinLimitTx(ctx, u.seed(userID), func(r uow.Repos, l *borrow.Limit) error {
		l.IsLocked = false
		return r.Borrow.SaveLimit(ctx, l)
	})
}

// UnlockLimit is Unlock for callers already inside a transaction.
func UnlockLimit(ctx context.Context, r uow.Repos, seed *borrow.Limit) error {
	if err := r.Borrow.EnsureLimit(ctx, seed); err != nil {
		return err
	}
	l, err := r.Borrow.GetLimitForUpdate(ctx, seed.UserID)
	if err != nil {
		return err
	}
	if !l.IsLocked {
		return nil
	}
	l.IsLocked = false
	return r.Borrow.SaveLimit(ctx, l)
}

// ListTransactions returns the newest n transactions; n <= 0 lists all.
func (u *Usecase) ListTransactions(ctx context.Context, userID uint64, n int) ([]TransactionDTO, error) {
	txs, err := u.repos.Borrow.ListTransactions(ctx, userID, n)
	if err != nil {
		return nil, err
	}
	out := make([]TransactionDTO, 0, len(txs))
	for i := range txs {
		out = append(out, ToTransactionDTO(&txs[i]))
	}
	return out, nil
}
