package scoring

import (
	"context"
	"fmt"
	"time"

	"lendbox/internal/domain/scoring"
	"lendbox/internal/domain/uow"

	"github.com/sirupsen/logrus"
)

type PhoneBillResult struct {
	Bill        *scoring.PhoneBill
	PointsAdded int
}

// VerifyPhoneBill marks the bill as checked and pays the phone_bill rule.
// The rule pays once per user; later bills are verified without points.
func (u *Usecase) VerifyPhoneBill(ctx context.Context, billID, verifierID uint64) (*PhoneBillResult, error) {
	var res PhoneBillResult
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Users.GetByID(ctx, verifierID); err != nil {
			return err
		}
		bill, err := r.Scoring.GetPhoneBillForUpdate(ctx, billID)
		if err != nil {
			return err
		}
		if err := bill.Verify(verifierID, time.Now().UTC()); err != nil {
			return err
		}
		owner, err := r.Users.GetByIDForUpdate(ctx, bill.UserID)
		if err != nil {
			return err
		}
		points, err := AwardRuleOnce(ctx, r, owner, scoring.ReasonPhoneBill, fmt.Sprintf("phone bill %d verified", bill.ID))
		if err != nil {
			return err
		}
		bill.ScoreAwarded = points > 0
		if err := r.Scoring.SavePhoneBill(ctx, bill); err != nil {
			return err
		}
		res = PhoneBillResult{Bill: bill, PointsAdded: points}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{
		"phone_bill_id": billID,
		"verified_by":   verifierID,
		"points":        res.PointsAdded,
	}).Info("phone bill verified")
	return &res, nil
}

// AdjustScore adds points (negative to deduct) to the user's score and logs
// it as an admin adjustment.
func (u *Usecase) AdjustScore(ctx context.Context, userID uint64, points int, notes string) (*scoring.Log, error) {
	if points == 0 {
		return nil, scoring.ErrZeroAdjustment
	}
	var entry scoring.Log
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		usr, err := r.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		var next int
		entry, next = scoring.Award(usr.ID, usr.Score, scoring.ReasonAdminAdjustment, points, notes)
		if err := r.Scoring.CreateLog(ctx, &entry); err != nil {
			return fmt.Errorf("write score log: %w", err)
		}
		usr.Score = next
		return r.Users.Save(ctx, usr)
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"user_id": userID, "points": points}).Info("score adjusted")
	return &entry, nil
}
