package scoring

import (
	"context"
	"errors"
	"fmt"

	"lendbox/internal/domain/scoring"
	"lendbox/internal/domain/uow"
	"lendbox/internal/domain/user"
)

// AwardRule adds the active rule's points for reason to u and logs it.
// A missing or inactive rule awards nothing. u is saved by the caller's
// transaction through r; the returned value is the points added.
func AwardRule(ctx context.Context, r uow.Repos, u *user.User, reason scoring.Reason, notes string) (int, error) {
	rule, err := r.Scoring.GetActiveRule(ctx, reason)
	if errors.Is(err, scoring.ErrRuleNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	entry, next := scoring.Award(u.ID, u.Score, reason, rule.PointsValue, notes)
	if err := r.Scoring.CreateLog(ctx, &entry); err != nil {
		return 0, fmt.Errorf("write score log: %w", err)
	}
	u.Score = next
	if err := r.Users.Save(ctx, u); err != nil {
		return 0, err
	}
	return rule.PointsValue, nil
}

// AwardRuleOnce is AwardRule guarded by the score log: a reason already
// logged for the user awards nothing.
func AwardRuleOnce(ctx context.Context, r uow.Repos, u *user.User, reason scoring.Reason, notes string) (int, error) {
	done, err := r.Scoring.HasLog(ctx, u.ID, reason)
	if err != nil || done {
		return 0, err
	}
	return AwardRule(ctx, r, u, reason, notes)
}

// Claim links the oldest open referral for the referred user's phone and
// pays that referrer. Any other open referral for the phone is closed
// without points. Call it once, when the account is created.
func Claim(ctx context.Context, r uow.Repos, referred *user.User) (bool, error) {
	ref, err := r.Scoring.GetOpenReferralForUpdate(ctx, referred.PhoneNumber)
	if errors.Is(err, scoring.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if ref.ReferrerID == referred.ID {
		return false, nil
	}

	ref.ReferredUserID = &referred.ID
	if !ref.ScoreAwarded {
		referrer, err := r.Users.GetByIDForUpdate(ctx, ref.ReferrerID)
		if err != nil {
			return false, fmt.Errorf("load referrer: %w", err)
		}
		if _, err := AwardRule(ctx, r, referrer, scoring.ReasonReferral, "referred "+referred.PhoneNumber); err != nil {
			return false, err
		}
		ref.ScoreAwarded = true
	}
	if err := r.Scoring.SaveReferral(ctx, ref); err != nil {
		return false, err
	}
	if _, err := r.Scoring.CloseOpenReferrals(ctx, referred.PhoneNumber, referred.ID); err != nil {
		return false, fmt.Errorf("close referrals: %w", err)
	}
	return true, nil
}
