package scoring

import (
	"context"
	"errors"
	"fmt"

	"lendbox/internal/domain/kyc"
	"lendbox/internal/domain/scoring"
	"lendbox/internal/domain/uow"
	"lendbox/internal/domain/user"
	"lendbox/internal/infrastructure/whatsapp"
	"lendbox/pkg/id"

	"github.com/sirupsen/logrus"
)

const codeAttempts = 5

var errCodeSpace = errors.New("could not allocate a unique referral code")

type Usecase struct {
	uow    uow.UnitOfWork
	repos  uow.Repos
	sender whatsapp.Sender
	log    *logrus.Logger
}

func NewUsecase(u uow.UnitOfWork, repos uow.Repos, sender whatsapp.Sender, log *logrus.Logger) *Usecase {
	return &Usecase{uow: u, repos: repos, sender: sender, log: log}
}

// CreateReferral records an invitation from referrerID to phone and sends it.
// A delivery failure is logged; the referral stays.
func (u *Usecase) CreateReferral(ctx context.Context, referrerID uint64, in CreateReferralInput) (*ReferralDTO, error) {
	phone := user.NormalizePhone(in.PhoneNumber)
	var (
		ref     scoring.Referral
		inviter string
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		referrer, err := r.Users.GetByID(ctx, referrerID)
		if err != nil {
			return err
		}
		if referrer.PhoneNumber == phone {
			return scoring.ErrSelfReferral
		}
		if _, err := r.Users.GetByPhone(ctx, phone); err == nil {
			return scoring.ErrAlreadyMember
		} else if !errors.Is(err, user.ErrNotFound) {
			return err
		}
		if _, err := r.Scoring.GetReferralByPhone(ctx, referrerID, phone); err == nil {
			return scoring.ErrAlreadyReferred
		} else if !errors.Is(err, scoring.ErrNotFound) {
			return err
		}

		code, err := uniqueCode(ctx, r.Scoring)
		if err != nil {
			return err
		}
		ref = scoring.Referral{ReferrerID: referrerID, ReferralCode: code, ReferredPhone: phone}
		if err := r.Scoring.CreateReferral(ctx, &ref); err != nil {
			return err
		}

		if p, err := r.KYC.GetProfileByUserID(ctx, referrerID); err == nil {
			inviter = p.FullName
		} else if !errors.Is(err, kyc.ErrNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toReferralDTO(&ref)
	if _, err := u.sender.Send(ctx, phone, whatsapp.InvitationMessage(inviter)); err != nil {
		u.log.WithError(err).WithFields(logrus.Fields{"referral_id": ref.ID, "phone": phone}).Warn("referral invitation not delivered")
	} else {
		dto.InvitationSent = true
	}
	return &dto, nil
}

func (u *Usecase) ListReferrals(ctx context.Context, referrerID uint64) ([]ReferralDTO, error) {
	refs, err := u.repos.Scoring.ListReferrals(ctx, referrerID)
	if err != nil {
		return nil, err
	}
	out := make([]ReferralDTO, 0, len(refs))
	for i := range refs {
		out = append(out, toReferralDTO(&refs[i]))
	}
	return out, nil
}

func (u *Usecase) ListLogs(ctx context.Context, userID uint64) ([]scoring.Log, error) {
	return u.repos.Scoring.ListLogs(ctx, userID)
}

func uniqueCode(ctx context.Context, repo scoring.Repository) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := id.ReferralCode()
		if err != nil {
			return "", err
		}
		taken, err := repo.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", errCodeSpace, codeAttempts)
}
