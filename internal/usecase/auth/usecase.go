package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lendbox/internal/domain/otp"
	"lendbox/internal/domain/uow"
	"lendbox/internal/domain/user"
	"lendbox/internal/infrastructure/whatsapp"
	scoringuc "lendbox/internal/usecase/scoring"
	"lendbox/pkg/id"

	"github.com/sirupsen/logrus"
)

var (
	ErrThrottled      = errors.New("otp requested too recently, try again shortly")
	ErrDeliveryFailed = errors.New("failed to deliver otp")
	ErrUserInactive   = errors.New("user account is inactive")
)

// Throttle rate-limits OTP requests per phone.
type Throttle interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type Config struct {
	ValidFor     time.Duration
	MaxAttempts  int
	StorageQuota int64

	// When set, staff accounts keep their password on OTP login.
	KeepStaffPasswords bool
}

type Usecase struct {
	uow      uow.UnitOfWork
	sender   whatsapp.Sender
	throttle Throttle
	cfg      Config
	log      *logrus.Logger
	now      func() time.Time
}

// NewUsecase wires the verifier; throttle may be nil.
func NewUsecase(u uow.UnitOfWork, sender whatsapp.Sender, throttle Throttle, cfg Config, log *logrus.Logger) *Usecase {
	return &Usecase{uow: u, sender: sender, throttle: throttle, cfg: cfg, log: log, now: time.Now}
}

// RequestOTP replaces any unused OTP for the phone with a fresh code and sends it.
func (u *Usecase) RequestOTP(ctx context.Context, in RequestOTPInput) (*IssueResult, error) {
	phone := user.NormalizePhone(in.PhoneNumber)
	if u.throttle != nil {
		ok, err := u.throttle.Allow(ctx, phone)
		if err != nil {
			// fail open: the cache is not the source of truth
			u.log.WithError(err).Warn("otp throttle unavailable")
		} else if !ok {
			return nil, ErrThrottled
		}
	}

	code, err := id.NumericCode(otp.CodeLength)
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}
	now := u.now().UTC()
	rec := &otp.OTP{
		PhoneNumber: phone,
		Code:        code,
		CreatedAt:   now,
		ExpiresAt:   now.Add(u.cfg.ValidFor),
	}
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.OTPs.DeleteUnused(ctx, phone); err != nil {
			return err
		}
		return r.OTPs.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	res, err := u.sender.Send(ctx, phone, whatsapp.OTPMessage(code, u.cfg.ValidFor))
	if err != nil {
		u.log.WithError(err).WithField("phone", phone).Error("otp delivery failed")
		// let the user retry right away
		if rs, ok := u.throttle.(interface {
			Reset(ctx context.Context, key string) error
		}); ok {
			_ = rs.Reset(ctx, phone)
		}
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	u.log.WithFields(logrus.Fields{"phone": phone, "sid": res.MessageID}).Info("otp issued")
	return &IssueResult{PhoneNumber: phone, ExpiresAt: rec.ExpiresAt}, nil
}

// VerifyOTP consumes the newest unused OTP for the phone and signs the user in.
// A wrong code still commits the bumped attempt counter before ErrMismatch is returned.
func (u *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*VerifyResult, error) {
	phone := user.NormalizePhone(in.PhoneNumber)
	code := strings.TrimSpace(in.OTPCode)
	now := u.now().UTC()

	var (
		res      VerifyResult
		mismatch error
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		rec, err := r.OTPs.LatestUnusedForUpdate(ctx, phone)
		if err != nil {
			return err
		}
		if err := rec.Check(code, now, u.cfg.MaxAttempts); err != nil {
			if !errors.Is(err, otp.ErrMismatch) {
				return err
			}
			if err := r.OTPs.Save(ctx, rec); err != nil {
				return err
			}
			mismatch = err
			return nil
		}
		if err := r.OTPs.Save(ctx, rec); err != nil {
			return err
		}

		usr, created, err := u.getOrCreateUser(ctx, r, phone)
		if err != nil {
			return err
		}
		if !usr.IsActive {
			return ErrUserInactive
		}
		if err := markProfileVerified(ctx, r, usr); err != nil {
			return err
		}
		if !(usr.IsStaff && u.cfg.KeepStaffPasswords) {
			usr.SetUnusablePassword()
		}
		usr.LastLoginAt = &now
		if err := r.Users.Save(ctx, usr); err != nil {
			return err
		}
		// only a signup can pay a referrer
		var claimed bool
		if created {
			if claimed, err = scoringuc.Claim(ctx, r, usr); err != nil {
				return fmt.Errorf("claim referral: %w", err)
			}
		}

		res = VerifyResult{User: ToUserDTO(usr), Created: created, ReferralClaimed: claimed}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if mismatch != nil {
		return nil, mismatch
	}
	u.log.WithFields(logrus.Fields{"user_id": res.User.ID, "created": res.Created}).Info("otp verified")
	return &res, nil
}

func (u *Usecase) getOrCreateUser(ctx context.Context, r uow.Repos, phone string) (*user.User, bool, error) {
	usr, err := r.Users.GetByPhone(ctx, phone)
	if err == nil {
		return usr, false, nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, false, err
	}
	usr = user.New(phone, u.cfg.StorageQuota)
	if err := r.Users.Create(ctx, usr); err != nil {
		return nil, false, err
	}
	return usr, true, nil
}

func markProfileVerified(ctx context.Context, r uow.Repos, usr *user.User) error {
	p, err := r.Users.GetProfileByPhone(ctx, usr.PhoneNumber)
	if errors.Is(err, user.ErrNotFound) {
		p = &user.WhatsAppProfile{PhoneNumber: usr.PhoneNumber}
	} else if err != nil {
		return err
	}
	if p.UserID == nil {
		p.UserID = &usr.ID
	}
	p.IsVerified = true
	return r.Users.SaveProfile(ctx, p)
}
