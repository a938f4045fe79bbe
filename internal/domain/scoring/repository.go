package scoring

import "context"

type Repository interface {
	CreateLog(ctx context.Context, l *Log) error
	ListLogs(ctx context.Context, userID uint64) ([]Log, error)
	// True when a log with this reason already exists for the user.
	HasLog(ctx context.Context, userID uint64, reason Reason) (bool, error)

	CreateReferral(ctx context.Context, r *Referral) error
	SaveReferral(ctx context.Context, r *Referral) error
	// Oldest referral for the phone that has no referred user yet, row-locked.
	GetOpenReferralForUpdate(ctx context.Context, phone string) (*Referral, error)
	// Links every still-open referral for the phone to the user, without points.
	CloseOpenReferrals(ctx context.Context, phone string, referredID uint64) (int64, error)
	GetReferralByPhone(ctx context.Context, referrerID uint64, phone string) (*Referral, error)
	CountReferrals(ctx context.Context, referrerID uint64) (int64, error)
	ListReferrals(ctx context.Context, referrerID uint64) ([]Referral, error)
	ReferralCodeExists(ctx context.Context, code string) (bool, error)

	CreatePhoneBill(ctx context.Context, b *PhoneBill) error
	SavePhoneBill(ctx context.Context, b *PhoneBill) error
	GetPhoneBillForUpdate(ctx context.Context, id uint64) (*PhoneBill, error)
	ListPhoneBills(ctx context.Context, userID uint64) ([]PhoneBill, error)

	GetActiveRule(ctx context.Context, ruleType Reason) (*Rule, error)
	// Inserts rules whose name is not present yet.
	SeedRules(ctx context.Context, rules []Rule) error
}
