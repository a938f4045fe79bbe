package scoring

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("referral not found")
	ErrRuleNotFound    = errors.New("score rule not found")
	ErrSelfReferral    = errors.New("cannot refer your own phone number")
	ErrAlreadyReferred = errors.New("phone number already referred")
	ErrAlreadyMember   = errors.New("phone number already registered")

	ErrPhoneBillNotFound = errors.New("phone bill not found")
	ErrAlreadyVerified   = errors.New("phone bill already verified")
	ErrZeroAdjustment    = errors.New("score adjustment must be non-zero")
)

type Reason string

const (
	ReasonReferral        Reason = "referral"
	ReasonPhoneBill       Reason = "phone_bill"
	ReasonKYCLevel1       Reason = "kyc_level_1"
	ReasonKYCLevel2       Reason = "kyc_level_2"
	ReasonAdminAdjustment Reason = "admin_adjustment"
	ReasonOther           Reason = "other"
)

// Table: score_log
type Log struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID        uint64    `gorm:"column:user_id;not null;index" json:"user_id"`
	Reason        Reason    `gorm:"column:reason;size:50;not null" json:"reason"`
	PointsAdded   int       `gorm:"column:points_added;not null" json:"points_added"`
	PreviousScore int       `gorm:"column:previous_score;not null" json:"previous_score"`
	NewScore      int       `gorm:"column:new_score;not null" json:"new_score"`
	Notes         string    `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Log) TableName() string { return "score_log" }

// Table: referral
type Referral struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ReferrerID     uint64    `gorm:"column:referrer_id;not null;index" json:"referrer_id"`
	ReferredUserID *uint64   `gorm:"column:referred_user_id" json:"referred_user_id,omitempty"`
	ReferralCode   string    `gorm:"column:referral_code;size:50;not null;uniqueIndex:ux_referral_code" json:"referral_code"`
	ReferredPhone  string    `gorm:"column:referred_phone;size:20;not null;index" json:"referred_phone"`
	ScoreAwarded   bool      `gorm:"column:score_awarded;not null" json:"score_awarded"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Referral) TableName() string { return "referral" }

// Table: phone_bill_upload
type PhoneBill struct {
	ID           uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID       uint64     `gorm:"column:user_id;not null;index" json:"user_id"`
	StorageKey   string     `gorm:"column:storage_key;size:255;not null" json:"-"`
	FileName     string     `gorm:"column:file_name;size:255;not null" json:"file_name"`
	UploadedAt   time.Time  `gorm:"column:uploaded_at;autoCreateTime" json:"uploaded_at"`
	Verified     bool       `gorm:"column:verified;not null" json:"verified"`
	VerifiedBy   *uint64    `gorm:"column:verified_by" json:"-"`
	VerifiedAt   *time.Time `gorm:"column:verified_at" json:"verified_at,omitempty"`
	ScoreAwarded bool       `gorm:"column:score_awarded;not null" json:"score_awarded"`
}

func (PhoneBill) TableName() string { return "phone_bill_upload" }

func (b *PhoneBill) Verify(by uint64, at time.Time) error {
	if b.Verified {
		return ErrAlreadyVerified
	}
	b.Verified = true
	b.VerifiedBy = &by
	b.VerifiedAt = &at
	return nil
}

// Table: score_rule
type Rule struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RuleName    string    `gorm:"column:rule_name;size:100;not null;uniqueIndex:ux_score_rule_name" json:"rule_name"`
	RuleType    Reason    `gorm:"column:rule_type;size:50;not null;index" json:"rule_type"`
	PointsValue int       `gorm:"column:points_value;not null" json:"points_value"`
	IsActive    bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Rule) TableName() string { return "score_rule" }

// DefaultRules are seeded on migrate when missing.
var DefaultRules = []Rule{
	{RuleName: "Referral signup", RuleType: ReasonReferral, PointsValue: 10, IsActive: true},
	{RuleName: "KYC level 1", RuleType: ReasonKYCLevel1, PointsValue: 5, IsActive: true},
	{RuleName: "KYC level 2", RuleType: ReasonKYCLevel2, PointsValue: 10, IsActive: true},
	{RuleName: "Phone bill verified", RuleType: ReasonPhoneBill, PointsValue: 5, IsActive: true},
}

// Award builds the log entry for adding points to a score and returns the new score.
func Award(userID uint64, current int, reason Reason, points int, notes string) (Log, int) {
	next := current + points
	return Log{
		UserID:        userID,
		Reason:        reason,
		PointsAdded:   points,
		PreviousScore: current,
		NewScore:      next,
		Notes:         notes,
	}, next
}
