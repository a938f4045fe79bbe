package otp

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("no active otp for phone number")
	ErrExpired          = errors.New("otp expired")
	ErrAttemptsExceeded = errors.New("too many otp attempts")
	ErrMismatch         = errors.New("invalid otp code")
)

const CodeLength = 6

// Table: otp
type OTP struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	PhoneNumber string    `gorm:"column:phone_number;size:20;not null;index:idx_otp_phone_used"`
	Code        string    `gorm:"column:code;size:6;not null"`
	IsUsed      bool      `gorm:"column:is_used;not null;index:idx_otp_phone_used"`
	Attempts    int       `gorm:"column:attempts;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	ExpiresAt   time.Time `gorm:"column:expires_at;not null"`
}

func (OTP) TableName() string { return "otp" }

func (o *OTP) IsExpired(now time.Time) bool { return now.After(o.ExpiresAt) }

func (o *OTP) HasAttemptsLeft(maxAttempts int) bool { return o.Attempts < maxAttempts }

// Check runs the verification guards in order: expiry, attempt budget, code.
// On mismatch the attempt counter is bumped; the caller must persist it.
func (o *OTP) Check(code string, now time.Time, maxAttempts int) error {
	if o.IsExpired(now) {
		return ErrExpired
	}
	if !o.HasAttemptsLeft(maxAttempts) {
		return ErrAttemptsExceeded
	}
	if o.Code != code {
		o.Attempts++
		return ErrMismatch
	}
	o.IsUsed = true
	return nil
}
