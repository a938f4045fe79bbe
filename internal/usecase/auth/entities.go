package auth

import (
	"time"

	"lendbox/internal/domain/user"
)

type RequestOTPInput struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
}

type VerifyOTPInput struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
	OTPCode     string `json:"otp_code" validate:"required,len=6,numeric"`
}

type IssueResult struct {
	PhoneNumber string    `json:"phone_number"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type UserDTO struct {
	ID           uint64 `json:"id"`
	PhoneNumber  string `json:"phone_number"`
	KYCLevel     int    `json:"kyc_level"`
	Score        int    `json:"score"`
	AidRecipient bool   `json:"aid_recipient"`
}

type VerifyResult struct {
	User            UserDTO `json:"user"`
	Created         bool    `json:"created"`
	ReferralClaimed bool    `json:"referral_claimed"`
}

func ToUserDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		PhoneNumber:  u.PhoneNumber,
		KYCLevel:     u.KYCLevel,
		Score:        u.Score,
		AidRecipient: u.AidRecipient,
	}
}
