package scoring

import (
	"time"

	"lendbox/internal/domain/scoring"
)

type CreateReferralInput struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
}

type ReferralDTO struct {
	ID             uint64    `json:"id"`
	ReferralCode   string    `json:"referral_code"`
	ReferredPhone  string    `json:"referred_phone"`
	Claimed        bool      `json:"claimed"`
	ScoreAwarded   bool      `json:"score_awarded"`
	InvitationSent bool      `json:"invitation_sent,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func toReferralDTO(r *scoring.Referral) ReferralDTO {
	return ReferralDTO{
		ID:            r.ID,
		ReferralCode:  r.ReferralCode,
		ReferredPhone: r.ReferredPhone,
		Claimed:       r.ReferredUserID != nil,
		ScoreAwarded:  r.ScoreAwarded,
		CreatedAt:     r.CreatedAt,
	}
}
