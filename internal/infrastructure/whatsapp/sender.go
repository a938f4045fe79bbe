package whatsapp

import (
	"context"
	"fmt"
	"time"

	"lendbox/internal/domain/user"
)

type Kind string

const (
	KindOTP        Kind = "otp"
	KindInvitation Kind = "invitation"
)

// Message is what gets delivered. Vars feed a content template when the
// transport has one configured for Kind; Body is the plain-text fallback.
type Message struct {
	Kind Kind
	Vars map[string]string
	Body string
}

type Result struct {
	MessageID string
}

// Sender delivers messages to a phone number over WhatsApp.
type Sender interface {
	Send(ctx context.Context, phone string, msg Message) (Result, error)
}

func OTPMessage(code string, validFor time.Duration) Message {
	return Message{
		Kind: KindOTP,
		Vars: map[string]string{"otp_code": code},
		Body: fmt.Sprintf("Your verification code is: %s\n\nThis code will expire in %d minutes.", code, int(validFor.Minutes())),
	}
}

func InvitationMessage(inviter string) Message {
	body := "You've been invited to join our lending platform!"
	vars := map[string]string{}
	if inviter != "" {
		body = inviter + " has invited you to join our lending platform!"
		vars["inviter_name"] = inviter
	}
	return Message{
		Kind: KindInvitation,
		Vars: vars,
		Body: body + "\n\nReply to this message to get started.",
	}
}

const channelPrefix = "whatsapp:"

// FormatPhone normalises to "whatsapp:+<digits>".
func FormatPhone(phone string) string {
	return channelPrefix + user.NormalizePhone(phone)
}
