package http

import (
	"net/http"

	authuc "lendbox/internal/usecase/auth"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// TokenIssuer signs session tokens after a successful OTP check.
type TokenIssuer interface {
	Generate(userID uint64, phone string) (string, error)
}

type AuthHandler struct {
	responder
	uc     *authuc.Usecase
	tokens TokenIssuer
}

func NewAuthHandler(uc *authuc.Usecase, tokens TokenIssuer, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{responder: responder{log: log}, uc: uc, tokens: tokens}
}

func (h *AuthHandler) RequestOTP(c echo.Context) error {
	var req authuc.RequestOTPInput
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	res, err := h.uc.RequestOTP(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":    true,
		"message":    "OTP sent via WhatsApp",
		"expires_at": res.ExpiresAt,
	})
}

func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req authuc.VerifyOTPInput
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	res, err := h.uc.VerifyOTP(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	token, err := h.tokens.Generate(res.User.ID, res.User.PhoneNumber)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":          true,
		"token":            token,
		"user":             res.User,
		"created":          res.Created,
		"referral_claimed": res.ReferralClaimed,
	})
}
