package http

import (
	"net/http"

	scoringuc "lendbox/internal/usecase/scoring"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ReferralHandler struct {
	responder
	uc *scoringuc.Usecase
}

func NewReferralHandler(uc *scoringuc.Usecase, log *logrus.Logger) *ReferralHandler {
	return &ReferralHandler{responder: responder{log: log}, uc: uc}
}

func (h *ReferralHandler) Create(c echo.Context) error {
	var req scoringuc.CreateReferralInput
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	dto, err := h.uc.CreateReferral(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "referral": dto})
}

func (h *ReferralHandler) List(c echo.Context) error {
	out, err := h.uc.ListReferrals(c.Request().Context(), currentUser(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "referrals": out})
}

func (h *ReferralHandler) ScoreLog(c echo.Context) error {
	out, err := h.uc.ListLogs(c.Request().Context(), currentUser(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "score_log": out})
}
