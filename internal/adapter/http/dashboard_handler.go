package http

import (
	"net/http"

	"lendbox/internal/usecase/dashboard"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type DashboardHandler struct {
	responder
	uc *dashboard.Usecase
}

func NewDashboardHandler(uc *dashboard.Usecase, log *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{responder: responder{log: log}, uc: uc}
}

func (h *DashboardHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), currentUser(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "dashboard": dto})
}
