package http

import (
	"net/http"
	"strconv"

	borrowuc "lendbox/internal/usecase/borrow"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type BorrowHandler struct {
	responder
	uc *borrowuc.Usecase
}

func NewBorrowHandler(uc *borrowuc.Usecase, log *logrus.Logger) *BorrowHandler {
	return &BorrowHandler{responder: responder{log: log}, uc: uc}
}

func (h *BorrowHandler) GetLimit(c echo.Context) error {
	dto, err := h.uc.GetLimit(c.Request().Context(), currentUser(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "limit": dto})
}

// ListTransactions accepts ?limit=n; absent or invalid lists everything.
func (h *BorrowHandler) ListTransactions(c echo.Context) error {
	n, _ := strconv.Atoi(c.QueryParam("limit"))
	out, err := h.uc.ListTransactions(c.Request().Context(), currentUser(c), n)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "transactions": out})
}

func (h *BorrowHandler) CreateTransaction(c echo.Context) error {
	var req borrowuc.CreateTransactionInput
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	dto, err := h.uc.RecordTransaction(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "transaction": dto})
}

func (h *BorrowHandler) CreateRepayment(c echo.Context) error {
	txID, ok := pathID(c, "id")
	if !ok {
		return notFound(c, "transaction")
	}
	var req borrowuc.RepaymentInput
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	dto, err := h.uc.RecordRepayment(c.Request().Context(), currentUser(c), txID, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "repayment": dto})
}
