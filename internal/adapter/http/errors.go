package http

import (
	"errors"
	"net/http"

	"lendbox/internal/adapter/middleware"
	"lendbox/internal/domain/borrow"
	"lendbox/internal/domain/document"
	"lendbox/internal/domain/folder"
	"lendbox/internal/domain/kyc"
	"lendbox/internal/domain/otp"
	"lendbox/internal/domain/scoring"
	"lendbox/internal/domain/user"
	"lendbox/internal/infrastructure/auth"
	authuc "lendbox/internal/usecase/auth"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// first match wins
var errorTable = []errorMapping{
	{user.ErrNotFound, http.StatusNotFound, "user_not_found"},
	{otp.ErrNotFound, http.StatusNotFound, "otp_not_found"},
	{borrow.ErrNotFound, http.StatusNotFound, "transaction_not_found"},
	{borrow.ErrLimitNotFound, http.StatusNotFound, "limit_not_found"},
	{document.ErrFolderNotFound, http.StatusNotFound, "folder_not_found"},
	{document.ErrNotFound, http.StatusNotFound, "document_not_found"},
	{folder.ErrNotFound, http.StatusNotFound, "folder_not_found"},
	{folder.ErrParentNotFound, http.StatusNotFound, "parent_not_found"},
	{kyc.ErrNotFound, http.StatusNotFound, "kyc_profile_not_found"},
	{kyc.ErrDocumentNotFound, http.StatusNotFound, "kyc_document_not_found"},
	{scoring.ErrNotFound, http.StatusNotFound, "referral_not_found"},
	{scoring.ErrPhoneBillNotFound, http.StatusNotFound, "phone_bill_not_found"},

	{otp.ErrExpired, http.StatusBadRequest, "otp_expired"},
	{otp.ErrAttemptsExceeded, http.StatusBadRequest, "otp_attempts_exceeded"},
	{otp.ErrMismatch, http.StatusBadRequest, "otp_mismatch"},
	{borrow.ErrInvalidAmount, http.StatusBadRequest, "validation_error"},
	{document.ErrFileTypeNotAllowed, http.StatusBadRequest, "file_type_not_allowed"},
	{document.ErrNoFiles, http.StatusBadRequest, "validation_error"},
	{document.ErrFileTooLarge, http.StatusBadRequest, "file_too_large"},
	{folder.ErrNameRequired, http.StatusBadRequest, "validation_error"},
	{folder.ErrCycle, http.StatusBadRequest, "validation_error"},
	{folder.ErrTooDeep, http.StatusBadRequest, "validation_error"},
	{kyc.ErrInvalidQuestion, http.StatusBadRequest, "validation_error"},
	{kyc.ErrInvalidAnswer, http.StatusBadRequest, "validation_error"},
	{kyc.ErrInvalidDocumentType, http.StatusBadRequest, "validation_error"},
	{scoring.ErrSelfReferral, http.StatusBadRequest, "validation_error"},
	{scoring.ErrZeroAdjustment, http.StatusBadRequest, "validation_error"},

	{auth.ErrInvalidToken, http.StatusUnauthorized, "unauthorized"},
	{authuc.ErrUserInactive, http.StatusUnauthorized, "user_inactive"},

	{borrow.ErrInsufficientLimit, http.StatusConflict, "insufficient_limit"},
	{borrow.ErrLimitLocked, http.StatusConflict, "limit_locked"},
	{borrow.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{borrow.ErrRepaymentExceedsDebit, http.StatusConflict, "repayment_exceeds_debit"},
	{document.ErrInsufficientQuota, http.StatusConflict, "insufficient_quota"},
	{folder.ErrDuplicateName, http.StatusConflict, "duplicate_name"},
	{scoring.ErrAlreadyReferred, http.StatusConflict, "already_referred"},
	{scoring.ErrAlreadyMember, http.StatusConflict, "already_member"},
	{kyc.ErrAlreadyVerified, http.StatusConflict, "already_verified"},
	{scoring.ErrAlreadyVerified, http.StatusConflict, "already_verified"},

	{authuc.ErrThrottled, http.StatusTooManyRequests, "throttled"},
}

func mapError(err error) (int, string) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

// responder is embedded by every handler.
type responder struct{ log *logrus.Logger }

// fail writes the mapped error; unmapped errors are logged and hidden.
func (r responder) fail(c echo.Context, err error) error {
	status, code := mapError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		r.log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
		}).Error("request failed")
		msg = "internal server error"
	}
	return c.JSON(status, ErrorResponse{Error: msg, Code: code})
}

func (r responder) badBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: "invalid_body"})
}

func (r responder) invalid(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Code:    "validation_error",
		Details: ToFieldErrors(err),
	})
}

// bind decodes and validates into req, writing the error response itself.
// It reports whether the handler may continue.
func (r responder) bind(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, r.badBody(c)
	}
	if err := c.Validate(req); err != nil {
		return false, r.invalid(c, err)
	}
	return true, nil
}

func currentUser(c echo.Context) uint64 { return middleware.UserID(c) }
