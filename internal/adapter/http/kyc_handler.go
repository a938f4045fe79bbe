package http

import (
	"net/http"

	kycuc "lendbox/internal/usecase/kyc"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type KYCHandler struct {
	responder
	uc *kycuc.Usecase
}

func NewKYCHandler(uc *kycuc.Usecase, log *logrus.Logger) *KYCHandler {
	return &KYCHandler{responder: responder{log: log}, uc: uc}
}

func (h *KYCHandler) Get(c echo.Context) error {
	dto, err := h.uc.GetProfile(c.Request().Context(), currentUser(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "kyc": dto})
}

func (h *KYCHandler) SubmitAnswers(c echo.Context) error {
	var req kycuc.SubmitAnswersInput
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	dto, err := h.uc.SubmitAnswers(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "kyc": dto})
}

// UploadDocument takes multipart "document_type" and "file".
func (h *KYCHandler) UploadDocument(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file is required", Code: "validation_error"})
	}
	in := kycuc.UploadDocumentInput{DocumentType: c.FormValue("document_type"), File: fileInput(fh)}
	if err := c.Validate(&in); err != nil {
		return h.invalid(c, err)
	}
	dto, err := h.uc.UploadDocument(c.Request().Context(), currentUser(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "kyc": dto})
}

// UploadPhoneBill takes multipart "file".
func (h *KYCHandler) UploadPhoneBill(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file is required", Code: "validation_error"})
	}
	bill, err := h.uc.UploadPhoneBill(c.Request().Context(), currentUser(c), fileInput(fh))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "phone_bill": bill})
}

func (h *KYCHandler) ListPhoneBills(c echo.Context) error {
	out, err := h.uc.ListPhoneBills(c.Request().Context(), currentUser(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "phone_bills": out})
}
