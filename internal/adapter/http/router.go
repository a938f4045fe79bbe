package http

import "github.com/labstack/echo/v4"

type Handlers struct {
	Health    *Handler
	Auth      *AuthHandler
	Dashboard *DashboardHandler
	Borrow    *BorrowHandler
	Folders   *FolderHandler
	Documents *DocumentHandler
	KYC       *KYCHandler
	Referrals *ReferralHandler
}

// Register mounts every route. requireAuth guards /api; idempotent wraps
// the mutating borrow endpoints and may be nil when redis is not configured.
func Register(e *echo.Echo, h Handlers, requireAuth, idempotent echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)

	a := e.Group("/auth")
	a.POST("/request-otp", h.Auth.RequestOTP)
	a.POST("/verify-otp", h.Auth.VerifyOTP)

	api := e.Group("/api", requireAuth)
	api.GET("/dashboard", h.Dashboard.Get)

	b := api.Group("/borrow")
	var guard []echo.MiddlewareFunc
	if idempotent != nil {
		guard = append(guard, idempotent)
	}
	b.GET("/limit", h.Borrow.GetLimit)
	b.GET("/transactions", h.Borrow.ListTransactions)
	b.POST("/transactions", h.Borrow.CreateTransaction, guard...)
	b.POST("/transactions/:id/repayments", h.Borrow.CreateRepayment, guard...)

	api.GET("/folders", h.Folders.List)
	api.POST("/folders", h.Folders.Create)
	api.GET("/folders/:id", h.Folders.Get)
	api.PUT("/folders/:id", h.Folders.Update)
	api.DELETE("/folders/:id", h.Folders.Delete)

	api.GET("/documents", h.Documents.List)
	api.POST("/documents", h.Documents.Upload)
	api.GET("/documents/:id", h.Documents.Get)
	api.GET("/documents/:id/download", h.Documents.Download)
	api.DELETE("/documents/:id", h.Documents.Delete)

	api.GET("/kyc", h.KYC.Get)
	api.POST("/kyc/answers", h.KYC.SubmitAnswers)
	api.POST("/kyc/documents", h.KYC.UploadDocument)
	api.GET("/phone-bills", h.KYC.ListPhoneBills)
	api.POST("/phone-bills", h.KYC.UploadPhoneBill)

	api.GET("/referrals", h.Referrals.List)
	api.POST("/referrals", h.Referrals.Create)
	api.GET("/score-log", h.Referrals.ScoreLog)
}
