package gormrepo

import (
	"context"
	"fmt"

	"lendbox/internal/domain/borrow"
	"lendbox/internal/domain/document"
	"lendbox/internal/domain/folder"
	"lendbox/internal/domain/kyc"
	"lendbox/internal/domain/otp"
	"lendbox/internal/domain/scoring"
	"lendbox/internal/domain/user"

	"gorm.io/gorm"
)

// Models lists every table owned by the service, in creation order.
func Models() []any {
	return []any{
		&user.User{},
		&user.WhatsAppProfile{},
		&otp.OTP{},
		&borrow.Limit{},
		&borrow.Transaction{},
		&borrow.Repayment{},
		&kyc.Profile{},
		&kyc.Response{},
		&kyc.Document{},
		&scoring.Log{},
		&scoring.Referral{},
		&scoring.Rule{},
		&scoring.PhoneBill{},
		&folder.Folder{},
		&document.Document{},
	}
}

// Migrate creates or updates the schema and seeds the default score rules.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	if err := NewScoringRepository(db).SeedRules(ctx, scoring.DefaultRules); err != nil {
		return fmt.Errorf("seed score rules: %w", err)
	}
	return nil
}
