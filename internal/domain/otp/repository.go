package otp

import "context"

type Repository interface {
	Create(ctx context.Context, o *OTP) error
	Save(ctx context.Context, o *OTP) error
	// Removes every unused OTP for the phone; returns how many were dropped.
	DeleteUnused(ctx context.Context, phone string) (int64, error)
	// Newest unused OTP for the phone, row-locked. ErrNotFound when none.
	LatestUnusedForUpdate(ctx context.Context, phone string) (*OTP, error)
}
