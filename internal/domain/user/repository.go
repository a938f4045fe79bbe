package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	Save(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint64) (*User, error)
	// Locks the row for the rest of the transaction.
	GetByIDForUpdate(ctx context.Context, id uint64) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)

	GetProfileByPhone(ctx context.Context, phone string) (*WhatsAppProfile, error)
	SaveProfile(ctx context.Context, p *WhatsAppProfile) error
}
