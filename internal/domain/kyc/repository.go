package kyc

import "context"

type Repository interface {
	// Inserts the profile unless the user already has one.
	EnsureProfile(ctx context.Context, p *Profile) error
	GetProfileByUserID(ctx context.Context, userID uint64) (*Profile, error)
	SaveProfile(ctx context.Context, p *Profile) error

	// Insert or replace the answer for (profile, question).
	UpsertResponse(ctx context.Context, r *Response) error
	CountResponses(ctx context.Context, profileID uint64) (int64, error)
	ListResponses(ctx context.Context, profileID uint64) ([]Response, error)

	CreateDocument(ctx context.Context, d *Document) error
	GetDocumentForUpdate(ctx context.Context, id uint64) (*Document, error)
	SaveDocument(ctx context.Context, d *Document) error
	ListDocuments(ctx context.Context, profileID uint64) ([]Document, error)
}
