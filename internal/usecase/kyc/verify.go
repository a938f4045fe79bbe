package kyc

import (
	"context"
	"strconv"

	"lendbox/internal/domain/kyc"
	"lendbox/internal/domain/scoring"
	"lendbox/internal/domain/uow"
	documentuc "lendbox/internal/usecase/document"

	"github.com/sirupsen/logrus"
)

// UploadPhoneBill stores a phone bill for later review. Points are only
// awarded when an operator verifies it.
func (u *Usecase) UploadPhoneBill(ctx context.Context, userID uint64, f documentuc.FileInput) (*scoring.PhoneBill, error) {
	if _, err := u.repos.Users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	key, err := u.store(ctx, "score/phone_bills/"+strconv.FormatUint(userID, 10), f)
	if err != nil {
		return nil, err
	}
	bill := &scoring.PhoneBill{UserID: userID, StorageKey: key, FileName: f.Name}
	if err := u.repos.Scoring.CreatePhoneBill(ctx, bill); err != nil {
		u.discard(ctx, key)
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"user_id": userID, "phone_bill_id": bill.ID}).Info("phone bill uploaded")
	return bill, nil
}

func (u *Usecase) ListPhoneBills(ctx context.Context, userID uint64) ([]scoring.PhoneBill, error) {
	return u.repos.Scoring.ListPhoneBills(ctx, userID)
}

// VerifyDocument marks a KYC document as checked by verifierID.
func (u *Usecase) VerifyDocument(ctx context.Context, docID, verifierID uint64) (*kyc.Document, error) {
	var out *kyc.Document
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Users.GetByID(ctx, verifierID); err != nil {
			return err
		}
		doc, err := r.KYC.GetDocumentForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if err := doc.Verify(verifierID, u.now().UTC()); err != nil {
			return err
		}
		if err := r.KYC.SaveDocument(ctx, doc); err != nil {
			return err
		}
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"document_id": docID, "verified_by": verifierID}).Info("kyc document verified")
	return out, nil
}
