package kyc

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"lendbox/internal/domain/borrow"
	"lendbox/internal/domain/document"
	"lendbox/internal/domain/kyc"
	"lendbox/internal/domain/scoring"
	"lendbox/internal/domain/uow"
	"lendbox/internal/domain/user"
	"lendbox/internal/infrastructure/blob"
	borrowuc "lendbox/internal/usecase/borrow"
	documentuc "lendbox/internal/usecase/document"
	scoringuc "lendbox/internal/usecase/scoring"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DefaultMax    decimal.Decimal
	MaxUploadSize int64
	AllowedTypes  []string
}

type Usecase struct {
	uow   uow.UnitOfWork
	repos uow.Repos
	blobs blob.Store
	cfg   Config
	log   *logrus.Logger
	now   func() time.Time
}

func NewUsecase(u uow.UnitOfWork, repos uow.Repos, blobs blob.Store, cfg Config, log *logrus.Logger) *Usecase {
	return &Usecase{uow: u, repos: repos, blobs: blobs, cfg: cfg, log: log, now: time.Now}
}

// EnsureProfile returns the user's KYC profile, creating an empty one first.
func EnsureProfile(ctx context.Context, r uow.Repos, userID uint64) (*kyc.Profile, error) {
	if err := r.KYC.EnsureProfile(ctx, &kyc.Profile{UserID: userID}); err != nil {
		return nil, fmt.Errorf("ensure kyc profile: %w", err)
	}
	return r.KYC.GetProfileByUserID(ctx, userID)
}

func (u *Usecase) GetProfile(ctx context.Context, userID uint64) (*ProfileDTO, error) {
	var out *ProfileDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		usr, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		p, err := EnsureProfile(ctx, r, userID)
		if err != nil {
			return err
		}
		out, err = u.view(ctx, r, usr, p)
		return err
	})
	return out, err
}

// SubmitAnswers stores the answers. The tenth distinct answer completes
// level 1: the user's level is raised, the borrow limit unlocked and the
// level 1 points awarded once.
func (u *Usecase) SubmitAnswers(ctx context.Context, userID uint64, in SubmitAnswersInput) (*ProfileDTO, error) {
	now := u.now().UTC()
	var (
		out       *ProfileDTO
		completed bool
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		usr, err := r.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		p, err := EnsureProfile(ctx, r, userID)
		if err != nil {
			return err
		}
		for _, a := range in.Answers {
			text, err := kyc.Apply(p, a.QuestionIndex, a.Answer)
			if err != nil {
				return fmt.Errorf("question %d: %w", a.QuestionIndex, err)
			}
			resp := &kyc.Response{
				KYCProfileID:  p.ID,
				QuestionIndex: a.QuestionIndex,
				QuestionText:  text,
				Answer:        a.Answer,
				AnsweredAt:    now,
			}
			if err := r.KYC.UpsertResponse(ctx, resp); err != nil {
				return err
			}
		}

		n, err := r.KYC.CountResponses(ctx, p.ID)
		if err != nil {
			return err
		}
		if n >= int64(len(kyc.Questions)) && p.Level1CompletedAt == nil {
			p.AllQuestionsAnswered = true
			p.Level1CompletedAt = &now
			completed = true
		}
		if err := r.KYC.SaveProfile(ctx, p); err != nil {
			return err
		}
		if completed {
			if err := u.completeLevel1(ctx, r, usr); err != nil {
				return err
			}
		}
		out, err = u.view(ctx, r, usr, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	if completed {
		u.log.WithField("user_id", userID).Info("kyc level 1 completed")
	}
	return out, nil
}

func (u *Usecase) completeLevel1(ctx context.Context, r uow.Repos, usr *user.User) error {
	if usr.KYCLevel < 1 {
		usr.KYCLevel = 1
	}
	if err := r.Users.Save(ctx, usr); err != nil {
		return err
	}
	if err := borrowuc.UnlockLimit(ctx, r, borrow.NewLimit(usr.ID, u.cfg.DefaultMax)); err != nil {
		return fmt.Errorf("unlock limit: %w", err)
	}
	_, err := scoringuc.AwardRuleOnce(ctx, r, usr, scoring.ReasonKYCLevel1, "questionnaire completed")
	return err
}

// UploadDocument stores a KYC document. Once level 1 is done and every
// level 2 type is on file, level 2 is completed and its points awarded once.
func (u *Usecase) UploadDocument(ctx context.Context, userID uint64, in UploadDocumentInput) (*ProfileDTO, error) {
	dt, err := kyc.ParseDocumentType(in.DocumentType)
	if err != nil {
		return nil, err
	}
	f := in.File
	key, err := u.store(ctx, "kyc/"+strconv.FormatUint(userID, 10), f)
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	var (
		out       *ProfileDTO
		completed bool
	)
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		usr, err := r.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		p, err := EnsureProfile(ctx, r, userID)
		if err != nil {
			return err
		}
		doc := &kyc.Document{KYCProfileID: p.ID, DocumentType: dt, StorageKey: key, FileName: f.Name}
		if err := r.KYC.CreateDocument(ctx, doc); err != nil {
			return err
		}

		docs, err := r.KYC.ListDocuments(ctx, p.ID)
		if err != nil {
			return err
		}
		if p.Level1CompletedAt != nil && p.Level2CompletedAt == nil && len(missing(docs)) == 0 {
			p.Level2CompletedAt = &now
			if err := r.KYC.SaveProfile(ctx, p); err != nil {
				return err
			}
			usr.KYCLevel = 2
			if err := r.Users.Save(ctx, usr); err != nil {
				return err
			}
			if _, err := scoringuc.AwardRuleOnce(ctx, r, usr, scoring.ReasonKYCLevel2, "documents submitted"); err != nil {
				return err
			}
			completed = true
		}
		out, err = u.view(ctx, r, usr, p)
		return err
	})
	if err != nil {
		u.discard(ctx, key)
		return nil, err
	}
	if completed {
		u.log.WithField("user_id", userID).Info("kyc level 2 completed")
	}
	return out, nil
}

// store checks the file against the upload rules and writes it under prefix.
func (u *Usecase) store(ctx context.Context, prefix string, f documentuc.FileInput) (string, error) {
	if !document.Allowed(f.Name, u.cfg.AllowedTypes) {
		return "", fmt.Errorf("%w: %s", document.ErrFileTypeNotAllowed, f.Name)
	}
	if u.cfg.MaxUploadSize > 0 && f.Size > u.cfg.MaxUploadSize {
		return "", fmt.Errorf("%w: %s", document.ErrFileTooLarge, f.Name)
	}
	key := blob.NewKey(prefix, f.Name)
	if err := u.put(ctx, key, f); err != nil {
		return "", fmt.Errorf("store %s: %w", f.Name, err)
	}
	return key, nil
}

func (u *Usecase) discard(ctx context.Context, key string) {
	if err := u.blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
		u.log.WithError(err).WithField("key", key).Warn("orphan blob not removed")
	}
}

func (u *Usecase) put(ctx context.Context, key string, f documentuc.FileInput) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return u.blobs.Put(ctx, key, rc, f.ContentType)
}

func (u *Usecase) view(ctx context.Context, r uow.Repos, usr *user.User, p *kyc.Profile) (*ProfileDTO, error) {
	resps, err := r.KYC.ListResponses(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	answers := make(map[int]string, len(resps))
	for _, a := range resps {
		answers[a.QuestionIndex] = a.Answer
	}
	qs := make([]QuestionDTO, 0, len(kyc.Questions))
	for i, q := range kyc.Questions {
		qs = append(qs, QuestionDTO{Index: i, Text: q.Text, Answer: answers[i]})
	}

	docs, err := r.KYC.ListDocuments(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	ds := make([]DocumentDTO, 0, len(docs))
	for i := range docs {
		ds = append(ds, toDocumentDTO(&docs[i]))
	}

	return &ProfileDTO{
		Profile:          *p,
		UniqueIdentifier: p.UniqueIdentifier(usr.PhoneNumber),
		KYCLevel:         usr.KYCLevel,
		Questions:        qs,
		Documents:        ds,
		Missing:          missing(docs),
	}, nil
}

func missing(docs []kyc.Document) []kyc.DocumentType {
	have := make(map[kyc.DocumentType]bool, len(docs))
	for _, d := range docs {
		have[d.DocumentType] = true
	}
	out := []kyc.DocumentType{}
	for _, t := range kyc.Level2Types {
		if !have[t] {
			out = append(out, t)
		}
	}
	return out
}
