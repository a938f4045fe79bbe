// Package app builds the service graph shared by the API server and lendctl.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	httpadp "lendbox/internal/adapter/http"
	"lendbox/internal/adapter/middleware"
	"lendbox/internal/adapter/repository/gormrepo"
	"lendbox/internal/config"
	"lendbox/internal/domain/borrow"
	"lendbox/internal/domain/uow"
	"lendbox/internal/infrastructure/auth"
	"lendbox/internal/infrastructure/blob"
	"lendbox/internal/infrastructure/cache"
	"lendbox/internal/infrastructure/db"
	"lendbox/internal/infrastructure/whatsapp"
	authuc "lendbox/internal/usecase/auth"
	borrowuc "lendbox/internal/usecase/borrow"
	"lendbox/internal/usecase/dashboard"
	documentuc "lendbox/internal/usecase/document"
	folderuc "lendbox/internal/usecase/folder"
	kycuc "lendbox/internal/usecase/kyc"
	scoringuc "lendbox/internal/usecase/scoring"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type App struct {
	Cfg    *config.Config
	Log    *logrus.Logger
	DB     *gorm.DB
	Redis  *redis.Client // nil when REDIS_ADDR is empty
	Blobs  blob.Store
	Sender whatsapp.Sender
	Tokens *auth.TokenManager

	UoW   uow.UnitOfWork
	Repos uow.Repos

	Auth      *authuc.Usecase
	Borrow    *borrowuc.Usecase
	Dashboard *dashboard.Usecase
	Documents *documentuc.Usecase
	Folders   *folderuc.Usecase
	KYC       *kycuc.Usecase
	Scoring   *scoringuc.Usecase

	closers []func() error
}

// OpenDB connects with the configured driver.
func OpenDB(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	g, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return g, nil
}

func NewBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	switch cfg.StorageBackend {
	case "gcs":
		return blob.NewGCSStore(ctx, cfg.GCSBucket)
	default:
		return blob.NewLocalStore(cfg.StorageDir)
	}
}

func NewSender(cfg *config.Config, log *logrus.Logger) (whatsapp.Sender, error) {
	if cfg.WhatsAppTransport != "twilio" {
		return whatsapp.NewLogSender(log), nil
	}
	return whatsapp.NewTwilioSender(whatsapp.TwilioConfig{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		FromNumber: cfg.TwilioFromNumber,
		TemplateSID: map[whatsapp.Kind]string{
			whatsapp.KindOTP:        cfg.TwilioOTPTemplateSID,
			whatsapp.KindInvitation: cfg.TwilioInvitationTemplateSID,
		},
	}, log)
}

// New opens every dependency and builds the usecases. Close releases them.
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	policy, err := borrow.ParsePolicy(cfg.BorrowRepaymentPolicy)
	if err != nil {
		return nil, err
	}

	a := &App{Cfg: cfg, Log: log}
	if a.DB, err = OpenDB(cfg, log); err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() error {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	if cfg.RedisAddr != "" {
		if a.Redis, err = cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB); err != nil {
			a.Close()
			return nil, fmt.Errorf("open redis: %w", err)
		}
		a.closers = append(a.closers, a.Redis.Close)
	}

	if a.Blobs, err = NewBlobStore(ctx, cfg); err != nil {
		a.Close()
		return nil, fmt.Errorf("open blob store: %w", err)
	}
	if c, ok := a.Blobs.(io.Closer); ok {
		a.closers = append(a.closers, c.Close)
	}
	if a.Sender, err = NewSender(cfg, log); err != nil {
		a.Close()
		return nil, fmt.Errorf("whatsapp sender: %w", err)
	}
	a.Tokens = auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	a.UoW = gormrepo.NewGormUoW(a.DB)
	a.Repos = gormrepo.Repos(a.DB)

	var throttle authuc.Throttle
	if a.Redis != nil && cfg.OTPRequestCooldown > 0 {
		throttle = cache.NewThrottle(a.Redis, "otp:throttle:", cfg.OTPRequestCooldown)
	}
	a.Auth = authuc.NewUsecase(a.UoW, a.Sender, throttle, authuc.Config{
		ValidFor:           cfg.OTPValidDuration,
		MaxAttempts:        cfg.OTPMaxAttempts,
		StorageQuota:       cfg.DefaultStorageQuota,
		KeepStaffPasswords: cfg.KeepStaffPasswords,
	}, log)
	a.Borrow = borrowuc.NewUsecase(a.UoW, a.Repos, borrowuc.Config{
		FeePercent: cfg.BorrowFeePercent,
		DefaultMax: cfg.BorrowDefaultMax,
		Policy:     policy,
	}, log)
	a.Dashboard = dashboard.NewUsecase(a.UoW, cfg.BorrowDefaultMax, log)
	a.Documents = documentuc.NewUsecase(a.UoW, a.Repos, a.Blobs, documentuc.Config{
		MaxUploadSize: cfg.MaxUploadSize,
		AllowedTypes:  cfg.AllowedFileTypes,
	}, log)
	a.Folders = folderuc.NewUsecase(a.UoW, a.Repos, a.Blobs, log)
	a.KYC = kycuc.NewUsecase(a.UoW, a.Repos, a.Blobs, kycuc.Config{
		DefaultMax:    cfg.BorrowDefaultMax,
		MaxUploadSize: cfg.MaxUploadSize,
		AllowedTypes:  cfg.KYCAllowedFileTypes,
	}, log)
	a.Scoring = scoringuc.NewUsecase(a.UoW, a.Repos, a.Sender, log)
	return a, nil
}

// Migrate creates the schema and seeds the score rules.
func (a *App) Migrate(ctx context.Context) error {
	return gormrepo.Migrate(ctx, a.DB)
}

func (a *App) pingers() map[string]httpadp.Pinger {
	checks := map[string]httpadp.Pinger{
		"database": func(ctx context.Context) error {
			sqlDB, err := a.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() }
	}
	return checks
}

// Router mounts every route on a fresh echo instance.
func (a *App) Router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()

	h := httpadp.Handlers{
		Health:    httpadp.NewHandler(a.pingers()),
		Auth:      httpadp.NewAuthHandler(a.Auth, a.Tokens, a.Log),
		Dashboard: httpadp.NewDashboardHandler(a.Dashboard, a.Log),
		Borrow:    httpadp.NewBorrowHandler(a.Borrow, a.Log),
		Folders:   httpadp.NewFolderHandler(a.Folders, a.Log),
		Documents: httpadp.NewDocumentHandler(a.Documents, a.Log),
		KYC:       httpadp.NewKYCHandler(a.KYC, a.Log),
		Referrals: httpadp.NewReferralHandler(a.Scoring, a.Log),
	}
	var idem echo.MiddlewareFunc
	if a.Redis != nil {
		idem = middleware.IdempotencyMiddleware(a.Redis, time.Duration(a.Cfg.IdempTTLSecs)*time.Second, a.Log)
	}
	httpadp.Register(e, h, middleware.JWTAuth(a.Tokens), idem)
	return e
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.WithError(err).Warn("close failed")
		}
	}
	a.closers = nil
}
