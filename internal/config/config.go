package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	AppPort  string
	LogLevel string

	// mysql | postgres | sqlite
	DBDriver string
	DBHost   string
	DBPort   string
	DBName   string
	DBUser   string
	DBPass   string
	// sqlite file path, or a full DSN override for any driver
	DBDSN string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	OTPValidDuration   time.Duration
	OTPMaxAttempts     int
	OTPRequestCooldown time.Duration
	// Staff keep the password set by lendctl when they log in with an OTP.
	KeepStaffPasswords bool

	BorrowFeePercent      decimal.Decimal
	BorrowDefaultMax      decimal.Decimal
	BorrowRepaymentPolicy string

	StorageBackend      string // local | gcs
	StorageDir          string
	GCSBucket           string
	MaxUploadSize       int64
	AllowedFileTypes    []string
	KYCAllowedFileTypes []string
	DefaultStorageQuota int64

	// log | twilio
	WhatsAppTransport           string
	TwilioAccountSID            string
	TwilioAuthToken             string
	TwilioFromNumber            string
	TwilioOTPTemplateSID        string
	TwilioInvitationTemplateSID string
}

func getenv(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvInt64(k string, d int64) int64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return d
}

func getenvBool(k string, d bool) bool {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

// getenvSeconds accepts either a Go duration ("5m") or a bare number of seconds ("300").
func getenvSeconds(k string, d time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}

func getenvDecimal(k string, d decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(k); v != "" {
		if n, err := decimal.NewFromString(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return d
}

func getenvCSV(k string, d []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			if !strings.HasPrefix(p, ".") {
				p = "." + p
			}
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return d
	}
	return out
}

// Load reads a .env file when present, then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	c := &Config{
		AppPort:  getenv("APP_PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBDriver: strings.ToLower(getenv("DB_DRIVER", "mysql")),
		DBHost:   getenv("DB_HOST", "mysql"),
		DBPort:   getenv("DB_PORT", "3306"),
		DBName:   getenv("DB_NAME", "lendbox"),
		DBUser:   getenv("DB_USER", "lendbox"),
		DBPass:   getenv("DB_PASS", "lendbox"),
		DBDSN:    getenv("DB_DSN", ""),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:      getenvInt("REDIS_DB", 0),
		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),

		JWTSecret: getenv("JWT_SECRET", ""),
		JWTIssuer: getenv("JWT_ISSUER", "lendbox"),
		JWTTTL:    getenvSeconds("JWT_TTL", 24*time.Hour),

		OTPValidDuration:   getenvSeconds("OTP_VALID_DURATION", 300*time.Second),
		OTPMaxAttempts:     getenvInt("OTP_MAX_ATTEMPTS", 3),
		OTPRequestCooldown: getenvSeconds("OTP_REQUEST_COOLDOWN", 30*time.Second),
		KeepStaffPasswords: getenvBool("AUTH_KEEP_STAFF_PASSWORDS", true),

		BorrowFeePercent:      getenvDecimal("BORROW_FEE_PERCENT", decimal.NewFromInt(5)),
		BorrowDefaultMax:      getenvDecimal("BORROW_DEFAULT_MAX", decimal.NewFromInt(20)),
		BorrowRepaymentPolicy: strings.ToLower(getenv("BORROW_REPAYMENT_POLICY", "hold")),

		StorageBackend:      strings.ToLower(getenv("STORAGE_BACKEND", "local")),
		StorageDir:          getenv("STORAGE_DIR", "./media"),
		GCSBucket:           getenv("GCS_BUCKET", ""),
		MaxUploadSize:       getenvInt64("MAX_UPLOAD_SIZE", 10*1024*1024),
		AllowedFileTypes:    getenvCSV("ALLOWED_FILE_TYPES", []string{".txt", ".md", ".pdf", ".doc", ".docx"}),
		KYCAllowedFileTypes: getenvCSV("KYC_ALLOWED_FILE_TYPES", []string{".pdf", ".jpg", ".jpeg", ".png"}),
		DefaultStorageQuota: getenvInt64("DEFAULT_STORAGE_QUOTA", 1024*1024*1024),

		WhatsAppTransport:           strings.ToLower(getenv("WHATSAPP_TRANSPORT", "log")),
		TwilioAccountSID:            getenv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:             getenv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber:            getenv("TWILIO_WHATSAPP_FROM_NUMBER", ""),
		TwilioOTPTemplateSID:        getenv("TWILIO_WHATSAPP_RECEIVER_OTP_TEMPLATE_SID", ""),
		TwilioInvitationTemplateSID: getenv("TWILIO_WHATSAPP_RECEIVER_INVITATION_TEMPLATE_SID", ""),
	}
	return c
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql", "postgres":
		if c.DBDSN == "" {
			if c.DBHost == "" || c.DBPort == "" || c.DBName == "" || c.DBUser == "" {
				return errors.New("missing database config (DB_HOST/PORT/NAME/USER)")
			}
			// ensure port is valid
			if _, err := net.LookupPort("tcp", c.DBPort); err != nil {
				return fmt.Errorf("invalid DB_PORT %q: %w", c.DBPort, err)
			}
		}
	case "sqlite":
		if c.DBDSN == "" {
			return errors.New("DB_DSN is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 bytes")
	}
	if c.OTPMaxAttempts <= 0 {
		return errors.New("OTP_MAX_ATTEMPTS must be positive")
	}
	if c.BorrowFeePercent.IsNegative() {
		return errors.New("BORROW_FEE_PERCENT must not be negative")
	}
	switch c.BorrowRepaymentPolicy {
	case "hold", "restore":
	default:
		return fmt.Errorf("unsupported BORROW_REPAYMENT_POLICY %q", c.BorrowRepaymentPolicy)
	}
	switch c.StorageBackend {
	case "local":
	case "gcs":
		if c.GCSBucket == "" {
			return errors.New("GCS_BUCKET is required for gcs storage")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.WhatsAppTransport == "twilio" && (c.TwilioAccountSID == "" || c.TwilioAuthToken == "") {
		return errors.New("TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN are required for twilio transport")
	}
	return nil
}

func (c *Config) dbAddr() string { return net.JoinHostPort(c.DBHost, c.DBPort) }

// DSN builds the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	switch c.DBDriver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			c.DBHost, c.DBPort, c.DBUser, c.DBPass, c.DBName)
	default:
		// parseTime needed for DATETIME
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
			c.DBUser, c.DBPass, c.dbAddr(), c.DBName)
	}
}
