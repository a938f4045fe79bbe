package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	c := Load()
	c.JWTSecret = strings.Repeat("s", 32)
	return c
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OTP_VALID_DURATION", "")
	t.Setenv("OTP_MAX_ATTEMPTS", "")
	t.Setenv("BORROW_FEE_PERCENT", "")
	t.Setenv("AUTH_KEEP_STAFF_PASSWORDS", "")

	c := Load()
	if c.OTPValidDuration != 300*time.Second {
		t.Fatalf("OTPValidDuration = %v, want 300s", c.OTPValidDuration)
	}
	if c.OTPMaxAttempts != 3 {
		t.Fatalf("OTPMaxAttempts = %d, want 3", c.OTPMaxAttempts)
	}
	if c.BorrowFeePercent.String() != "5" {
		t.Fatalf("BorrowFeePercent = %s, want 5", c.BorrowFeePercent)
	}
	if c.BorrowRepaymentPolicy != "hold" {
		t.Fatalf("BorrowRepaymentPolicy = %s, want hold", c.BorrowRepaymentPolicy)
	}
	if !c.KeepStaffPasswords {
		t.Fatalf("KeepStaffPasswords = false, want true")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OTP_VALID_DURATION", "120")
	t.Setenv("OTP_REQUEST_COOLDOWN", "1m")
	t.Setenv("BORROW_FEE_PERCENT", "2.5")
	t.Setenv("ALLOWED_FILE_TYPES", "pdf, .TXT,,")
	t.Setenv("AUTH_KEEP_STAFF_PASSWORDS", "false")

	c := Load()
	if c.OTPValidDuration != 2*time.Minute {
		t.Fatalf("OTPValidDuration = %v", c.OTPValidDuration)
	}
	if c.OTPRequestCooldown != time.Minute {
		t.Fatalf("OTPRequestCooldown = %v", c.OTPRequestCooldown)
	}
	if c.BorrowFeePercent.String() != "2.5" {
		t.Fatalf("BorrowFeePercent = %s", c.BorrowFeePercent)
	}
	if got := strings.Join(c.AllowedFileTypes, ","); got != ".pdf,.txt" {
		t.Fatalf("AllowedFileTypes = %s", got)
	}
	if c.KeepStaffPasswords {
		t.Fatalf("KeepStaffPasswords = true, want false")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "ok", mutate: func(c *Config) {}},
		{name: "short secret", mutate: func(c *Config) { c.JWTSecret = "x" }, wantErr: "JWT_SECRET"},
		{name: "bad driver", mutate: func(c *Config) { c.DBDriver = "oracle" }, wantErr: "DB_DRIVER"},
		{name: "sqlite needs dsn", mutate: func(c *Config) { c.DBDriver = "sqlite"; c.DBDSN = "" }, wantErr: "DB_DSN"},
		{name: "bad policy", mutate: func(c *Config) { c.BorrowRepaymentPolicy = "maybe" }, wantErr: "BORROW_REPAYMENT_POLICY"},
		{name: "gcs needs bucket", mutate: func(c *Config) { c.StorageBackend = "gcs"; c.GCSBucket = "" }, wantErr: "GCS_BUCKET"},
		{name: "twilio needs creds", mutate: func(c *Config) { c.WhatsAppTransport = "twilio" }, wantErr: "TWILIO"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.DBDSN = ""
			c.DBDriver = "mysql"
			c.DBPort = "3306"
			c.TwilioAccountSID, c.TwilioAuthToken = "", ""
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected err: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	c := &Config{DBDriver: "mysql", DBHost: "db", DBPort: "3306", DBName: "n", DBUser: "u", DBPass: "p"}
	if got := c.DSN(); !strings.HasPrefix(got, "u:p@tcp(db:3306)/n?") {
		t.Fatalf("mysql dsn = %s", got)
	}
	c.DBDriver = "postgres"
	if got := c.DSN(); !strings.Contains(got, "host=db port=3306 user=u") {
		t.Fatalf("postgres dsn = %s", got)
	}
	c.DBDSN = "file:test.db"
	if got := c.DSN(); got != "file:test.db" {
		t.Fatalf("override dsn = %s", got)
	}
}
