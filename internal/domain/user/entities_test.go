package user

import "testing"

func TestNew_Passwordless(t *testing.T) {
	u := New("+15550001", 1000)
	if u.HasUsablePassword() {
		t.Fatal("new OTP user must not have a usable password")
	}
	if !u.IsActive || !u.AidRecipient {
		t.Fatalf("unexpected flags: %+v", u)
	}

	u.PasswordHash = "$2a$10$abc"
	if !u.HasUsablePassword() {
		t.Fatal("bcrypt hash should be usable")
	}
	u.SetUnusablePassword()
	if u.HasUsablePassword() {
		t.Fatal("SetUnusablePassword did not stick")
	}
}

func TestHasStorageAvailable(t *testing.T) {
	u := &User{StorageQuota: 1000, StorageUsed: 900}
	if u.HasStorageAvailable(200) {
		t.Fatal("900+200 > 1000 must be rejected")
	}
	if !u.HasStorageAvailable(50) {
		t.Fatal("900+50 <= 1000 must be accepted")
	}
	if !u.HasStorageAvailable(100) {
		t.Fatal("exactly at quota must be accepted")
	}
}

func TestStoragePercentage(t *testing.T) {
	if got := (&User{}).StoragePercentage(); got != 0 {
		t.Fatalf("zero quota = %v, want 0", got)
	}
	if got := (&User{StorageQuota: 200, StorageUsed: 50}).StoragePercentage(); got != 25 {
		t.Fatalf("got %v, want 25", got)
	}
}

func TestSetPassword(t *testing.T) {
	u := New("+15550002", 1000)
	if err := u.SetPassword("short"); err != ErrWeakPassword {
		t.Fatalf("err = %v, want ErrWeakPassword", err)
	}
	if u.CheckPassword("") {
		t.Fatal("passwordless user must not match")
	}
	if err := u.SetPassword("correct horse"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if !u.HasUsablePassword() {
		t.Fatal("hash should be usable")
	}
	if !u.CheckPassword("correct horse") || u.CheckPassword("wrong horse") {
		t.Fatal("CheckPassword mismatch")
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"+254700000001":           "+254700000001",
		"254700000001":            "+254700000001",
		" 254700000001 ":          "+254700000001",
		"whatsapp:+254700000001":  "+254700000001",
		" whatsapp:254700000001 ": "+254700000001",
		"":                        "",
	}
	for in, want := range cases {
		if got := NormalizePhone(in); got != want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", in, got, want)
		}
	}
}
