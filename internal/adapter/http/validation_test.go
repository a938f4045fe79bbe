package http

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPhoneValidation(t *testing.T) {
	type P struct {
		Phone string `json:"phone_number" validate:"phone"`
	}
	cv := NewValidator()

	for _, s := range []string{"+254700000001", "233200000000", " +14155550100 "} {
		if err := cv.Validate(P{Phone: s}); err != nil {
			t.Fatalf("expected valid phone %q, got err: %v", s, err)
		}
	}
	for _, s := range []string{
		"",                  // empty
		"+0700000000",       // leading zero
		"12345",             // too short
		"+2547000000012345", // too long
		"+2547000abc01",     // letters
	} {
		err := cv.Validate(P{Phone: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if !containsFieldMsg(ToFieldErrors(err), "phone_number", "international format") {
			t.Fatalf("expected phone message for %q, got: %+v", s, ToFieldErrors(err))
		}
	}
}

func TestMoneyValidation(t *testing.T) {
	type P struct {
		Amount decimal.Decimal `json:"amount" validate:"money"`
	}
	cv := NewValidator()

	for _, s := range []string{"1", "100.5", "0.01", "20.00"} {
		if err := cv.Validate(P{Amount: decimal.RequireFromString(s)}); err != nil {
			t.Fatalf("expected money OK for %s, got %v", s, err)
		}
	}
	for _, s := range []string{"0", "-5", "1.234"} {
		err := cv.Validate(P{Amount: decimal.RequireFromString(s)})
		if err == nil {
			t.Fatalf("expected money error for %s", s)
		}
		if !containsFieldMsg(ToFieldErrors(err), "amount", "2 decimal places") {
			t.Fatalf("expected money message for %s, got %+v", s, ToFieldErrors(err))
		}
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Name string `json:"name" validate:"required"`
		Code string `json:"otp_code" validate:"len=6,numeric"`
		Min  int    `json:"min" validate:"gte=10"`
		Max  int    `validate:"lte=5"`
	}
	cv := NewValidator()

	err := cv.Validate(P{Code: "12", Min: 9, Max: 6})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)

	if !containsFieldMsg(fe, "name", "is required") {
		t.Fatalf("missing 'is required' for name: %+v", fe)
	}
	if !containsFieldMsg(fe, "otp_code", "exactly 6") {
		t.Fatalf("missing len message for otp_code: %+v", fe)
	}
	if !containsFieldMsg(fe, "min", "at least 10") {
		t.Fatalf("missing gte message for min: %+v", fe)
	}
	// no json tag falls back to the field name
	if !containsFieldMsg(fe, "Max", "at most 5") {
		t.Fatalf("missing lte message for Max: %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	err := errors.New("boom")
	fe := ToFieldErrors(err)
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}
