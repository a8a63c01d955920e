package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount(decimal.NewFromInt(100)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}

	if err := ValidateAmount(decimal.NewFromInt(-5)); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}

	huge := decimal.RequireFromString("1000000000001")
	if err := ValidateAmount(huge); !errors.Is(err, ErrAmountTooLarge) {
		t.Errorf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestValidateDepositAmount(t *testing.T) {
	if err := ValidateDepositAmount(decimal.NewFromInt(100)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateDepositAmount(decimal.NewFromInt(99)); !errors.Is(err, ErrDepositTooSmall) {
		t.Errorf("expected ErrDepositTooSmall, got %v", err)
	}

	if err := ValidateDepositAmount(decimal.NewFromInt(-1)); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestValidateWalletNumber(t *testing.T) {
	if err := ValidateWalletNumber("4566678954356789"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	for _, bad := range []string{"", "123", "45666789543567890", "456667895435678x"} {
		if err := ValidateWalletNumber(bad); !errors.Is(err, ErrBadWalletNumber) {
			t.Errorf("expected ErrBadWalletNumber for %q, got %v", bad, err)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"user@example.com", "a.b+c@sub.domain.org"}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("expected %q valid, got %v", email, err)
		}
	}

	invalid := []string{"", "no-at-sign", "missing@tld", "@example.com"}
	for _, email := range invalid {
		if err := ValidateEmail(email); !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("expected %q invalid, got %v", email, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("Str0ngPass"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	weak := []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoNumbersHere"}
	for _, p := range weak {
		if err := ValidatePassword(p); !errors.Is(err, ErrPasswordTooWeak) {
			t.Errorf("expected %q weak, got %v", p, err)
		}
	}
}

func TestUser_HasPermission(t *testing.T) {
	u := &User{Permissions: []Permission{PermissionRead, PermissionTransfer}}

	if !u.HasPermission(PermissionRead) {
		t.Error("expected read permission")
	}

	if u.HasPermission(PermissionDeposit) {
		t.Error("did not expect deposit permission")
	}

	if Permission("admin").IsValid() {
		t.Error("unknown permission should be invalid")
	}
}
