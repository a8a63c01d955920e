package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrAmountTooLarge  = errors.New("amount exceeds maximum allowed")
	ErrDepositTooSmall = errors.New("deposit below minimum allowed")
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrPasswordTooWeak = errors.New("password does not meet requirements")
	ErrBadWalletNumber = errors.New("invalid wallet number")
)

// Validation constants
const (
	MaxTransactionAmount = "1000000000000"
	MinDepositAmount     = "100" // gateway minimum collection amount
	WalletNumberLength   = 16
	MinPasswordLength    = 8
	MaxPasswordLength    = 128
)

var (
	emailRegex        = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	walletNumberRegex = regexp.MustCompile(`^[0-9]{16}$`)
)

// ValidateAmount validates a transfer amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxTransactionAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxTransactionAmount)
	}

	return nil
}

// ValidateDepositAmount validates a deposit amount against the gateway minimum.
func ValidateDepositAmount(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}

	minAmount, _ := decimal.NewFromString(MinDepositAmount)
	if amount.LessThan(minAmount) {
		return fmt.Errorf("%w: minimum deposit is %s", ErrDepositTooSmall, MinDepositAmount)
	}

	return nil
}

// ValidateWalletNumber validates the external wallet number format.
func ValidateWalletNumber(number string) error {
	if !walletNumberRegex.MatchString(number) {
		return fmt.Errorf("%w: must be %d digits", ErrBadWalletNumber, WalletNumberLength)
	}

	return nil
}

// ValidateEmail validates email format.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePassword validates password strength.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)

	if !hasUpper || !hasLower || !hasNumber {
		return fmt.Errorf("%w: must contain uppercase, lowercase, and numbers", ErrPasswordTooWeak)
	}

	return nil
}
