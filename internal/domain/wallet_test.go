package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestWallet_ValidateDebit(t *testing.T) {
	tests := []struct {
		name    string
		balance decimal.Decimal
		amount  decimal.Decimal
		wantErr error
	}{
		{
			name:    "sufficient funds",
			balance: decimal.NewFromInt(500),
			amount:  decimal.NewFromInt(100),
			wantErr: nil,
		},
		{
			name:    "exact balance",
			balance: decimal.NewFromInt(100),
			amount:  decimal.NewFromInt(100),
			wantErr: nil,
		},
		{
			name:    "one kobo over balance",
			balance: decimal.RequireFromString("100.00"),
			amount:  decimal.RequireFromString("100.01"),
			wantErr: ErrInsufficientFunds,
		},
		{
			name:    "empty wallet",
			balance: decimal.Zero,
			amount:  decimal.NewFromInt(1),
			wantErr: ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Wallet{Balance: tt.balance}

			err := w.ValidateDebit(tt.amount)
			if err != tt.wantErr {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWallet_ApplyDebitCredit(t *testing.T) {
	w := &Wallet{Balance: decimal.NewFromInt(250)}

	debited := w.ApplyDebit(decimal.NewFromInt(100))
	if !debited.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected 150 after debit, got %s", debited)
	}

	credited := w.ApplyCredit(decimal.NewFromInt(100))
	if !credited.Equal(decimal.NewFromInt(350)) {
		t.Errorf("expected 350 after credit, got %s", credited)
	}

	// Balance itself is untouched until the store commits
	if !w.Balance.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected balance unchanged, got %s", w.Balance)
	}
}
