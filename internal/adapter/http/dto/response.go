package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dafeanyi/kobowallet/internal/domain"
)

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
	}
}

// WalletResponse represents a wallet in API responses.
type WalletResponse struct {
	ID           string          `json:"id"`
	WalletNumber string          `json:"wallet_number"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"created_at"`
}

// WalletFromDomain converts a domain wallet to a response.
func WalletFromDomain(w *domain.Wallet) *WalletResponse {
	return &WalletResponse{
		ID:           w.ID,
		WalletNumber: w.WalletNumber,
		Balance:      w.Balance,
		CreatedAt:    w.CreatedAt,
	}
}

// RegisterResponse represents a successful registration.
type RegisterResponse struct {
	Token  string          `json:"token,omitempty"`
	User   *UserResponse   `json:"user"`
	Wallet *WalletResponse `json:"wallet"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// DepositResponse represents an initiated deposit.
type DepositResponse struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
}

// BalanceResponse represents a wallet balance.
type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID                string          `json:"id"`
	WalletID          string          `json:"wallet_id"`
	Type              string          `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	Status            string          `json:"status"`
	Reference         string          `json:"reference"`
	RecipientWalletID *string         `json:"recipient_wallet_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                t.ID,
		WalletID:          t.WalletID,
		Type:              string(t.Type),
		Amount:            t.Amount,
		Status:            string(t.Status),
		Reference:         t.Reference,
		RecipientWalletID: t.RecipientWalletID,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// TransferCompletedResponse represents a completed transfer.
type TransferCompletedResponse struct {
	Debit  *TransactionResponse `json:"debit"`
	Credit *TransactionResponse `json:"credit"`
}

// DepositStatusResponse represents the state of a deposit.
type DepositStatusResponse struct {
	Reference string          `json:"reference"`
	Status    string          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
