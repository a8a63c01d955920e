package dto

import (
	"github.com/shopspring/decimal"

	"github.com/dafeanyi/kobowallet/internal/usecase"
)

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DepositRequest represents a deposit initiation request.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// TransferRequest represents a wallet-to-wallet transfer request.
type TransferRequest struct {
	WalletNumber string          `json:"wallet_number"`
	Amount       decimal.Decimal `json:"amount"`
}

// WebhookPayload is the gateway's webhook notification body. Amounts arrive
// in kobo.
type WebhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
	} `json:"data"`
}
