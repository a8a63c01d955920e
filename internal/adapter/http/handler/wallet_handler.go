package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dafeanyi/kobowallet/internal/adapter/http/dto"
	"github.com/dafeanyi/kobowallet/internal/adapter/http/middleware"
	"github.com/dafeanyi/kobowallet/internal/domain"
	"github.com/dafeanyi/kobowallet/internal/infrastructure/gateway"
	"github.com/dafeanyi/kobowallet/internal/infrastructure/metrics"
	"github.com/dafeanyi/kobowallet/internal/usecase"
)

// WebhookVerifier authenticates gateway webhook calls.
type WebhookVerifier interface {
	VerifyWebhookSignature(body []byte, signature string) bool
}

// Gateway webhook event names.
const (
	webhookSignatureHeader = "x-paystack-signature"
	eventChargeSuccess     = "charge.success"
	eventChargeFailed      = "charge.failed"
)

// WalletHandler handles wallet HTTP requests.
type WalletHandler struct {
	depositUC  *usecase.DepositUseCase
	transferUC *usecase.TransferUseCase
	queryUC    *usecase.QueryUseCase
	verifier   WebhookVerifier
	metrics    *metrics.Metrics
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(
	depositUC *usecase.DepositUseCase,
	transferUC *usecase.TransferUseCase,
	queryUC *usecase.QueryUseCase,
	verifier WebhookVerifier,
	m *metrics.Metrics,
) *WalletHandler {
	return &WalletHandler{
		depositUC:  depositUC,
		transferUC: transferUC,
		queryUC:    queryUC,
		verifier:   verifier,
		metrics:    m,
	}
}

// Deposit initiates a deposit through the payment gateway.
func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	init, err := h.depositUC.InitiateDeposit(r.Context(), usecase.InitiateDepositInput{
		UserID: claims.UserID,
		Email:  claims.Email,
		Amount: req.Amount,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to initiate deposit", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.DepositsInitiated.Inc()
		amount, _ := req.Amount.Float64()
		h.metrics.DepositAmount.Observe(amount)
	}

	writeJSON(w, http.StatusCreated, dto.DepositResponse{
		Reference:        init.Reference,
		AuthorizationURL: init.AuthorizationURL,
		AccessCode:       init.AccessCode,
	})
}

// Webhook settles deposits from gateway notifications. This is the only path
// that credits a wallet for a deposit.
func (h *WalletHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body", err.Error())
		return
	}

	signature := r.Header.Get(webhookSignatureHeader)
	if signature == "" || !h.verifier.VerifyWebhookSignature(body, signature) {
		if h.metrics != nil {
			h.metrics.WebhooksRejected.Inc()
		}
		writeError(w, http.StatusUnauthorized, "invalid signature", "")
		return
	}

	var payload dto.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	var outcome domain.DepositOutcome
	switch payload.Event {
	case eventChargeSuccess:
		outcome = domain.DepositOutcomeSuccess
	case eventChargeFailed:
		outcome = domain.DepositOutcomeFailed
	default:
		// Unrecognized events are acknowledged so the gateway stops retrying.
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	event := domain.DepositEvent{
		Outcome:   outcome,
		Reference: payload.Data.Reference,
		Amount:    gateway.KoboToNaira(payload.Data.Amount),
	}

	if err := h.depositUC.SettleDeposit(r.Context(), event); err != nil {
		writeError(w, mapDomainError(err), "failed to settle deposit", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.DepositsSettled.WithLabelValues(string(outcome)).Inc()
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}

// DepositStatus returns the state of a deposit owned by the caller.
func (h *WalletHandler) DepositStatus(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	reference := chi.URLParam(r, "reference")
	if reference == "" {
		writeError(w, http.StatusBadRequest, "missing reference", "")
		return
	}

	txn, err := h.depositUC.GetDepositStatus(r.Context(), reference, claims.UserID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get deposit status", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DepositStatusResponse{
		Reference: txn.Reference,
		Status:    string(txn.Status),
		Amount:    txn.Amount,
	})
}

// Balance returns the caller's wallet balance.
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	balance, err := h.queryUC.GetBalance(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{Balance: balance})
}

// Transfer moves funds from the caller's wallet to another wallet.
func (h *WalletHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.transferUC.Transfer(r.Context(), usecase.TransferInput{
		SenderUserID:          claims.UserID,
		RecipientWalletNumber: req.WalletNumber,
		Amount:                req.Amount,
	})
	if err != nil {
		if h.metrics != nil {
			h.metrics.TransferErrors.WithLabelValues(errorLabel(err)).Inc()
		}
		writeError(w, mapDomainError(err), "failed to transfer", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.TransfersCompleted.Inc()
		amount, _ := req.Amount.Float64()
		h.metrics.TransferAmount.Observe(amount)
	}

	writeJSON(w, http.StatusCreated, dto.TransferCompletedResponse{
		Debit:  dto.TransactionFromDomain(result.Debit),
		Credit: dto.TransactionFromDomain(result.Credit),
	})
}

// Transactions lists the caller's transaction history, newest first.
func (h *WalletHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	txns, err := h.queryUC.GetTransactionHistory(r.Context(), usecase.ListTransactionsInput{
		UserID: claims.UserID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txns))
}

func errorLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrSameWallet):
		return "same_wallet"
	case errors.Is(err, domain.ErrWalletNotFound):
		return "not_found"
	case mapDomainError(err) == http.StatusBadRequest:
		return "invalid_input"
	default:
		return "internal"
	}
}
