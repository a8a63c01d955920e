package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dafeanyi/kobowallet/internal/usecase"
)

// Amounts cross the wire in kobo, the minor unit of the naira.
var koboPerNaira = decimal.NewFromInt(100)

// PaystackClient implements usecase.GatewayClient against the Paystack API.
type PaystackClient struct {
	secretKey   string
	baseURL     string
	callbackURL string
	client      *http.Client
}

// Config for PaystackClient.
type Config struct {
	SecretKey   string
	BaseURL     string
	CallbackURL string
	Timeout     time.Duration
}

// NewPaystackClient creates a new PaystackClient.
func NewPaystackClient(cfg Config) *PaystackClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.paystack.co"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &PaystackClient{
		secretKey:   cfg.SecretKey,
		baseURL:     cfg.BaseURL,
		callbackURL: cfg.CallbackURL,
		client:      &http.Client{Timeout: cfg.Timeout},
	}
}

type initializeRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// InitializeCollection starts a hosted checkout for the given amount and
// returns the authorization URL the customer completes payment on.
func (c *PaystackClient) InitializeCollection(ctx context.Context, email string, amount decimal.Decimal, reference string) (*usecase.CollectionInit, error) {
	payload := initializeRequest{
		Email:       email,
		Amount:      amount.Mul(koboPerNaira).IntPart(),
		Reference:   reference,
		CallbackURL: c.callbackURL,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack initialize: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paystack initialize: unexpected status %d", resp.StatusCode)
	}

	var parsed initializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("paystack initialize: decoding response: %w", err)
	}

	if !parsed.Status {
		return nil, fmt.Errorf("paystack initialize: %s", parsed.Message)
	}

	return &usecase.CollectionInit{
		AuthorizationURL: parsed.Data.AuthorizationURL,
		AccessCode:       parsed.Data.AccessCode,
	}, nil
}

type verifyResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
	} `json:"data"`
}

// VerificationResult is the gateway's view of a collection.
type VerificationResult struct {
	Status    string
	Reference string
	Amount    decimal.Decimal
}

// VerifyTransaction queries the gateway for the state of a collection.
func (c *PaystackClient) VerifyTransaction(ctx context.Context, reference string) (*VerificationResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack verify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paystack verify: unexpected status %d", resp.StatusCode)
	}

	var parsed verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("paystack verify: decoding response: %w", err)
	}

	return &VerificationResult{
		Status:    parsed.Data.Status,
		Reference: parsed.Data.Reference,
		Amount:    decimal.NewFromInt(parsed.Data.Amount).Div(koboPerNaira),
	}, nil
}

// VerifyWebhookSignature checks the HMAC-SHA512 signature Paystack sends in
// the x-paystack-signature header against the raw request body.
func (c *PaystackClient) VerifyWebhookSignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// KoboToNaira converts a gateway minor-unit amount to naira.
func KoboToNaira(kobo int64) decimal.Decimal {
	return decimal.NewFromInt(kobo).Div(koboPerNaira)
}
