package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dafeanyi/kobowallet/internal/adapter/http/dto"
	"github.com/dafeanyi/kobowallet/internal/infrastructure/auth"
	"github.com/dafeanyi/kobowallet/internal/infrastructure/metrics"
	"github.com/dafeanyi/kobowallet/internal/usecase"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	userUC     *usecase.UserUseCase
	jwtManager *auth.JWTManager
	metrics    *metrics.Metrics
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userUC *usecase.UserUseCase, jwtManager *auth.JWTManager, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		userUC:     userUC,
		jwtManager: jwtManager,
		metrics:    m,
	}
}

// Register creates a user with a wallet and returns a token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, wallet, err := h.userUC.Register(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to register", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.WalletsCreated.Inc()
	}

	resp := dto.RegisterResponse{
		User:   dto.UserFromDomain(user),
		Wallet: dto.WalletFromDomain(wallet),
	}

	if h.jwtManager != nil {
		token, err := h.jwtManager.Generate(user)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to issue token", err.Error())
			return
		}
		resp.Token = token
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Login authenticates a user and returns a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.Authenticate(r.Context(), usecase.AuthenticateInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if h.metrics != nil {
			h.metrics.AuthAttempts.WithLabelValues("failure").Inc()
			h.metrics.AuthFailures.WithLabelValues("bad_credentials").Inc()
		}
		writeError(w, mapDomainError(err), "invalid credentials", "")
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.AuthAttempts.WithLabelValues("success").Inc()
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token: token,
		User:  dto.UserFromDomain(user),
	})
}
