package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/dafeanyi/kobowallet/internal/domain"
)

// UserUseCase handles user registration and authentication. A wallet is
// provisioned with the user, in the same unit of work, with balance 0.
type UserUseCase struct {
	txManager  TransactionManager
	userRepo   UserRepository
	walletRepo WalletRepository
	idGen      IDGenerator
	numGen     WalletNumberGenerator
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(
	txManager TransactionManager,
	userRepo UserRepository,
	walletRepo WalletRepository,
	idGen IDGenerator,
	numGen WalletNumberGenerator,
) *UserUseCase {
	return &UserUseCase{
		txManager:  txManager,
		userRepo:   userRepo,
		walletRepo: walletRepo,
		idGen:      idGen,
		numGen:     numGen,
	}
}

// RegisterInput represents input for registering a user.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// Register creates a user and their wallet atomically.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, *domain.Wallet, error) {
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, nil, err
	}

	existing, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, domain.ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:             uc.idGen.Generate(),
		Email:          input.Email,
		Name:           input.Name,
		HashedPassword: string(hashed),
		Permissions:    domain.AllPermissions(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	wallet := &domain.Wallet{
		ID:           uc.idGen.Generate(),
		UserID:       user.ID,
		WalletNumber: uc.numGen.GenerateWalletNumber(),
		Balance:      decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.userRepo.CreateTx(ctx, tx, user); err != nil {
		return nil, nil, err
	}

	if err := uc.walletRepo.CreateTx(ctx, tx, wallet); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	user.HashedPassword = ""
	return user, wallet, nil
}

// AuthenticateInput represents authentication input.
type AuthenticateInput struct {
	Email    string
	Password string
}

// Authenticate verifies user credentials.
func (uc *UserUseCase) Authenticate(ctx context.Context, input AuthenticateInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err != nil || user == nil {
		return nil, domain.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	user.HashedPassword = ""
	return user, nil
}

// GetUser retrieves a user by ID.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.HashedPassword = ""
	return user, nil
}
