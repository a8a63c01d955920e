package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dafeanyi/kobowallet/internal/domain"
	"github.com/dafeanyi/kobowallet/internal/usecase"
)

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

const walletColumns = `id, user_id, wallet_number, balance, created_at, updated_at`

// CreateTx inserts a wallet within a transaction.
func (r *WalletRepository) CreateTx(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO wallets (id, user_id, wallet_number, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := pgxTx.Exec(ctx, query,
		wallet.ID,
		wallet.UserID,
		wallet.WalletNumber,
		decimalToNumeric(wallet.Balance),
		timeToPgTimestamptz(wallet.CreatedAt),
		timeToPgTimestamptz(wallet.UpdatedAt),
	)

	return err
}

// GetByID retrieves a wallet by ID.
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`
	return r.scanWallet(r.pool.QueryRow(ctx, query, id))
}

// GetByUserID retrieves a user's wallet.
func (r *WalletRepository) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1`
	return r.scanWallet(r.pool.QueryRow(ctx, query, userID))
}

// ResolveIDByUserID resolves a user's wallet ID without locking the row.
func (r *WalletRepository) ResolveIDByUserID(ctx context.Context, tx usecase.Transaction, userID string) (string, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var id string
	err := pgxTx.QueryRow(ctx, `SELECT id FROM wallets WHERE user_id = $1`, userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrWalletNotFound
	}

	return id, err
}

// ResolveIDByNumber resolves a wallet ID by wallet number without locking the row.
func (r *WalletRepository) ResolveIDByNumber(ctx context.Context, tx usecase.Transaction, walletNumber string) (string, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var id string
	err := pgxTx.QueryRow(ctx, `SELECT id FROM wallets WHERE wallet_number = $1`, walletNumber).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrWalletNotFound
	}

	return id, err
}

// GetByIDForUpdate retrieves a wallet by ID with a FOR UPDATE lock.
func (r *WalletRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Wallet, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 FOR UPDATE`
	return r.scanWallet(pgxTx.QueryRow(ctx, query, id))
}

// GetByIDsForUpdate retrieves multiple wallets with FOR UPDATE locks,
// acquired in ascending ID order.
func (r *WalletRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Wallet, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = ANY($1) ORDER BY id FOR UPDATE`

	rows, err := pgxTx.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wallets := make([]*domain.Wallet, 0, len(ids))
	for rows.Next() {
		wallet, err := r.scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, wallet)
	}

	return wallets, rows.Err()
}

// AdjustBalance applies a signed delta to a wallet balance.
func (r *WalletRepository) AdjustBalance(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE wallets
		SET balance = balance + $2, updated_at = $3
		WHERE id = $1
	`

	tag, err := pgxTx.Exec(ctx, query, id, decimalToNumeric(delta), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrWalletNotFound
	}

	return nil
}

func (r *WalletRepository) scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var (
		wallet    domain.Wallet
		balance   pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.WalletNumber,
		&balance,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}

	wallet.Balance = numericToDecimal(balance)
	wallet.CreatedAt = createdAt.Time
	wallet.UpdatedAt = updatedAt.Time

	return &wallet, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
