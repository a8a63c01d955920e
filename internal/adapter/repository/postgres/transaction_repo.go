package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dafeanyi/kobowallet/internal/domain"
	"github.com/dafeanyi/kobowallet/internal/usecase"
)

const pgErrUniqueViolation = "23505"

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, wallet_id, type, amount, status, reference, recipient_wallet_id, created_at, updated_at`

const insertTransactionQuery = `
	INSERT INTO transactions (id, wallet_id, type, amount, status, reference, recipient_wallet_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

// Create inserts a transaction outside of any caller-managed transaction.
func (r *TransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	_, err := r.pool.Exec(ctx, insertTransactionQuery,
		txn.ID,
		txn.WalletID,
		string(txn.Type),
		decimalToNumeric(txn.Amount),
		string(txn.Status),
		txn.Reference,
		txn.RecipientWalletID,
		timeToPgTimestamptz(txn.CreatedAt),
		timeToPgTimestamptz(txn.UpdatedAt),
	)

	return mapInsertError(err)
}

// CreateTx inserts a transaction within a transaction.
func (r *TransactionRepository) CreateTx(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, insertTransactionQuery,
		txn.ID,
		txn.WalletID,
		string(txn.Type),
		decimalToNumeric(txn.Amount),
		string(txn.Status),
		txn.Reference,
		txn.RecipientWalletID,
		timeToPgTimestamptz(txn.CreatedAt),
		timeToPgTimestamptz(txn.UpdatedAt),
	)

	return mapInsertError(err)
}

// GetByReference retrieves a transaction by its reference.
func (r *TransactionRepository) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference = $1`
	return r.scanTransaction(r.pool.QueryRow(ctx, query, reference))
}

// GetByReferenceForUpdate retrieves a transaction by reference with a FOR UPDATE
// lock. Concurrent settlements of the same reference serialize on this lock.
func (r *TransactionRepository) GetByReferenceForUpdate(ctx context.Context, tx usecase.Transaction, reference string) (*domain.Transaction, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference = $1 FOR UPDATE`
	return r.scanTransaction(pgxTx.QueryRow(ctx, query, reference))
}

// UpdateStatus updates a transaction's status.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.TransactionStatus, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `UPDATE transactions SET status = $2, updated_at = $3 WHERE id = $1`

	tag, err := pgxTx.Exec(ctx, query, id, string(status), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// ListByWallet lists a wallet's transactions, newest first.
func (r *TransactionRepository) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, walletID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := r.scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

func (r *TransactionRepository) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn       domain.Transaction
		txnType   string
		amount    pgtype.Numeric
		status    string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&txn.ID,
		&txn.WalletID,
		&txnType,
		&amount,
		&status,
		&txn.Reference,
		&txn.RecipientWalletID,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}

	txn.Type = domain.TransactionType(txnType)
	txn.Amount = numericToDecimal(amount)
	txn.Status = domain.TransactionStatus(status)
	txn.CreatedAt = createdAt.Time
	txn.UpdatedAt = updatedAt.Time

	return &txn, nil
}

func mapInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
		return domain.ErrDuplicateReference
	}

	return err
}
