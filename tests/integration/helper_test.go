package integration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	repo "github.com/dafeanyi/kobowallet/internal/adapter/repository/postgres"
	"github.com/dafeanyi/kobowallet/internal/usecase"
	"github.com/dafeanyi/kobowallet/tests/testutil"
)

// stubGateway stands in for the payment gateway so deposit flows can run
// against a real database without external calls.
type stubGateway struct{}

func (stubGateway) InitializeCollection(ctx context.Context, email string, amount decimal.Decimal, reference string) (*usecase.CollectionInit, error) {
	return &usecase.CollectionInit{
		AuthorizationURL: "https://checkout.test/" + reference,
		AccessCode:       "access-" + reference,
	}, nil
}

type fixture struct {
	db *testutil.TestDB

	walletRepo *repo.WalletRepository
	txnRepo    *repo.TransactionRepository
	outboxRepo *repo.OutboxRepository

	depositUC  *usecase.DepositUseCase
	transferUC *usecase.TransferUseCase
	queryUC    *usecase.QueryUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)
	testDB.TruncateAll(context.Background())

	pool := testDB.Pool
	txManager := repo.NewTxManager(pool)
	walletRepo := repo.NewWalletRepository(pool)
	txnRepo := repo.NewTransactionRepository(pool)
	outboxRepo := repo.NewOutboxRepository(pool)
	retrier := repo.NewRetrier()
	idGen := repo.NewULIDGenerator()
	refGen := repo.NewReferenceGenerator()

	return &fixture{
		db:         testDB,
		walletRepo: walletRepo,
		txnRepo:    txnRepo,
		outboxRepo: outboxRepo,
		depositUC:  usecase.NewDepositUseCase(txManager, walletRepo, txnRepo, outboxRepo, stubGateway{}, nil, idGen, refGen, retrier),
		transferUC: usecase.NewTransferUseCase(txManager, walletRepo, txnRepo, outboxRepo, nil, idGen, refGen, retrier),
		queryUC:    usecase.NewQueryUseCase(walletRepo, txnRepo, nil),
	}
}
