package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xxz807/finbank/internal/ledger/domain"
	"github.com/xxz807/finbank/internal/platform/config"
)

// QueryService serves read-side requests.
type QueryService struct {
	store       domain.Store
	runner      *txRunner
	defaultIBAN string
	peerLimit   int
	log         *zap.Logger
}

func NewQueryService(store domain.Store, cfg config.LedgerConfig, log *zap.Logger) *QueryService {
	limit := cfg.PeerLimit
	if limit <= 0 {
		limit = 5
	}
	return &QueryService{
		store:       store,
		runner:      newRunner(store, cfg, log),
		defaultIBAN: cfg.DefaultIBAN,
		peerLimit:   limit,
		log:         log,
	}
}

// GetBalance has the same read-through creation as Deposit: an unknown IBAN
// is created with a zero balance.
func (q *QueryService) GetBalance(ctx context.Context, iban string) (decimal.Decimal, error) {
	iban = resolveIBAN(iban, q.defaultIBAN)

	var balance decimal.Decimal
	err := q.runner.run(ctx, "balance", func(ctx context.Context, tx domain.Store) error {
		acc, err := getOrCreate(ctx, tx, iban)
		if err != nil {
			return err
		}
		balance = acc.Balance
		return nil
	})
	if err != nil {
		q.log.Error("Balance lookup failed", zap.String("iban", iban), zap.Error(err))
		return decimal.Zero, err
	}
	return balance, nil
}

// GetStatement returns the account's transactions, most recent first. It
// never creates the account.
func (q *QueryService) GetStatement(ctx context.Context, iban string) ([]domain.Transaction, error) {
	iban = resolveIBAN(iban, q.defaultIBAN)

	txs, err := q.store.Transactions().ListByAccount(ctx, iban)
	if err != nil {
		q.log.Error("Statement lookup failed", zap.String("iban", iban), zap.Error(err))
		return nil, err
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	return txs, nil
}

// ListOtherAccounts returns up to limit IBANs other than exclude, in store
// order. limit <= 0 means the configured peer limit.
func (q *QueryService) ListOtherAccounts(ctx context.Context, exclude string, limit int) ([]string, error) {
	exclude = strings.TrimSpace(exclude)
	if limit <= 0 {
		limit = q.peerLimit
	}

	ibans, err := q.store.Accounts().ListIBANs(ctx, exclude, limit)
	if err != nil {
		q.log.Error("Peer lookup failed", zap.String("exclude", exclude), zap.Error(err))
		return nil, err
	}
	if ibans == nil {
		ibans = []string{}
	}
	return ibans, nil
}
