package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xxz807/finbank/internal/ledger/domain"
)

const defaultTxTimeout = 5 * time.Second

// txRunner executes units of work inside the store's transactional boundary,
// re-running the whole unit when an optimistic lock conflict is detected.
type txRunner struct {
	store      domain.Store
	timeout    time.Duration
	maxRetries int
	log        *zap.Logger
}

func (r *txRunner) run(ctx context.Context, op string, fn func(ctx context.Context, tx domain.Store) error) error {
	var err error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		err = r.once(ctx, fn)
		if !errors.Is(err, domain.ErrConflict) || attempt == r.maxRetries {
			return err
		}
		r.log.Warn("Optimistic lock conflict, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt+1),
		)
	}
	return err
}

func (r *txRunner) once(ctx context.Context, fn func(ctx context.Context, tx domain.Store) error) error {
	tctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := r.store.WithTransaction(tctx, fn)
	if err != nil && errors.Is(tctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	return err
}

// getOrCreate reads the account and creates it at balance 0 when absent.
// Losing a create race is reported as a conflict so the unit is re-run.
func getOrCreate(ctx context.Context, tx domain.Store, iban string) (*domain.Account, error) {
	acc, err := tx.Accounts().FindByIBAN(ctx, iban)
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return acc, err
	}

	acc, err = tx.Accounts().Create(ctx, iban, decimal.Zero)
	if errors.Is(err, domain.ErrAccountExists) {
		return nil, domain.ErrConflict
	}
	return acc, err
}
