package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xxz807/finbank/internal/ledger/domain"
	"github.com/xxz807/finbank/internal/platform/config"
)

// AmountRequest addresses a single account. An empty IBAN means the
// global default account.
type AmountRequest struct {
	IBAN   string
	Amount string // decimal string, never a float
}

type TransferRequest struct {
	SenderIBAN    string
	RecipientIBAN string
	Amount        string
}

// LedgerService owns every balance change: deposit, withdraw and transfer.
type LedgerService struct {
	runner      *txRunner
	defaultIBAN string
	log         *zap.Logger
	now         func() time.Time
}

func NewLedgerService(store domain.Store, cfg config.LedgerConfig, log *zap.Logger) *LedgerService {
	return &LedgerService{
		runner:      newRunner(store, cfg, log),
		defaultIBAN: cfg.DefaultIBAN,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func newRunner(store domain.Store, cfg config.LedgerConfig, log *zap.Logger) *txRunner {
	timeout := cfg.TxTimeout
	if timeout <= 0 {
		timeout = defaultTxTimeout
	}
	return &txRunner{store: store, timeout: timeout, maxRetries: cfg.MaxRetries, log: log}
}

// Deposit credits the account, creating it on first use, and returns it.
func (s *LedgerService) Deposit(ctx context.Context, req AmountRequest) (*domain.Account, error) {
	amount, err := ParseAmount(req.Amount)
	if err != nil {
		s.log.Warn("Deposit failed: invalid amount", zap.String("amount", req.Amount))
		return nil, err
	}
	iban := resolveIBAN(req.IBAN, s.defaultIBAN)

	var updated *domain.Account
	err = s.runner.run(ctx, "deposit", func(ctx context.Context, tx domain.Store) error {
		acc, err := getOrCreate(ctx, tx, iban)
		if err != nil {
			return err
		}

		acc.Balance = acc.Balance.Add(amount)
		if err := checkBalanceLimit(acc.Balance); err != nil {
			return err
		}
		if err := tx.Accounts().Save(ctx, acc); err != nil {
			return err
		}
		if err := tx.Transactions().Append(ctx, s.record(acc, amount, domain.Deposit, s.now())); err != nil {
			return err
		}
		updated = acc
		return nil
	})
	if err != nil {
		s.logFailure("Deposit failed", err, zap.String("iban", iban))
		return nil, err
	}

	s.log.Info("Deposit successful",
		zap.String("iban", iban),
		zap.String("balance", updated.Balance.String()),
	)
	return updated, nil
}

// Withdraw debits the account and returns the new balance. The balance never
// goes below zero.
func (s *LedgerService) Withdraw(ctx context.Context, req AmountRequest) (decimal.Decimal, error) {
	amount, err := ParseAmount(req.Amount)
	if err != nil {
		s.log.Warn("Withdrawal failed: invalid amount", zap.String("amount", req.Amount))
		return decimal.Zero, err
	}
	iban := resolveIBAN(req.IBAN, s.defaultIBAN)

	var balance decimal.Decimal
	err = s.runner.run(ctx, "withdraw", func(ctx context.Context, tx domain.Store) error {
		acc, err := getOrCreate(ctx, tx, iban)
		if err != nil {
			return err
		}
		if acc.Balance.LessThan(amount) {
			s.log.Warn("Withdrawal failed: insufficient funds",
				zap.String("attempted", amount.String()),
				zap.String("available", acc.Balance.String()),
			)
			return domain.ErrInsufficientFunds
		}

		acc.Balance = acc.Balance.Sub(amount)
		if err := tx.Accounts().Save(ctx, acc); err != nil {
			return err
		}
		if err := tx.Transactions().Append(ctx, s.record(acc, amount.Neg(), domain.Withdrawal, s.now())); err != nil {
			return err
		}
		balance = acc.Balance
		return nil
	})
	if err != nil {
		s.logFailure("Withdrawal failed", err, zap.String("iban", iban))
		return decimal.Zero, err
	}

	s.log.Info("Withdrawal successful",
		zap.String("iban", iban),
		zap.String("balance", balance.String()),
	)
	return balance, nil
}

// Transfer moves amount between two existing accounts as one atomic unit and
// returns the sender's new balance. Unlike Deposit and Withdraw it never
// creates accounts.
func (s *LedgerService) Transfer(ctx context.Context, req TransferRequest) (decimal.Decimal, error) {
	senderIBAN := strings.TrimSpace(req.SenderIBAN)
	recipientIBAN := strings.TrimSpace(req.RecipientIBAN)

	// input checks, before any read
	if senderIBAN == "" || recipientIBAN == "" || strings.TrimSpace(req.Amount) == "" {
		s.log.Warn("Transfer failed: missing fields")
		return decimal.Zero, domain.ErrMissingFields
	}
	if senderIBAN == recipientIBAN {
		s.log.Warn("Transfer failed: same account", zap.String("iban", senderIBAN))
		return decimal.Zero, domain.ErrSameAccount
	}
	amount, err := ParseAmount(req.Amount)
	if err != nil {
		s.log.Warn("Transfer failed: invalid amount", zap.String("amount", req.Amount))
		return decimal.Zero, err
	}

	var senderBalance decimal.Decimal
	err = s.runner.run(ctx, "transfer", func(ctx context.Context, tx domain.Store) error {
		sender, err := tx.Accounts().FindByIBAN(ctx, senderIBAN)
		if err != nil {
			return err
		}
		recipient, err := tx.Accounts().FindByIBAN(ctx, recipientIBAN)
		if err != nil {
			return err
		}
		if sender.Balance.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}

		sender.Balance = sender.Balance.Sub(amount)
		recipient.Balance = recipient.Balance.Add(amount)
		if err := checkBalanceLimit(recipient.Balance); err != nil {
			return err
		}

		// write in IBAN order so A->B and B->A never wait on each other
		first, second := sender, recipient
		if recipient.IBAN < sender.IBAN {
			first, second = recipient, sender
		}
		if err := tx.Accounts().Save(ctx, first); err != nil {
			return err
		}
		if err := tx.Accounts().Save(ctx, second); err != nil {
			return err
		}

		now := s.now()
		if err := tx.Transactions().Append(ctx, s.record(sender, amount.Neg(), domain.TransferOut, now)); err != nil {
			return err
		}
		if err := tx.Transactions().Append(ctx, s.record(recipient, amount, domain.TransferIn, now)); err != nil {
			return err
		}
		senderBalance = sender.Balance
		return nil
	})
	if err != nil {
		s.logFailure("Transfer failed", err,
			zap.String("sender", senderIBAN),
			zap.String("recipient", recipientIBAN),
			zap.String("amount", amount.String()),
		)
		return decimal.Zero, err
	}

	s.log.Info("Transfer successful",
		zap.String("sender", senderIBAN),
		zap.String("recipient", recipientIBAN),
		zap.String("amount", amount.String()),
		zap.String("balance", senderBalance.String()),
	)
	return senderBalance, nil
}

func (s *LedgerService) record(acc *domain.Account, amount decimal.Decimal, typ domain.TxType, at time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:        uuid.NewString(),
		AccountID: acc.IBAN,
		Date:      at,
		Amount:    amount,
		Balance:   acc.Balance,
		Type:      typ,
	}
}

func (s *LedgerService) logFailure(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if domain.IsUserError(err) {
		s.log.Warn(msg, fields...)
		return
	}
	s.log.Error(msg, fields...)
}

// checkBalanceLimit rejects a credit that would push the balance out of the
// storable range.
func checkBalanceLimit(balance decimal.Decimal) error {
	if !domain.FitsMoney(balance) {
		return fmt.Errorf("%w: balance would reach %s, limit is %s", domain.ErrInvalidAmount, balance, domain.MaxMoney)
	}
	return nil
}

func resolveIBAN(iban, fallback string) string {
	if iban = strings.TrimSpace(iban); iban != "" {
		return iban
	}
	return fallback
}
