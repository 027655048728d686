package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/xxz807/finbank/internal/ledger/domain"
)

// GormStore 基于 gorm 的存储实现 (postgres / sqlite)
// db 可能是连接池，也可能是已开启的事务
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Accounts() domain.AccountRepository {
	return &GormAccountRepo{db: s.db}
}

func (s *GormStore) Transactions() domain.TransactionRepository {
	return &GormTransactionRepo{db: s.db}
}

// WithTransaction 开启数据库事务，fn 返回错误时整体回滚
func (s *GormStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &GormStore{db: tx})
	})
}

// ---------------------------------------------------------

type GormAccountRepo struct {
	db *gorm.DB
}

func (r *GormAccountRepo) FindByIBAN(ctx context.Context, iban string) (*domain.Account, error) {
	var account domain.Account
	// 不做 Select For Update，并发由 Save 的版本号保证
	err := r.db.WithContext(ctx).Where("iban = ?", iban).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find account %s: %w", iban, err)
	}
	return &account, nil
}

func (r *GormAccountRepo) Create(ctx context.Context, iban string, balance decimal.Decimal) (*domain.Account, error) {
	account := &domain.Account{IBAN: iban, Balance: balance, Version: 1}
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("create account %s: %w", iban, err)
	}
	return account, nil
}

// Save 实现乐观锁更新
// SQL: UPDATE accounts SET balance = ?, version = version + 1 WHERE iban = ? AND version = ?
func (r *GormAccountRepo) Save(ctx context.Context, acc *domain.Account) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&domain.Account{}).
		Where("iban = ? AND version = ?", acc.IBAN, acc.Version).
		Updates(map[string]interface{}{
			"balance":    acc.Balance,
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("save account %s: %w", acc.IBAN, result.Error)
	}

	// 没有行被更新，说明 version 不匹配（被别人改过了）
	if result.RowsAffected == 0 {
		return domain.ErrConflict
	}

	acc.Version++
	acc.UpdatedAt = now
	return nil
}

func (r *GormAccountRepo) ListIBANs(ctx context.Context, exclude string, limit int) ([]string, error) {
	var ibans []string
	err := r.db.WithContext(ctx).Model(&domain.Account{}).
		Where("iban <> ?", exclude).
		Limit(limit).
		Pluck("iban", &ibans).Error
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return ibans, nil
}

// ---------------------------------------------------------

type GormTransactionRepo struct {
	db *gorm.DB
}

func (r *GormTransactionRepo) Append(ctx context.Context, t *domain.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("append transaction for %s: %w", t.AccountID, err)
	}
	return nil
}

func (r *GormTransactionRepo) ListByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	txs := []domain.Transaction{}
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("date DESC").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions for %s: %w", accountID, err)
	}
	return txs, nil
}
