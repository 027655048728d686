package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Money columns are decimal(15,4): at most 4 fractional digits and 15
// significant digits, which sqlite's REAL storage also keeps exactly.
const MoneyScale = 4

// MaxMoney is the exclusive upper bound of any amount or balance.
var MaxMoney = decimal.New(1, 11)

// FitsMoney reports whether d can be stored without rounding.
func FitsMoney(d decimal.Decimal) bool {
	return d.Abs().LessThan(MaxMoney) && d.Equal(d.Truncate(MoneyScale))
}

// Account is a bank account addressed by its IBAN.
// Balance is only ever changed by the ledger service.
type Account struct {
	IBAN      string          `gorm:"column:iban;primaryKey;type:varchar(64)" json:"id"`
	Balance   decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0" json:"balance"`
	Version   int64           `gorm:"not null;default:1" json:"-"` // optimistic lock
	CreatedAt time.Time       `json:"-"`
	UpdatedAt time.Time       `json:"-"`
}

func (Account) TableName() string {
	return "accounts"
}

// Transaction is an immutable ledger record. Balance is the account balance
// right after Amount was applied.
type Transaction struct {
	ID        string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	AccountID string          `gorm:"not null;type:varchar(64);index:idx_tx_account_date,priority:1" json:"accountId"`
	Date      time.Time       `gorm:"not null;index:idx_tx_account_date,priority:2" json:"date"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,4);not null" json:"amount"`
	Balance   decimal.Decimal `gorm:"type:decimal(15,4);not null" json:"balance"`
	Type      TxType          `gorm:"type:varchar(16);not null" json:"type"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// Validate checks that the record's sign matches its type: credits are
// positive, debits negative.
func (t *Transaction) Validate() error {
	if !t.Type.IsValid() {
		return fmt.Errorf("unknown transaction type %q", t.Type)
	}
	if t.AccountID == "" {
		return errors.New("transaction has no account")
	}
	if t.Type.IsCredit() != t.Amount.IsPositive() || t.Amount.IsZero() {
		return fmt.Errorf("%s amount %s has the wrong sign", t.Type, t.Amount)
	}
	if !FitsMoney(t.Amount) || !FitsMoney(t.Balance) {
		return fmt.Errorf("%w: %s out of range", ErrInvalidAmount, t.Type)
	}
	return nil
}
