package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xxz807/finbank/internal/ledger/domain"
)

// ParseAmount parses a positive, finite decimal amount that the stores can hold
// exactly. Amounts travel as strings so no float rounding happens on the way in.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: missing", domain.ErrInvalidAmount)
	}
	amt, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, raw)
	}
	if !amt.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: must be positive, got %s", domain.ErrInvalidAmount, amt)
	}
	if !domain.FitsMoney(amt) {
		return decimal.Zero, fmt.Errorf("%w: %s needs more than %d decimal places or exceeds %s",
			domain.ErrInvalidAmount, amt, domain.MoneyScale, domain.MaxMoney)
	}
	return amt, nil
}
