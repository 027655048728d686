package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xxz807/finbank/internal/ledger/domain"
)

// AmountReq is the body of deposit and withdraw. Without iban the global
// default account is used.
type AmountReq struct {
	Amount any    `json:"amount"`
	IBAN   string `json:"iban"`
}

type TransferReq struct {
	Amount        any    `json:"amount"`
	SenderIBAN    string `json:"senderIBAN"`
	RecipientIBAN string `json:"recipientIBAN"`
}

// Money renders a decimal as a bare JSON number without losing digits.
type Money decimal.Decimal

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).String()), nil
}

type BalanceResp struct {
	Balance Money `json:"balance"`
}

type AccountResp struct {
	ID      string `json:"id"`
	Balance Money  `json:"balance"`
}

type TransactionResp struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	Date      time.Time `json:"date"`
	Amount    Money     `json:"amount"`
	Balance   Money     `json:"balance"`
	Type      string    `json:"type"`
}

func toAccountResp(acc *domain.Account) AccountResp {
	return AccountResp{ID: acc.IBAN, Balance: Money(acc.Balance)}
}

func toTransactionResps(txs []domain.Transaction) []TransactionResp {
	out := make([]TransactionResp, 0, len(txs))
	for _, t := range txs {
		out = append(out, TransactionResp{
			ID:        t.ID,
			AccountID: t.AccountID,
			Date:      t.Date,
			Amount:    Money(t.Amount),
			Balance:   Money(t.Balance),
			Type:      string(t.Type),
		})
	}
	return out
}

// amountString turns a decoded JSON amount (number or numeric string) into
// the string form the service parses. Anything else yields a string that
// fails parsing.
func amountString(v any) string {
	switch a := v.(type) {
	case nil:
		return ""
	case string:
		return a
	case float64:
		return strconv.FormatFloat(a, 'f', -1, 64)
	case json.Number:
		return a.String()
	default:
		return fmt.Sprintf("%v", a)
	}
}
