package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		typ     TxType
		amount  int64
		account string
		wantErr bool
	}{
		{"deposit positive", Deposit, 10, "A", false},
		{"transfer in positive", TransferIn, 10, "A", false},
		{"withdrawal negative", Withdrawal, -10, "A", false},
		{"transfer out negative", TransferOut, -10, "A", false},
		{"deposit negative", Deposit, -10, "A", true},
		{"withdrawal positive", Withdrawal, 10, "A", true},
		{"zero amount", Deposit, 0, "A", true},
		{"unknown type", TxType("refund"), 10, "A", true},
		{"no account", Deposit, 10, "", true},
		{"amount over limit", Deposit, 100_000_000_000, "A", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &Transaction{AccountID: tt.account, Type: tt.typ, Amount: decimal.NewFromInt(tt.amount)}
			if err := tx.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFitsMoney(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0", true},
		{"12.3456", true},
		{"12.34560", true},
		{"-50", true},
		{"99999999999.9999", true},
		{"100000000000", false},
		{"-100000000000", false},
		{"0.00001", false},
		{"12345678901234567.89", false},
	}
	for _, tt := range tests {
		if got := FitsMoney(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("FitsMoney(%s) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsUserError(t *testing.T) {
	for _, err := range []error{ErrInvalidAmount, ErrInsufficientFunds, ErrSameAccount, ErrAccountNotFound, ErrMissingFields} {
		if !IsUserError(err) {
			t.Errorf("%v should be a user error", err)
		}
	}
	for _, err := range []error{ErrConflict, ErrTimeout, ErrAccountExists} {
		if IsUserError(err) {
			t.Errorf("%v should not be a user error", err)
		}
	}
}
