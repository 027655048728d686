package service

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/xxz807/finbank/internal/ledger/domain"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"100", "100", false},
		{" 12.50 ", "12.5", false},
		{"0.01", "0.01", false},
		{"1e2", "100", false},
		{"", "", true},
		{"   ", "", true},
		{"0", "", true},
		{"-5", "", true},
		{"abc", "", true},
		{"NaN", "", true},
		{"Infinity", "", true},
		{"1.2345", "1.2345", false},
		{"1.23450000", "1.2345", false},
		{"99999999999.9999", "99999999999.9999", false},
		{"0.00001", "", true},
		{"1.23456", "", true},
		{"100000000000", "", true},
		{"12345678901234567.89", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidAmount) {
					t.Fatalf("ParseAmount(%q) err = %v, want ErrInvalidAmount", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q): %v", tt.raw, err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("ParseAmount(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}
