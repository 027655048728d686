package repo

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xxz807/finbank/internal/ledger/domain"
)

func TestDecimal128RoundTrip(t *testing.T) {
	for _, in := range []string{"0", "100", "-50", "12.3456", "0.0001", "99999999999.9999"} {
		d := decimal.RequireFromString(in)
		enc, err := toDecimal128(d)
		if err != nil {
			t.Fatalf("toDecimal128(%s): %v", in, err)
		}
		got, err := fromDecimal128(enc)
		if err != nil {
			t.Fatalf("fromDecimal128(%s): %v", enc, err)
		}
		if !got.Equal(d) {
			t.Errorf("round trip of %s gave %s", in, got)
		}
	}
}

func TestFromDecimal128RejectsNaN(t *testing.T) {
	if _, err := fromDecimal128(primitive.NewDecimal128(0x7c00000000000000, 0)); err == nil {
		t.Fatal("NaN decoded without error")
	}
}

func mustDecimal128(t *testing.T, s string) primitive.Decimal128 {
	t.Helper()
	d, err := primitive.ParseDecimal128(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestAccountDocToDomain(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	doc := accountDoc{IBAN: "IBAN1", Balance: mustDecimal128(t, "70.25"), Version: 3, CreatedAt: now, UpdatedAt: now}

	acc, err := doc.toDomain()
	if err != nil {
		t.Fatal(err)
	}
	if acc.IBAN != "IBAN1" || !acc.Balance.Equal(decimal.RequireFromString("70.25")) || acc.Version != 3 {
		t.Fatalf("account = %+v", acc)
	}
	if !acc.CreatedAt.Equal(now) || !acc.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps = %v / %v", acc.CreatedAt, acc.UpdatedAt)
	}
}

func TestTransactionDocToDomain(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	doc := transactionDoc{
		ID:        "tx-1",
		AccountID: "IBAN1",
		Date:      now,
		Amount:    mustDecimal128(t, "-50"),
		Balance:   mustDecimal128(t, "20"),
		Type:      "transfer_out",
	}

	tx, err := doc.toDomain()
	if err != nil {
		t.Fatal(err)
	}
	if tx.ID != "tx-1" || tx.AccountID != "IBAN1" || tx.Type != domain.TransferOut || !tx.Date.Equal(now) {
		t.Fatalf("transaction = %+v", tx)
	}
	if !tx.Amount.Equal(decimal.NewFromInt(-50)) || !tx.Balance.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("amount %s balance %s", tx.Amount, tx.Balance)
	}
	if err := tx.Validate(); err != nil {
		t.Fatalf("decoded record does not validate: %v", err)
	}

	doc.Balance = primitive.NewDecimal128(0x7c00000000000000, 0)
	if _, err := doc.toDomain(); err == nil {
		t.Fatal("NaN balance decoded without error")
	}
}
