package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/xxz807/finbank/internal/ledger/adapter/repo/repotest"
	"github.com/xxz807/finbank/internal/ledger/domain"
)

func TestGetBalanceCreatesAccount(t *testing.T) {
	store := repotest.NewStore(t)
	_, query := newServices(t, store)
	ctx := context.Background()

	bal, err := query.GetBalance(ctx, "NEW")
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if !bal.IsZero() {
		t.Fatalf("balance = %s, want 0", bal)
	}
	if _, err := store.Accounts().FindByIBAN(ctx, "NEW"); err != nil {
		t.Fatalf("account not created: %v", err)
	}
}

func TestGetBalanceExisting(t *testing.T) {
	store := repotest.NewStore(t)
	ledger, query := newServices(t, store)
	mustDeposit(t, ledger, "IBAN1", "42.5")

	bal, err := query.GetBalance(context.Background(), "IBAN1")
	if err != nil {
		t.Fatal(err)
	}
	if !bal.Equal(decimal.RequireFromString("42.5")) {
		t.Fatalf("balance = %s, want 42.5", bal)
	}
}

func TestGetStatementDoesNotCreate(t *testing.T) {
	store := repotest.NewStore(t)
	_, query := newServices(t, store)
	ctx := context.Background()

	txs, err := query.GetStatement(ctx, "GHOST")
	if err != nil {
		t.Fatalf("GetStatement: %v", err)
	}
	if txs == nil || len(txs) != 0 {
		t.Fatalf("want empty statement, got %v", txs)
	}
	if _, err := store.Accounts().FindByIBAN(ctx, "GHOST"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("statement created the account: %v", err)
	}
}

func TestListOtherAccounts(t *testing.T) {
	store := repotest.NewStore(t)
	ledger, query := newServices(t, store)
	ctx := context.Background()

	for _, iban := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		mustDeposit(t, ledger, iban, "1")
	}

	got, err := query.ListOtherAccounts(ctx, "A", 0)
	if err != nil {
		t.Fatalf("ListOtherAccounts: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("len = %d, want default limit 5", len(got))
	}
	for _, iban := range got {
		if iban == "A" {
			t.Fatal("current account included")
		}
	}

	two, _ := query.ListOtherAccounts(ctx, "A", 2)
	if len(two) != 2 {
		t.Fatalf("len = %d, want 2", len(two))
	}
}

func TestListOtherAccountsTrimsCurrent(t *testing.T) {
	store := repotest.NewStore(t)
	ledger, query := newServices(t, store)
	mustDeposit(t, ledger, "A", "1")
	mustDeposit(t, ledger, "B", "1")

	got, err := query.ListOtherAccounts(context.Background(), " A ", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "B" {
		t.Fatalf("others = %v, want [B]", got)
	}
}

func TestListOtherAccountsEmpty(t *testing.T) {
	store := repotest.NewStore(t)
	_, query := newServices(t, store)

	got, err := query.ListOtherAccounts(context.Background(), "A", 5)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty slice, got %v", got)
	}
}
