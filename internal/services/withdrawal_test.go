package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/ledger/memory"
)

// Full lifecycle: create income, withdraw part of it, delete the remainder.
func TestWithdrawScenario(t *testing.T) {
	txSvc, wdSvc, history, _ := newTestServices(t)
	ctx := context.Background()

	salary := mustCreate(t, txSvc, core.Income, 100_000, "Salary")

	res, err := wdSvc.Withdraw(ctx, salary.ID, testOwner, core.Money{Cents: 40_000})
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if res.Source.Amount.Cents != 60_000 {
		t.Fatalf("source amount = %d, want 60000", res.Source.Amount.Cents)
	}
	if res.Created.Category != core.Savings {
		t.Fatalf("created category = %s, want savings", res.Created.Category)
	}
	if res.Created.Amount.Cents != 40_000 {
		t.Fatalf("created amount = %d, want 40000", res.Created.Amount.Cents)
	}
	if res.Created.Description != "Moved from Income: Salary" {
		t.Fatalf("created description = %q", res.Created.Description)
	}
	if res.Created.FolderID != salary.FolderID {
		t.Fatalf("created folder = %q, want %q", res.Created.FolderID, salary.FolderID)
	}

	entries := folderHistory(t, history)
	if entries[0].Action != core.ActionWithdraw {
		t.Fatalf("latest action = %s, want WITHDRAW", entries[0].Action)
	}
	want := `Withdrew $400 from "Salary" (1000 → 600). Created new savings.`
	if entries[0].Description != want {
		t.Fatalf("description = %q, want %q", entries[0].Description, want)
	}
	if !strings.Contains(entries[0].Description, "600") || !strings.Contains(entries[0].Description, "savings") {
		t.Fatalf("entry should mention new balance and category: %q", entries[0].Description)
	}

	if err := txSvc.Delete(ctx, salary.ID, testOwner); err != nil {
		t.Fatalf("delete: %v", err)
	}
	entries = folderHistory(t, history)
	if entries[0].Description != `Deleted transaction: "Salary" ($600)` {
		t.Fatalf("delete description = %q", entries[0].Description)
	}
}

func TestWithdrawFullAmountKeepsSource(t *testing.T) {
	txSvc, wdSvc, _, store := newTestServices(t)
	ctx := context.Background()
	tx := mustCreate(t, txSvc, core.Investment, 25_000, "Index fund")

	res, err := wdSvc.Withdraw(ctx, tx.ID, testOwner, core.Money{Cents: 25_000})
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if res.Source.Amount.Cents != 0 {
		t.Fatalf("source amount = %d, want 0", res.Source.Amount.Cents)
	}
	if res.Created.Amount.Cents != 25_000 {
		t.Fatalf("created amount = %d, want 25000", res.Created.Amount.Cents)
	}
	if res.Created.Description != "Withdrawal from Investment: Index fund" {
		t.Fatalf("created description = %q", res.Created.Description)
	}

	// A zero-amount source remains a stored record.
	stored, err := store.GetTransaction(ctx, tx.ID)
	if err != nil {
		t.Fatalf("source should survive at zero: %v", err)
	}
	if stored.Amount.Cents != 0 {
		t.Fatalf("stored amount = %d, want 0", stored.Amount.Cents)
	}
}

func TestWithdrawOverLimitHasNoSideEffects(t *testing.T) {
	txSvc, wdSvc, history, _ := newTestServices(t)
	ctx := context.Background()
	tx := mustCreate(t, txSvc, core.Savings, 10_000, "Rainy day")
	before := len(folderHistory(t, history))

	// One cent over the balance.
	_, err := wdSvc.Withdraw(ctx, tx.ID, testOwner, core.Money{Cents: 10_001})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	txs, err := txSvc.List(ctx, testOwner, "", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	if txs[0].Amount.Cents != 10_000 {
		t.Fatalf("source was modified: %d", txs[0].Amount.Cents)
	}
	if got := len(folderHistory(t, history)); got != before {
		t.Fatalf("history grew by %d entries", got-before)
	}
}

func TestWithdrawUnsupportedCategory(t *testing.T) {
	txSvc, wdSvc, history, _ := newTestServices(t)
	ctx := context.Background()
	tx := mustCreate(t, txSvc, core.Expense, 5_000, "Rent")
	before := len(folderHistory(t, history))

	_, err := wdSvc.Withdraw(ctx, tx.ID, testOwner, core.Money{Cents: 1_000})
	if !errors.Is(err, core.ErrUnsupportedWithdrawal) {
		t.Fatalf("expected unsupported withdrawal, got %v", err)
	}

	txs, _ := txSvc.List(ctx, testOwner, "", "")
	if len(txs) != 1 || txs[0].Amount.Cents != 5_000 {
		t.Fatalf("side effects detected: %+v", txs)
	}
	if got := len(folderHistory(t, history)); got != before {
		t.Fatalf("history grew by %d entries", got-before)
	}
}

func TestWithdrawErrors(t *testing.T) {
	txSvc, wdSvc, _, _ := newTestServices(t)
	ctx := context.Background()
	tx := mustCreate(t, txSvc, core.Income, 10_000, "Salary")

	if _, err := wdSvc.Withdraw(ctx, "missing-id", testOwner, core.Money{Cents: 100}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := wdSvc.Withdraw(ctx, tx.ID, otherOwner, core.Money{Cents: 100}); !errors.Is(err, core.ErrNotAuthorized) {
		t.Fatalf("expected not authorized, got %v", err)
	}
	if _, err := wdSvc.Withdraw(ctx, tx.ID, testOwner, core.Money{Cents: 0}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error for zero amount, got %v", err)
	}
	if _, err := wdSvc.Withdraw(ctx, tx.ID, testOwner, core.Money{Cents: -100}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error for negative amount, got %v", err)
	}
}

func TestWithdrawAtomicMode(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	if err := store.CreateFolder(ctx, core.Folder{ID: testFolder, OwnerID: testOwner, Name: "Stock Market"}); err != nil {
		t.Fatalf("seed folder: %v", err)
	}
	history := NewHistoryService(store, nil)
	txSvc := NewTransactionService(store, history)
	wdSvc := NewWithdrawalService(store, history, true)

	tx, err := txSvc.Create(ctx, testOwner, CreateTransactionInput{
		FolderID: testFolder, Category: core.Extra, Amount: core.Money{Cents: 7_500}, Description: "Gift",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	res, err := wdSvc.Withdraw(ctx, tx.ID, testOwner, core.Money{Cents: 2_500})
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if res.Source.Amount.Cents != 5_000 {
		t.Fatalf("source amount = %d, want 5000", res.Source.Amount.Cents)
	}
	if res.Created.Description != "Moved from Extra: Gift" {
		t.Fatalf("created description = %q", res.Created.Description)
	}

	entries, err := history.QueryByFolder(ctx, testOwner, testFolder)
	if err != nil {
		t.Fatalf("query history: %v", err)
	}
	if entries[0].Action != core.ActionWithdraw {
		t.Fatalf("latest action = %s, want WITHDRAW", entries[0].Action)
	}
	want := `Withdrew $25 from "Gift" (75 → 50). Created new savings.`
	if entries[0].Description != want {
		t.Fatalf("description = %q, want %q", entries[0].Description, want)
	}
}
