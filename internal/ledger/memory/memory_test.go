package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

func TestTransactionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	tx := core.Transaction{
		ID:          "tx-1",
		OwnerID:     "user-1",
		FolderID:    "folder-1",
		Category:    core.Income,
		Amount:      core.Money{Cents: 100_000},
		Description: "Salary",
		Date:        time.Now(),
	}
	if err := s.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetTransaction(ctx, "tx-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != "Salary" {
		t.Fatalf("got %+v", got)
	}

	got.Amount = core.Money{Cents: 50_000}
	if err := s.UpdateTransaction(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = s.GetTransaction(ctx, "tx-1")
	if got.Amount.Cents != 50_000 {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := s.DeleteTransaction(ctx, "tx-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetTransaction(ctx, "tx-1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteTransaction(ctx, "tx-1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete should be ErrNotFound, got %v", err)
	}
}

func TestListTransactionsFiltersAndOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.CreateFolder(ctx, core.Folder{ID: "folder-1", OwnerID: "user-1", Name: "Stocks"})

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		{ID: "a", OwnerID: "user-1", FolderID: "folder-1", Category: core.Income, Description: "Salary March", Date: base},
		{ID: "b", OwnerID: "user-1", FolderID: "folder-2", Category: core.Expense, Description: "Groceries", Date: base.Add(24 * time.Hour)},
		{ID: "c", OwnerID: "user-2", FolderID: "folder-1", Category: core.Income, Description: "Salary", Date: base},
	}
	for _, tx := range txs {
		_ = s.CreateTransaction(ctx, tx)
	}

	out, err := s.ListTransactions(ctx, "user-1", "", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 2 || out[0].ID != "b" || out[1].ID != "a" {
		t.Fatalf("expected [b a] newest first, got %+v", out)
	}
	if out[1].Folder == nil || out[1].Folder.Name != "Stocks" {
		t.Fatalf("folder should be resolved, got %+v", out[1].Folder)
	}
	if out[0].Folder != nil {
		t.Fatalf("unknown folder should stay nil, got %+v", out[0].Folder)
	}

	out, _ = s.ListTransactions(ctx, "user-1", "salary", "")
	if len(out) != 1 || out[0].ID != "a" {
		t.Fatalf("search filter failed: %+v", out)
	}

	out, _ = s.ListTransactions(ctx, "user-1", "", "folder-2")
	if len(out) != 1 || out[0].ID != "b" {
		t.Fatalf("folder filter failed: %+v", out)
	}
}

func TestHistoryQueries(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.CreateFolder(ctx, core.Folder{ID: "folder-1", OwnerID: "user-1", Name: "Stocks"})

	for i, desc := range []string{"first", "second", "third"} {
		_ = s.AppendHistory(ctx, core.HistoryEntry{
			ID: desc, OwnerID: "user-1", FolderID: "folder-1",
			Action: core.ActionCreate, Description: desc,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		})
	}
	_ = s.AppendHistory(ctx, core.HistoryEntry{ID: "x", OwnerID: "user-2", FolderID: "folder-1", Action: core.ActionDelete})

	byFolder, err := s.ListHistoryByFolder(ctx, "user-1", "folder-1")
	if err != nil {
		t.Fatalf("by folder: %v", err)
	}
	if len(byFolder) != 3 || byFolder[0].ID != "third" {
		t.Fatalf("expected newest first, got %+v", byFolder)
	}

	global, err := s.ListHistoryGlobal(ctx, "user-1", 2)
	if err != nil {
		t.Fatalf("global: %v", err)
	}
	if len(global) != 2 || global[0].ID != "third" || global[1].ID != "second" {
		t.Fatalf("limit/order wrong: %+v", global)
	}
	if global[0].FolderName != "Stocks" {
		t.Fatalf("folder name not resolved: %+v", global[0])
	}
}

func TestApplyWithdrawal(t *testing.T) {
	ctx := context.Background()
	s := New()
	src := core.Transaction{ID: "src", OwnerID: "user-1", FolderID: "f", Category: core.Income, Amount: core.Money{Cents: 1000}}
	_ = s.CreateTransaction(ctx, src)

	src.Amount = core.Money{Cents: 400}
	w := ledger.Withdrawal{
		Source:  src,
		Created: core.Transaction{ID: "dst", OwnerID: "user-1", FolderID: "f", Category: core.Savings, Amount: core.Money{Cents: 600}},
		Entry:   core.HistoryEntry{ID: "h", OwnerID: "user-1", FolderID: "f", Action: core.ActionWithdraw},
	}
	if err := s.ApplyWithdrawal(ctx, w); err != nil {
		t.Fatalf("apply: %v", err)
	}

	got, _ := s.GetTransaction(ctx, "src")
	if got.Amount.Cents != 400 {
		t.Fatalf("source not decremented: %+v", got)
	}
	if _, err := s.GetTransaction(ctx, "dst"); err != nil {
		t.Fatalf("created transaction missing: %v", err)
	}
	entries, _ := s.ListHistoryByFolder(ctx, "user-1", "f")
	if len(entries) != 1 {
		t.Fatalf("expected one history entry, got %d", len(entries))
	}

	w.Source.ID = "missing"
	if err := s.ApplyWithdrawal(ctx, w); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown source, got %v", err)
	}
}
