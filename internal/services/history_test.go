package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger/memory"
)

type capturingPublisher struct {
	mu      sync.Mutex
	entries []core.HistoryEntry
	fail    error
}

func (p *capturingPublisher) PublishHistoryEvent(_ context.Context, e core.HistoryEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.entries = append(p.entries, e)
	return nil
}

func TestHistoryAppendDefaults(t *testing.T) {
	store := memory.New()
	svc := NewHistoryService(store, nil)

	entry, err := svc.Append(context.Background(), testOwner, testFolder, core.ActionCreate, "Added $10 - Coffee", time.Time{})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if entry.ID == "" {
		t.Fatal("expected generated id")
	}
	if entry.OccurredAt.IsZero() || entry.CreatedAt.IsZero() {
		t.Fatalf("expected timestamps to default, got %+v", entry)
	}
}

func TestHistoryQueryByFolderNewestFirst(t *testing.T) {
	store := memory.New()
	svc := NewHistoryService(store, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Append(ctx, testOwner, testFolder, core.ActionCreate, fmt.Sprintf("entry %d", i), time.Time{}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	// Entries from other folders and owners are excluded.
	if _, err := svc.Append(ctx, testOwner, "folder-2", core.ActionCreate, "other folder", time.Time{}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := svc.Append(ctx, otherOwner, testFolder, core.ActionCreate, "other owner", time.Time{}); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err := svc.QueryByFolder(ctx, testOwner, testFolder)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Description != "entry 2" || entries[2].Description != "entry 0" {
		t.Fatalf("wrong order: %q ... %q", entries[0].Description, entries[2].Description)
	}

	// Reads are idempotent.
	again, err := svc.QueryByFolder(ctx, testOwner, testFolder)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(again) != 3 {
		t.Fatalf("repeated query changed results: %d", len(again))
	}
}

func TestHistoryQueryGlobal(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	if err := store.CreateFolder(ctx, core.Folder{ID: testFolder, OwnerID: testOwner, Name: "Stock Market"}); err != nil {
		t.Fatalf("seed folder: %v", err)
	}
	svc := NewHistoryService(store, nil)

	for i := 0; i < DefaultHistoryLimit+10; i++ {
		if _, err := svc.Append(ctx, testOwner, testFolder, core.ActionCreate, fmt.Sprintf("entry %d", i), time.Time{}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	entries, err := svc.QueryGlobal(ctx, testOwner, 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(entries) != DefaultHistoryLimit {
		t.Fatalf("expected %d entries, got %d", DefaultHistoryLimit, len(entries))
	}
	if entries[0].Description != fmt.Sprintf("entry %d", DefaultHistoryLimit+9) {
		t.Fatalf("expected newest first, got %q", entries[0].Description)
	}
	if entries[0].FolderName != "Stock Market" {
		t.Fatalf("expected resolved folder name, got %q", entries[0].FolderName)
	}

	// An over-sized limit is clamped too.
	entries, err = svc.QueryGlobal(ctx, testOwner, DefaultHistoryLimit*2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(entries) != DefaultHistoryLimit {
		t.Fatalf("expected clamped limit, got %d", len(entries))
	}
}

func TestHistoryGlobalMissingFolderName(t *testing.T) {
	store := memory.New()
	svc := NewHistoryService(store, nil)
	ctx := context.Background()

	if _, err := svc.Append(ctx, testOwner, "ghost-folder", core.ActionDelete, "gone", time.Time{}); err != nil {
		t.Fatalf("append: %v", err)
	}
	entries, err := svc.QueryGlobal(ctx, testOwner, 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(entries) != 1 || entries[0].FolderName != "" {
		t.Fatalf("expected entry with empty folder name, got %+v", entries)
	}
}

func TestHistoryPublishesEvents(t *testing.T) {
	store := memory.New()
	pub := &capturingPublisher{}
	svc := NewHistoryService(store, pub)
	ctx := context.Background()

	entry, err := svc.Append(ctx, testOwner, testFolder, core.ActionCreate, "Added $10 - Coffee", time.Time{})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(pub.entries) != 1 || pub.entries[0].ID != entry.ID {
		t.Fatalf("expected published entry, got %+v", pub.entries)
	}
}

func TestHistoryPublishFailureDoesNotFailAppend(t *testing.T) {
	store := memory.New()
	pub := &capturingPublisher{fail: context.DeadlineExceeded}
	svc := NewHistoryService(store, pub)

	if _, err := svc.Append(context.Background(), testOwner, testFolder, core.ActionCreate, "Added $10 - Coffee", time.Time{}); err != nil {
		t.Fatalf("append should succeed despite publish failure: %v", err)
	}
	entries, err := svc.QueryByFolder(context.Background(), testOwner, testFolder)
	if err != nil || len(entries) != 1 {
		t.Fatalf("entry should be stored: %v %d", err, len(entries))
	}
}
