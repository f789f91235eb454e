// Package services implements the transaction mutation, withdrawal and
// audit-history operations on top of the ledger ports.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// DefaultHistoryLimit caps global history queries.
const DefaultHistoryLimit = 50

// AuditPublisher broadcasts history entries to interested consumers (the
// export worker). Publishing is best-effort: failures are logged, never
// surfaced to the caller.
type AuditPublisher interface {
	PublishHistoryEvent(ctx context.Context, e core.HistoryEntry) error
}

// HistoryService records and queries the append-only audit trail. Entries
// are only ever created as a side effect of a transaction mutation; there is
// deliberately no update or delete operation.
type HistoryService struct {
	store     ledger.HistoryStore
	publisher AuditPublisher
}

func NewHistoryService(store ledger.HistoryStore, publisher AuditPublisher) *HistoryService {
	return &HistoryService{store: store, publisher: publisher}
}

// NewEntry builds an entry without persisting it. The atomic withdrawal path
// uses it to hand the entry to the store together with the other writes.
func (s *HistoryService) NewEntry(ownerID, folderID string, action core.Action, description string, occurredAt time.Time) core.HistoryEntry {
	now := time.Now()
	if occurredAt.IsZero() {
		occurredAt = now
	}
	return core.HistoryEntry{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		FolderID:    folderID,
		Action:      action,
		Description: description,
		OccurredAt:  occurredAt,
		CreatedAt:   now,
	}
}

// Append persists a new entry. Storage errors propagate unchanged.
func (s *HistoryService) Append(ctx context.Context, ownerID, folderID string, action core.Action, description string, occurredAt time.Time) (core.HistoryEntry, error) {
	entry := s.NewEntry(ownerID, folderID, action, description, occurredAt)
	if err := s.store.AppendHistory(ctx, entry); err != nil {
		return core.HistoryEntry{}, fmt.Errorf("append history: %w", err)
	}
	s.Notify(ctx, entry)
	return entry, nil
}

// Notify publishes the entry for export. Non-blocking semantics: the entry
// is already durable, so a publish failure only costs the export.
func (s *HistoryService) Notify(ctx context.Context, entry core.HistoryEntry) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishHistoryEvent(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "Failed to publish history event",
			"entry_id", entry.ID,
			"action", entry.Action,
			"error", err)
	}
}

// QueryByFolder returns a folder's audit trail, newest first.
func (s *HistoryService) QueryByFolder(ctx context.Context, ownerID, folderID string) ([]core.HistoryEntry, error) {
	entries, err := s.store.ListHistoryByFolder(ctx, ownerID, folderID)
	if err != nil {
		return nil, fmt.Errorf("list folder history: %w", err)
	}
	return entries, nil
}

// QueryGlobal returns the owner's most recent entries across all folders,
// newest first, with folder names resolved for display. A non-positive limit
// falls back to DefaultHistoryLimit.
func (s *HistoryService) QueryGlobal(ctx context.Context, ownerID string, limit int) ([]core.HistoryEntry, error) {
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}
	entries, err := s.store.ListHistoryGlobal(ctx, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list global history: %w", err)
	}
	return entries, nil
}
