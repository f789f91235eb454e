// Package worker exports audit history events to an external sheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/sheets"
)

// AuditWorker handles history events consumed from AMQP. History entries are
// immutable, so each message carries the full entry and is exported exactly
// as received; there is nothing to re-read from the store.
type AuditWorker struct {
	sheets sheets.HistoryAppender
}

func NewAuditWorker(sheets sheets.HistoryAppender) *AuditWorker {
	return &AuditWorker{sheets: sheets}
}

// HandleHistoryEvent exports a single audit entry. Returning an error
// requeues the message.
func (w *AuditWorker) HandleHistoryEvent(ctx context.Context, msg *amqp.HistoryEventMessage) error {
	entry := msg.Entry()
	if !entry.Action.Valid() {
		// Never requeue garbage.
		slog.WarnContext(ctx, "Skipping history event with unknown action",
			"entry_id", entry.ID,
			"action", msg.Action)
		return nil
	}

	ref, err := w.sheets.Append(ctx, entry)
	if err != nil {
		return fmt.Errorf("export history entry: %w", err)
	}

	slog.InfoContext(ctx, "History entry exported",
		"entry_id", entry.ID,
		"action", entry.Action,
		"sheets_ref", ref)
	return nil
}
