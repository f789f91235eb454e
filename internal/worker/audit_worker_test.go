package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

type fakeAppender struct {
	entries []core.HistoryEntry
	fail    error
}

func (f *fakeAppender) Append(_ context.Context, e core.HistoryEntry) (string, error) {
	if f.fail != nil {
		return "", f.fail
	}
	f.entries = append(f.entries, e)
	return "sheet:1", nil
}

func TestHandleHistoryEvent(t *testing.T) {
	appender := &fakeAppender{}
	w := NewAuditWorker(appender)

	msg := amqp.NewHistoryEventMessage(core.HistoryEntry{
		ID:          "entry-1",
		OwnerID:     "user-1",
		FolderID:    "folder-1",
		Action:      core.ActionCreate,
		Description: "Added $1000 - Salary",
		OccurredAt:  time.Now(),
		CreatedAt:   time.Now(),
	})
	if err := w.HandleHistoryEvent(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(appender.entries) != 1 || appender.entries[0].ID != "entry-1" {
		t.Fatalf("expected exported entry, got %+v", appender.entries)
	}
}

func TestHandleHistoryEventAppendFailure(t *testing.T) {
	w := NewAuditWorker(&fakeAppender{fail: errors.New("quota exceeded")})

	msg := amqp.NewHistoryEventMessage(core.HistoryEntry{
		ID: "entry-1", Action: core.ActionDelete, Description: "gone",
	})
	if err := w.HandleHistoryEvent(context.Background(), msg); err == nil {
		t.Fatal("expected error so the message is requeued")
	}
}

func TestHandleHistoryEventUnknownAction(t *testing.T) {
	appender := &fakeAppender{}
	w := NewAuditWorker(appender)

	msg := &amqp.HistoryEventMessage{ID: "entry-1", Action: "REPLACED"}
	if err := w.HandleHistoryEvent(context.Background(), msg); err != nil {
		t.Fatalf("unknown action should be skipped, not requeued: %v", err)
	}
	if len(appender.entries) != 0 {
		t.Fatalf("unknown action should not be exported: %+v", appender.entries)
	}
}
