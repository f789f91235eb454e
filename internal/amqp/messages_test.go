package amqp

import (
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestHistoryEventMessageRoundTrip(t *testing.T) {
	entry := core.HistoryEntry{
		ID:          "entry-1",
		OwnerID:     "user-1",
		FolderID:    "folder-1",
		Action:      core.ActionWithdraw,
		Description: `Withdrew $400 from "Salary" (1000 → 600). Created new savings.`,
		OccurredAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		CreatedAt:   time.Date(2026, 8, 1, 12, 0, 1, 0, time.UTC),
	}

	msg := NewHistoryEventMessage(entry)
	if msg.Timestamp.IsZero() {
		t.Fatal("expected publish timestamp")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	parsed, err := HistoryEventMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := parsed.Entry()
	if got.ID != entry.ID || got.Action != entry.Action || got.Description != entry.Description {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if !got.OccurredAt.Equal(entry.OccurredAt) || !got.CreatedAt.Equal(entry.CreatedAt) {
		t.Fatalf("timestamps mismatch: %+v", got)
	}
}

func TestHistoryEventMessageInvalidJSON(t *testing.T) {
	if _, err := HistoryEventMessageFromJSON([]byte(`{"occurredAt": 42}`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
