package amqp

import (
	"encoding/json"
	"time"

	"fintrack/internal/core"
)

// HistoryEventMessage carries a full audit entry to the export worker.
// Entries are immutable, so the worker never needs to re-read the store.
type HistoryEventMessage struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	FolderID    string    `json:"folderId"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurredAt"`
	CreatedAt   time.Time `json:"createdAt"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewHistoryEventMessage(e core.HistoryEntry) *HistoryEventMessage {
	return &HistoryEventMessage{
		ID:          e.ID,
		OwnerID:     e.OwnerID,
		FolderID:    e.FolderID,
		Action:      string(e.Action),
		Description: e.Description,
		OccurredAt:  e.OccurredAt,
		CreatedAt:   e.CreatedAt,
		Timestamp:   time.Now(),
	}
}

// Entry converts the message back to a domain history entry.
func (m *HistoryEventMessage) Entry() core.HistoryEntry {
	return core.HistoryEntry{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		FolderID:    m.FolderID,
		Action:      core.Action(m.Action),
		Description: m.Description,
		OccurredAt:  m.OccurredAt,
		CreatedAt:   m.CreatedAt,
	}
}

func (m *HistoryEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func HistoryEventMessageFromJSON(data []byte) (*HistoryEventMessage, error) {
	var msg HistoryEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
