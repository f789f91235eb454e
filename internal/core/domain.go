package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	Income     Category = "income"
	Expense    Category = "expense"
	Investment Category = "investment"
	Savings    Category = "savings"
	Extra      Category = "extra"
)

const (
	ActionCreate   Action = "CREATE"
	ActionEdit     Action = "EDIT"
	ActionDelete   Action = "DELETE"
	ActionWithdraw Action = "WITHDRAW"
)

type (
	// Category classifies a transaction.
	Category string

	// Action identifies the kind of mutation recorded in a history entry.
	Action string

	Folder struct {
		ID      string
		OwnerID string
		Name    string
		Icon    string
		Color   string
	}

	Transaction struct {
		ID          string
		OwnerID     string
		FolderID    string
		Category    Category
		Amount      Money
		Description string
		Date        time.Time
		Profit      Money // investments only
		CreatedAt   time.Time
		UpdatedAt   time.Time

		// Folder is resolved for display when available; nil otherwise.
		Folder *Folder
	}

	// HistoryEntry is an immutable audit record. FolderID is a point-in-time
	// copy of the transaction's folder at the moment of the action.
	HistoryEntry struct {
		ID          string
		OwnerID     string
		FolderID    string
		Action      Action
		Description string
		OccurredAt  time.Time
		CreatedAt   time.Time

		// FolderName is resolved for display in global history queries.
		FolderName string
	}
)

func (c Category) Valid() bool {
	switch c {
	case Income, Expense, Investment, Savings, Extra:
		return true
	}
	return false
}

func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionEdit, ActionDelete, ActionWithdraw:
		return true
	}
	return false
}

// Validate checks the invariants required for a stored transaction.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.FolderID) == "" {
		return fmt.Errorf("%w: missing folder", ErrValidation)
	}
	if t.Category == "" {
		return fmt.Errorf("%w: missing category", ErrValidation)
	}
	if !t.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, t.Category)
	}
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("%w: missing description", ErrValidation)
	}
	if t.Amount.Cents <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	return nil
}
