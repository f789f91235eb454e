// Package ledger defines the outbound ports the services use to persist
// transactions, folders and audit history.
package ledger

import (
	"context"

	"fintrack/internal/core"
)

type (
	TransactionStore interface {
		CreateTransaction(ctx context.Context, tx core.Transaction) error
		// GetTransaction returns core.ErrNotFound (wrapped) when the id is unknown.
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, tx core.Transaction) error
		DeleteTransaction(ctx context.Context, id string) error
		// ListTransactions filters by case-insensitive description substring and
		// optional folder, newest event date first.
		ListTransactions(ctx context.Context, ownerID, search, folderID string) ([]core.Transaction, error)
	}

	// HistoryStore is append-only: entries are never updated or removed.
	HistoryStore interface {
		AppendHistory(ctx context.Context, e core.HistoryEntry) error
		ListHistoryByFolder(ctx context.Context, ownerID, folderID string) ([]core.HistoryEntry, error)
		// ListHistoryGlobal resolves folder names for display; a missing folder
		// yields an empty name, not an error.
		ListHistoryGlobal(ctx context.Context, ownerID string, limit int) ([]core.HistoryEntry, error)
	}

	FolderStore interface {
		GetFolder(ctx context.Context, id string) (core.Folder, error)
		ListFolders(ctx context.Context, ownerID string) ([]core.Folder, error)
		CreateFolder(ctx context.Context, f core.Folder) error
		DeleteFolder(ctx context.Context, id string) error
	}

	// Withdrawal groups the three writes of a withdraw operation so a store
	// can apply them in a single storage-level transaction.
	Withdrawal struct {
		Source  core.Transaction // with the decremented amount
		Created core.Transaction
		Entry   core.HistoryEntry
	}

	WithdrawalApplier interface {
		ApplyWithdrawal(ctx context.Context, w Withdrawal) error
	}

	Store interface {
		TransactionStore
		HistoryStore
		FolderStore
		WithdrawalApplier
	}
)
