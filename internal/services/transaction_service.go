package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// TransactionService implements create, edit, delete and listing of
// transactions, appending an audit entry for every mutation.
type TransactionService struct {
	store   ledger.Store
	history *HistoryService
}

func NewTransactionService(store ledger.Store, history *HistoryService) *TransactionService {
	return &TransactionService{store: store, history: history}
}

type CreateTransactionInput struct {
	FolderID    string
	Category    core.Category
	Amount      core.Money
	Description string
	Date        time.Time // zero means now
}

// TransactionPatch is a partial update. Nil fields are left unchanged, and so
// are zero values: an amount of 0 or an empty description means "no change",
// which also means neither can be explicitly cleared through an edit. This
// mirrors the original behavior on purpose.
type TransactionPatch struct {
	Amount      *core.Money
	Description *string
	Category    *core.Category
	Date        *time.Time
}

// Create validates and persists a new transaction, then records it in the
// history. Folder existence is not checked before the write; an unknown
// folder simply yields a transaction without a resolved folder.
//
// Entries whose description contains "withdrawal" (case-insensitive) are
// logged as WITHDRAW rather than CREATE. This predates the withdrawal engine
// and is kept for compatibility with existing history consumers.
func (s *TransactionService) Create(ctx context.Context, ownerID string, in CreateTransactionInput) (core.Transaction, error) {
	now := time.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}

	tx := core.Transaction{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		FolderID:    in.FolderID,
		Category:    in.Category,
		Amount:      in.Amount,
		Description: in.Description,
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	action := core.ActionCreate
	verb := "Added"
	if strings.Contains(strings.ToLower(tx.Description), "withdrawal") {
		action = core.ActionWithdraw
		verb = "Withdrew"
	}
	summary := fmt.Sprintf("%s $%s - %s", verb, tx.Amount.Format(), tx.Description)
	if _, err := s.history.Append(ctx, ownerID, tx.FolderID, action, summary, now); err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Transaction created",
		"transaction_id", tx.ID,
		"folder_id", tx.FolderID,
		"category", tx.Category,
		"amount_cents", tx.Amount.Cents)

	s.attachFolder(ctx, &tx)
	return tx, nil
}

// Edit applies a partial update and records an EDIT entry when the amount or
// description changed. Category and date changes are applied but not
// reflected in the diff text.
func (s *TransactionService) Edit(ctx context.Context, id, ownerID string, patch TransactionPatch) (core.Transaction, error) {
	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	if tx.OwnerID != ownerID {
		return core.Transaction{}, fmt.Errorf("%w: transaction belongs to another user", core.ErrNotAuthorized)
	}

	oldAmount := tx.Amount
	oldDesc := tx.Description

	if patch.Amount != nil && patch.Amount.Cents != 0 {
		tx.Amount = *patch.Amount
	}
	if patch.Description != nil && *patch.Description != "" {
		tx.Description = *patch.Description
	}
	if patch.Category != nil && *patch.Category != "" {
		tx.Category = *patch.Category
	}
	if patch.Date != nil && !patch.Date.IsZero() {
		tx.Date = *patch.Date
	}
	tx.UpdatedAt = time.Now()

	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	var changes []string
	if oldAmount != tx.Amount {
		changes = append(changes, fmt.Sprintf("Amount: $%s → $%s", oldAmount.Format(), tx.Amount.Format()))
	}
	if oldDesc != tx.Description {
		changes = append(changes, fmt.Sprintf("Desc: %q → %q", oldDesc, tx.Description))
	}
	if len(changes) > 0 {
		summary := fmt.Sprintf("Edited %s: %s", tx.Description, strings.Join(changes, ", "))
		if _, err := s.history.Append(ctx, ownerID, tx.FolderID, core.ActionEdit, summary, time.Now()); err != nil {
			return core.Transaction{}, err
		}
	}

	slog.InfoContext(ctx, "Transaction updated",
		"transaction_id", tx.ID,
		"changes", len(changes))

	s.attachFolder(ctx, &tx)
	return tx, nil
}

// Delete removes a transaction and records what was removed.
func (s *TransactionService) Delete(ctx context.Context, id, ownerID string) error {
	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if tx.OwnerID != ownerID {
		return fmt.Errorf("%w: transaction belongs to another user", core.ErrNotAuthorized)
	}

	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	summary := fmt.Sprintf("Deleted transaction: %q ($%s)", tx.Description, tx.Amount.Format())
	if _, err := s.history.Append(ctx, ownerID, tx.FolderID, core.ActionDelete, summary, time.Now()); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Transaction deleted",
		"transaction_id", tx.ID,
		"folder_id", tx.FolderID)
	return nil
}

// List returns the owner's transactions, optionally filtered by a
// case-insensitive description substring and a folder, newest date first.
func (s *TransactionService) List(ctx context.Context, ownerID, search, folderID string) ([]core.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx, ownerID, search, folderID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// attachFolder resolves the folder for display. A missing folder is not an
// error here: folder existence is never enforced by the core.
func (s *TransactionService) attachFolder(ctx context.Context, tx *core.Transaction) {
	f, err := s.store.GetFolder(ctx, tx.FolderID)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			slog.WarnContext(ctx, "Failed to resolve folder", "folder_id", tx.FolderID, "error", err)
		}
		return
	}
	tx.Folder = &f
}
