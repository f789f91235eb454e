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

// WithdrawalService moves value from a source transaction into a newly
// created transaction of the destination category determined by
// core.PlanWithdrawal.
//
// By default the three writes (decrement source, create destination, append
// history) are issued sequentially; a crash in between can leave the source
// decremented without a destination or audit entry. With atomic enabled the
// store applies all three in a single storage-level transaction.
type WithdrawalService struct {
	store   ledger.Store
	history *HistoryService
	atomic  bool
}

func NewWithdrawalService(store ledger.Store, history *HistoryService, atomic bool) *WithdrawalService {
	return &WithdrawalService{store: store, history: history, atomic: atomic}
}

type WithdrawalResult struct {
	Source  core.Transaction
	Created core.Transaction
}

// Withdraw decreases the source transaction's amount and creates the
// destination transaction in the same folder, dated now. The source is kept
// even when its amount reaches exactly zero. No overdraft: the withdrawn
// amount must not exceed the source's current amount.
func (s *WithdrawalService) Withdraw(ctx context.Context, sourceID, ownerID string, amount core.Money) (WithdrawalResult, error) {
	source, err := s.store.GetTransaction(ctx, sourceID)
	if err != nil {
		return WithdrawalResult{}, err
	}
	if source.OwnerID != ownerID {
		return WithdrawalResult{}, fmt.Errorf("%w: transaction belongs to another user", core.ErrNotAuthorized)
	}
	if amount.Cents <= 0 {
		return WithdrawalResult{}, fmt.Errorf("%w: amount must be positive", core.ErrValidation)
	}
	if amount.Cents > source.Amount.Cents {
		return WithdrawalResult{}, fmt.Errorf("%w: insufficient funds", core.ErrValidation)
	}

	plan, err := core.PlanWithdrawal(source.Category, source.Description)
	if err != nil {
		return WithdrawalResult{}, err
	}

	now := time.Now()
	oldAmount := source.Amount
	source.Amount = core.Money{Cents: source.Amount.Cents - amount.Cents}
	source.UpdatedAt = now

	created := core.Transaction{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		FolderID:    source.FolderID,
		Category:    plan.Destination,
		Amount:      amount,
		Description: plan.Description,
		Date:        now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	summary := fmt.Sprintf("Withdrew $%s from %q (%s → %s). Created new %s.",
		amount.Format(), source.Description, oldAmount.Format(), source.Amount.Format(), plan.Destination)

	if s.atomic {
		entry := s.history.NewEntry(ownerID, source.FolderID, core.ActionWithdraw, summary, now)
		w := ledger.Withdrawal{Source: source, Created: created, Entry: entry}
		if err := s.store.ApplyWithdrawal(ctx, w); err != nil {
			return WithdrawalResult{}, fmt.Errorf("apply withdrawal: %w", err)
		}
		s.history.Notify(ctx, entry)
	} else {
		if err := s.store.UpdateTransaction(ctx, source); err != nil {
			return WithdrawalResult{}, fmt.Errorf("update source transaction: %w", err)
		}
		if err := s.store.CreateTransaction(ctx, created); err != nil {
			return WithdrawalResult{}, fmt.Errorf("create destination transaction: %w", err)
		}
		if _, err := s.history.Append(ctx, ownerID, source.FolderID, core.ActionWithdraw, summary, now); err != nil {
			return WithdrawalResult{}, err
		}
	}

	slog.InfoContext(ctx, "Withdrawal completed",
		"source_id", source.ID,
		"created_id", created.ID,
		"amount_cents", amount.Cents,
		"destination", plan.Destination,
		"atomic", s.atomic)

	return WithdrawalResult{Source: source, Created: created}, nil
}
