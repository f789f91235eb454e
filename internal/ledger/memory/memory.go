// Package memory provides an in-process ledger store. It is the default
// backend and backs the service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

type Store struct {
	mu           sync.Mutex
	folders      []core.Folder
	transactions []core.Transaction
	history      []core.HistoryEntry
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) CreateTransaction(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, tx)
	return nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.transactions {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, fmt.Errorf("%w: transaction %s", core.ErrNotFound, id)
}

func (s *Store) UpdateTransaction(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == tx.ID {
			s.transactions[i] = tx
			return nil
		}
	}
	return fmt.Errorf("%w: transaction %s", core.ErrNotFound, tx.ID)
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: transaction %s", core.ErrNotFound, id)
}

func (s *Store) ListTransactions(_ context.Context, ownerID, search, folderID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	needle := strings.ToLower(search)
	var out []core.Transaction
	for _, tx := range s.transactions {
		if tx.OwnerID != ownerID {
			continue
		}
		if folderID != "" && tx.FolderID != folderID {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(tx.Description), needle) {
			continue
		}
		tx.Folder = s.folderRef(tx.FolderID)
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *Store) AppendHistory(_ context.Context, e core.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, e)
	return nil
}

func (s *Store) ListHistoryByFolder(_ context.Context, ownerID, folderID string) ([]core.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.HistoryEntry
	// Reverse insertion order: record creation time is monotonic here.
	for i := len(s.history) - 1; i >= 0; i-- {
		e := s.history[i]
		if e.OwnerID == ownerID && e.FolderID == folderID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) ListHistoryGlobal(_ context.Context, ownerID string, limit int) ([]core.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.HistoryEntry
	for i := len(s.history) - 1; i >= 0 && len(out) < limit; i-- {
		e := s.history[i]
		if e.OwnerID != ownerID {
			continue
		}
		if f := s.folderRef(e.FolderID); f != nil {
			e.FolderName = f.Name
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) GetFolder(_ context.Context, id string) (core.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f := s.folderRef(id); f != nil {
		return *f, nil
	}
	return core.Folder{}, fmt.Errorf("%w: folder %s", core.ErrNotFound, id)
}

func (s *Store) ListFolders(_ context.Context, ownerID string) ([]core.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Folder
	for _, f := range s.folders {
		if f.OwnerID == ownerID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *Store) CreateFolder(_ context.Context, f core.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders = append(s.folders, f)
	return nil
}

func (s *Store) DeleteFolder(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.folders {
		if s.folders[i].ID == id {
			s.folders = append(s.folders[:i], s.folders[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: folder %s", core.ErrNotFound, id)
}

// ApplyWithdrawal applies all three writes under one lock.
func (s *Store) ApplyWithdrawal(_ context.Context, w ledger.Withdrawal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := false
	for i := range s.transactions {
		if s.transactions[i].ID == w.Source.ID {
			s.transactions[i] = w.Source
			updated = true
			break
		}
	}
	if !updated {
		return fmt.Errorf("%w: transaction %s", core.ErrNotFound, w.Source.ID)
	}
	s.transactions = append(s.transactions, w.Created)
	s.history = append(s.history, w.Entry)
	return nil
}

// folderRef must be called with the lock held.
func (s *Store) folderRef(id string) *core.Folder {
	for i := range s.folders {
		if s.folders[i].ID == id {
			f := s.folders[i]
			return &f
		}
	}
	return nil
}
