package cache

import (
	"context"
	"errors"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

const (
	defaultFolderCacheSize = 256
	defaultFolderCacheTTL  = 5 * time.Minute
)

// Store wraps a ledger store and caches GetFolder lookups. Folder writes
// invalidate the cached entry; all other methods pass through.
type Store struct {
	ledger.Store
	folders *LRU[core.Folder]
}

var _ ledger.Store = (*Store)(nil)

func NewStore(inner ledger.Store) *Store {
	return &Store{
		Store:   inner,
		folders: NewLRU[core.Folder](defaultFolderCacheSize, defaultFolderCacheTTL),
	}
}

func (s *Store) GetFolder(ctx context.Context, id string) (core.Folder, error) {
	if f, ok := s.folders.Get(id); ok {
		return f, nil
	}

	f, err := s.Store.GetFolder(ctx, id)
	if err != nil {
		return core.Folder{}, err
	}
	s.folders.Set(id, f)
	return f, nil
}

func (s *Store) CreateFolder(ctx context.Context, f core.Folder) error {
	if err := s.Store.CreateFolder(ctx, f); err != nil {
		return err
	}
	s.folders.Set(f.ID, f)
	return nil
}

func (s *Store) DeleteFolder(ctx context.Context, id string) error {
	err := s.Store.DeleteFolder(ctx, id)
	if err == nil || errors.Is(err, core.ErrNotFound) {
		s.folders.Delete(id)
	}
	return err
}
