package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// FolderService manages the folders transactions are grouped under. Deleting
// a folder does not touch its transactions or history; they keep referencing
// the old folder id.
type FolderService struct {
	store ledger.FolderStore
}

func NewFolderService(store ledger.FolderStore) *FolderService {
	return &FolderService{store: store}
}

type CreateFolderInput struct {
	Name  string
	Icon  string
	Color string
}

const (
	defaultFolderIcon  = "📁"
	defaultFolderColor = "#3B82F6"
)

func (s *FolderService) Create(ctx context.Context, ownerID string, in CreateFolderInput) (core.Folder, error) {
	if strings.TrimSpace(in.Name) == "" {
		return core.Folder{}, fmt.Errorf("%w: missing folder name", core.ErrValidation)
	}
	if in.Icon == "" {
		in.Icon = defaultFolderIcon
	}
	if in.Color == "" {
		in.Color = defaultFolderColor
	}

	f := core.Folder{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Name:    in.Name,
		Icon:    in.Icon,
		Color:   in.Color,
	}
	if err := s.store.CreateFolder(ctx, f); err != nil {
		return core.Folder{}, fmt.Errorf("create folder: %w", err)
	}

	slog.InfoContext(ctx, "Folder created", "folder_id", f.ID, "name", f.Name)
	return f, nil
}

func (s *FolderService) List(ctx context.Context, ownerID string) ([]core.Folder, error) {
	folders, err := s.store.ListFolders(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return folders, nil
}

func (s *FolderService) Delete(ctx context.Context, id, ownerID string) error {
	f, err := s.store.GetFolder(ctx, id)
	if err != nil {
		return err
	}
	if f.OwnerID != ownerID {
		return fmt.Errorf("%w: folder belongs to another user", core.ErrNotAuthorized)
	}

	if err := s.store.DeleteFolder(ctx, id); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	slog.InfoContext(ctx, "Folder deleted", "folder_id", id)
	return nil
}
