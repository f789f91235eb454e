// Package storage implements the ledger ports on SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"

	_ "modernc.org/sqlite"
)

// Timestamps are stored as fixed-width RFC3339 text (nanoseconds always
// printed) so lexical ordering matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteRepository struct {
	db *sql.DB
}

var _ ledger.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, owner_id, folder_id, category, amount_cents, description, date, profit_cents, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.OwnerID, tx.FolderID, string(tx.Category), tx.Amount.Cents, tx.Description,
		tx.Date.UTC().Format(timeLayout), tx.Profit.Cents,
		tx.CreatedAt.UTC().Format(timeLayout), tx.UpdatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"category", tx.Category,
		"amount_cents", tx.Amount.Cents)
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, folder_id, category, amount_cents, description, date, profit_cents, created_at, updated_at
		FROM transactions WHERE id = ?`, id)

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("%w: transaction %s", core.ErrNotFound, id)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET folder_id = ?, category = ?, amount_cents = ?, description = ?, date = ?, profit_cents = ?, updated_at = ?
		WHERE id = ?`,
		tx.FolderID, string(tx.Category), tx.Amount.Cents, tx.Description,
		tx.Date.UTC().Format(timeLayout), tx.Profit.Cents, tx.UpdatedAt.UTC().Format(timeLayout), tx.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res, "transaction "+tx.ID)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res, "transaction "+id)
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, ownerID, search, folderID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.owner_id, t.folder_id, t.category, t.amount_cents, t.description, t.date, t.profit_cents, t.created_at, t.updated_at,
		       f.id, f.owner_id, f.name, f.icon, f.color
		FROM transactions t
		LEFT JOIN folders f ON f.id = t.folder_id
		WHERE t.owner_id = ?
		  AND (? = '' OR instr(lower(t.description), lower(?)) > 0)
		  AND (? = '' OR t.folder_id = ?)
		ORDER BY t.date DESC`,
		ownerID, search, search, folderID, folderID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			tx                           core.Transaction
			category, date, cAt, uAt     string
			fID, fOwner, fName, fIcon    sql.NullString
			fColor                       sql.NullString
		)
		if err := rows.Scan(&tx.ID, &tx.OwnerID, &tx.FolderID, &category, &tx.Amount.Cents, &tx.Description,
			&date, &tx.Profit.Cents, &cAt, &uAt,
			&fID, &fOwner, &fName, &fIcon, &fColor); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Category = core.Category(category)
		if tx.Date, err = time.Parse(timeLayout, date); err != nil {
			return nil, fmt.Errorf("parse transaction date: %w", err)
		}
		tx.CreatedAt, _ = time.Parse(timeLayout, cAt)
		tx.UpdatedAt, _ = time.Parse(timeLayout, uAt)
		if fID.Valid {
			tx.Folder = &core.Folder{
				ID:      fID.String,
				OwnerID: fOwner.String,
				Name:    fName.String,
				Icon:    fIcon.String,
				Color:   fColor.String,
			}
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) AppendHistory(ctx context.Context, e core.HistoryEntry) error {
	if _, err := r.db.ExecContext(ctx, insertHistorySQL, historyArgs(e)...); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListHistoryByFolder(ctx context.Context, ownerID, folderID string) ([]core.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, folder_id, action, description, occurred_at, created_at
		FROM history
		WHERE owner_id = ? AND folder_id = ?
		ORDER BY created_at DESC`, ownerID, folderID)
	if err != nil {
		return nil, fmt.Errorf("list folder history: %w", err)
	}
	defer rows.Close()

	var out []core.HistoryEntry
	for rows.Next() {
		e, err := scanHistory(rows, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListHistoryGlobal(ctx context.Context, ownerID string, limit int) ([]core.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT h.id, h.owner_id, h.folder_id, h.action, h.description, h.occurred_at, h.created_at, f.name
		FROM history h
		LEFT JOIN folders f ON f.id = h.folder_id
		WHERE h.owner_id = ?
		ORDER BY h.created_at DESC
		LIMIT ?`, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list global history: %w", err)
	}
	defer rows.Close()

	var out []core.HistoryEntry
	for rows.Next() {
		var name sql.NullString
		e, err := scanHistory(rows, &name)
		if err != nil {
			return nil, err
		}
		e.FolderName = name.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetFolder(ctx context.Context, id string) (core.Folder, error) {
	var f core.Folder
	err := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, icon, color FROM folders WHERE id = ?`, id).
		Scan(&f.ID, &f.OwnerID, &f.Name, &f.Icon, &f.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Folder{}, fmt.Errorf("%w: folder %s", core.ErrNotFound, id)
	}
	if err != nil {
		return core.Folder{}, fmt.Errorf("get folder: %w", err)
	}
	return f, nil
}

func (r *SQLiteRepository) ListFolders(ctx context.Context, ownerID string) ([]core.Folder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, name, icon, color FROM folders WHERE owner_id = ? ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var out []core.Folder
	for rows.Next() {
		var f core.Folder
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.Name, &f.Icon, &f.Color); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateFolder(ctx context.Context, f core.Folder) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO folders (id, owner_id, name, icon, color, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID, f.OwnerID, f.Name, f.Icon, f.Color, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert folder: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteFolder(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM folders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	return requireRow(res, "folder "+id)
}

// ApplyWithdrawal applies the source decrement, destination insert and
// history append in a single database transaction.
func (r *SQLiteRepository) ApplyWithdrawal(ctx context.Context, w ledger.Withdrawal) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin withdrawal: %w", err)
	}
	defer dbTx.Rollback()

	res, err := dbTx.ExecContext(ctx, `
		UPDATE transactions SET amount_cents = ?, updated_at = ? WHERE id = ?`,
		w.Source.Amount.Cents, w.Source.UpdatedAt.UTC().Format(timeLayout), w.Source.ID)
	if err != nil {
		return fmt.Errorf("update source: %w", err)
	}
	if err := requireRow(res, "transaction "+w.Source.ID); err != nil {
		return err
	}

	c := w.Created
	if _, err := dbTx.ExecContext(ctx, `
		INSERT INTO transactions (id, owner_id, folder_id, category, amount_cents, description, date, profit_cents, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.OwnerID, c.FolderID, string(c.Category), c.Amount.Cents, c.Description,
		c.Date.UTC().Format(timeLayout), c.Profit.Cents,
		c.CreatedAt.UTC().Format(timeLayout), c.UpdatedAt.UTC().Format(timeLayout)); err != nil {
		return fmt.Errorf("insert destination: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, insertHistorySQL, historyArgs(w.Entry)...); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit withdrawal: %w", err)
	}

	slog.InfoContext(ctx, "Withdrawal applied atomically",
		"source_id", w.Source.ID,
		"created_id", w.Created.ID)
	return nil
}

const insertHistorySQL = `
	INSERT INTO history (id, owner_id, folder_id, action, description, occurred_at, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

func historyArgs(e core.HistoryEntry) []any {
	return []any{
		e.ID, e.OwnerID, e.FolderID, string(e.Action), e.Description,
		e.OccurredAt.UTC().Format(timeLayout), e.CreatedAt.UTC().Format(timeLayout),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx                       core.Transaction
		category, date, cAt, uAt string
	)
	err := row.Scan(&tx.ID, &tx.OwnerID, &tx.FolderID, &category, &tx.Amount.Cents, &tx.Description,
		&date, &tx.Profit.Cents, &cAt, &uAt)
	if err != nil {
		return core.Transaction{}, err
	}
	tx.Category = core.Category(category)
	if tx.Date, err = time.Parse(timeLayout, date); err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date: %w", err)
	}
	tx.CreatedAt, _ = time.Parse(timeLayout, cAt)
	tx.UpdatedAt, _ = time.Parse(timeLayout, uAt)
	return tx, nil
}

// scanHistory reads a history row; extra, when non-nil, receives the joined
// folder name column.
func scanHistory(row rowScanner, extra *sql.NullString) (core.HistoryEntry, error) {
	var (
		e             core.HistoryEntry
		action, o, c  string
	)
	dest := []any{&e.ID, &e.OwnerID, &e.FolderID, &action, &e.Description, &o, &c}
	if extra != nil {
		dest = append(dest, extra)
	}
	if err := row.Scan(dest...); err != nil {
		return core.HistoryEntry{}, fmt.Errorf("scan history: %w", err)
	}
	e.Action = core.Action(action)
	var err error
	if e.OccurredAt, err = time.Parse(timeLayout, o); err != nil {
		return core.HistoryEntry{}, fmt.Errorf("parse occurred_at: %w", err)
	}
	if e.CreatedAt, err = time.Parse(timeLayout, c); err != nil {
		return core.HistoryEntry{}, fmt.Errorf("parse created_at: %w", err)
	}
	return e, nil
}

func requireRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", core.ErrNotFound, what)
	}
	return nil
}
