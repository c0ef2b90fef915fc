package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"quickdash/internal/domain"
)

// Store persists the file-open history and the launch-usage counters that
// drive quick-launch ordering.
type Store struct {
	log *zap.SugaredLogger
	db  *sql.DB
}

// New opens (or creates) the history database at dbPath
func New(log *zap.SugaredLogger, dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	s := &Store{log: log, db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history database: %w", err)
	}

	log.Infow("history database ready", "path", dbPath)
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS file_history (
		path TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		last_used INTEGER NOT NULL,
		use_count INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_file_history_last_used ON file_history(last_used DESC);

	CREATE TABLE IF NOT EXISTS launch_usage (
		path TEXT PRIMARY KEY,
		last_used INTEGER NOT NULL,
		use_count INTEGER NOT NULL DEFAULT 1
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Kind implements sources.Provider
func (s *Store) Kind() domain.ResultKind { return domain.KindFile }

// Search implements sources.Provider: case-insensitive substring match on
// name and path, most recently used first.
func (s *Store) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, path, last_used, use_count FROM file_history
		WHERE name LIKE '%' || ? || '%' COLLATE NOCASE
		   OR path LIKE '%' || ? || '%' COLLATE NOCASE
		ORDER BY last_used DESC`, query, query)
	if err != nil {
		return nil, fmt.Errorf("search file history: %w", err)
	}
	defer rows.Close()

	var out []domain.SearchResult
	for rows.Next() {
		var item domain.FileHistoryItem
		if err := rows.Scan(&item.Name, &item.Path, &item.LastUsed, &item.UseCount); err != nil {
			return nil, err
		}
		out = append(out, domain.SearchResult{
			Kind:        domain.KindFile,
			DisplayName: item.Name,
			Path:        item.Path,
		})
	}
	return out, rows.Err()
}

// GetAll returns the full history, most recently used first
func (s *Store) GetAll(ctx context.Context) ([]domain.FileHistoryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, path, last_used, use_count FROM file_history ORDER BY last_used DESC`)
	if err != nil {
		return nil, fmt.Errorf("load file history: %w", err)
	}
	defer rows.Close()

	var items []domain.FileHistoryItem
	for rows.Next() {
		var item domain.FileHistoryItem
		if err := rows.Scan(&item.Name, &item.Path, &item.LastUsed, &item.UseCount); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Add inserts or touches a history entry for path
func (s *Store) Add(ctx context.Context, path string) error {
	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO file_history (path, name, last_used, use_count)
		VALUES (?, ?, ?, 1)
		ON CONFLICT(path) DO UPDATE SET
			last_used = excluded.last_used,
			use_count = use_count + 1`,
		path, filepath.Base(path), now)
	if err != nil {
		return fmt.Errorf("add history entry: %w", err)
	}
	return nil
}

// CheckExists returns the history entry for path, or nil if absent
func (s *Store) CheckExists(ctx context.Context, path string) (*domain.FileHistoryItem, error) {
	var item domain.FileHistoryItem
	err := s.db.QueryRowContext(ctx,
		`SELECT name, path, last_used, use_count FROM file_history WHERE path = ?`, path).
		Scan(&item.Name, &item.Path, &item.LastUsed, &item.UseCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("check history entry: %w", err)
	}
	return &item, nil
}

// RecordLaunch touches the usage counter for a launched item
func (s *Store) RecordLaunch(ctx context.Context, path string) error {
	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO launch_usage (path, last_used, use_count)
		VALUES (?, ?, 1)
		ON CONFLICT(path) DO UPDATE SET
			last_used = excluded.last_used,
			use_count = use_count + 1`,
		path, now)
	if err != nil {
		return fmt.Errorf("record launch: %w", err)
	}
	return nil
}

// UsageMap returns path -> last-used epoch seconds for every launched item
func (s *Store) UsageMap(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, last_used FROM launch_usage`)
	if err != nil {
		return nil, fmt.Errorf("load usage map: %w", err)
	}
	defer rows.Close()

	usage := make(map[string]int64)
	for rows.Next() {
		var path string
		var lastUsed int64
		if err := rows.Scan(&path, &lastUsed); err != nil {
			return nil, err
		}
		usage[path] = lastUsed
	}
	return usage, rows.Err()
}
