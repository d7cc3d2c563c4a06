package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/contre95/shadowbox/src/music"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SqliteHistory stores one row per pipeline item in SQLite. created_at holds
// unix nanoseconds so rows sort in insertion time order.
type SqliteHistory struct {
	db *sql.DB
}

// NewSqliteHistory opens (or creates) the history database at path.
func NewSqliteHistory(path string) (*SqliteHistory, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	slog.Debug("History database ready", "path", path)
	return &SqliteHistory{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS downloads (
			id TEXT PRIMARY KEY,
			input TEXT NOT NULL,
			status TEXT NOT NULL,
			title TEXT,
			artist TEXT,
			album TEXT,
			path TEXT,
			strategy TEXT,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_downloads_created_at ON downloads(created_at);
	`)
	return err
}

// Record inserts entry. Missing ID and CreatedAt are filled in.
func (d *SqliteHistory) Record(ctx context.Context, entry music.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO downloads (id, input, status, title, artist, album, path, strategy, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Input, entry.Status, entry.Title, entry.Artist, entry.Album, entry.Path, entry.Strategy,
		entry.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to record history entry: %w", err)
	}
	return nil
}

// Recent returns the last limit entries, newest first.
func (d *SqliteHistory) Recent(ctx context.Context, limit int) ([]music.HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, input, status, title, artist, album, path, strategy, created_at
		FROM downloads
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []music.HistoryEntry
	for rows.Next() {
		var (
			e                                    music.HistoryEntry
			title, artist, album, path, strategy sql.NullString
			createdAt                            int64
		)
		if err := rows.Scan(&e.ID, &e.Input, &e.Status, &title, &artist, &album, &path, &strategy, &createdAt); err != nil {
			return nil, err
		}
		e.Title, e.Artist, e.Album = title.String, artist.String, album.String
		e.Path, e.Strategy = path.String, strategy.String
		e.CreatedAt = time.Unix(0, createdAt).UTC()
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// CountByStatus returns how many entries exist per status.
func (d *SqliteHistory) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM downloads GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// Close closes the database.
func (d *SqliteHistory) Close() error {
	return d.db.Close()
}
