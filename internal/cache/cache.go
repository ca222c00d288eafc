// Package cache keeps the last server-confirmed task list in a local SQLite
// database so it can be listed without contacting the server.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"taskboard/internal/service"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	position    INTEGER NOT NULL,
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	due_date    TEXT,
	subtasks    TEXT NOT NULL DEFAULT '[]'
);
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const syncedAtKey = "synced_at"

// ErrEmpty is returned when the cache has never been filled.
var ErrEmpty = errors.New("task cache is empty")

// Cache is a SQLite-backed task snapshot.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the cache database at path.
func Open(ctx context.Context, path string) (*Cache, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	// WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache migration failed: %w", err)
	}

	return &Cache{db: db, now: time.Now}, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// SaveTasks replaces the snapshot with tasks, keeping their order.
func (c *Cache) SaveTasks(ctx context.Context, tasks []service.Task) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("failed to clear cached tasks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (position, id, title, description, status, due_date, subtasks)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range tasks {
		var due sql.NullString
		if t.DueDate != nil {
			due = sql.NullString{String: t.DueDate.UTC().Format(time.RFC3339), Valid: true}
		}
		subs, err := json.Marshal(nonNil(t.SubTasks))
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, i, t.ID, t.Title, t.Description, string(t.Status), due, string(subs)); err != nil {
			return fmt.Errorf("failed to cache task %s: %w", t.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		syncedAtKey, c.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record sync time: %w", err)
	}

	return tx.Commit()
}

// LoadTasks returns the snapshot in its original order.
func (c *Cache) LoadTasks(ctx context.Context) ([]service.Task, error) {
	if _, err := c.SyncedAt(ctx); err != nil {
		return nil, err
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, title, description, status, due_date, subtasks
		FROM tasks ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached tasks: %w", err)
	}
	defer rows.Close()

	var tasks []service.Task
	for rows.Next() {
		var (
			t      service.Task
			status string
			due    sql.NullString
			subs   string
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &status, &due, &subs); err != nil {
			return nil, err
		}
		t.Status = service.Status(status)
		if due.Valid {
			d, err := time.Parse(time.RFC3339, due.String)
			if err != nil {
				return nil, fmt.Errorf("invalid cached due date for %s: %w", t.ID, err)
			}
			t.DueDate = &d
		}
		if err := json.Unmarshal([]byte(subs), &t.SubTasks); err != nil {
			return nil, fmt.Errorf("invalid cached subtasks for %s: %w", t.ID, err)
		}
		if len(t.SubTasks) == 0 {
			t.SubTasks = nil
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// SyncedAt returns when the snapshot was last written.
func (c *Cache) SyncedAt(ctx context.Context) (time.Time, error) {
	var value string
	err := c.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, syncedAtKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrEmpty
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, value)
}

// Clear removes the snapshot.
func (c *Cache) Clear(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM tasks; DELETE FROM meta;`)
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
