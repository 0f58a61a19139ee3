// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelshell/history.go
// Summary: SQLite-backed command history for the shell.
// Usage: Loaded at startup for Up/Down recall, appended on every submitted command,
// queried by the history builtin.

package texelshell

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// HistoryEntry is one submitted command.
type HistoryEntry struct {
	ID        int64
	Timestamp time.Time
	Dir       string
	Command   string
}

// HistoryStore persists submitted commands.
type HistoryStore struct {
	db *sql.DB
}

const historySchemaVersion = 1

const historySchema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS commands (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp INTEGER NOT NULL,       -- UnixNano
    dir TEXT NOT NULL,
    command TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_commands_timestamp ON commands(timestamp);
`

// OpenHistory opens (creating if needed) the history database at path.
func OpenHistory(path string) (*HistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(2000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if err := checkHistorySchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &HistoryStore{db: db}, nil
}

func checkHistorySchema(db *sql.DB) error {
	var current int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&current)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current == historySchemaVersion {
		return nil
	}
	if current > historySchemaVersion {
		return fmt.Errorf("history schema version %d is newer than supported %d", current, historySchemaVersion)
	}
	log.Printf("History: Migrating schema from version %d to %d", current, historySchemaVersion)
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to reset schema version: %w", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", historySchemaVersion); err != nil {
		return fmt.Errorf("failed to update schema version: %w", err)
	}
	return nil
}

// Append records a command run in dir.
func (h *HistoryStore) Append(ctx context.Context, command, dir string) error {
	_, err := h.db.ExecContext(ctx,
		"INSERT INTO commands (timestamp, dir, command) VALUES (?, ?, ?)",
		time.Now().UnixNano(), dir, command)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// Recent returns up to limit of the newest commands, oldest first.
func (h *HistoryStore) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	rows, err := h.db.QueryContext(ctx,
		"SELECT id, timestamp, dir, command FROM commands ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	entries, err := scanHistory(rows)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// Search returns up to limit commands containing substr, newest first.
func (h *HistoryStore) Search(ctx context.Context, substr string, limit int) ([]HistoryEntry, error) {
	rows, err := h.db.QueryContext(ctx,
		"SELECT id, timestamp, dir, command FROM commands WHERE instr(command, ?) > 0 ORDER BY id DESC LIMIT ?",
		substr, limit)
	if err != nil {
		return nil, fmt.Errorf("search history: %w", err)
	}
	return scanHistory(rows)
}

func scanHistory(rows *sql.Rows) ([]HistoryEntry, error) {
	defer rows.Close()
	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var ts int64
		if err := rows.Scan(&e.ID, &ts, &e.Dir, &e.Command); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.Timestamp = time.Unix(0, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the database.
func (h *HistoryStore) Close() error {
	return h.db.Close()
}
