// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: storage/sqlite.go
// Summary: SQLite-backed persistence for workspace focus snapshots.
// Usage: Open once at startup; the store is used from the event loop
//        goroutine. One row per (workspace, pane) record plus a focused
//        marker; saving a workspace replaces its rows atomically.

package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/latticeshell/lattice/shell"
)

// Store persists focus snapshots in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	// modernc/sqlite serializes writes; one connection avoids lock churn.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSnapshot implements shell.SnapshotSink. The workspace's rows are
// replaced wholesale in one transaction; a zero snapshot just clears them.
func (s *Store) SaveSnapshot(workspaceID int, snap shell.FocusSnapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: begin save %d: %w", workspaceID, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM focus_records WHERE workspace_id = ?`, workspaceID); err != nil {
		return fmt.Errorf("storage: clear workspace %d: %w", workspaceID, err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for i, rec := range snap.Records {
		focused := 0
		if rec.PaneID == snap.FocusedPane {
			focused = 1
		}
		if _, err := tx.Exec(`
			INSERT INTO focus_records (
				workspace_id, position, pane_id, control_path, control_kind,
				caret_offset, selection_start, selection_length, scroll_offset,
				focused, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			workspaceID, i, rec.PaneID.String(), rec.ControlPath, rec.ControlKind,
			rec.CaretOffset, rec.SelectionStart, rec.SelectionLength, rec.ScrollOffset,
			focused, now,
		); err != nil {
			return fmt.Errorf("storage: save record %d/%d: %w", workspaceID, i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit save %d: %w", workspaceID, err)
	}
	return nil
}

// LoadSnapshot implements shell.SnapshotSink. Records come back in their
// saved order.
func (s *Store) LoadSnapshot(workspaceID int) (shell.FocusSnapshot, bool, error) {
	rows, err := s.db.Query(`
		SELECT pane_id, control_path, control_kind,
		       caret_offset, selection_start, selection_length, scroll_offset,
		       focused
		FROM focus_records WHERE workspace_id = ? ORDER BY position`, workspaceID)
	if err != nil {
		return shell.FocusSnapshot{}, false, fmt.Errorf("storage: load snapshot %d: %w", workspaceID, err)
	}
	defer rows.Close()

	var snap shell.FocusSnapshot
	for rows.Next() {
		var rec shell.RecordSnapshot
		var paneID string
		var focused int
		if err := rows.Scan(&paneID, &rec.ControlPath, &rec.ControlKind,
			&rec.CaretOffset, &rec.SelectionStart, &rec.SelectionLength, &rec.ScrollOffset,
			&focused); err != nil {
			return shell.FocusSnapshot{}, false, fmt.Errorf("storage: scan record: %w", err)
		}
		id, err := uuid.Parse(paneID)
		if err != nil {
			return shell.FocusSnapshot{}, false, fmt.Errorf("storage: snapshot %d has bad pane id %q: %w", workspaceID, paneID, err)
		}
		rec.PaneID = id
		if focused != 0 {
			snap.FocusedPane = id
		}
		snap.Records = append(snap.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return shell.FocusSnapshot{}, false, fmt.Errorf("storage: read snapshot %d: %w", workspaceID, err)
	}
	if snap.Zero() {
		return shell.FocusSnapshot{}, false, nil
	}
	return snap, true, nil
}
