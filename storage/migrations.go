// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: storage/migrations.go
// Summary: Ordered schema migrations tracked in a migrations table.

package storage

import "fmt"

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS focus_records (
		workspace_id     INTEGER NOT NULL,
		position         INTEGER NOT NULL,
		pane_id          TEXT NOT NULL,
		control_path     TEXT NOT NULL DEFAULT '',
		control_kind     TEXT NOT NULL DEFAULT '',
		caret_offset     INTEGER NOT NULL DEFAULT 0,
		selection_start  INTEGER NOT NULL DEFAULT 0,
		selection_length INTEGER NOT NULL DEFAULT 0,
		scroll_offset    INTEGER NOT NULL DEFAULT 0,
		focused          INTEGER NOT NULL DEFAULT 0,
		updated_at       TEXT NOT NULL,
		PRIMARY KEY (workspace_id, pane_id)
	)`,
}

// migrate applies any migrations past the recorded version, in order, each
// in its own transaction.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`); err != nil {
		return fmt.Errorf("storage: create migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("storage: read schema version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		version := i + 1
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("storage: begin migration %d: %w", version, err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("storage: apply migration %d: %w", version, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			tx.Rollback()
			return fmt.Errorf("storage: record migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("storage: commit migration %d: %w", version, err)
		}
	}
	return nil
}
