// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/watch.go
// Summary: Config file watcher: reloads lattice.yaml on change.
// Usage: Watch runs until the context or watcher closes; the callback
//        fires with each successfully reloaded config. A reload that fails
//        validation is logged and dropped, keeping the last good config.

package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the config when the file changes on disk.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// NewWatcher watches the directory holding path. Watching the directory
// instead of the file survives editors that replace the file on save.
func NewWatcher(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("config: watch %s: %w", filepath.Dir(path), err)
	}
	return &Watcher{path: path, watcher: fw}, nil
}

// Run blocks, invoking onReload for each good reload, until ctx ends.
func (w *Watcher) Run(ctx context.Context, onReload func(*Config)) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Name != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				log.Printf("Config: reload failed, keeping previous: %v", err)
				continue
			}
			onReload(cfg)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Config: watcher error: %v", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
