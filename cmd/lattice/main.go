// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/lattice/main.go
// Summary: Lattice shell entrypoint: config, storage, engine wiring.
// Usage: Run `lattice` in a terminal. See --help for flags.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/latticeshell/lattice/config"
	"github.com/latticeshell/lattice/shell"
	"github.com/latticeshell/lattice/storage"
	"github.com/latticeshell/lattice/widgets"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("lattice", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultPath(), "Path to lattice.yaml")
	dataDir := fs.String("data-dir", "", "Override the data directory")
	logPath := fs.String("log", "", "File to append logs to (default: <data-dir>/lattice.log)")
	fromScratch := fs.Bool("from-scratch", false, "Ignore saved focus snapshots")
	watchConfig := fs.Bool("watch-config", true, "Reload config when the file changes")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("lattice needs a terminal")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// The screen owns stdout, so logs go to a file.
	if *logPath == "" {
		*logPath = filepath.Join(cfg.DataDir, "lattice.log")
	}
	logFile, err := os.OpenFile(*logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	var sink shell.SnapshotSink
	if !*fromScratch {
		store, err := storage.Open(filepath.Join(cfg.DataDir, "lattice.db"))
		if err != nil {
			return err
		}
		defer store.Close()
		sink = store
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}

	engine := shell.NewEngine(shell.NewTcellScreenDriver(screen), sink)
	if err := setup(engine, cfg); err != nil {
		return err
	}

	if *watchConfig {
		watcher, werr := config.NewWatcher(*configPath)
		if werr != nil {
			log.Printf("Main: config watching disabled: %v", werr)
		} else {
			defer watcher.Close()
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go watcher.Run(ctx, func(next *config.Config) {
				applyKeys(engine, next)
				log.Printf("Main: config reloaded from %s", *configPath)
			})
		}
	}

	err = engine.Run()
	engine.SaveAllSnapshots()
	return err
}

// setup opens the initial panes and installs the global bindings.
func setup(e *shell.Engine, cfg *config.Config) error {
	notesPath := filepath.Join(cfg.DataDir, "notes.txt")
	notes := widgets.NewNotes(notesPath)
	pane, err := e.Lifecycle().OpenPane(notes)
	if err != nil {
		return err
	}
	for _, b := range notes.Bindings() {
		e.Registry().RegisterScoped(pane.ID(), b)
	}
	if _, err := e.Lifecycle().OpenPane(widgets.NewTodo(nil)); err != nil {
		return err
	}
	if _, err := e.Lifecycle().OpenPane(widgets.NewClock()); err != nil {
		return err
	}

	applyKeys(e, cfg)
	return nil
}

// applyKeys installs the config-driven global bindings. Called again on
// config reload; re-registration collisions are first-wins, so stale
// strokes are removed first.
func applyKeys(e *shell.Engine, cfg *config.Config) {
	for _, b := range e.Registry().GlobalBindings() {
		e.Registry().UnregisterGlobal(b.Stroke)
	}
	if ks, err := shell.ParseKeyStroke(cfg.PaneMoveKey); err == nil {
		e.Input().SetPaneMoveKey(ks)
	}

	bind := func(action, desc string, fn func()) {
		if ks, ok := cfg.Stroke(action); ok {
			e.Registry().RegisterGlobal(shell.Binding{Stroke: ks, Action: fn, Description: desc})
		}
	}

	bind("quit", "quit lattice", e.Stop)
	bind("close-pane", "close focused pane", func() {
		if p := e.FocusedPane(); p != nil {
			e.Lifecycle().ClosePane(p.ID())
		}
	})
	bind("palette", "command palette", func() { openPalette(e, cfg) })
	bind("new-notes", "open a notes pane", func() {
		openNotes(e, cfg)
	})
	bind("copy", "copy selection", e.CopySelection)
	bind("cut", "cut selection", e.CutSelection)
	bind("paste", "paste clipboard", e.PasteClipboard)
	bind("next-workspace", "next workspace", func() {
		e.SwitchToWorkspace(e.ActiveWorkspaceID() + 1)
	})
	bind("prev-workspace", "previous workspace", func() {
		e.SwitchToWorkspace(e.ActiveWorkspaceID() - 1)
	})
	for i := 1; i <= cfg.Workspaces; i++ {
		n := i
		ks, err := shell.ParseKeyStroke(fmt.Sprintf("alt+%d", n))
		if err != nil {
			continue
		}
		e.Registry().RegisterGlobal(shell.Binding{
			Stroke:      ks,
			Description: fmt.Sprintf("workspace %d", n),
			Action:      func() { e.SwitchToWorkspace(n) },
		})
	}
}

// openNotes opens a fresh notes pane with its scoped save binding.
func openNotes(e *shell.Engine, cfg *config.Config) {
	path := filepath.Join(cfg.DataDir, "notes.txt")
	notes := widgets.NewNotes(path)
	pane, err := e.Lifecycle().OpenPane(notes)
	if err != nil {
		log.Printf("Main: open notes: %v", err)
		return
	}
	for _, b := range notes.Bindings() {
		e.Registry().RegisterScoped(pane.ID(), b)
	}
}

// openPalette shows the command palette as a modal overlay.
func openPalette(e *shell.Engine, cfg *config.Config) {
	commands := []widgets.Command{
		{Name: "Open notes", Run: func() { openNotes(e, cfg) }},
		{Name: "Open todo", Run: func() {
			if _, err := e.Lifecycle().OpenPane(widgets.NewTodo(nil)); err != nil {
				log.Printf("Main: open todo: %v", err)
			}
		}},
		{Name: "Open clock", Run: func() {
			if _, err := e.Lifecycle().OpenPane(widgets.NewClock()); err != nil {
				log.Printf("Main: open clock: %v", err)
			}
		}},
		{Name: "Quit", Run: e.Stop},
	}
	for _, b := range e.Registry().GlobalBindings() {
		b := b
		if b.Description == "" || b.Action == nil {
			continue
		}
		commands = append(commands, widgets.Command{
			Name: b.Description + "  (" + b.Stroke.String() + ")",
			Run:  b.Action,
		})
	}

	palette := widgets.NewPalette(commands)
	palette.Dismiss = e.Gate().Hide
	e.Gate().Show(shell.NewPane(palette))
}

