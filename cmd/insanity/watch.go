package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [basepath]",
	Short: "Re-run validation whenever the data tree changes",
	Long:  "Runs a full check immediately, then watches the base path recursively and re-runs the check (debounced) after every change. Intended for editing data files and scripts side by side.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

const watchDebounce = 300 * time.Millisecond

func runWatch(cmd *cobra.Command, args []string) error {
	base, err := resolveBasePath(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(base, cmd)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch init: %w", err)
	}
	defer watcher.Close()

	if err := addWatchRecursive(watcher, base); err != nil {
		return fmt.Errorf("watch %s: %w", base, err)
	}

	check := func() {
		if _, err := runOnce(base, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
	}
	check()
	fmt.Fprintf(os.Stderr, "Watching %s\n", base)

	var timer *time.Timer
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if cfg.DB != "" && strings.HasPrefix(ev.Name, cfg.DB) {
				continue
			}
			// New directories need a watch of their own.
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addWatchRecursive(watcher, ev.Name)
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, check)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

// addWatchRecursive watches root and every non-hidden directory below it.
func addWatchRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); strings.HasPrefix(name, ".") && path != root {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
