package synthcli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// runWatch monitors the context file and re-runs synthesis on changes,
// debouncing rapid edits. The first synthesis happens immediately.
func runWatch(cmd *cobra.Command, contextFile, debounce string, runOnce func() error) error {
	wait, err := time.ParseDuration(debounce)
	if err != nil {
		return fmt.Errorf("invalid debounce %q: %w", debounce, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	// Watch the directory, not the file: editors replace files on save
	// and a direct file watch would be lost after the first write.
	dir := filepath.Dir(contextFile)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	target := filepath.Clean(contextFile)

	if err := runOnce(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s for changes\n", contextFile)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(wait)
			timerCh = timer.C

		case <-timerCh:
			timerCh = nil
			if err := runOnce(); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)

		case <-sigCh:
			fmt.Fprintln(cmd.ErrOrStderr(), "stopping watch")
			return nil
		}
	}
}
