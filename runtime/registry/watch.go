package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aledsdavies/callbind/core/invariant"
	"github.com/aledsdavies/callbind/core/types"
	"github.com/fsnotify/fsnotify"
)

// settle is how long a burst of file events must be quiet before reloading
const settle = 50 * time.Millisecond

// Watch reloads paths with the default loader whenever one of them changes
func Watch(ctx context.Context, paths []string, fn func([]*types.Signature, error)) error {
	return defaultLoader.Watch(ctx, paths, fn)
}

// Watch reloads the signature files at paths whenever one of them is written,
// created or renamed over, and reports every reload to fn. It blocks until
// ctx is cancelled.
//
// Parent directories are watched rather than the files themselves so editors
// that save by renaming a temporary file are still seen.
func (l *Loader) Watch(ctx context.Context, paths []string, fn func([]*types.Signature, error)) error {
	invariant.ContextNotBackground(ctx, "registry.Watch")
	invariant.NotNil(fn, "fn")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", path, err)
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	timer := time.NewTimer(settle)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(settle)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fn(nil, fmt.Errorf("watch: %w", err))

		case <-timer.C:
			fn(l.LoadFiles(paths...))
		}
	}
}
