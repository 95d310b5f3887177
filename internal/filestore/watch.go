package filestore

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// EventKind tells what happened to a stored file.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventRemoved EventKind = "removed"
)

// EventCallback receives the URI of a file that appeared or disappeared.
type EventCallback func(kind EventKind, uri string)

// Watch reports files appearing in or leaving the root until ctx is
// cancelled. Renames count as removals of the old name. Temporary files
// written by Save are ignored.
func (f *FS) Watch(ctx context.Context, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(f.root); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("root", f.root))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			uri, err := filepath.Rel(f.root, ev.Name)
			if err != nil || strings.HasPrefix(filepath.Base(uri), tmpPrefix) {
				continue
			}

			var kind EventKind
			switch {
			case ev.Op&fsnotify.Create != 0:
				kind = EventCreated
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				kind = EventRemoved
			default:
				continue
			}
			logger.Debug("watcher: event", slog.String("uri", uri), slog.String("kind", string(kind)))
			if cb != nil {
				cb(kind, filepath.ToSlash(uri))
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
