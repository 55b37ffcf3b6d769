package positions

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange with the reloaded positions whenever the positions
// file changes on disk, until ctx is done. The parent directory is watched
// because atomic writes replace the file.
func (s *Store) Watch(ctx context.Context, onChange func([]Position)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch positions: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch positions: %w", err)
	}

	name := filepath.Base(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			list, err := s.Positions()
			if err != nil {
				slog.Warn("[positions] reload after change failed", "path", s.path, "error", err)
				continue
			}
			onChange(list)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("[positions] watcher error", "error", err)
		}
	}
}
