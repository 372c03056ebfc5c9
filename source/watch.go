package source

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher reports changes of a single file, typically a query document
// being edited while its rendered output is watched.
type FileWatcher struct {
	filePath string
	logger   *slog.Logger
}

// NewFileWatcher creates a new FileWatcher instance.
func NewFileWatcher(logger *slog.Logger, filePath string) *FileWatcher {
	return &FileWatcher{
		logger:   logger,
		filePath: filepath.Clean(filePath),
	}
}

func (f *FileWatcher) FilePath() string {
	return f.filePath
}

// Watch sends on changes once the watcher is ready and again every time the
// file is written or replaced. Signals are coalesced: if the receiver has not
// consumed the previous one yet, no new signal is queued. changes should be
// buffered.
//
// Editors like vim write a new file and rename it over the old one, which
// gives it a new inode. The parent directory is watched instead of the file
// so such replacements are still noticed.
func (f *FileWatcher) Watch(ctx context.Context, changes chan<- struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cannot create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(f.filePath)); err != nil {
		return fmt.Errorf("cannot add directory to watcher: %w", err)
	}

	notify := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}

	notify()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				f.logger.Debug("fsnotify watcher channel is closed.")
				return nil
			}

			if filepath.Clean(event.Name) != f.filePath {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				f.logger.Debug("received unhandled event from fsnotify.", "event", event.String())
				continue
			}

			f.logger.Debug("watched file changed.", "path", f.filePath, "op", event.Op.String())
			notify()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
