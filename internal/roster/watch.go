package roster

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/Iron-Ham/knockout/internal/errors"
)

// debounce collapses the burst of events editors emit for a single save.
const debounce = 50 * time.Millisecond

// Watch re-parses the roster at path every time it is written and reports
// the outcome to onChange until ctx is done. The parent directory is
// watched so that editors which replace the file are still seen. The file
// is read through fs but must live on the OS filesystem.
func Watch(ctx context.Context, fs afero.Fs, path string, opts ParseOptions, onChange func(*Roster, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating file watcher")
	}
	defer func() { _ = watcher.Close() }()

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "resolving %s", path)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, "watching %s", filepath.Dir(abs))
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)

		case <-timer.C:
			onChange(Load(fs, path, opts))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onChange(nil, errors.Wrap(err, "file watcher"))
		}
	}
}
