package watcher

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/toastate/sassbuild/internal/tlogger"
)

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// StartWatcher sends the path of every file changed under folder until ctx is
// done. Directories created later are watched too.
func StartWatcher(ctx context.Context, folder string) (<-chan string, error) {
	wch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}

	err = filepath.Walk(folder, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return wch.Add(path)
		}
		return nil
	})
	if err != nil {
		wch.Close()
		return nil, errors.Wrapf(err, "watch %s", folder)
	}

	outCh := make(chan string, 100)

	go func() {
		defer wch.Close()
		defer close(outCh)

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-wch.Events:
				if !ok {
					return
				}
				tlogger.Debug("watcher", "event", "op", event.Op.String(), "path", event.Name)
				if event.Op&relevantOps == 0 {
					continue
				}
				if event.Has(fsnotify.Create) {
					if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
						if err := wch.Add(event.Name); err != nil {
							tlogger.Warn("watcher", "add", "path", event.Name, "err", err)
						}
					}
				}

				tlogger.Info("msg", "Detected change", "path", event.Name)
				select {
				case outCh <- event.Name:
				default:
					// a rebuild is already pending
				}
			case err, ok := <-wch.Errors:
				if !ok {
					return
				}
				tlogger.Warn("watcher", "error", "err", err)
			}
		}
	}()

	return outCh, nil
}
