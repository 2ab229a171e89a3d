package paths

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch resets the probe cache whenever a file under dirs changes.
//
// root is the OS directory backing the Resolver's FS; dirs are relative to it.
// Hidden files are ignored.
// Watch returns once the watches are installed; watching stops when ctx is done.
// errs, if not nil, receives watcher errors.
func (r *Resolver) Watch(ctx context.Context, root string, errs func(error), dirs ...string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	for _, dir := range dirs {
		if err := addRecursive(w, filepath.Join(root, filepath.FromSlash(dir))); err != nil {
			w.Close()
			return err
		}
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				if errs != nil {
					errs(err)
				}
			case evt, ok := <-w.Events:
				if !ok {
					return
				}
				if evt.Has(fsnotify.Create) {
					if fi, err := os.Stat(evt.Name); err == nil && fi.IsDir() {
						if err := addRecursive(w, evt.Name); err != nil && errs != nil {
							errs(err)
						}
					}
				}
				if invalidates(evt) {
					r.Reset()
				}
			}
		}
	}()

	return nil
}

func invalidates(evt fsnotify.Event) bool {
	if strings.TrimSpace(evt.Name) == "" {
		return false
	}

	if !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Remove) && !evt.Has(fsnotify.Rename) {
		return false
	}

	return !strings.HasPrefix(filepath.Base(evt.Name), ".")
}

func addRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		return w.Add(path)
	})
}
