// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It recursively watches a definition tree, reports only files carrying the
// definition suffix, and debounces rapid events (editors often trigger
// multiple writes per save).
package fsnotify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/b11005/blink-idl-diff/internal/ports"
)

// Directories never worth watching in a source checkout.
var ignoreDirs = map[string]bool{
	".git":         true,
	".svn":         true,
	"node_modules": true,
	".idea":        true,
	".vscode":      true,
}

// DebounceInterval is the window in which repeated events for one path are
// reported once.
const DebounceInterval = 50 * time.Millisecond

var _ ports.Watcher = (*Watcher)(nil)

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw       *fsnotify.Watcher
	suffix   string
	skipDirs map[string]bool
	log      *zap.Logger

	done    chan struct{}
	wg      sync.WaitGroup
	stopped bool
	mu      sync.Mutex
}

// NewWatcher creates a watcher reporting files ending in suffix. Directories
// named in skipDirs are not descended into. A nil logger discards output.
func NewWatcher(suffix string, skipDirs []string, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	skip := make(map[string]bool, len(ignoreDirs)+len(skipDirs))
	for d := range ignoreDirs {
		skip[d] = true
	}
	for _, d := range skipDirs {
		skip[d] = true
	}
	return &Watcher{
		fw:       fw,
		suffix:   suffix,
		skipDirs: skip,
		log:      logger,
		done:     make(chan struct{}),
	}, nil
}

// Watch starts monitoring root recursively.
// onChange is called with the absolute path of each changed definition file.
func (w *Watcher) Watch(root string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: not a directory", root)
	}

	if err := w.addTree(absPath, nil); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}

	w.wg.Add(1)
	go w.loop(absPath, onChange)
	return nil
}

func (w *Watcher) loop(root string, onChange func(string)) {
	defer w.wg.Done()

	// Debounce state: last report time per file
	debounce := make(map[string]time.Time)

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			path := event.Name

			// New directories join the watch list. A directory moved in
			// may already hold definition files; each is reported.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(path); err == nil && info.IsDir() {
					if !w.relevantDir(root, path) {
						continue
					}
					var found []string
					err := w.addTree(path, func(file string) {
						if w.relevant(root, file) {
							found = append(found, file)
						}
					})
					if err != nil {
						w.log.Warn("watch new directory", zap.String("path", path), zap.Error(err))
					}
					for _, file := range found {
						if !w.report(file, event.Op, debounce, onChange) {
							return
						}
					}
					continue
				}
			}

			if !w.relevant(root, path) {
				continue
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
				continue
			}

			if !w.report(path, event.Op, debounce, onChange) {
				return
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", zap.Error(err))

		case <-w.done:
			return
		}
	}
}

// report calls onChange for path unless it was reported within
// DebounceInterval. It returns false once the watcher is stopped.
func (w *Watcher) report(path string, op fsnotify.Op, debounce map[string]time.Time, onChange func(string)) bool {
	now := time.Now()
	if last, seen := debounce[path]; seen && now.Sub(last) < DebounceInterval {
		return true
	}
	debounce[path] = now

	select {
	case <-w.done:
		return false
	default:
	}
	w.log.Debug("change", zap.String("path", path), zap.Stringer("op", op))
	onChange(path)
	return true
}

// addTree adds dir and every directory below it that is not skipped to the
// watch list. visit, if set, is called for every regular file found.
// Unreadable entries are skipped.
func (w *Watcher) addTree(dir string, visit func(path string)) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if w.skipDirs[info.Name()] && path != dir {
				return filepath.SkipDir
			}
			return w.fw.Add(path)
		}
		if visit != nil && info.Mode().IsRegular() {
			visit(path)
		}
		return nil
	})
}

// Stop ends monitoring and releases all resources. It waits for a running
// callback to return. Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.done)
	w.mu.Unlock()

	err := w.fw.Close()
	w.wg.Wait()
	return err
}

// relevant reports whether path should trigger onChange. Only directories
// below root are checked against the skip list.
func (w *Watcher) relevant(root, path string) bool {
	if !strings.HasSuffix(filepath.Base(path), w.suffix) {
		return false
	}
	return w.relevantDir(root, filepath.Dir(path))
}

// relevantDir reports whether no directory between root and dir is skipped.
func (w *Watcher) relevantDir(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if w.skipDirs[part] {
			return false
		}
	}
	return true
}
