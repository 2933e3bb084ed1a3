// Package watch reports changes to a configuration file and to the folder
// layout of a project tree.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/macropower/iconify/pkg/folder"
	"github.com/macropower/iconify/pkg/log"
)

// DefaultDebounce is how long a [Watcher] waits for further events before
// reporting a change.
const DefaultDebounce = 150 * time.Millisecond

// Change describes a batch of filesystem events.
type Change struct {
	// Paths are the affected paths, in the order first seen.
	Paths []string
	// Config is set when the configuration file changed.
	Config bool
	// Tree is set when folders or folder metadata changed.
	Tree bool
}

// Handler is called after each debounced [Change].
type Handler func(ctx context.Context, c Change)

// Opt configures a [Watcher].
type Opt func(*Watcher)

// WithDebounce sets the debounce interval.
func WithDebounce(d time.Duration) Opt {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithConfigFile also watches the configuration file at path.
func WithConfigFile(path string) Opt {
	return func(w *Watcher) {
		w.configPath = path
	}
}

// Watcher watches a project tree for folder changes.
type Watcher struct {
	fsw        *fsnotify.Watcher
	dirs       map[string]struct{}
	root       string
	configPath string
	debounce   time.Duration
	mu         sync.Mutex
}

// New creates a [Watcher] for every folder below root.
func New(root string, opts ...Opt) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		dirs:     map[string]struct{}{},
		root:     abs,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.configPath != "" {
		w.configPath, err = filepath.Abs(w.configPath)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("get absolute path: %w", err), fsw.Close())
		}

		// Editors often replace the file, so watch its directory.
		err = w.add(filepath.Dir(w.configPath))
		if err != nil {
			return nil, errors.Join(err, fsw.Close())
		}
	}

	err = w.addTree(abs)
	if err != nil {
		return nil, errors.Join(err, fsw.Close())
	}

	return w, nil
}

// Watched returns the number of watched directories.
func (w *Watcher) Watched() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.dirs)
}

// Root returns the absolute path of the watched tree.
func (w *Watcher) Root() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.root
}

// SetRoot moves the watched tree to root. The configuration file stays
// watched.
func (w *Watcher) SetRoot(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("get absolute path: %w", err)
	}

	w.mu.Lock()
	prev := w.root
	w.root = abs
	w.mu.Unlock()

	if abs == prev {
		return nil
	}

	w.forget(prev)

	if w.configPath != "" {
		err = w.add(filepath.Dir(w.configPath))
		if err != nil {
			return err
		}
	}

	return w.addTree(abs)
}

// Run delivers changes to h until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context, h Handler) error {
	logger := log.WithContext(ctx)

	var (
		pending *Change
		timer   = time.NewTimer(w.debounce)
	)

	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}

			c := w.classify(evt)
			if !c.Config && !c.Tree {
				continue
			}

			logger.DebugContext(ctx, "filesystem event", slog.String("event", evt.String()))

			if pending == nil {
				pending = &Change{}
			}

			pending.merge(c)
			timer.Reset(w.debounce)

		case <-timer.C:
			if pending == nil {
				continue
			}

			h(ctx, *pending)
			pending = nil

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}

			logger.ErrorContext(ctx, "watch project", slog.Any("err", err))
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}

	return nil
}

func (w *Watcher) classify(evt fsnotify.Event) Change {
	// Content changes never alter folder identity or layout.
	if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
		return Change{}
	}

	name := filepath.Clean(evt.Name)

	if w.configPath != "" && name == w.configPath {
		return Change{Config: true, Paths: []string{name}}
	}

	root := w.Root()
	if !inTree(root, name) || ignored(root, name) {
		return Change{}
	}

	switch {
	case strings.HasSuffix(name, folder.MetaExt):
		return Change{Tree: true, Paths: []string{name}}

	case evt.Has(fsnotify.Create):
		info, err := os.Stat(name)
		if err != nil || !info.IsDir() {
			return Change{}
		}

		err = w.addTree(name)
		if err != nil {
			slog.Warn("watch new folder", slog.String("path", name), slog.Any("err", err))
		}

		return Change{Tree: true, Paths: []string{name}}

	case evt.Has(fsnotify.Remove | fsnotify.Rename):
		if !w.forget(name) {
			return Change{}
		}

		return Change{Tree: true, Paths: []string{name}}
	}

	return Change{}
}

func inTree(root, name string) bool {
	return name == root || strings.HasPrefix(name, root+string(filepath.Separator))
}

func (w *Watcher) addTree(dir string) error {
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && folder.Ignored(d.Name()) {
			return filepath.SkipDir
		}

		return w.add(p)
	})
	if err != nil {
		return fmt.Errorf("watch %q: %w", dir, err)
	}

	return nil
}

func (w *Watcher) add(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.dirs[dir]; ok {
		return nil
	}

	err := w.fsw.Add(dir)
	if err != nil {
		return fmt.Errorf("add %q to watcher: %w", dir, err)
	}

	w.dirs[dir] = struct{}{}

	return nil
}

// forget drops dir and everything below it, and reports whether dir was a
// watched folder.
func (w *Watcher) forget(dir string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, found := w.dirs[dir]
	prefix := dir + string(filepath.Separator)

	for d := range w.dirs {
		if d != dir && !strings.HasPrefix(d, prefix) {
			continue
		}

		err := w.fsw.Remove(d)
		if err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
			slog.Debug("remove path from watcher", slog.String("path", d), slog.Any("err", err))
		}

		delete(w.dirs, d)
	}

	return found
}

func (c *Change) merge(o Change) {
	c.Config = c.Config || o.Config
	c.Tree = c.Tree || o.Tree

	for _, p := range o.Paths {
		if !slices.Contains(c.Paths, p) {
			c.Paths = append(c.Paths, p)
		}
	}
}

// ignored reports whether any segment of name below root is an ignored
// folder name.
func ignored(root, name string) bool {
	rel, err := filepath.Rel(root, name)
	if err != nil {
		return true
	}

	for seg := range strings.SplitSeq(filepath.ToSlash(rel), "/") {
		if seg != "." && folder.Ignored(strings.TrimSuffix(seg, folder.MetaExt)) {
			return true
		}
	}

	return false
}
