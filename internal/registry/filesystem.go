package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/scriptlab/engine/internal/enginerr"
)

var sanitisedIDRe = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// Filesystem resolves ids against files under Root. Ids are sanitised to
// [A-Za-z0-9_.\-] and rejected on any difference; the resolved path must
// not escape Root (spec.md §4.5 "Filesystem").
type Filesystem struct {
	Root string

	watchMu  sync.Mutex
	watcher  *fsnotify.Watcher
	onChange func(id string)
}

// NewFilesystem constructs a Filesystem registry rooted at root.
func NewFilesystem(root string) *Filesystem {
	return &Filesystem{Root: root}
}

// Resolve implements Registry.
func (f *Filesystem) Resolve(ctx context.Context, id string) (string, error) {
	if !sanitisedIDRe.MatchString(id) {
		return "", enginerr.New(enginerr.Registry, "sanitisation failure: identifier %q contains disallowed characters", id)
	}

	root, err := filepath.Abs(f.Root)
	if err != nil {
		return "", fmt.Errorf("resolving root %q: %w", f.Root, err)
	}
	candidate := filepath.Join(root, id)

	absCandidate, err := filepath.Abs(candidate)
	if err != nil {
		return "", fmt.Errorf("resolving path for %q: %w", id, err)
	}
	rel, err := filepath.Rel(root, absCandidate)
	if err != nil || rel == ".." || hasParentEscape(rel) {
		return "", enginerr.New(enginerr.Registry, "sanitisation failure: %q escapes registry root", id)
	}

	data, err := os.ReadFile(absCandidate)
	if err != nil {
		return "", enginerr.Wrap(enginerr.Registry, err, "reading %q", id)
	}
	return string(data), nil
}

func hasParentEscape(rel string) bool {
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	return false
}

// Watch starts watching Root for changes, invoking onChange with the
// affected id's base name whenever a file is written, created, or removed.
// Supports the hot-reload story described in spec.md §4.7 ("Hot reload").
func (f *Filesystem) Watch(onChange func(id string)) error {
	f.watchMu.Lock()
	defer f.watchMu.Unlock()

	if f.watcher != nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating filesystem watcher: %w", err)
	}
	if err := w.Add(f.Root); err != nil {
		w.Close()
		return fmt.Errorf("watching %q: %w", f.Root, err)
	}
	f.watcher = w
	f.onChange = onChange

	go func() {
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if f.onChange != nil {
					f.onChange(filepath.Base(event.Name))
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return nil
}

// StopWatch stops the filesystem watcher, if running.
func (f *Filesystem) StopWatch() error {
	f.watchMu.Lock()
	defer f.watchMu.Unlock()
	if f.watcher == nil {
		return nil
	}
	err := f.watcher.Close()
	f.watcher = nil
	return err
}
