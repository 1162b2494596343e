// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package watch reruns a handler when selected files change.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/walteh/astrofix/pkg/target"
	"gitlab.com/tozd/go/errors"
)

// DefaultDebounce is how long the watcher waits for events to settle
const DefaultDebounce = 300 * time.Millisecond

// skipDirs are never watched
var skipDirs = map[string]bool{
	".git":         true,
	".astro":       true,
	"node_modules": true,
	"dist":         true,
}

// Handler is called with the changed paths, relative to the base directory and sorted
type Handler func(ctx context.Context, paths []string) error

// 👀 Watcher batches file change events under a base directory
type Watcher struct {
	baseDir  string
	selector target.Selector
	debounce time.Duration
	handler  Handler
	ready    chan struct{}
}

// 🏭 New creates a watcher. A zero debounce uses DefaultDebounce.
func New(baseDir string, selector target.Selector, debounce time.Duration, handler Handler) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		baseDir:  filepath.Clean(baseDir),
		selector: selector,
		debounce: debounce,
		handler:  handler,
		ready:    make(chan struct{}),
	}
}

// Ready is closed once every directory is watched
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// 🔄 Run watches until ctx is done. Handler errors are logged and do not stop
// the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	if _, err := os.Stat(w.baseDir); err != nil {
		return errors.Errorf("watching %s: %w", w.baseDir, err)
	}

	pending := make(map[string]struct{})
	w.addDirs(ctx, fw, w.baseDir, nil)
	close(w.ready)

	logger.Debug().Str("dir", w.baseDir).Dur("debounce", w.debounce).Msg("watching for changes")

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(ctx, fw, ev, pending) {
				timer.Reset(w.debounce)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watcher error")
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)

			logger.Debug().Strs("paths", paths).Msg("change detected")
			if err := w.handler(ctx, paths); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Warn().Err(err).Msg("handling changes")
			}
		}
	}
}

// handleEvent records a matching change and reports whether the debounce timer should restart
func (w *Watcher) handleEvent(ctx context.Context, fw *fsnotify.Watcher, ev fsnotify.Event, pending map[string]struct{}) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}

	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			before := len(pending)
			// files can land in a new directory before it is watched
			w.addDirs(ctx, fw, ev.Name, pending)
			return len(pending) > before
		}
	}

	rel, ok := w.relative(ev.Name)
	if !ok || !w.selector.Match(rel) {
		return false
	}
	pending[rel] = struct{}{}
	return true
}

// addDirs watches root and every directory below it. With pending set,
// matching files found along the way are recorded.
func (w *Watcher) addDirs(ctx context.Context, fw *fsnotify.Watcher, root string, pending map[string]struct{}) {
	logger := zerolog.Ctx(ctx)

	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != w.baseDir && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			if err := fw.Add(path); err != nil {
				logger.Warn().Err(err).Str("dir", path).Msg("watch add failed")
			}
			return nil
		}
		if pending != nil {
			if rel, ok := w.relative(path); ok && w.selector.Match(rel) {
				pending[rel] = struct{}{}
			}
		}
		return nil
	})
}

// relative converts an event path to a slash path under the base directory
func (w *Watcher) relative(name string) (string, bool) {
	rel, err := filepath.Rel(w.baseDir, name)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	for _, part := range strings.Split(rel, "/") {
		if skipDirs[part] {
			return "", false
		}
	}
	return rel, true
}
