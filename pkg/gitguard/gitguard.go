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

// Package gitguard refuses in-place rewrites of files git could not restore.
package gitguard

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔒 Guard holds a snapshot of the worktree status of the repository enclosing a directory
type Guard struct {
	root   string
	status git.Status
}

// 🏭 Open finds the repository enclosing dir and snapshots its worktree status
func Open(ctx context.Context, dir string) (*Guard, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.Errorf("opening git repository for %s: %w", dir, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.Errorf("getting git worktree: %w", err)
	}

	st, err := wt.Status()
	if err != nil {
		return nil, errors.Errorf("getting git status: %w", err)
	}

	root := resolve(wt.Filesystem.Root())
	zerolog.Ctx(ctx).Debug().Str("root", root).Int("entries", len(st)).Msg("loaded git status")

	return &Guard{root: root, status: st}, nil
}

// Dirty reports whether the file at path has staged or unstaged changes, or is
// untracked. Paths outside the repository are treated as dirty.
func (g *Guard) Dirty(path string) (bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, errors.Errorf("resolving %s: %w", path, err)
	}

	rel, err := filepath.Rel(g.root, resolve(abs))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return true, nil
	}

	fs, ok := g.status[filepath.ToSlash(rel)]
	if !ok {
		return false, nil
	}
	return fs.Worktree != git.Unmodified || fs.Staging != git.Unmodified, nil
}

// resolve follows symlinks so worktree and file paths compare equal
func resolve(p string) string {
	if r, err := filepath.EvalSymlinks(p); err == nil {
		return r
	}
	return p
}
