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

// Package target selects the files a run operates on.
package target

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Selector is a set of include and exclude patterns relative to a base directory
type Selector struct {
	Include []string
	Exclude []string
}

// Validate checks every pattern
func (s Selector) Validate() error {
	if len(s.Include) == 0 {
		return errors.Errorf("at least one include pattern is required")
	}
	for _, p := range s.Include {
		if !doublestar.ValidatePattern(normalize(p)) {
			return errors.Errorf("invalid include pattern %q", p)
		}
	}
	for _, p := range s.Exclude {
		if !doublestar.ValidatePattern(normalize(p)) {
			return errors.Errorf("invalid exclude pattern %q", p)
		}
	}
	return nil
}

// Match reports whether a slash-separated relative path is selected
func (s Selector) Match(rel string) bool {
	rel = normalize(rel)
	if s.excluded(rel) {
		return false
	}
	for _, p := range s.Include {
		if ok, _ := doublestar.Match(normalize(p), rel); ok {
			return true
		}
	}
	return false
}

func (s Selector) excluded(rel string) bool {
	for _, p := range s.Exclude {
		if ok, _ := doublestar.Match(normalize(p), rel); ok {
			return true
		}
	}
	return false
}

// 🔍 Resolve returns the sorted, de-duplicated regular files under baseDir
// selected by s, as slash-separated paths relative to baseDir
func Resolve(ctx context.Context, baseDir string, s Selector) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	if err := s.Validate(); err != nil {
		return nil, err
	}

	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, errors.Errorf("reading base directory: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("base directory %s is not a directory", baseDir)
	}

	fsys := os.DirFS(baseDir)
	seen := make(map[string]struct{})
	var out []string

	for _, raw := range s.Include {
		pattern, err := relativeTo(baseDir, raw)
		if err != nil {
			return nil, err
		}

		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("matching %q: %w", raw, err)
		}
		if len(matches) == 0 {
			logger.Warn().Str("pattern", raw).Str("base_dir", baseDir).Msg("pattern matched no files")
			continue
		}

		for _, m := range matches {
			if s.excluded(m) {
				logger.Debug().Str("file", m).Msg("file excluded by pattern")
				continue
			}
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}

	sort.Strings(out)
	logger.Debug().Int("count", len(out)).Msg("resolved target files")
	return out, nil
}

// relativeTo turns an absolute pattern under baseDir into a relative one
func relativeTo(baseDir, pattern string) (string, error) {
	if !filepath.IsAbs(pattern) {
		return normalize(pattern), nil
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", errors.Errorf("resolving base directory: %w", err)
	}
	rel, err := filepath.Rel(absBase, pattern)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", errors.Errorf("pattern %q is outside base directory %s", pattern, baseDir)
	}
	return normalize(rel), nil
}

func normalize(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	if p == "" {
		return p
	}
	return path.Clean(p)
}
