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

package operation

import (
	"context"

	"github.com/walteh/astrofix/pkg/log"
	"github.com/walteh/astrofix/pkg/status"
	"github.com/walteh/astrofix/pkg/text"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrFilesFailed is returned when at least one file could not be processed
	ErrFilesFailed = errors.New("one or more files failed")
	// ErrChangesNeeded is returned by a check run when at least one file would change
	ErrChangesNeeded = errors.New("one or more files need fixing")
)

// 🔧 Rewriter transforms page content
type Rewriter interface {
	Rewrite(ctx context.Context, content []byte) (*text.RewriteResult, error)
	Rules() []string
}

// 🔒 Guard reports whether a file has changes git could not restore
type Guard interface {
	Dirty(path string) (bool, error)
}

// 🔧 Options contains configuration for the runner
type Options struct {
	// Rewriter applies the rewrite rules
	Rewriter Rewriter
	// Files reads, writes and backs up files
	Files status.FileManager
	// Status tracks per-file outcomes
	Status status.StatusReporter
	// Logger prints per-file lines and the summary
	Logger *log.Logger
	// Guard skips dirty files when set
	Guard Guard

	DryRun   bool // Report changes without writing
	ShowDiff bool // Print a line diff for every changed file
	Backup   bool // Keep <path>.bak before overwriting
	FailFast bool // Stop at the first failed file
	Jobs     int  // Files processed concurrently, at least 1
}

// 🏭 NewRunner creates a new runner with the given options
func NewRunner(opts Options) (*Runner, error) {
	if opts.Rewriter == nil {
		return nil, errors.Errorf("rewriter is required")
	}
	if opts.Files == nil {
		return nil, errors.Errorf("file manager is required")
	}
	if opts.Status == nil {
		return nil, errors.Errorf("status reporter is required")
	}
	if opts.Logger == nil {
		return nil, errors.Errorf("logger is required")
	}
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	return &Runner{opts: opts}, nil
}
