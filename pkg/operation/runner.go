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
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/astrofix/pkg/log"
	"github.com/walteh/astrofix/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 Runner rewrites files and reports their outcome
type Runner struct {
	opts Options
}

// 🏃 Run processes paths, relative to the file manager base directory.
// Files are reported in input order regardless of the number of jobs. With
// FailFast, the first failure stops the run and is returned; otherwise
// failures are only recorded in the report.
func (r *Runner) Run(ctx context.Context, paths []string) (*Report, error) {
	logger := zerolog.Ctx(ctx)
	r.opts.Status.Reset()

	logger.Debug().Int("files", len(paths)).Int("jobs", r.opts.Jobs).Bool("dry_run", r.opts.DryRun).Msg("starting run")

	var err error
	if r.opts.Jobs == 1 {
		err = r.runSync(ctx, paths)
	} else {
		err = r.runAsync(ctx, paths)
	}
	return r.report(ctx), err
}

// 🔄 runSync processes files one after another
func (r *Runner) runSync(ctx context.Context, paths []string) error {
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("run cancelled: %w", err)
		}
		info := r.processFile(ctx, path)
		r.record(ctx, info)
		if info.Status == status.StatusError && r.opts.FailFast {
			return errors.Errorf("processing %s: %w", path, info.Error)
		}
	}
	return nil
}

// ⚡ runAsync processes files on a bounded pool, then records results in input order
func (r *Runner) runAsync(ctx context.Context, paths []string) error {
	results := make([]*status.FileInfo, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Jobs)
	for i, path := range paths {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			info := r.processFile(gctx, path)
			if info.Status == status.StatusError && errors.Is(info.Error, context.Canceled) && gctx.Err() != nil {
				// interrupted by another file failing, not a failure of its own
				return nil
			}
			results[i] = &info
			if info.Status == status.StatusError && r.opts.FailFast {
				return errors.Errorf("processing %s: %w", path, info.Error)
			}
			return nil
		})
	}
	err := g.Wait()

	for _, info := range results {
		if info != nil {
			r.record(ctx, *info)
		}
	}
	if err != nil {
		return err
	}
	if cerr := ctx.Err(); cerr != nil {
		return errors.Errorf("run cancelled: %w", cerr)
	}
	return nil
}

// 📄 processFile reads, rewrites and writes back a single file
func (r *Runner) processFile(ctx context.Context, path string) status.FileInfo {
	info := status.FileInfo{Path: path}
	fail := func(err error) status.FileInfo {
		info.Status = status.StatusError
		info.Error = err
		return info
	}

	if r.opts.Guard != nil && !r.opts.DryRun {
		dirty, err := r.opts.Guard.Dirty(r.opts.Files.AbsPath(path))
		if err != nil {
			return fail(errors.Errorf("checking git status: %w", err))
		}
		if dirty {
			info.Status = status.StatusSkipped
			info.Reason = "uncommitted changes"
			return info
		}
	}

	content, err := r.opts.Files.ReadFile(ctx, path)
	if err != nil {
		return fail(err)
	}
	info.Size = int64(len(content))

	result, err := r.opts.Rewriter.Rewrite(ctx, content)
	if err != nil {
		return fail(errors.Errorf("rewriting: %w", err))
	}
	info.Replacements = result.ReplacementCount
	info.Counts = result.Counts

	if !result.WasModified || bytes.Equal(content, result.ModifiedContent) {
		info.Status = status.StatusUnchanged
		return info
	}

	if r.opts.DryRun || r.opts.ShowDiff {
		info.Diff = Diff(string(content), string(result.ModifiedContent))
	}

	if r.opts.DryRun {
		info.Status = status.StatusWouldFix
		return info
	}

	if r.opts.Backup {
		if err := r.opts.Files.BackupFile(ctx, path); err != nil {
			return fail(err)
		}
	}

	if err := r.opts.Files.WriteFileAtomic(ctx, path, result.ModifiedContent); err != nil {
		return fail(err)
	}

	info.Status = status.StatusFixed
	info.Size = int64(len(result.ModifiedContent))
	return info
}

// 📝 record tracks a file outcome and prints its console line
func (r *Runner) record(ctx context.Context, info status.FileInfo) {
	r.opts.Status.TrackFile(ctx, info)

	op := log.FileOperation{
		Path:         info.Path,
		Status:       info.Status.String(),
		Replacements: info.Replacements,
	}
	switch info.Status {
	case status.StatusFixed:
		op.IsFixed = true
		op.Detail = formatCounts(info.Counts, r.opts.Rewriter.Rules())
	case status.StatusWouldFix:
		op.IsPending = true
		op.Detail = formatCounts(info.Counts, r.opts.Rewriter.Rules())
	case status.StatusSkipped:
		op.IsSkipped = true
		op.Detail = info.Reason
	case status.StatusError:
		op.IsError = true
		op.Detail = info.Error.Error()
	case status.StatusRestored:
		op.IsFixed = true
		op.Detail = "from backup"
	}
	r.opts.Logger.LogFileOperation(ctx, op)

	if r.opts.ShowDiff && info.Status.Changed() {
		r.opts.Logger.LogDiff(ctx, info.Path, info.Diff)
	}
}

// formatCounts renders non-zero per-rule counts in rule order, e.g. "code=2 inline=1"
func formatCounts(counts map[string]int, rules []string) string {
	parts := make([]string, 0, len(counts))
	seen := make(map[string]bool, len(rules))
	for _, rule := range rules {
		seen[rule] = true
		if n := counts[rule]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", rule, n))
		}
	}
	// counts from rules the rewriter does not list go last, sorted
	var extra []string
	for rule, n := range counts {
		if !seen[rule] && n > 0 {
			extra = append(extra, fmt.Sprintf("%s=%d", rule, n))
		}
	}
	sort.Strings(extra)
	return strings.Join(append(parts, extra...), " ")
}
