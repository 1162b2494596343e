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
	"gitlab.com/tozd/go/errors"
)

// 📊 Report summarizes a run
type Report struct {
	Files  []status.FileInfo // Outcomes sorted by path
	Rules  []string          // Rule names in pipeline order
	DryRun bool
}

func (r *Runner) report(ctx context.Context) *Report {
	return &Report{
		Files:  r.opts.Status.ListFiles(ctx),
		Rules:  r.opts.Rewriter.Rules(),
		DryRun: r.opts.DryRun,
	}
}

// Total returns the number of files processed
func (rep *Report) Total() int {
	return len(rep.Files)
}

// Changed returns the number of files that were or would be rewritten
func (rep *Report) Changed() int {
	return rep.count(func(s status.FileStatus) bool { return s.Changed() })
}

// Failed returns the number of files that could not be processed
func (rep *Report) Failed() int {
	return rep.count(func(s status.FileStatus) bool { return s == status.StatusError })
}

// Skipped returns the number of files left alone, e.g. dirty in git
func (rep *Report) Skipped() int {
	return rep.count(func(s status.FileStatus) bool { return s == status.StatusSkipped })
}

// Restored returns the number of files put back from their backup
func (rep *Report) Restored() int {
	return rep.count(func(s status.FileStatus) bool { return s == status.StatusRestored })
}

func (rep *Report) count(match func(status.FileStatus) bool) int {
	n := 0
	for _, f := range rep.Files {
		if match(f.Status) {
			n++
		}
	}
	return n
}

// RuleCounts totals replacements per rule across changed files, in pipeline order
func (rep *Report) RuleCounts() []log.RuleCount {
	totals := make(map[string]int, len(rep.Rules))
	for _, f := range rep.Files {
		if !f.Status.Changed() {
			continue
		}
		for rule, n := range f.Counts {
			totals[rule] += n
		}
	}

	counts := make([]log.RuleCount, 0, len(rep.Rules))
	for _, rule := range rep.Rules {
		counts = append(counts, log.RuleCount{Rule: rule, Count: totals[rule]})
	}
	return counts
}

// Err maps the report to the exit condition of a run: ErrFilesFailed when any
// file failed, otherwise nil. Check runs use CheckErr instead.
func (rep *Report) Err() error {
	if n := rep.Failed(); n > 0 {
		return errors.Errorf("%d of %d files: %w", n, rep.Total(), ErrFilesFailed)
	}
	return nil
}

// CheckErr is like Err and additionally returns ErrChangesNeeded when any file would change
func (rep *Report) CheckErr() error {
	if err := rep.Err(); err != nil {
		return err
	}
	if n := rep.Changed(); n > 0 {
		return errors.Errorf("%d of %d files: %w", n, rep.Total(), ErrChangesNeeded)
	}
	return nil
}

// 📝 Summarize prints the per-rule table and the summary line
func Summarize(ctx context.Context, logger *log.Logger, rep *Report) {
	logger.RuleTable(ctx, rep.RuleCounts())

	msg := status.NewDefaultFileFormatter().FormatSummary(rep.Changed(), rep.Total(), rep.Failed(), rep.DryRun)
	switch {
	case rep.Failed() > 0:
		logger.Error(msg)
	case rep.DryRun && rep.Changed() > 0:
		logger.Warning(msg)
	case rep.Changed() > 0:
		logger.Success(msg)
	default:
		logger.Info(msg)
	}
}
