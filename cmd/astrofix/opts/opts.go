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

package opts

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/astrofix/pkg/config"
	"github.com/walteh/astrofix/pkg/gitguard"
	"github.com/walteh/astrofix/pkg/log"
	"github.com/walteh/astrofix/pkg/operation"
	"github.com/walteh/astrofix/pkg/status"
	"github.com/walteh/astrofix/pkg/target"
	"github.com/walteh/astrofix/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands. It is filled in
// before any command runs; the console logger travels in the context.
type RootOpts struct {
	Config *config.Config
}

// RunFlags are the per-command switches layered over the config file
type RunFlags struct {
	DryRun       bool
	Backup       bool
	FailFast     bool
	RequireClean bool
	ShowDiff     bool
}

// Merge returns f with every switch the config file turns on
func (f RunFlags) Merge(cfg *config.Config) RunFlags {
	f.DryRun = f.DryRun || cfg.DryRun
	f.Backup = f.Backup || cfg.Backup
	f.FailFast = f.FailFast || cfg.FailFast
	f.RequireClean = f.RequireClean || cfg.RequireClean
	return f
}

// Selector returns the configured selector, or one made of args when given.
// Args are patterns relative to the base directory.
func (o *RootOpts) Selector(args []string) target.Selector {
	sel := o.Config.Selector()
	if len(args) > 0 {
		sel.Include = args
	}
	return sel
}

// Paths resolves the files a command works on
func (o *RootOpts) Paths(ctx context.Context, args []string) ([]string, error) {
	paths, err := target.Resolve(ctx, o.Config.BaseDir, o.Selector(args))
	if err != nil {
		return nil, errors.Errorf("resolving files: %w", err)
	}
	return paths, nil
}

// NewRunner builds a runner for the configured pipeline
func (o *RootOpts) NewRunner(ctx context.Context, f RunFlags) (*operation.Runner, error) {
	return o.newRunner(ctx, f.Merge(o.Config))
}

// NewRestoreRunner builds a runner for putting backups back. Only the
// fail_fast config setting applies.
func (o *RootOpts) NewRestoreRunner(ctx context.Context, failFast bool) (*operation.Runner, error) {
	return o.newRunner(ctx, RunFlags{FailFast: failFast || o.Config.FailFast})
}

func (o *RootOpts) newRunner(ctx context.Context, f RunFlags) (*operation.Runner, error) {
	pipeline, err := text.New(o.Config.PipelineOptions())
	if err != nil {
		return nil, errors.Errorf("building pipeline: %w", err)
	}

	mgr := status.New(o.Config.BaseDir)
	runOpts := operation.Options{
		Rewriter: pipeline,
		Files:    mgr,
		Status:   mgr,
		Logger:   log.FromContext(ctx),
		DryRun:   f.DryRun,
		ShowDiff: f.ShowDiff,
		Backup:   f.Backup,
		FailFast: f.FailFast,
		Jobs:     o.Config.Jobs,
	}

	if f.RequireClean && !f.DryRun {
		guard, err := gitguard.Open(ctx, o.Config.BaseDir)
		if err != nil {
			return nil, errors.Errorf("require_clean: %w", err)
		}
		runOpts.Guard = guard
	}

	zerolog.Ctx(ctx).Debug().
		Strs("rules", pipeline.Rules()).
		Bool("dry_run", f.DryRun).
		Bool("require_clean", f.RequireClean).
		Int("jobs", o.Config.Jobs).
		Msg("runner configured")

	return operation.NewRunner(runOpts)
}
