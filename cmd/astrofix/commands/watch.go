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

package commands

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/astrofix/cmd/astrofix/opts"
	"github.com/walteh/astrofix/pkg/log"
	"github.com/walteh/astrofix/pkg/watch"
)

// NewWatchCmd creates a new watch command
func NewWatchCmd(root *opts.RootOpts) *cobra.Command {
	var f opts.RunFlags
	var skipInitial bool
	debounce := watch.DefaultDebounce

	cmd := &cobra.Command{
		Use:   "watch [patterns...]",
		Short: "Fix pages as they change",
		Long: `Watch fixes every selected page once, then rewrites pages again whenever
they are saved. Rewritten pages trigger one more pass that finds nothing to do.

Watch has no --require-clean: every page it rewrites becomes dirty, so the
next save would always be skipped. A require_clean config setting is ignored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "watch").Logger().WithContext(ctx)
			console := log.FromContext(ctx)

			if root.Config.RequireClean {
				console.Warning("require_clean is ignored while watching")
				root.Config.RequireClean = false
			}

			if !skipInitial {
				paths, err := root.Paths(ctx, args)
				if err != nil {
					return err
				}
				if err := runOnce(ctx, root, f, paths, false); err != nil {
					console.Warningf("initial run: %v", err)
				}
			}

			w := watch.New(root.Config.BaseDir, root.Selector(args), debounce, func(ctx context.Context, paths []string) error {
				return runOnce(ctx, root, f, paths, false)
			})

			console.Infof("watching %s, press Ctrl+C to stop", root.Config.BaseDir)
			return w.Run(ctx)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "wait this long for saves to settle")
	cmd.Flags().BoolVar(&skipInitial, "skip-initial", false, "do not fix every page before watching")
	addRunFlags(cmd, &f)

	return cmd
}
