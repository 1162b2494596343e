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
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/astrofix/cmd/astrofix/opts"
)

// NewCheckCmd creates a new check command
func NewCheckCmd(root *opts.RootOpts) *cobra.Command {
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "check [patterns...]",
		Short: "Report pages that need fixing without writing them",
		Long: `Check runs the fix pipeline as a dry run and exits with status 1 when
any page would change or fails to process. Use it in CI.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "check").Logger().WithContext(ctx)

			paths, err := root.Paths(ctx, args)
			if err != nil {
				return err
			}
			return runOnce(ctx, root, opts.RunFlags{DryRun: true, ShowDiff: showDiff}, paths, true)
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a line diff for every page that would change")

	return cmd
}
