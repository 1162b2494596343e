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

// NewFixCmd creates a new fix command
func NewFixCmd(root *opts.RootOpts) *cobra.Command {
	var f opts.RunFlags

	cmd := &cobra.Command{
		Use:   "fix [patterns...]",
		Short: "Rewrite code blocks and diagrams into literal set:html directives",
		Long: `Fix rewrites every selected page in place.
It will:
1. Re-wrap mermaid containers as <pre class="mermaid">
2. Turn diagrams, code blocks and contentious inline code into set:html directives
3. Leave already converted content untouched

Patterns replace the configured include list and are relative to the base directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "fix").Logger().WithContext(ctx)

			paths, err := root.Paths(ctx, args)
			if err != nil {
				return err
			}
			return runOnce(ctx, root, f, paths, false)
		},
	}

	cmd.Flags().BoolVarP(&f.DryRun, "dry-run", "n", false, "report changes without writing")
	cmd.Flags().BoolVar(&f.RequireClean, "require-clean", false, "skip files with uncommitted git changes")
	addRunFlags(cmd, &f)

	return cmd
}
