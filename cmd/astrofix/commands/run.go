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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/astrofix/cmd/astrofix/opts"
	"github.com/walteh/astrofix/pkg/log"
	"github.com/walteh/astrofix/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// addRunFlags adds the rewrite switches shared by fix and watch
func addRunFlags(cmd *cobra.Command, f *opts.RunFlags) {
	cmd.Flags().BoolVar(&f.Backup, "backup", false, "keep <file>.bak before overwriting")
	cmd.Flags().BoolVar(&f.FailFast, "fail-fast", false, "stop at the first file that fails")
	cmd.Flags().BoolVar(&f.ShowDiff, "diff", false, "print a line diff for every changed file")
}

// runOnce rewrites the given files and prints the summary. With check set,
// pending changes are reported as ErrChangesNeeded.
func runOnce(ctx context.Context, root *opts.RootOpts, f opts.RunFlags, paths []string, check bool) error {
	f = f.Merge(root.Config)
	console := log.FromContext(ctx)

	if len(paths) == 0 {
		console.Warningf("no files matched in %s", root.Config.BaseDir)
		return nil
	}

	runner, err := root.NewRunner(ctx, f)
	if err != nil {
		return err
	}

	verb := "fixing"
	if f.DryRun {
		verb = "checking"
	}
	console.Header(fmt.Sprintf("%s %d files in %s", verb, len(paths), root.Config.BaseDir))

	report, err := runner.Run(ctx, paths)
	if report != nil {
		operation.Summarize(ctx, console, report)
	}
	if err != nil {
		return errors.Errorf("running: %w", err)
	}

	if check {
		return report.CheckErr()
	}
	return report.Err()
}
