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
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/astrofix/cmd/astrofix/opts"
	"github.com/walteh/astrofix/pkg/log"
	"github.com/walteh/astrofix/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

func NewRestoreCmd(root *opts.RootOpts) *cobra.Command {
	var failFast bool

	cmd := &cobra.Command{
		Use:   "restore [patterns...]",
		Short: "Put pages back from the backups written by fix --backup",
		Long: `Restore copies <file>.bak over every selected page that has one and
removes the backup. Pages without a backup are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "restore").Logger().WithContext(ctx)
			console := log.FromContext(ctx)

			paths, err := root.Paths(ctx, args)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				console.Warningf("no files matched in %s", root.Config.BaseDir)
				return nil
			}

			runner, err := root.NewRestoreRunner(ctx, failFast)
			if err != nil {
				return err
			}

			console.Header(fmt.Sprintf("restoring %d files in %s", len(paths), root.Config.BaseDir))

			report, err := runner.Restore(ctx, paths)
			if report != nil {
				summarizeRestore(console, report)
			}
			if err != nil {
				return errors.Errorf("restoring: %w", err)
			}
			return report.Err()
		},
	}

	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop at the first file that fails")

	return cmd
}

func summarizeRestore(console *log.Logger, rep *operation.Report) {
	switch {
	case rep.Failed() > 0:
		console.Warningf("Restored %d/%d files, %d failed", rep.Restored(), rep.Total(), rep.Failed())
	case rep.Restored() == 0:
		console.Infof("No backups found for %d files", rep.Total())
	default:
		console.Successf("Restored %d/%d files", rep.Restored(), rep.Total())
	}
}
