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

	"github.com/rs/zerolog"
	"github.com/walteh/astrofix/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// ↩️ Restore puts every path back from its <path>.bak and removes the backup.
// Paths without a backup are reported as skipped. Restore ignores DryRun;
// restorations run one at a time.
func (r *Runner) Restore(ctx context.Context, paths []string) (*Report, error) {
	logger := zerolog.Ctx(ctx)
	r.opts.Status.Reset()

	logger.Debug().Int("files", len(paths)).Msg("starting restore")

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return r.report(ctx), errors.Errorf("restore cancelled: %w", err)
		}
		info := r.restoreFile(ctx, path)
		r.record(ctx, info)
		if info.Status == status.StatusError && r.opts.FailFast {
			return r.report(ctx), errors.Errorf("restoring %s: %w", path, info.Error)
		}
	}
	return r.report(ctx), nil
}

func (r *Runner) restoreFile(ctx context.Context, path string) status.FileInfo {
	info := status.FileInfo{Path: path}
	err := r.opts.Files.RestoreFile(ctx, path)
	switch {
	case errors.Is(err, status.ErrNoBackup):
		info.Status = status.StatusSkipped
		info.Reason = "no backup"
	case err != nil:
		info.Status = status.StatusError
		info.Error = err
	default:
		info.Status = status.StatusRestored
	}
	return info
}
