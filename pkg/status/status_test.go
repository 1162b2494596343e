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

package status

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

func TestManagerFileOperations(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dir string)
		check func(t *testing.T, ctx context.Context, mgr *Manager, dir string)
	}{
		{
			name: "read_file",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "page.astro"), []byte("hello"), 0644))
			},
			check: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				content, err := mgr.ReadFile(ctx, "page.astro")
				require.NoError(t, err)
				assert.Equal(t, "hello", string(content))
			},
		},
		{
			name: "read_missing_file",
			check: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				_, err := mgr.ReadFile(ctx, "missing.astro")
				require.Error(t, err)
				assert.Contains(t, err.Error(), "reading file")
				assert.ErrorIs(t, err, os.ErrNotExist)
			},
		},
		{
			name: "atomic_write_keeps_mode",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0755))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "page.astro"), []byte("old"), 0600))
			},
			check: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				require.NoError(t, mgr.WriteFileAtomic(ctx, "src/page.astro", []byte("new")))

				path := filepath.Join(dir, "src", "page.astro")
				content, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.Equal(t, "new", string(content))

				info, err := os.Stat(path)
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

				entries, err := os.ReadDir(filepath.Join(dir, "src"))
				require.NoError(t, err)
				assert.Len(t, entries, 1, "temp file should be renamed away")
			},
		},
		{
			name: "backup_and_restore",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "page.astro"), []byte("original"), 0644))
			},
			check: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				require.NoError(t, mgr.BackupFile(ctx, "page.astro"))

				backup, err := os.ReadFile(filepath.Join(dir, "page.astro.bak"))
				require.NoError(t, err)
				assert.Equal(t, "original", string(backup))

				require.NoError(t, mgr.WriteFileAtomic(ctx, "page.astro", []byte("changed")))
				require.NoError(t, mgr.RestoreFile(ctx, "page.astro"))

				content, err := os.ReadFile(filepath.Join(dir, "page.astro"))
				require.NoError(t, err)
				assert.Equal(t, "original", string(content))
				assert.NoFileExists(t, filepath.Join(dir, "page.astro.bak"))
			},
		},
		{
			name: "backup_missing_file_is_noop",
			check: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				require.NoError(t, mgr.BackupFile(ctx, "missing.astro"))
				assert.NoFileExists(t, filepath.Join(dir, "missing.astro.bak"))
			},
		},
		{
			name: "restore_without_backup",
			check: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				err := mgr.RestoreFile(ctx, "page.astro")
				require.ErrorIs(t, err, ErrNoBackup)
				assert.Contains(t, err.Error(), "restoring page.astro")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.setup != nil {
				tt.setup(t, dir)
			}
			tt.check(t, testContext(t), New(dir), dir)
		})
	}
}

func TestManagerTracking(t *testing.T) {
	ctx := testContext(t)
	mgr := New(t.TempDir())

	mgr.TrackFile(ctx, FileInfo{Path: "b.astro", Status: StatusFixed, Replacements: 2})
	mgr.TrackFile(ctx, FileInfo{Path: "a.astro", Status: StatusUnchanged})

	mgr.TrackFile(ctx, FileInfo{Path: "b.astro", Status: StatusRestored})

	files := mgr.ListFiles(ctx)
	require.Len(t, files, 2)
	assert.Equal(t, "a.astro", files[0].Path)
	assert.Equal(t, "b.astro", files[1].Path)
	assert.Equal(t, StatusRestored, files[1].Status, "tracking a path again replaces its outcome")

	mgr.Reset()
	assert.Empty(t, mgr.ListFiles(ctx))
}

func TestManagerAbsPath(t *testing.T) {
	mgr := New("/site/")
	assert.Equal(t, filepath.Join("/site", "src", "a.astro"), mgr.AbsPath("src/a.astro"))
	assert.Equal(t, "/elsewhere/a.astro", mgr.AbsPath("/elsewhere/a.astro"))
}
