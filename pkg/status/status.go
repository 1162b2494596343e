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
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents the outcome of rewriting a file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusUnchanged            // Content already converted or nothing matched
	StatusFixed                // Content changed and was written
	StatusWouldFix             // Content would change; dry run
	StatusSkipped              // File was not considered, e.g. dirty in git
	StatusError                // Read, rewrite or write failed
	StatusRestored             // Content was put back from its backup
)

// ErrNoBackup is returned by RestoreFile when there is no <path>.bak
var ErrNoBackup = errors.New("backup file does not exist")

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusFixed:
		return "fixed"
	case StatusWouldFix:
		return "would fix"
	case StatusSkipped:
		return "skipped"
	case StatusError:
		return "error"
	case StatusRestored:
		return "restored"
	default:
		return "unknown"
	}
}

// Changed reports whether the file content differs from the rewritten content
func (s FileStatus) Changed() bool {
	return s == StatusFixed || s == StatusWouldFix
}

// 📄 FileInfo contains the outcome for one file
type FileInfo struct {
	Path         string         // Path relative to the base directory
	Status       FileStatus     // Outcome
	Replacements int            // Total blocks replaced
	Counts       map[string]int // Blocks replaced per rule
	Size         int64          // Size in bytes of the content on disk after the run
	Reason       string         // Why the file was skipped
	Diff         string         // Line diff, populated on dry runs
	Error        error          // Any error associated with this file
}

// 💾 FileManager handles the file system operations of a run
type FileManager interface {
	AbsPath(path string) string
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFileAtomic(ctx context.Context, path string, content []byte) error
	BackupFile(ctx context.Context, path string) error
	RestoreFile(ctx context.Context, path string) error
}

// 📈 StatusReporter tracks per-file outcomes
type StatusReporter interface {
	TrackFile(ctx context.Context, info FileInfo)
	ListFiles(ctx context.Context) []FileInfo
	Reset()
}

// 🔧 Manager implements both FileManager and StatusReporter
type Manager struct {
	baseDir   string        // Base directory for all operations
	formatter FileFormatter // Formatter for status messages

	mu    sync.RWMutex
	files map[string]FileInfo
}

var (
	_ FileManager    = (*Manager)(nil)
	_ StatusReporter = (*Manager)(nil)
)

// 🏭 New creates a new status manager
func New(baseDir string) *Manager {
	return &Manager{
		baseDir:   filepath.Clean(baseDir),
		formatter: NewDefaultFileFormatter(),
		files:     make(map[string]FileInfo),
	}
}

// AbsPath returns the file system path for a slash-separated relative path
func (m *Manager) AbsPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.baseDir, filepath.FromSlash(path))
}

// FileManager interface implementation

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(m.AbsPath(path))
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// WriteFileAtomic replaces the file through a temp file in the same directory,
// keeping the original permissions
func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	absPath := m.AbsPath(path)

	mode := os.FileMode(0644)
	if info, err := os.Stat(absPath); err == nil {
		mode = info.Mode().Perm()
	} else if !os.IsNotExist(err) {
		return errors.Errorf("checking file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(absPath), "."+filepath.Base(absPath)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tempPath, mode); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("setting temp file mode: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// BackupFile copies the file to <path>.bak, replacing any earlier backup
func (m *Manager) BackupFile(ctx context.Context, path string) error {
	absPath := m.AbsPath(path)

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return errors.Errorf("checking file existence: %w", err)
	}

	if err := copyFile(absPath, absPath+".bak"); err != nil {
		return errors.Errorf("creating backup: %w", err)
	}

	return nil
}

// RestoreFile moves <path>.bak back over the file
func (m *Manager) RestoreFile(ctx context.Context, path string) error {
	absPath := m.AbsPath(path)
	backupPath := absPath + ".bak"

	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return errors.Errorf("restoring %s: %w", path, ErrNoBackup)
	} else if err != nil {
		return errors.Errorf("checking backup existence: %w", err)
	}

	if err := copyFile(backupPath, absPath); err != nil {
		return errors.Errorf("restoring from backup: %w", err)
	}

	if err := os.Remove(backupPath); err != nil {
		return errors.Errorf("removing backup: %w", err)
	}

	return nil
}

// StatusReporter interface implementation

func (m *Manager) TrackFile(ctx context.Context, info FileInfo) {
	m.mu.Lock()
	m.files[info.Path] = info
	m.mu.Unlock()

	logger := zerolog.Ctx(ctx)
	event := logger.Debug()
	if info.Error != nil {
		event = logger.Error().Err(info.Error)
	}
	event.
		Str("path", info.Path).
		Str("status", info.Status.String()).
		Int("replacements", info.Replacements).
		Msg(m.formatter.FormatFileOperation(info))
}

// ListFiles returns every tracked file sorted by path
func (m *Manager) ListFiles(ctx context.Context) []FileInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, 0, len(m.files))
	for _, info := range m.files {
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// Reset forgets every tracked file
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files = make(map[string]FileInfo)
}

// Helper functions

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return errors.Errorf("reading source file info: %w", err)
	}

	destination, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return errors.Errorf("copying file: %w", err)
	}

	return nil
}
