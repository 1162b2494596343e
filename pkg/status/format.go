package status

import (
	"fmt"
)

// FileFormatter defines how file outcomes and run summaries should be formatted
type FileFormatter interface {
	// FormatFileOperation formats a file outcome message
	FormatFileOperation(info FileInfo) string

	// FormatSummary formats the end of run summary
	FormatSummary(changed, total, failed int, dryRun bool) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileOperation formats a file outcome message with emojis
func (f *DefaultFileFormatter) FormatFileOperation(info FileInfo) string {
	switch info.Status {
	case StatusFixed:
		return fmt.Sprintf("✓ Fixed %s (%d replacements)", info.Path, info.Replacements)
	case StatusWouldFix:
		return fmt.Sprintf("⟳ Would fix %s (%d replacements)", info.Path, info.Replacements)
	case StatusSkipped:
		if info.Reason != "" {
			return fmt.Sprintf("⏭️  Skipped %s (%s)", info.Path, info.Reason)
		}
		return fmt.Sprintf("⏭️  Skipped %s", info.Path)
	case StatusError:
		return fmt.Sprintf("❌ Failed %s: %v", info.Path, info.Error)
	case StatusRestored:
		return fmt.Sprintf("↩️  Restored %s from backup", info.Path)
	default:
		return fmt.Sprintf("👍 No changes needed for %s", info.Path)
	}
}

// FormatSummary formats the summary line
func (f *DefaultFileFormatter) FormatSummary(changed, total, failed int, dryRun bool) string {
	var msg string
	if dryRun {
		msg = fmt.Sprintf("%d/%d files need fixing", changed, total)
	} else {
		msg = fmt.Sprintf("Fixed %d/%d files", changed, total)
	}
	if failed > 0 {
		msg += fmt.Sprintf(", %d failed", failed)
	}
	return msg
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
