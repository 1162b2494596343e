/*
Package status manages file storage and outcome tracking for astrofix.

	            +-------------+
	            |   Status    |
	            |  (Storage)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+-----+
	|   Files   |           | Outcomes |
	| (Storage) |           | (Report) |
	+-----------+           +----------+

🎯 Purpose:
- Reads pages and writes them back atomically
- Keeps optional .bak copies of rewritten pages
- Tracks the outcome of every file in a run

🔄 Flow:
1. The operation reads a page through the Manager
2. The rewritten content is written in place, through a temp file and rename
3. The outcome (unchanged, fixed, skipped, error) is tracked and logged

Writes are in-place overwrites. RestoreFile undoes one when a backup was
kept; without a backup or a clean git worktree they cannot be undone.

🔍 Example:

	mgr := status.New("/path/to/site")
	content, err := mgr.ReadFile(ctx, "src/pages/index.astro")
	if err != nil {
		return err
	}
	if err := mgr.WriteFileAtomic(ctx, "src/pages/index.astro", rewritten); err != nil {
		return err
	}
	mgr.TrackFile(ctx, status.FileInfo{Path: "src/pages/index.astro", Status: status.StatusFixed})
*/
package status
