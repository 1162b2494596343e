/*
Package operation runs the rewrite pipeline over a batch of Astro pages.

	+-------------+
	|   Runner    |
	| (Batch Run) |
	+------+------+
	       |
	+------+------+
	|  Pipeline   |
	|  (Rewrite)  |
	+------+------+
	       |
	+------+------+
	|   Status    |
	| (Storage)   |
	+-------------+

🎯 Purpose:
- Applies the text pipeline to every selected file
- Writes changed files back atomically, optionally keeping a backup
- Reports per-file outcomes and per-rule totals

🔄 Flow:
1. Optionally skip files with uncommitted git changes
2. Read the file through the file manager
3. Rewrite it, leaving byte-identical files untouched
4. On a dry run, compute a line diff instead of writing
5. Track and print the outcome

Restore walks the same paths and puts each one back from its .bak.

⚡ Errors:
A failing file never aborts the batch unless FailFast is set. Report.Err
returns ErrFilesFailed when any file failed, and Report.CheckErr also
returns ErrChangesNeeded when any file would change.

🔍 Example:

	mgr := status.New(baseDir)
	runner, err := operation.NewRunner(operation.Options{
		Rewriter: pipeline,
		Files:    mgr,
		Status:   mgr,
		Logger:   logger,
		DryRun:   true,
	})
	if err != nil {
		return err
	}
	report, err := runner.Run(ctx, paths)
	if err != nil {
		return err
	}
	operation.Summarize(ctx, logger, report)
	return report.CheckErr()
*/
package operation
