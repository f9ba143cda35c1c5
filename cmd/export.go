package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/gamelists/internal/formatter"
	"github.com/desertthunder/gamelists/internal/tasks"
)

// Export writes lists to files with a manifest, every list unless --id is given.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	engine, err := r.engine(ctx)
	if err != nil {
		return err
	}

	opts := tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	}

	r.logger.Info("starting export", "format", format, "workers", opts.NumWorkers)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchLists:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ExportList:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := engine.BulkExport(ctx, progressCh, cmd.Int64Slice("id"), opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlainln("")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Output: %s\n", result.OutputDirectory)
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	r.writePlain("Exported: %d/%d\n", result.SuccessfulExports, result.TotalLists)

	if result.FailedExports > 0 {
		r.writePlain("\nFailed to export %d lists:\n", result.FailedExports)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  %s\n", r.palette.Status(false, res.ListName+": "+res.Error.Error()))
			}
		}
	}
	return nil
}
