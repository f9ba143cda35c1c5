package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/gamelists/internal/formatter"
	"github.com/desertthunder/gamelists/internal/models"
)

// BulkExportOpts contains configuration for bulk list exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format: json, csv, markdown, txt
	OutputDir  string           // Base output directory (default: gamelists_export_{epoch})
	NumWorkers int              // Concurrent workers (default: 5, max: 10)
	RateLimit  float64          // List loads per second (default: 5)
}

// ListExportJob is one loaded list waiting to be written.
type ListExportJob struct {
	ListID int64
	Export *models.ListExport
}

// ListExportResult is the outcome of exporting one list.
type ListExportResult struct {
	ListID   int64
	ListName string
	Success  bool
	Files    []string
	Error    error
}

// BulkExportResult summarizes a bulk export.
type BulkExportResult struct {
	TotalLists        int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string
	Results           []ListExportResult
}

// Manifest converts the result into the manifest written next to the exported files.
func (r *BulkExportResult) Manifest(format formatter.Format) *formatter.Manifest {
	m := &formatter.Manifest{
		Format:            format,
		CreatedAt:         time.Now().UTC(),
		OutputDirectory:   r.OutputDirectory,
		TotalLists:        r.TotalLists,
		SuccessfulExports: r.SuccessfulExports,
		FailedExports:     r.FailedExports,
		Lists:             make([]formatter.ManifestEntry, 0, len(r.Results)),
	}

	for _, res := range r.Results {
		entry := formatter.ManifestEntry{
			ListID:   res.ListID,
			ListName: res.ListName,
			Status:   formatter.StatusSuccess,
			Files:    res.Files,
		}
		if !res.Success {
			entry.Status = formatter.StatusFailed
			if res.Error != nil {
				entry.Error = res.Error.Error()
			}
		}
		m.Lists = append(m.Lists, entry)
	}
	return m
}

// BulkExport exports the lists named by ids, or every list when ids is empty, with rate limiting and progress tracking.
//
// A producer loads lists no faster than opts.RateLimit per second and hands them to a worker pool that writes files.
// A list that fails to load or write is recorded as failed without stopping the others.
// The manifest is written to {OutputDir}/export_manifest.json once every list has been handled.
func (e *ListEngine) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, ids []int64, opts BulkExportOpts) (*BulkExportResult, error) {
	if e.exporter == nil {
		return nil, fmt.Errorf("bulk export requires a list exporter")
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("gamelists_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if len(ids) == 0 {
		e.sendProgress(prog, fetchingListsUpdate(1, 1))
		lists, err := e.exporter.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load lists: %w", err)
		}
		for _, l := range lists {
			ids = append(ids, l.ID)
		}
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalLists:      len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]ListExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan ListExportJob, len(ids))
	results := make(chan ListExportResult, len(ids))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(jobs)
		for i, listID := range ids {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			export, err := e.exporter.Export(ctx, listID)
			if err != nil {
				results <- ListExportResult{
					ListID:   listID,
					ListName: fmt.Sprintf("Unknown (%d)", listID),
					Error:    fmt.Errorf("failed to load list: %w", err),
				}
				continue
			}

			jobs <- ListExportJob{ListID: listID, Export: export}
			e.sendProgress(prog, exportingListUpdate(i+1, len(ids), export.List.Name))
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.ListName, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(ids), res.ListName, res.Error))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export interrupted: %w", err)
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteManifest(result.Manifest(opts.Format), manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker writes lists from jobs until the channel closes or ctx is canceled.
func (e *ListEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan ListExportJob,
	results chan<- ListExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- exportSingleList(job, opts)
	}
}

// exportSingleList writes one list in the configured format.
func exportSingleList(j ListExportJob, opts BulkExportOpts) ListExportResult {
	result := ListExportResult{
		ListID:   j.ListID,
		ListName: j.Export.List.Name,
		Files:    []string{},
	}

	files, err := formatter.WriteExport(j.Export, opts.Format, opts.OutputDir)
	if err != nil {
		result.Error = err
		return result
	}

	result.Files = files
	result.Success = true
	return result
}
