package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-mdedit"
	"github.com/alnah/go-mdedit/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput      = errors.New("no input specified")
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrWriteOutput  = errors.New("failed to write output file")
	ErrPoolInit     = errors.New("failed to initialize converter")
)

// ExportResult holds the outcome of a single export.
type ExportResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// exportParams groups settings shared by every file of a batch.
type exportParams struct {
	title string // empty = first heading of each file
	pdf   bool
	page  *mdedit.PageSettings
	now   func() time.Time
}

// exportBatch exports files concurrently over the pool.
// Results keep the order of files.
func exportBatch(ctx context.Context, pool Pool, files []FileToExport, params *exportParams) []ExportResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ExportResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := pool.Acquire(ctx)
			if err != nil {
				// Drain this worker's share so the batch still terminates.
				for idx := range jobs {
					results[idx] = ExportResult{
						InputPath: files[idx].InputPath,
						Err:       fmt.Errorf("%w: %w", ErrPoolInit, err),
					}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ExportResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = exportFile(ctx, conv, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// exportFile reads one markdown file and writes its HTML or PDF export.
func exportFile(ctx context.Context, conv Exporter, f FileToExport, params *exportParams) ExportResult {
	now := params.now
	if now == nil {
		now = time.Now
	}
	start := now()
	result := ExportResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) ExportResult {
		result.Err = err
		result.Duration = now().Sub(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrReadMarkdown, err))
	}
	if len(content) > mdedit.MaxSourceSize {
		return fail(fmt.Errorf("%w: %s", mdedit.ErrSourceTooLarge, f.InputPath))
	}

	title := params.title
	if title == "" {
		title = extractFirstHeading(string(content))
	}

	sourceDir, err := filepath.Abs(filepath.Dir(f.InputPath))
	if err != nil {
		return fail(fmt.Errorf("resolving source directory: %w", err))
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory()))
	}

	res, err := conv.Export(ctx, mdedit.ExportInput{
		Markdown:  string(content),
		Title:     title,
		SourceDir: sourceDir,
		Page:      params.page,
		PDF:       params.pdf,
	})
	if err != nil {
		return fail(err)
	}

	data := res.HTML
	if params.pdf {
		data = res.PDF
	}

	// #nosec G306 -- exports are meant to be readable
	if err := os.WriteFile(f.OutputPath, data, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrWriteOutput, err))
	}

	result.Duration = now().Sub(start)
	return result
}

// firstHeadingPattern matches the first level-one heading.
var firstHeadingPattern = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t]*\r?$`)

// extractFirstHeading returns the text of the first "# " heading, or "".
func extractFirstHeading(markdown string) string {
	m := firstHeadingPattern.FindStringSubmatch(markdown)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// ResultSummary holds the count of succeeded and failed exports.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed exports.
func countResults(results []ExportResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults reports each export and, for batches, a summary line.
// It returns the first failure, or nil.
func printResults(results []ExportResult, quiet, verbose bool, env *Environment) error {
	var firstErr error

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	summary := countResults(results)
	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	if firstErr != nil {
		return fmt.Errorf("%d export(s) failed: %w", summary.Failed, firstErr)
	}
	return nil
}
