package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdedit"
	"github.com/alnah/go-mdedit/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrNoMarkdownFiles    = errors.New("no markdown files found")
)

// FileToExport pairs a markdown source with its output path.
type FileToExport struct {
	InputPath  string
	OutputPath string
}

// discoverFiles lists the markdown files under inputPath. A file input
// must itself be markdown; in a directory, other files are skipped.
// ext is the output extension including the dot.
func discoverFiles(inputPath, outputDir, ext string) ([]FileToExport, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !fileutil.IsMarkdown(inputPath) {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(inputPath))
		}
		return []FileToExport{{
			InputPath:  inputPath,
			OutputPath: resolveOutputPath(inputPath, outputDir, "", ext),
		}}, nil
	}

	var files []FileToExport
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !fileutil.IsMarkdown(path) {
			return nil
		}
		files = append(files, FileToExport{
			InputPath:  path,
			OutputPath: resolveOutputPath(path, outputDir, inputPath, ext),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoMarkdownFiles, inputPath)
	}
	return files, nil
}

// resolveOutputPath maps a markdown path to its output path.
//   - no output dir: next to the source
//   - output ending in ext: used as the file path (single input)
//   - otherwise: under the output dir, keeping subdirectories of baseInputDir
func resolveOutputPath(inputPath, outputDir, baseInputDir, ext string) string {
	name := filepath.Base(fileutil.ReplaceExtension(inputPath, ext))

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}

	if strings.EqualFold(filepath.Ext(outputDir), ext) {
		return outputDir
	}

	if baseInputDir != "" {
		if rel, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, filepath.Dir(rel), name)
		}
	}

	return filepath.Join(outputDir, name)
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > mdedit.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, mdedit.MaxPoolSize)
	}
	return nil
}
