package main

import (
	"context"
	"errors"
	"os"

	"github.com/alnah/go-mdedit"
	"github.com/alnah/go-mdedit/internal/assets"
	"github.com/alnah/go-mdedit/internal/config"
	"github.com/alnah/go-mdedit/internal/hints"
)

// Exit codes for the mdedit CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the exit code for an error.
// Classification uses errors.Is, so wrapping must use %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, mdedit.ErrBrowserConnect) ||
		errors.Is(err, mdedit.ErrPageCreate) ||
		errors.Is(err, mdedit.ErrPageLoad) ||
		errors.Is(err, mdedit.ErrPDFGeneration) {
		return ExitBrowser
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoMarkdownFiles) ||
		errors.Is(err, mdedit.ErrSourceTooLarge) {
		return ExitIO
	}

	if errors.Is(err, ErrInvalidArgs) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigTooLarge) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, mdedit.ErrInvalidPageSize) ||
		errors.Is(err, mdedit.ErrInvalidOrientation) ||
		errors.Is(err, mdedit.ErrInvalidMargin) ||
		errors.Is(err, mdedit.ErrStyleNotFound) ||
		errors.Is(err, mdedit.ErrUnknownRenderer) ||
		errors.Is(err, mdedit.ErrUnknownStyle) ||
		errors.Is(err, mdedit.ErrInvalidAssetPath) ||
		errors.Is(err, mdedit.ErrNotMarkdown) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "".
// Config-not-found hints are attached where the searched paths are known.
func hintFor(err error) string {
	switch {
	case errors.Is(err, mdedit.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, mdedit.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.StyleNames())
	case errors.Is(err, mdedit.ErrUnknownRenderer):
		return hints.ForRenderer()
	case errors.Is(err, mdedit.ErrUnknownStyle):
		return hints.ForHighlightStyle()
	}
	return ""
}
