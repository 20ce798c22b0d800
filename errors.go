package mdedit

import (
	"errors"

	"github.com/alnah/go-mdedit/internal/assets"
	"github.com/alnah/go-mdedit/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Editor errors.
	ErrSourceTooLarge = errors.New("markdown source exceeds maximum size")
	ErrNotMarkdown    = errors.New("not a markdown or text file")

	// Asset loading errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrStyleNotFound    = assets.ErrStyleNotFound

	// Renderer errors.
	ErrUnknownRenderer = pipeline.ErrUnknownRenderer
	ErrUnknownStyle    = pipeline.ErrUnknownStyle
	ErrHTMLConversion  = pipeline.ErrHTMLConversion
)
