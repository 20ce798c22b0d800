package mdedit

import (
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-mdedit/internal/stats"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// A nil receiver is valid and means defaults.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// ExportInput contains the data for a standalone document export.
type ExportInput struct {
	Markdown  string        // required; empty exports an empty body
	Title     string        // <title> of the document; empty uses the converter's title
	CSS       string        // extra CSS appended after the converter style
	SourceDir string        // rewrites relative img/a paths to file:// URLs when set
	Page      *PageSettings // PDF only; nil uses defaults
	PDF       bool          // also print the document to PDF
}

// ExportResult holds the exported document. PDF is nil unless requested.
type ExportResult struct {
	HTML []byte
	PDF  []byte
}

// Default artifact names and media types.
const (
	SourceFilename = "document.md"
	HTMLFilename   = "document.html"
	PDFFilename    = "document.pdf"

	MIMEMarkdown = "text/markdown"
	MIMEHTML     = "text/html"
	MIMEPDF      = "application/pdf"
)

// Artifact is a named byte blob ready to be written or downloaded.
type Artifact struct {
	Filename string
	MIMEType string
	Data     []byte
}

// Stats holds the counts shown next to the editor.
type Stats = stats.Stats

// CountStats returns the word, character, line and heading counts of source
// as Convert renders it.
func CountStats(source string) Stats {
	return stats.Count(source)
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout        time.Duration
	renderer       string
	highlight      bool
	highlightStyle string
	styleInput     string // name, file path, or raw CSS
	resolvedStyle  string
	title          string
	assetPath      string
}

// defaultTimeout bounds PDF page loads when the context has no deadline.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the PDF rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdedit: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithRenderer selects the markdown renderer: "classic" (default) or "commonmark".
func WithRenderer(name string) Option {
	return func(c *Converter) {
		c.cfg.renderer = name
	}
}

// WithHighlighting enables syntax highlighting of fenced code with the
// named chroma style. An empty style uses "github".
func WithHighlighting(style string) Option {
	return func(c *Converter) {
		c.cfg.highlight = true
		c.cfg.highlightStyle = style
	}
}

// WithStyle sets the export stylesheet. It accepts an embedded style name
// ("default", "technical"), a path to a CSS file, or raw CSS.
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = style
	}
}

// WithTitle sets the title used when ExportInput.Title is empty.
func WithTitle(title string) Option {
	return func(c *Converter) {
		c.cfg.title = title
	}
}

// WithAssetPath sets a directory whose styles/ and templates/ override the
// embedded assets. Missing files fall back to the embedded ones.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}
