package mdedit

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/alnah/go-mdedit/internal/fileutil"
)

// MaxSourceSize caps what Load reads into the editor.
const MaxSourceSize = 10 << 20

// Editor holds one editing session: the markdown source and its rendered
// preview. Every change to the source re-renders the preview. Safe for
// concurrent use.
type Editor struct {
	conv *Converter

	mu        sync.RWMutex
	source    string
	preview   string
	sourceDir string // directory of the last loaded file, for relative images
}

// NewEditor creates an empty editor rendering through conv.
func NewEditor(conv *Converter) *Editor {
	return &Editor{conv: conv}
}

// SetSource replaces the markdown source and re-renders the preview.
// On error the previous source and preview are kept.
func (e *Editor) SetSource(ctx context.Context, source string) error {
	preview, err := e.conv.Preview(ctx, source)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.source = source
	e.preview = preview
	e.mu.Unlock()
	return nil
}

// Source returns the current markdown source.
func (e *Editor) Source() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.source
}

// Preview returns the HTML fragment rendered from the current source.
func (e *Editor) Preview() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.preview
}

// Stats counts words, characters, lines and headings of the current source.
// Headings and words follow the converter's renderer, so they match Preview.
func (e *Editor) Stats() Stats {
	return e.conv.Stats(e.Source())
}

// Load replaces the source with everything read from r.
// A read failure leaves the editor unchanged.
func (e *Editor) Load(ctx context.Context, r io.Reader) error {
	return e.load(ctx, r, "")
}

// LoadFile loads a .md, .markdown or .txt file. Relative images in later
// exports resolve against the file's directory.
func (e *Editor) LoadFile(ctx context.Context, path string) error {
	if !fileutil.IsLoadable(path) {
		return fmt.Errorf("%w: %q", ErrNotMarkdown, path)
	}

	f, err := os.Open(path) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("opening %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return fmt.Errorf("resolving %q: %w", path, err)
	}
	return e.load(ctx, f, dir)
}

func (e *Editor) load(ctx context.Context, r io.Reader, dir string) error {
	data, err := io.ReadAll(io.LimitReader(r, MaxSourceSize+1))
	if err != nil {
		return fmt.Errorf("reading markdown: %w", err)
	}
	if len(data) > MaxSourceSize {
		return fmt.Errorf("%w: limit is %d bytes", ErrSourceTooLarge, MaxSourceSize)
	}

	source := string(data)
	preview, err := e.conv.Preview(ctx, source)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.source = source
	e.preview = preview
	e.sourceDir = dir
	e.mu.Unlock()
	return nil
}

// Save returns the source as a markdown artifact.
func (e *Editor) Save() Artifact {
	return Artifact{
		Filename: SourceFilename,
		MIMEType: MIMEMarkdown,
		Data:     []byte(e.Source()),
	}
}

// ExportHTML renders the source into a standalone HTML document.
func (e *Editor) ExportHTML(ctx context.Context) (Artifact, error) {
	res, err := e.conv.Export(ctx, e.exportInput(nil, false))
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Filename: HTMLFilename, MIMEType: MIMEHTML, Data: res.HTML}, nil
}

// ExportPDF prints the standalone document to PDF. A nil page uses defaults.
func (e *Editor) ExportPDF(ctx context.Context, page *PageSettings) (Artifact, error) {
	res, err := e.conv.Export(ctx, e.exportInput(page, true))
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Filename: PDFFilename, MIMEType: MIMEPDF, Data: res.PDF}, nil
}

func (e *Editor) exportInput(page *PageSettings, pdf bool) ExportInput {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return ExportInput{
		Markdown:  e.source,
		SourceDir: e.sourceDir,
		Page:      page,
		PDF:       pdf,
	}
}
