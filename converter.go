package mdedit

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-mdedit/internal/assets"
	"github.com/alnah/go-mdedit/internal/fileutil"
	"github.com/alnah/go-mdedit/internal/pipeline"
	"github.com/alnah/go-mdedit/internal/stats"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.HTMLConverter   = (*pipeline.ClassicConverter)(nil)
	_ pipeline.HTMLConverter   = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CodeHighlighter = (*pipeline.ChromaHighlighter)(nil)
	_ pipeline.CSSInjector     = (*pipeline.CSSInjection)(nil)
	_ pdfConverter             = (*rodConverter)(nil)
	_ pdfRenderer              = (*rodRenderer)(nil)
)

// Convert turns markdown into an HTML fragment with the classic rule
// pipeline. It never fails: constructs it does not recognize stay literal.
// Safe for concurrent use.
func Convert(source string) string {
	return pipeline.Convert(source)
}

// Converter renders previews and exports standalone documents.
// Create with NewConverter, and call Close when done to release the browser
// used for PDF export. Preview and Export are safe for concurrent use as long
// as PDF export is not involved; use a ConverterPool for parallel PDF work.
type Converter struct {
	cfg           converterConfig
	assetLoader   assets.AssetLoader
	htmlConverter pipeline.HTMLConverter
	highlighter   pipeline.CodeHighlighter // nil unless the classic renderer highlights
	highlightCSS  string
	document      *pipeline.DocumentBuilder
	cssInjector   pipeline.CSSInjector
	pdfConverter  pdfConverter
}

// NewConverter creates a Converter. With no options it uses the classic
// renderer, no highlighting and the embedded "default" style.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:    defaultTimeout,
			styleInput: assets.DefaultStyleName,
		},
		assetLoader: assets.NewEmbeddedLoader(),
		cssInjector: &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assetLoader = resolver
	}

	if err := c.initRenderer(); err != nil {
		return nil, err
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	tmpl, err := c.assetLoader.LoadTemplate(assets.DefaultTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading document template: %w", err)
	}
	c.document, err = pipeline.NewDocumentBuilder(tmpl)
	if err != nil {
		return nil, fmt.Errorf("initializing document builder: %w", err)
	}

	// Tests inject a fake through an option.
	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout)
	}

	return c, nil
}

// initRenderer builds the HTML converter and, when highlighting is on, the
// chroma stylesheet. The CommonMark renderer highlights while rendering; the
// classic renderer gets a highlighting pass after conversion.
func (c *Converter) initRenderer() error {
	var highlighter *pipeline.ChromaHighlighter
	if c.cfg.highlight {
		var err error
		highlighter, err = pipeline.NewChromaHighlighter(c.cfg.highlightStyle)
		if err != nil {
			return err
		}
		c.highlightCSS, err = highlighter.CSS()
		if err != nil {
			return err
		}
	}

	conv, err := pipeline.NewHTMLConverter(c.cfg.renderer, pipeline.RendererOptions{
		Highlight: c.cfg.highlight,
		Style:     c.cfg.highlightStyle,
	})
	if err != nil {
		return err
	}
	c.htmlConverter = conv

	if _, classic := conv.(*pipeline.ClassicConverter); classic && highlighter != nil {
		c.highlighter = highlighter
	}
	return nil
}

// Stats counts source the way this converter's renderer shows it.
func (c *Converter) Stats(source string) Stats {
	if _, ok := c.htmlConverter.(*pipeline.GoldmarkConverter); ok {
		return stats.CountCommonMark(source)
	}
	return stats.Count(source)
}

// Preview converts markdown to the HTML fragment shown next to the editor.
func (c *Converter) Preview(ctx context.Context, markdown string) (string, error) {
	fragment, err := c.htmlConverter.ToHTML(ctx, markdown)
	if err != nil {
		return "", fmt.Errorf("converting to HTML: %w", err)
	}

	if c.highlighter != nil {
		fragment, err = c.highlighter.Highlight(ctx, fragment)
		if err != nil {
			return "", fmt.Errorf("highlighting code: %w", err)
		}
	}

	return fragment, nil
}

// Export builds a standalone HTML document and, if input.PDF is set,
// prints it to PDF. Recovers from internal panics so they surface as errors.
func (c *Converter) Export(ctx context.Context, input ExportInput) (result *ExportResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := input.Page.Validate(); err != nil {
		return nil, err
	}

	body, err := c.Preview(ctx, input.Markdown)
	if err != nil {
		return nil, err
	}

	title := input.Title
	if strings.TrimSpace(title) == "" {
		title = c.cfg.title
	}

	htmlContent, err := c.document.Build(ctx, pipeline.DocumentData{
		Title: title,
		CSS:   c.stylesheet(),
		Body:  body,
	})
	if err != nil {
		return nil, fmt.Errorf("building document: %w", err)
	}

	// User CSS goes in its own block after the base stylesheet so it wins.
	htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, input.CSS)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if input.SourceDir != "" {
		htmlContent, err = pipeline.RewriteRelativePaths(htmlContent, input.SourceDir)
		if err != nil {
			return nil, fmt.Errorf("rewriting relative paths: %w", err)
		}
	}

	res := &ExportResult{HTML: []byte(htmlContent)}
	if !input.PDF {
		return res, nil
	}

	pdfBytes, err := c.pdfConverter.ToPDF(ctx, htmlContent, &pdfOptions{Page: input.Page})
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	res.PDF = pdfBytes
	return res, nil
}

// stylesheet returns the export style followed by the highlight CSS.
func (c *Converter) stylesheet() string {
	if c.highlightCSS == "" {
		return c.cfg.resolvedStyle
	}
	return c.cfg.resolvedStyle + "\n" + c.highlightCSS
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS content.
func (c *Converter) resolveStyle() error {
	input := c.cfg.styleInput
	if input == "" {
		return nil
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.cfg.resolvedStyle = string(content)
		return nil
	}

	if fileutil.IsCSS(input) {
		c.cfg.resolvedStyle = input
		return nil
	}

	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, err)
	}
	c.cfg.resolvedStyle = css
	return nil
}
