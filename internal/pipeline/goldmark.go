package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// GoldmarkConverter renders CommonMark with GFM extensions using goldmark.
// It is the opt-in alternative to the classic rule pipeline.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter. Newlines render as <br>
// so single line breaks look the same as in the classic renderer.
func NewGoldmarkConverter(opts RendererOptions) *GoldmarkConverter {
	extensions := []goldmark.Extender{extension.GFM}
	if opts.Highlight {
		style := opts.Style
		if style == "" {
			style = DefaultHighlightStyle
		}
		extensions = append(extensions, highlighting.NewHighlighting(
			highlighting.WithStyle(style),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true),
			),
		))
	}

	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts Markdown content to an HTML fragment.
// Goldmark has no context support, so conversion runs in a goroutine and
// ToHTML returns as soon as ctx is done.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(NormalizeLineEndings(content)), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
