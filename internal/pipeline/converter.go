package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Renderer names accepted by NewHTMLConverter.
const (
	RendererClassic    = "classic"
	RendererCommonMark = "commonmark"
)

// ErrUnknownRenderer indicates a renderer name that NewHTMLConverter does not know.
var ErrUnknownRenderer = errors.New("unknown renderer")

// HTMLConverter abstracts Markdown to HTML fragment conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// ClassicConverter renders markdown with the regex rule pipeline.
type ClassicConverter struct{}

// NewClassicConverter returns the rule pipeline as an HTMLConverter.
func NewClassicConverter() *ClassicConverter {
	return &ClassicConverter{}
}

// ToHTML converts content with Convert. The only error it returns is the
// context error when ctx is already done.
func (c *ClassicConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return Convert(content), nil
}

// RendererOptions configures NewHTMLConverter.
type RendererOptions struct {
	// Highlight enables syntax highlighting inside the CommonMark renderer.
	// The classic renderer is highlighted afterwards by ChromaHighlighter.
	Highlight bool
	Style     string
}

// NewHTMLConverter returns the converter registered under name.
// An empty name selects the classic renderer.
func NewHTMLConverter(name string, opts RendererOptions) (HTMLConverter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", RendererClassic:
		return NewClassicConverter(), nil
	case RendererCommonMark:
		return NewGoldmarkConverter(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q (valid: %s, %s)", ErrUnknownRenderer, name, RendererClassic, RendererCommonMark)
	}
}
