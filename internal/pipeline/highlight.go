package pipeline

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// ErrUnknownStyle indicates a chroma style name that is not registered.
var ErrUnknownStyle = errors.New("unknown highlight style")

// languageBlockPattern matches code blocks carrying a language classifier,
// as produced by renderCodeBlock. Group 1 is the language, group 2 the
// escaped code.
var languageBlockPattern = regexp.MustCompile(`(?s)<pre><code class="language-([^"]+)">(.*?)</code></pre>`)

// CodeHighlighter rewrites tagged code blocks of an HTML fragment.
type CodeHighlighter interface {
	Highlight(ctx context.Context, fragment string) (string, error)
	CSS() (string, error)
}

// ChromaHighlighter highlights code blocks with chroma using CSS classes.
// The matching stylesheet comes from CSS.
type ChromaHighlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChromaHighlighter creates a highlighter for the named chroma style.
// An empty name selects DefaultHighlightStyle.
func NewChromaHighlighter(styleName string) (*ChromaHighlighter, error) {
	if styleName == "" {
		styleName = DefaultHighlightStyle
	}

	style := styles.Get(styleName)
	if style == styles.Fallback && styleName != styles.Fallback.Name {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, styleName)
	}

	return &ChromaHighlighter{
		style:     style,
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
	}, nil
}

// Highlight replaces every language-tagged code block with chroma output.
// Blocks whose language has no lexer are left untouched, as are blocks
// without a classifier.
func (h *ChromaHighlighter) Highlight(ctx context.Context, fragment string) (string, error) {
	matches := languageBlockPattern.FindAllStringSubmatchIndex(fragment, -1)
	if len(matches) == 0 {
		return fragment, nil
	}

	var out strings.Builder
	last := 0
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		lang := fragment[m[2]:m[3]]
		code := html.UnescapeString(fragment[m[4]:m[5]])

		out.WriteString(fragment[last:m[0]])
		highlighted, ok, err := h.highlightBlock(lang, code)
		if err != nil {
			return "", err
		}
		if ok {
			out.WriteString(highlighted)
		} else {
			out.WriteString(fragment[m[0]:m[1]])
		}
		last = m[1]
	}
	out.WriteString(fragment[last:])

	return out.String(), nil
}

func (h *ChromaHighlighter) highlightBlock(lang, code string) (string, bool, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", false, nil
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", false, nil
	}

	var buf strings.Builder
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return "", false, fmt.Errorf("highlighting %s block: %w", lang, err)
	}
	return buf.String(), true, nil
}

// CSS returns the stylesheet for the classes emitted by Highlight.
func (h *ChromaHighlighter) CSS() (string, error) {
	var buf strings.Builder
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return buf.String(), nil
}
