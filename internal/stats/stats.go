// Package stats computes document statistics for the editor status bar.
//
// Words and headings are counted on what the preview renders, not on the raw
// source, so markdown markers such as "**", "#" or link destinations do not
// inflate the count. Count follows the classic rule pipeline; CountCommonMark
// follows goldmark for the CommonMark renderer. Fenced code counts as text.
package stats

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-mdedit/internal/pipeline"
)

// Stats holds counts for one markdown source.
type Stats struct {
	Words      int `json:"words"`
	Characters int `json:"characters"`
	Lines      int `json:"lines"`
	Headings   int `json:"headings"`
}

// parser is safe for concurrent use.
var parser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

// Count returns the statistics of source as the classic renderer shows it.
// Only "# " to "### " lines are headings; deeper or setext headings stay
// text, as they do in the preview.
func Count(source string) Stats {
	source = pipeline.NormalizeLineEndings(source)
	if source == "" {
		return Stats{}
	}

	words, headings := countRendered(pipeline.Convert(source))
	return Stats{
		Words:      words,
		Characters: utf8.RuneCountInString(source),
		Lines:      countLines(source),
		Headings:   headings,
	}
}

// separators end a word when they open or close: block elements and <br>.
var separators = map[atom.Atom]bool{
	atom.P: true, atom.Br: true, atom.Blockquote: true, atom.Pre: true,
	atom.Ul: true, atom.Ol: true, atom.Li: true,
	atom.H1: true, atom.H2: true, atom.H3: true,
}

// countRendered counts words in the text of an HTML fragment and its h1-h3
// elements. Inline tags do not split words.
func countRendered(fragment string) (words, headings int) {
	var plain strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return len(strings.Fields(plain.String())), headings
		case html.TextToken:
			plain.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if separators[tok.DataAtom] {
				plain.WriteByte(' ')
			}
			if tok.Type == html.StartTagToken {
				switch tok.DataAtom {
				case atom.H1, atom.H2, atom.H3:
					headings++
				}
			}
		}
	}
}

// CountCommonMark returns the statistics of source as goldmark renders it.
func CountCommonMark(source string) Stats {
	source = pipeline.NormalizeLineEndings(source)
	if source == "" {
		return Stats{}
	}

	src := []byte(source)
	doc := parser.Parse(text.NewReader(src))

	var plain bytes.Buffer
	headings := 0

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				plain.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			headings++
		case *ast.Text:
			plain.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				plain.WriteByte(' ')
			}
		case *ast.String:
			plain.Write(node.Value)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				plain.Write(seg.Value(src))
			}
		}
		return ast.WalkContinue, nil
	})

	return Stats{
		Words:      len(strings.Fields(plain.String())),
		Characters: utf8.RuneCountInString(source),
		Lines:      countLines(source),
		Headings:   headings,
	}
}

// countLines counts lines the way an editor gutter does: a trailing newline
// does not start a new line.
func countLines(s string) int {
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
