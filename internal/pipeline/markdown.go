package pipeline

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Rule is one substitution step of the markdown pipeline.
// Pattern is applied to the whole intermediate string. Replace is a
// regexp template (${1}, ${2}) used when Func is nil.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Replace string
	Func    func(match string) string
}

// Apply runs the rule over s and returns the rewritten string.
func (r Rule) Apply(s string) string {
	if r.Func != nil {
		return r.Pattern.ReplaceAllStringFunc(s, r.Func)
	}
	return r.Pattern.ReplaceAllString(s, r.Replace)
}

// markdownRules run after fenced code extraction, in this exact order.
// Headings go from most to least specific so "### " is not eaten by "# ".
// Bold precedes italic and image precedes link: swapping either pair
// corrupts the output.
var markdownRules = []Rule{
	{Name: "heading3", Pattern: regexp.MustCompile(`(?m)^### (.*)$`), Replace: "<h3>${1}</h3>"},
	{Name: "heading2", Pattern: regexp.MustCompile(`(?m)^## (.*)$`), Replace: "<h2>${1}</h2>"},
	{Name: "heading1", Pattern: regexp.MustCompile(`(?m)^# (.*)$`), Replace: "<h1>${1}</h1>"},
	{Name: "blockquote", Pattern: regexp.MustCompile(`(?m)^> (.*)$`), Replace: "<blockquote>${1}</blockquote>"},
	{Name: "unordered-item", Pattern: regexp.MustCompile(`(?m)^\* (.*)$`), Replace: "<ul><li>${1}</li></ul>"},
	{Name: "ordered-item", Pattern: regexp.MustCompile(`(?m)^\d+\. (.*)$`), Replace: "<ol><li>${1}</li></ol>"},
	{Name: "bold", Pattern: regexp.MustCompile(`\*\*(.*?)\*\*`), Replace: "<strong>${1}</strong>"},
	{Name: "italic", Pattern: regexp.MustCompile(`\*(.*?)\*`), Replace: "<em>${1}</em>"},
	{Name: "strikethrough", Pattern: regexp.MustCompile(`~~(.*?)~~`), Replace: "<del>${1}</del>"},
	{Name: "image", Pattern: regexp.MustCompile(`!\[([^\]]*)\]\(([^)]*)\)`), Replace: `<img alt="${1}" src="${2}" />`},
	{Name: "link", Pattern: regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`), Replace: `<a href="${2}">${1}</a>`},
	{Name: "inline-code", Pattern: regexp.MustCompile("`([^`]*)`"), Replace: "<code>${1}</code>"},
	{Name: "paragraph-break", Pattern: regexp.MustCompile(`\n\n`), Replace: "</p><p>"},
	{Name: "line-break", Pattern: regexp.MustCompile(`\n`), Replace: "<br>"},
}

// cleanupRules patch the wrapped output. The list merges only match the
// exact marker left between two consecutive item lines; lists separated by
// blank lines or other content stay apart.
var cleanupRules = []Rule{
	{Name: "empty-paragraph", Pattern: regexp.MustCompile(`<p></p>`), Replace: ""},
	{Name: "merge-unordered", Pattern: regexp.MustCompile(`</ul><br><ul>`), Replace: ""},
	{Name: "merge-ordered", Pattern: regexp.MustCompile(`</ol><br><ol>`), Replace: ""},
}

var (
	// A fence opens at a line start and closes on the first fence that ends a line.
	fencePattern = regexp.MustCompile("(?m)^```([\\s\\S]*?)```$")

	// Language classifiers accepted on the opening fence line.
	languageTag = regexp.MustCompile(`^[A-Za-z0-9_+#.-]+$`)

	placeholderPattern = regexp.MustCompile(CodeStartPlaceholder + `(\d+)` + CodeEndPlaceholder)

	paragraphPattern = regexp.MustCompile(`(?s)<p>(.*?)</p>`)
	blockElement     = regexp.MustCompile(`(?s)<h1>.*?</h1>|<h2>.*?</h2>|<h3>.*?</h3>|<blockquote>.*?</blockquote>|<ul>.*?</ul>|<ol>.*?</ol>|<pre>.*?</pre>`)
)

// Rules returns the ordered markdown rules applied after code extraction.
// The returned slice is a copy; the pipeline itself cannot be modified.
func Rules() []Rule {
	rules := make([]Rule, len(markdownRules))
	copy(rules, markdownRules)
	return rules
}

// Convert renders markdown source to an HTML fragment.
//
// Convert never fails: constructs it does not recognize, including nested
// emphasis and unterminated fences, are left in the output as literal text.
// It keeps no state between calls and is safe for concurrent use.
func Convert(source string) string {
	var blocks codeBlocks

	out := blocks.extract(NormalizeLineEndings(source))
	for _, rule := range markdownRules {
		out = rule.Apply(out)
	}

	out = "<p>" + out + "</p>"
	for _, rule := range cleanupRules {
		out = rule.Apply(out)
	}

	out = blocks.restore(out)
	return unwrapBlockParagraphs(out)
}

// codeBlocks holds fenced blocks pulled out of the source during one conversion.
type codeBlocks []string

// placeholderEscaper turns placeholder characters already present in the
// source into character references, so only extract can produce placeholders.
var placeholderEscaper = strings.NewReplacer(
	CodeStartPlaceholder, "&#xE000;",
	CodeEndPlaceholder, "&#xE001;",
)

// extract replaces every fenced block with an indexed placeholder.
// Code bodies keep their characters; they are escaped when rendered.
func (b *codeBlocks) extract(content string) string {
	var out strings.Builder
	last := 0
	for _, m := range fencePattern.FindAllStringSubmatchIndex(content, -1) {
		out.WriteString(placeholderEscaper.Replace(content[last:m[0]]))
		lang, body := splitFence(content[m[2]:m[3]])
		*b = append(*b, renderCodeBlock(lang, strings.TrimSpace(body)))
		out.WriteString(CodeStartPlaceholder + strconv.Itoa(len(*b)-1) + CodeEndPlaceholder)
		last = m[1]
	}
	out.WriteString(placeholderEscaper.Replace(content[last:]))
	return out.String()
}

// restore swaps placeholders back for rendered blocks.
// Placeholders that do not index a block of this conversion are left alone.
func (b codeBlocks) restore(content string) string {
	if len(b) == 0 {
		return content
	}
	return placeholderPattern.ReplaceAllStringFunc(content, func(match string) string {
		idx, err := strconv.Atoi(placeholderPattern.FindStringSubmatch(match)[1])
		if err != nil || idx >= len(b) {
			return match
		}
		return b[idx]
	})
}

// splitFence separates the optional language tag on the opening fence line
// from the code body. A single-line fence has no tag.
func splitFence(inner string) (lang, body string) {
	nl := strings.IndexByte(inner, '\n')
	if nl < 0 {
		return "", inner
	}
	first := strings.TrimSpace(inner[:nl])
	if first == "" || languageTag.MatchString(first) {
		return first, inner[nl+1:]
	}
	return "", inner
}

// renderCodeBlock builds the <pre> element for a fenced block.
// The language classifier is consumed by an optional syntax highlighter.
func renderCodeBlock(lang, body string) string {
	code := html.EscapeString(body)
	if lang == "" {
		return "<pre><code>" + code + "</code></pre>"
	}
	return `<pre><code class="language-` + lang + `">` + code + "</code></pre>"
}

// unwrapBlockParagraphs drops the <p> wrapper around paragraphs that hold
// only block elements, optionally separated by <br>. The <br> separators
// stay in the output. Paragraphs that also hold text keep their wrapper.
func unwrapBlockParagraphs(content string) string {
	return paragraphPattern.ReplaceAllStringFunc(content, func(match string) string {
		inner := match[len("<p>") : len(match)-len("</p>")]
		residue := blockElement.ReplaceAllString(inner, "")
		if residue == inner {
			return match
		}
		if strings.TrimSpace(strings.ReplaceAll(residue, "<br>", "")) != "" {
			return match
		}
		return inner
	})
}
