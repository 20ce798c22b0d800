// Package pipeline implements the markdown-to-HTML stages behind the editor preview.
//
// The stages are:
//   - Line-ending normalization of the raw editor text
//   - Markdown to HTML conversion through an ordered list of regex rules
//     (the classic renderer) or, optionally, through Goldmark
//   - Syntax highlighting of code blocks tagged with a language classifier
//   - Assembly of a standalone HTML document with an embedded stylesheet
//   - Rewriting of relative image and link paths for printing
//
// The rule pipeline is deliberately textual. Each rule scans the whole
// intermediate string and later rules observe the output of earlier ones, so
// the rule order is part of the observable behavior. No parse tree is built.
//
// PDF printing is handled by the root mdedit package using headless Chrome
// (go-rod). This package never touches the browser.
package pipeline
