package pipeline

import "regexp"

// Code block placeholders use Unicode Private Use Area characters.
// They survive every markdown rule untouched and are swapped back for the
// rendered <pre> block once paragraph wrapping is done.
const (
	CodeStartPlaceholder = "\uE000" // U+E000: Private Use Area start
	CodeEndPlaceholder   = "\uE001" // U+E001: Private Use Area end
)

// Line ending normalization
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// NormalizeLineEndings converts \r\n and \r to \n.
// Files loaded from disk may carry Windows or classic Mac line endings that
// would otherwise leak a stray \r before every <br>.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}
