// Package fileutil provides file and path helpers shared by the library and the CLI.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// markdownExtensions are the source extensions picked up by directory exports.
var markdownExtensions = []string{".md", ".markdown"}

// loadableExtensions are the extensions the editor opens. Plain text is
// treated as markdown.
var loadableExtensions = append([]string{".txt"}, markdownExtensions...)

// WriteTempFile creates a temporary file with the given content and extension.
// Returns the file path and a cleanup function to remove the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", "mdedit-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a
// name: "technical" is a name, "./print.css" and "styles/print" are paths.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsCSS returns true if the string looks like CSS content rather than a
// style name or path.
func IsCSS(s string) bool {
	return strings.Contains(s, "{")
}

// IsMarkdown reports whether path has a markdown extension (case-insensitive).
func IsMarkdown(path string) bool {
	return hasExtension(path, markdownExtensions)
}

// IsLoadable reports whether the editor can open path: a markdown file or
// a .txt file (case-insensitive).
func IsLoadable(path string) bool {
	return hasExtension(path, loadableExtensions)
}

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, m := range exts {
		if ext == m {
			return true
		}
	}
	return false
}

// ReplaceExtension swaps the extension of path for ext (".html", ".pdf").
func ReplaceExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
