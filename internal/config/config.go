// Package config loads the editor's YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigTooLarge  = errors.New("config file exceeds maximum size")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// MaxFileSize caps the config file read into memory.
const MaxFileSize = 1 << 20

// Field length limits.
const (
	MaxTitleLength       = 200
	MaxStyleLength       = 100
	MaxPathLength        = 4096
	MaxPageSizeLength    = 10 // "letter", "a4", "legal"
	MaxOrientationLength = 10 // "portrait", "landscape"
)

// appDir is the directory under the user config dir searched for named configs.
const appDir = "go-mdedit"

// Config holds the editor settings a file can provide.
// Zero values mean "use the built-in default".
type Config struct {
	Renderer  string          `yaml:"renderer"` // "classic" (default) or "commonmark"
	Highlight HighlightConfig `yaml:"highlight"`
	Export    ExportConfig    `yaml:"export"`
	Input     InputConfig     `yaml:"input"`
	Page      PageConfig      `yaml:"page"`
	Assets    AssetsConfig    `yaml:"assets"`
}

// HighlightConfig controls syntax highlighting of fenced code.
type HighlightConfig struct {
	Enabled bool   `yaml:"enabled"`
	Style   string `yaml:"style"` // chroma style name
}

// ExportConfig defines defaults for exported documents.
type ExportConfig struct {
	Title     string `yaml:"title"`
	Style     string `yaml:"style"`     // embedded style name or path to a .css file
	Format    string `yaml:"format"`    // "html" (default) or "pdf"
	OutputDir string `yaml:"outputDir"` // empty = next to the source
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"`
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`
	Orientation string  `yaml:"orientation"`
	Margin      float64 `yaml:"margin"` // inches
}

// AssetsConfig defines where custom styles and templates live.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets only
}

// DefaultConfig returns an empty configuration. Every field falls back to
// the converter defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// Validate checks field lengths and enumerated values.
// Called by LoadConfig, and available to callers building a Config in code.
func (c *Config) Validate() error {
	if err := validateOneOf("renderer", c.Renderer, "classic", "commonmark"); err != nil {
		return err
	}
	if err := validateOneOf("export.format", c.Export.Format, "html", "pdf"); err != nil {
		return err
	}
	if err := validateOneOf("page.size", c.Page.Size, "letter", "a4", "legal"); err != nil {
		return err
	}
	if err := validateOneOf("page.orientation", c.Page.Orientation, "portrait", "landscape"); err != nil {
		return err
	}
	if c.Page.Margin < 0 {
		return fmt.Errorf("%w: page.margin must not be negative, got %.2f", ErrInvalidValue, c.Page.Margin)
	}

	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"highlight.style", c.Highlight.Style, MaxStyleLength},
		{"export.title", c.Export.Title, MaxTitleLength},
		{"export.style", c.Export.Style, MaxPathLength},
		{"export.outputDir", c.Export.OutputDir, MaxPathLength},
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"page.size", c.Page.Size, MaxPageSizeLength},
		{"page.orientation", c.Page.Orientation, MaxOrientationLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateOneOf accepts an empty value or one of allowed, case-insensitively.
func validateOneOf(fieldName, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q (must be one of %s)", ErrInvalidValue, fieldName, value, strings.Join(allowed, ", "))
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise it is searched as name.yaml and name.yml in the current
// directory, then in the user config directory under go-mdedit/.
// A missing file is an error; there is no silent fallback.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// Parse decodes YAML strictly: unknown keys are rejected.
// The result is validated.
func Parse(data []byte) (*Config, error) {
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigTooLarge, len(data), MaxFileSize)
	}

	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	tried := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		tried = append(tried, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, appDir, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			tried = append(tried, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
