package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mdedit/internal/config"
)

// envPrefix marks the variables this tool reads.
const envPrefix = "MDEDIT_"

// envConfig holds configuration from environment variables.
type envConfig struct {
	ConfigPath string        // MDEDIT_CONFIG: config file name or path
	Style      string        // MDEDIT_STYLE: style name, path or CSS
	Timeout    time.Duration // MDEDIT_TIMEOUT: PDF page load timeout
	InputDir   string        // MDEDIT_INPUT_DIR: default input directory
	OutputDir  string        // MDEDIT_OUTPUT_DIR: default output directory
	Format     string        // MDEDIT_FORMAT: html or pdf
	PageSize   string        // MDEDIT_PAGE_SIZE: letter, a4, legal
	Workers    int           // MDEDIT_WORKERS: parallel exports
}

// knownEnvVars lists valid MDEDIT_* variables, used to flag typos.
var knownEnvVars = map[string]bool{
	"MDEDIT_CONFIG":     true,
	"MDEDIT_STYLE":      true,
	"MDEDIT_TIMEOUT":    true,
	"MDEDIT_INPUT_DIR":  true,
	"MDEDIT_OUTPUT_DIR": true,
	"MDEDIT_FORMAT":     true,
	"MDEDIT_PAGE_SIZE":  true,
	"MDEDIT_WORKERS":    true,
	"MDEDIT_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads the MDEDIT_* variables through getenv.
// Unparsable durations and counts are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("MDEDIT_CONFIG"),
		Style:      getenv("MDEDIT_STYLE"),
		InputDir:   getenv("MDEDIT_INPUT_DIR"),
		OutputDir:  getenv("MDEDIT_OUTPUT_DIR"),
		Format:     getenv("MDEDIT_FORMAT"),
		PageSize:   getenv("MDEDIT_PAGE_SIZE"),
	}

	if timeout := getenv("MDEDIT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := getenv("MDEDIT_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for each unrecognized MDEDIT_* name
// in environ, e.g. MDEDIT_OUTPUTDIR.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig fills empty config fields from the environment.
// Flags are merged afterwards, giving: flags > env > config file > defaults.
// The timeout and worker count are resolved separately.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" && cfg.Export.Style == "" {
		cfg.Export.Style = env.Style
	}
	if env.Format != "" && cfg.Export.Format == "" {
		cfg.Export.Format = env.Format
	}
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Export.OutputDir == "" {
		cfg.Export.OutputDir = env.OutputDir
	}
	if env.PageSize != "" && cfg.Page.Size == "" {
		cfg.Page.Size = env.PageSize
	}
}
