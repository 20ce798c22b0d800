package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdedit"
	"github.com/alnah/go-mdedit/internal/config"
	"github.com/alnah/go-mdedit/internal/hints"
)

// Export formats.
const (
	formatHTML = "html"
	formatPDF  = "pdf"
)

// Sentinel errors for export settings.
var (
	ErrInvalidFormat  = errors.New("invalid export format")
	ErrInvalidTimeout = errors.New("invalid timeout")
)

// runExport exports one file or a directory tree to HTML or PDF.
func runExport(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseExportFlags(args, env.Stdout)
	if err != nil {
		return err
	}

	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	warnUnknownEnvVars(env.Stderr, env.Environ())
	envCfg := loadEnvConfig(env.Getenv)

	cfg, err := loadConfig(flags.common.config, envCfg, env.Config)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeExportFlags(flags, cfg)

	format, err := resolveFormat(cfg.Export.Format)
	if err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout)
	if err != nil {
		return err
	}

	var page *mdedit.PageSettings
	if format == formatPDF {
		if page, err = buildPageSettings(cfg); err != nil {
			return err
		}
	}

	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return err
	}

	files, err := discoverFiles(inputPath, cfg.Export.OutputDir, "."+format)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	opts := converterOptions(cfg, timeout)

	// Surface bad styles and renderers before any worker starts.
	if err := checkConverterOptions(opts); err != nil {
		return err
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	poolSize := min(mdedit.ResolvePoolSize(workers), len(files))
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}

	pool := env.NewPool(poolSize, opts...)
	defer func() {
		if err := pool.Close(); err != nil {
			fmt.Fprintf(env.Stderr, "warning: closing converters: %v\n", err)
		}
	}()

	results := exportBatch(ctx, pool, files, &exportParams{
		title: cfg.Export.Title,
		pdf:   format == formatPDF,
		page:  page,
		now:   env.Now,
	})

	return printResults(results, flags.common.quiet, flags.common.verbose, env)
}

// loadConfig loads the config named by the flag, then MDEDIT_CONFIG.
// Without either, it returns a copy of base.
func loadConfig(flagConfig string, envCfg *envConfig, base *config.Config) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = envCfg.ConfigPath
	}

	if name == "" {
		cfg := config.DefaultConfig()
		if base != nil {
			*cfg = *base
		}
		return cfg, nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(userConfigCandidates(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// userConfigCandidates returns where a named config would be created.
func userConfigCandidates(name string) []string {
	if strings.ContainsAny(name, `/\`) {
		return nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "go-mdedit", name+".yaml")}
}

// mergeExportFlags merges CLI flags into config. CLI values override config values.
func mergeExportFlags(flags *exportFlags, cfg *config.Config) {
	mergeRendererFlags(&flags.render, cfg)

	if flags.format != "" {
		cfg.Export.Format = flags.format
	}
	if flags.title != "" {
		cfg.Export.Title = flags.title
	}
	if flags.style != "" {
		cfg.Export.Style = flags.style
	}
	if flags.output != "" {
		cfg.Export.OutputDir = flags.output
	}
	if flags.assetPath != "" {
		cfg.Assets.BasePath = flags.assetPath
	}

	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if flags.page.margin > 0 {
		cfg.Page.Margin = flags.page.margin
	}
}

// mergeRendererFlags merges renderer flags into config.
// A highlight style enables highlighting.
func mergeRendererFlags(flags *rendererFlags, cfg *config.Config) {
	if flags.renderer != "" {
		cfg.Renderer = flags.renderer
	}
	if flags.highlight {
		cfg.Highlight.Enabled = true
	}
	if flags.highlightStyle != "" {
		cfg.Highlight.Enabled = true
		cfg.Highlight.Style = flags.highlightStyle
	}
}

// rendererOptions maps the renderer and highlight settings to options.
func rendererOptions(cfg *config.Config) []mdedit.Option {
	var opts []mdedit.Option
	if cfg.Renderer != "" {
		opts = append(opts, mdedit.WithRenderer(strings.ToLower(cfg.Renderer)))
	}
	if cfg.Highlight.Enabled {
		opts = append(opts, mdedit.WithHighlighting(cfg.Highlight.Style))
	}
	return opts
}

// converterOptions maps the merged config to export converter options.
func converterOptions(cfg *config.Config, timeout time.Duration) []mdedit.Option {
	opts := rendererOptions(cfg)
	if cfg.Export.Style != "" {
		opts = append(opts, mdedit.WithStyle(cfg.Export.Style))
	}
	if cfg.Export.Title != "" {
		opts = append(opts, mdedit.WithTitle(cfg.Export.Title))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, mdedit.WithAssetPath(cfg.Assets.BasePath))
	}
	if timeout > 0 {
		opts = append(opts, mdedit.WithTimeout(timeout))
	}
	return opts
}

// checkConverterOptions builds and discards a converter. The browser is
// launched lazily, so this costs no Chrome process.
func checkConverterOptions(opts []mdedit.Option) error {
	conv, err := mdedit.NewConverter(opts...)
	if err != nil {
		return err
	}
	return conv.Close()
}

// resolveFormat normalizes the export format; empty means HTML.
func resolveFormat(format string) (string, error) {
	switch strings.ToLower(format) {
	case "", formatHTML:
		return formatHTML, nil
	case formatPDF:
		return formatPDF, nil
	}
	return "", fmt.Errorf("%w: %q (must be html or pdf)", ErrInvalidFormat, format)
}

// resolveTimeout picks the flag value, then MDEDIT_TIMEOUT.
// Zero leaves the converter default in place.
func resolveTimeout(flagValue string, envTimeout time.Duration) (time.Duration, error) {
	if flagValue == "" {
		return envTimeout, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s (must be positive)", ErrInvalidTimeout, flagValue)
	}
	return d, nil
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("%w: expected one input, got %d", ErrInvalidArgs, len(args))
	}
	if len(args) == 1 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// buildPageSettings returns nil when neither flags nor config set a page
// option, leaving the converter defaults. Missing fields take defaults.
func buildPageSettings(cfg *config.Config) (*mdedit.PageSettings, error) {
	if cfg.Page.Size == "" && cfg.Page.Orientation == "" && cfg.Page.Margin == 0 {
		return nil, nil
	}

	ps := &mdedit.PageSettings{
		Size:        strings.ToLower(cfg.Page.Size),
		Orientation: strings.ToLower(cfg.Page.Orientation),
		Margin:      cfg.Page.Margin,
	}
	if ps.Size == "" {
		ps.Size = mdedit.PageSizeLetter
	}
	if ps.Orientation == "" {
		ps.Orientation = mdedit.OrientationPortrait
	}
	if ps.Margin == 0 {
		ps.Margin = mdedit.DefaultMargin
	}

	if err := ps.Validate(); err != nil {
		return nil, err
	}
	return ps, nil
}
