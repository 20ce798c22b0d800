package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-mdedit"
	"github.com/alnah/go-mdedit/internal/config"
	"github.com/alnah/go-mdedit/internal/hints"
)

// stdinArg names standard input as the source.
const stdinArg = "-"

// runPreview prints the HTML fragment of a markdown file or stdin.
func runPreview(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parsePreviewFlags(args, env.Stdout)
	if err != nil {
		return err
	}

	warnUnknownEnvVars(env.Stderr, env.Environ())
	cfg, err := loadConfig(flags.common.config, loadEnvConfig(env.Getenv), env.Config)
	if err != nil {
		return err
	}
	mergeRendererFlags(&flags.render, cfg)

	ed, closeEditor, err := openEditor(ctx, positional, cfg, env)
	if err != nil {
		return err
	}
	defer closeEditor()

	if flags.output == "" {
		fmt.Fprintln(env.Stdout, ed.Preview())
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(flags.output), dirPermissions); err != nil {
		return fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory())
	}
	// #nosec G306 -- previews are meant to be readable
	if err := os.WriteFile(flags.output, []byte(ed.Preview()), filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", flags.output)
	}
	return nil
}

// openEditor creates an editor with the renderer settings of cfg and loads
// the single positional source ("-" reads stdin).
func openEditor(ctx context.Context, positional []string, cfg *config.Config, env *Environment) (*mdedit.Editor, func(), error) {
	switch {
	case len(positional) == 0:
		return nil, nil, ErrNoInput
	case len(positional) > 1:
		return nil, nil, fmt.Errorf("%w: expected one input, got %d", ErrInvalidArgs, len(positional))
	}
	source := positional[0]

	conv, err := mdedit.NewConverter(rendererOptions(cfg)...)
	if err != nil {
		return nil, nil, err
	}
	closeConv := func() { _ = conv.Close() }

	ed := mdedit.NewEditor(conv)
	if source == stdinArg {
		err = ed.Load(ctx, env.Stdin)
	} else {
		err = ed.LoadFile(ctx, source)
	}
	if err != nil {
		closeConv()
		if source == stdinArg {
			return nil, nil, fmt.Errorf("%w: %w", ErrReadMarkdown, err)
		}
		return nil, nil, err
	}
	return ed, closeConv, nil
}
