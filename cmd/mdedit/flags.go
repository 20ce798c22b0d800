package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// ErrInvalidArgs wraps flag parsing and positional argument errors.
var ErrInvalidArgs = errors.New("invalid arguments")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// rendererFlags selects and tunes the HTML renderer.
type rendererFlags struct {
	renderer       string
	highlight      bool
	highlightStyle string
}

// pageFlags holds PDF page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common    commonFlags
	render    rendererFlags
	page      pageFlags
	output    string
	format    string
	title     string
	style     string
	assetPath string
	timeout   string
	workers   int
}

// previewFlags holds flags for the preview command.
type previewFlags struct {
	common commonFlags
	render rendererFlags
	output string
}

// statsFlags holds flags for the stats command.
type statsFlags struct {
	json bool
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

func addRendererFlags(fs *flag.FlagSet, f *rendererFlags) {
	fs.StringVar(&f.renderer, "renderer", "", "renderer: classic, commonmark")
	fs.BoolVar(&f.highlight, "highlight", false, "highlight fenced code blocks")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "chroma style (implies --highlight)")
}

func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// newFlagSet builds a ContinueOnError set whose usage goes to w.
// Parse errors are returned, never printed by pflag itself.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { usage(w) }
	return fs
}

// parse runs fs over args and wraps failures in ErrInvalidArgs.
// flag.ErrHelp is returned unwrapped so callers exit 0.
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	return fs.Args(), nil
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string, w io.Writer) (*exportFlags, []string, error) {
	f := &exportFlags{}
	fs := newFlagSet("export", w, printExportUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.format, "format", "f", "", "output format: html, pdf")
	fs.StringVar(&f.title, "title", "", "document title (\"\" = first heading)")
	fs.StringVarP(&f.style, "style", "s", "", "style name, CSS file path, or CSS")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF page load timeout (e.g., 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")

	addCommonFlags(fs, &f.common)
	addRendererFlags(fs, &f.render)
	addPageFlags(fs, &f.page)

	positional, err := parse(fs, args)
	if err != nil {
		return nil, nil, err
	}
	return f, positional, nil
}

// parsePreviewFlags parses preview command flags and returns positional args.
func parsePreviewFlags(args []string, w io.Writer) (*previewFlags, []string, error) {
	f := &previewFlags{}
	fs := newFlagSet("preview", w, printPreviewUsage)

	fs.StringVarP(&f.output, "output", "o", "", "write the fragment to a file")
	addCommonFlags(fs, &f.common)
	addRendererFlags(fs, &f.render)

	positional, err := parse(fs, args)
	if err != nil {
		return nil, nil, err
	}
	return f, positional, nil
}

// parseStatsFlags parses stats command flags and returns positional args.
func parseStatsFlags(args []string, w io.Writer) (*statsFlags, []string, error) {
	f := &statsFlags{}
	fs := newFlagSet("stats", w, printStatsUsage)
	fs.BoolVar(&f.json, "json", false, "print JSON")

	positional, err := parse(fs, args)
	if err != nil {
		return nil, nil, err
	}
	return f, positional, nil
}

// hasVerboseFlag reports whether args request verbose output. It runs
// before any command parses its flags, so it stops at "--".
func hasVerboseFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == "--verbose" || arg == "-v" {
			return true
		}
		// Combined shorthands such as -qv.
		if len(arg) > 2 && arg[0] == '-' && arg[1] != '-' &&
			isShorthandCluster(arg[1:]) && strings.ContainsRune(arg, 'v') {
			return true
		}
	}
	return false
}

// isShorthandCluster accepts clusters made only of boolean shorthands.
func isShorthandCluster(s string) bool {
	for _, r := range s {
		if r != 'q' && r != 'v' {
			return false
		}
	}
	return true
}
