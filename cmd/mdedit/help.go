package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdedit <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  preview    Print the HTML preview of a markdown file")
	fmt.Fprintln(w, "  export     Export markdown files to standalone HTML or PDF")
	fmt.Fprintln(w, "  stats      Count words, characters, lines and headings")
	fmt.Fprintln(w, "  doctor     Check the environment for PDF export")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdedit help <command>' for details on a specific command.")
}

func printRendererUsage(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --renderer <s>        Renderer: classic (default), commonmark")
	fmt.Fprintln(w, "      --highlight           Highlight fenced code blocks")
	fmt.Fprintln(w, "      --highlight-style <s> Chroma style (default: github)")
	fmt.Fprintln(w)
}

func printOutputControlUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printPreviewUsage prints usage for the preview command.
func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdedit preview <file|-> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the HTML fragment the editor shows next to the source.")
	fmt.Fprintln(w, "Use - to read markdown from standard input.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Write the fragment to a file")
	fmt.Fprintln(w)
	printRendererUsage(w)
	printOutputControlUsage(w)
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdedit export <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export markdown files to standalone HTML documents or PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -f, --format <s>          Format: html (default), pdf")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF page load timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --title <s>           Document title (\"\" = first heading)")
	fmt.Fprintln(w, "  -s, --style <s>           Style name, CSS file path, or CSS")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with styles/ and templates/")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page (PDF only):")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w)
	printRendererUsage(w)
	printOutputControlUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MDEDIT_CONFIG, MDEDIT_STYLE, MDEDIT_FORMAT, MDEDIT_TIMEOUT, MDEDIT_WORKERS,")
	fmt.Fprintln(w, "  MDEDIT_INPUT_DIR, MDEDIT_OUTPUT_DIR, MDEDIT_PAGE_SIZE")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN, ROD_NO_SANDBOX (Chrome used for PDF)")
}

// printStatsUsage prints usage for the stats command.
func printStatsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdedit stats <file|-> [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Count words, characters, lines and headings. Words are counted on the")
	fmt.Fprintln(w, "rendered text, so markdown markers are not words.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                Print JSON")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdedit doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, sandbox settings and the temp directory used for PDF export.")
	fmt.Fprintln(w, "Exits 1 when PDF export cannot work.")
}

// runHelp prints help for a command and returns an exit code.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "preview":
		printPreviewUsage(env.Stdout)
	case "export":
		printExportUsage(env.Stdout)
	case "stats":
		printStatsUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdedit version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdedit help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
