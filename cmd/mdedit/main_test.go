package main

// Notes:
// - runMain is exercised end to end for HTML output with real converters.
//   PDF output goes through mockPool, so no test needs Chrome.
// - setMaxProcs changes GOMAXPROCS for the whole process; only its silence
//   when not verbose is checked.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-mdedit"
)

// ---------------------------------------------------------------------------
// TestRunMain_Dispatch - command routing and exit codes
// ---------------------------------------------------------------------------

func TestRunMain_Dispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no command", []string{"mdedit"}, ExitUsage, "", "Usage: mdedit"},
		{"version", []string{"mdedit", "version"}, ExitSuccess, "mdedit dev", ""},
		{"--version", []string{"mdedit", "--version"}, ExitSuccess, "mdedit dev", ""},
		{"help", []string{"mdedit", "help"}, ExitSuccess, "Commands:", ""},
		{"help export", []string{"mdedit", "help", "export"}, ExitSuccess, "Usage: mdedit export", ""},
		{"help unknown", []string{"mdedit", "help", "frobnicate"}, ExitUsage, "", "Unknown command: frobnicate"},
		{"unknown command", []string{"mdedit", "frobnicate"}, ExitUsage, "", "Unknown command: frobnicate"},
		{"export -h", []string{"mdedit", "export", "-h"}, ExitSuccess, "Usage: mdedit export", ""},
		{"preview --help", []string{"mdedit", "preview", "--help"}, ExitSuccess, "Usage: mdedit preview", ""},
		{"unknown flag", []string{"mdedit", "export", "--nope"}, ExitUsage, "", "invalid arguments"},
		{"preview without input", []string{"mdedit", "preview"}, ExitIO, "", "no input specified"},
		{"doctor bad arg", []string{"mdedit", "doctor", "--yaml"}, ExitUsage, "", "unknown argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(nil)
			code := runMain(context.Background(), tt.args, env.Environment)

			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, env.stderr)
			}
			if tt.wantStdout != "" && !strings.Contains(env.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want it to contain %q", env.stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(env.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", env.stderr, tt.wantStderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Preview - fragment output
// ---------------------------------------------------------------------------

func TestRunMain_Preview(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mdPath := writeFile(t, dir, "notes.md", "## Notes\n\n* one\n* two")
	txtPath := writeFile(t, dir, "notes.txt", "plain *text*")
	htmlPath := writeFile(t, dir, "notes.html", "<p>x</p>")

	t.Run("stdin", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(nil)
		env.Stdin = strings.NewReader("# Hi\n\n**there**")

		code := runMain(context.Background(), []string{"mdedit", "preview", "-"}, env.Environment)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, env.stderr)
		}
		want := "<h1>Hi</h1><p><strong>there</strong></p>\n"
		if got := env.stdout.String(); got != want {
			t.Errorf("stdout = %q, want %q", got, want)
		}
	})

	t.Run("file", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(nil)
		code := runMain(context.Background(), []string{"mdedit", "preview", mdPath}, env.Environment)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, env.stderr)
		}
		if !strings.Contains(env.stdout.String(), "<ul><li>one</li><li>two</li></ul>") {
			t.Errorf("stdout = %q", env.stdout)
		}
	})

	t.Run("commonmark renderer", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(nil)
		env.Stdin = strings.NewReader("# Hi")
		code := runMain(context.Background(), []string{"mdedit", "preview", "--renderer", "commonmark", "-"}, env.Environment)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, env.stderr)
		}
		if !strings.Contains(env.stdout.String(), "<h1>Hi</h1>") {
			t.Errorf("stdout = %q", env.stdout)
		}
	})

	t.Run("output file", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "sub", "preview.html")
		env := newTestEnv(nil)
		code := runMain(context.Background(), []string{"mdedit", "preview", "-o", out, mdPath}, env.Environment)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, env.stderr)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(string(data), "<h2>Notes</h2>") {
			t.Errorf("preview file = %q", data)
		}
		if !strings.Contains(env.stdout.String(), "Created "+out) {
			t.Errorf("stdout = %q", env.stdout)
		}
	})

	t.Run("text file", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(nil)
		code := runMain(context.Background(), []string{"mdedit", "preview", txtPath}, env.Environment)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, want %d (stderr: %s)", code, ExitSuccess, env.stderr)
		}
		if got := strings.TrimSpace(env.stdout.String()); got != "<p>plain <em>text</em></p>" {
			t.Errorf("stdout = %q", got)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(nil)
		code := runMain(context.Background(), []string{"mdedit", "preview", htmlPath}, env.Environment)
		if code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})

	t.Run("unknown renderer gets hint", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(nil)
		code := runMain(context.Background(), []string{"mdedit", "preview", "--renderer", "markdown-it", mdPath}, env.Environment)
		if code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(env.stderr.String(), "hint: use --renderer classic") {
			t.Errorf("stderr = %q, want renderer hint", env.stderr)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunMain_Stats - text and JSON output
// ---------------------------------------------------------------------------

func TestRunMain_Stats(t *testing.T) {
	t.Parallel()

	const source = "# Title\n\nthree little words"

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(nil)
		env.Stdin = strings.NewReader(source)
		code := runMain(context.Background(), []string{"mdedit", "stats", "-"}, env.Environment)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, env.stderr)
		}
		for _, want := range []string{"Words:      4", "Lines:      3", "Headings:   1"} {
			if !strings.Contains(env.stdout.String(), want) {
				t.Errorf("stdout missing %q:\n%s", want, env.stdout)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(nil)
		env.Stdin = strings.NewReader(source)
		code := runMain(context.Background(), []string{"mdedit", "stats", "--json", "-"}, env.Environment)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, env.stderr)
		}

		var got mdedit.Stats
		if err := json.Unmarshal(env.stdout.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, env.stdout)
		}
		if got != mdedit.CountStats(source) {
			t.Errorf("stats = %+v, want %+v", got, mdedit.CountStats(source))
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(nil)
		missing := filepath.Join(t.TempDir(), "gone.md")
		code := runMain(context.Background(), []string{"mdedit", "stats", missing}, env.Environment)
		if code != ExitIO {
			t.Errorf("exit code = %d, want %d", code, ExitIO)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunMain_ExportHTML - real converters, no browser
// ---------------------------------------------------------------------------

func TestRunMain_ExportHTML(t *testing.T) {
	t.Parallel()

	t.Run("single file next to source", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeFile(t, dir, "report.md", "# Quarterly\n\nNumbers ![chart](chart.png)")

		env := newTestEnv(nil)
		code := runMain(context.Background(), []string{"mdedit", "export", src}, env.Environment)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, env.stderr)
		}

		data, err := os.ReadFile(filepath.Join(dir, "report.html"))
		if err != nil {
			t.Fatalf("reading export: %v", err)
		}
		doc := string(data)
		for _, want := range []string{"<!DOCTYPE html>", "<title>Quarterly</title>", "<h1>Quarterly</h1>", `src="file://`} {
			if !strings.Contains(doc, want) {
				t.Errorf("export missing %q", want)
			}
		}
		if !strings.Contains(env.stdout.String(), "Created ") {
			t.Errorf("stdout = %q", env.stdout)
		}
	})

	t.Run("directory keeps layout", func(t *testing.T) {
		t.Parallel()

		in := t.TempDir()
		writeFile(t, in, "a.md", "# A")
		writeFile(t, in, "nested/b.markdown", "# B")
		writeFile(t, in, "skip.txt", "ignored")
		out := t.TempDir()

		env := newTestEnv(nil)
		code := runMain(context.Background(), []string{"mdedit", "export", "-w", "2", "-o", out, in}, env.Environment)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, env.stderr)
		}

		for _, rel := range []string{"a.html", filepath.Join("nested", "b.html")} {
			if _, err := os.Stat(filepath.Join(out, rel)); err != nil {
				t.Errorf("missing %s: %v", rel, err)
			}
		}
		if _, err := os.Stat(filepath.Join(out, "skip.html")); !errors.Is(err, os.ErrNotExist) {
			t.Error("non-markdown file was exported")
		}
		if !strings.Contains(env.stdout.String(), "2 succeeded, 0 failed") {
			t.Errorf("stdout = %q", env.stdout)
		}
	})

	t.Run("title and style flags", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeFile(t, dir, "doc.md", "# Heading")

		env := newTestEnv(nil)
		args := []string{"mdedit", "export", "--title", "Chosen", "--style", "technical", "-q", src}
		if code := runMain(context.Background(), args, env.Environment); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, env.stderr)
		}
		data, err := os.ReadFile(filepath.Join(dir, "doc.html"))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "<title>Chosen</title>") {
			t.Error("title flag ignored")
		}
		if !strings.Contains(string(data), "@media print") {
			t.Error("technical style not embedded")
		}
		if env.stdout.Len() != 0 {
			t.Errorf("quiet run wrote %q", env.stdout)
		}
	})

	t.Run("env output dir and unknown variable", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeFile(t, dir, "doc.md", "text")
		out := filepath.Join(t.TempDir(), "exports")

		env := newTestEnv(map[string]string{
			"MDEDIT_OUTPUT_DIR": out,
			"MDEDIT_OUPUT":      "typo",
		})
		if code := runMain(context.Background(), []string{"mdedit", "export", src}, env.Environment); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, env.stderr)
		}
		if _, err := os.Stat(filepath.Join(out, "doc.html")); err != nil {
			t.Errorf("MDEDIT_OUTPUT_DIR not honored: %v", err)
		}
		if !strings.Contains(env.stderr.String(), "unknown environment variable MDEDIT_OUPUT") {
			t.Errorf("stderr = %q, want typo warning", env.stderr)
		}
	})

	t.Run("config file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeFile(t, dir, "doc.md", "# Ignored heading")
		cfgPath := writeFile(t, dir, "mdedit.yaml", "export:\n  title: From Config\n")

		env := newTestEnv(nil)
		if code := runMain(context.Background(), []string{"mdedit", "export", "-c", cfgPath, src}, env.Environment); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, env.stderr)
		}
		data, err := os.ReadFile(filepath.Join(dir, "doc.html"))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "<title>From Config</title>") {
			t.Error("config title ignored")
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunMain_ExportErrors - classification of export failures
// ---------------------------------------------------------------------------

func TestRunMain_ExportErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "doc.md", "# Doc")
	txt := writeFile(t, dir, "doc.txt", "plain")

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStderr string
	}{
		{"missing input", []string{"export", filepath.Join(dir, "gone.md")}, ExitIO, ""},
		{"no input", []string{"export"}, ExitIO, "no input specified"},
		{"two inputs", []string{"export", src, src}, ExitUsage, "expected one input"},
		{"not markdown", []string{"export", txt}, ExitUsage, ".md or .markdown"},
		{"bad format", []string{"export", "--format", "docx", src}, ExitUsage, "invalid export format"},
		{"bad timeout", []string{"export", "-t", "soon", src}, ExitUsage, "invalid timeout"},
		{"too many workers", []string{"export", "-w", "99", src}, ExitUsage, "invalid worker count"},
		{"unknown style", []string{"export", "--style", "fancy", src}, ExitUsage, "hint: available: default, technical"},
		{"unknown highlight style", []string{"export", "--highlight-style", "nope", src}, ExitUsage, "hint:"},
		{"bad margin", []string{"export", "-f", "pdf", "--margin", "9", src}, ExitUsage, "invalid margin"},
		{"missing config", []string{"export", "-c", "no-such-config", src}, ExitUsage, "hint: use --config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(nil)
			code := runMain(context.Background(), append([]string{"mdedit"}, tt.args...), env.Environment)

			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, env.stderr)
			}
			if tt.wantStderr != "" && !strings.Contains(env.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", env.stderr, tt.wantStderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_ExportPDF - PDF path through a fake pool
// ---------------------------------------------------------------------------

func TestRunMain_ExportPDF(t *testing.T) {
	t.Parallel()

	t.Run("writes pdf with page settings", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeFile(t, dir, "doc.md", "# Printed")

		env := newTestEnv(map[string]string{"MDEDIT_PAGE_SIZE": "legal"})
		pool := &mockPool{exporter: &mockExporter{}}
		useMockPool(env.Environment, pool)

		args := []string{"mdedit", "export", "-f", "pdf", "--orientation", "landscape", src}
		if code := runMain(context.Background(), args, env.Environment); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, env.stderr)
		}

		data, err := os.ReadFile(filepath.Join(dir, "doc.pdf"))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(data, []byte("%PDF-1.4 mock")) {
			t.Errorf("pdf = %q", data)
		}

		calls := pool.exporter.calls()
		if len(calls) != 1 {
			t.Fatalf("Export called %d times, want 1", len(calls))
		}
		in := calls[0]
		if !in.PDF || in.Title != "Printed" {
			t.Errorf("input = %+v", in)
		}
		if in.Page == nil || in.Page.Size != mdedit.PageSizeLegal || in.Page.Orientation != mdedit.OrientationLandscape {
			t.Errorf("page = %+v, want legal landscape", in.Page)
		}
		if !pool.closed {
			t.Error("pool not closed")
		}
	})

	t.Run("browser failure", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeFile(t, dir, "doc.md", "# Printed")

		env := newTestEnv(nil)
		exporter := &mockExporter{err: errors.Join(mdedit.ErrBrowserConnect, errBoom)}
		useMockPool(env.Environment, &mockPool{exporter: exporter})

		code := runMain(context.Background(), []string{"mdedit", "export", "-f", "pdf", src}, env.Environment)
		if code != ExitBrowser {
			t.Errorf("exit code = %d, want %d", code, ExitBrowser)
		}
		if !strings.Contains(env.stderr.String(), "FAILED "+src) {
			t.Errorf("stderr = %q", env.stderr)
		}
	})
}

// ---------------------------------------------------------------------------
// TestPoolAdapter - wrapper over *mdedit.ConverterPool
// ---------------------------------------------------------------------------

func TestPoolAdapter(t *testing.T) {
	t.Parallel()

	pool := newConverterPool(1)
	defer pool.Close()

	if pool.Size() != 1 {
		t.Errorf("Size() = %d, want 1", pool.Size())
	}

	conv, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if _, ok := conv.(*mdedit.Converter); !ok {
		t.Fatalf("Acquire() returned %T", conv)
	}
	pool.Release(conv)
}

func TestPoolAdapter_AcquireError(t *testing.T) {
	t.Parallel()

	pool := newConverterPool(1, mdedit.WithRenderer("markdown-it"))
	defer pool.Close()

	conv, err := pool.Acquire(context.Background())
	if !errors.Is(err, mdedit.ErrUnknownRenderer) {
		t.Errorf("Acquire() error = %v, want ErrUnknownRenderer", err)
	}
	if conv != nil {
		t.Errorf("Acquire() = %v, want untyped nil", conv)
	}
}

func TestPoolAdapter_Release_WrongType(t *testing.T) {
	t.Parallel()

	pool := newConverterPool(1)
	defer pool.Close()

	defer func() {
		r := recover()
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, "unexpected type") {
			t.Errorf("recover() = %v, want unexpected type panic", r)
		}
	}()

	pool.Release(&mockExporter{})
}

// ---------------------------------------------------------------------------
// TestSetMaxProcs - quiet by default
// ---------------------------------------------------------------------------

func TestSetMaxProcs(t *testing.T) {
	var buf bytes.Buffer
	setMaxProcs(false, &buf)
	if buf.Len() != 0 {
		t.Errorf("non-verbose setMaxProcs wrote %q", buf.String())
	}
}
