package main

// Notes:
// - Test infrastructure shared by the command tests: an Environment wired to
//   buffers and a fixed variable map, and fakes for the converter pool so PDF
//   exports run without Chrome.

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-mdedit"
	"github.com/alnah/go-mdedit/internal/config"
)

// ---------------------------------------------------------------------------
// Environment
// ---------------------------------------------------------------------------

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// newTestEnv returns an Environment that reads variables from vars only.
func newTestEnv(vars map[string]string) *testEnv {
	var stdout, stderr bytes.Buffer
	environ := make([]string, 0, len(vars))
	for k, v := range vars {
		environ = append(environ, k+"="+v)
	}

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &testEnv{
		Environment: &Environment{
			Now:     func() time.Time { return fixed },
			Stdout:  &stdout,
			Stderr:  &stderr,
			Stdin:   strings.NewReader(""),
			Getenv:  func(k string) string { return vars[k] },
			Environ: func() []string { return environ },
			Config:  config.DefaultConfig(),
			NewPool: newConverterPool,
		},
		stdout: &stdout,
		stderr: &stderr,
	}
}

// writeFile creates dir/name with content, creating parents.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

// mockExporter returns a canned document and records its inputs.
type mockExporter struct {
	mu     sync.Mutex
	err    error
	inputs []mdedit.ExportInput
}

func (m *mockExporter) Export(_ context.Context, input mdedit.ExportInput) (*mdedit.ExportResult, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	res := &mdedit.ExportResult{HTML: []byte("<html>" + input.Title + "</html>")}
	if input.PDF {
		res.PDF = []byte("%PDF-1.4 mock")
	}
	return res, nil
}

func (m *mockExporter) calls() []mdedit.ExportInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mdedit.ExportInput(nil), m.inputs...)
}

// mockPool hands out one shared exporter.
type mockPool struct {
	exporter   *mockExporter
	size       int
	acquireErr error

	mu       sync.Mutex
	acquired int
	released int
	closed   bool
	opts     int
}

func (p *mockPool) Acquire(context.Context) (Exporter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.mu.Lock()
	p.acquired++
	p.mu.Unlock()
	return p.exporter, nil
}

func (p *mockPool) Release(Exporter) {
	p.mu.Lock()
	p.released++
	p.mu.Unlock()
}

func (p *mockPool) Size() int { return p.size }

func (p *mockPool) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

// useMockPool makes env build p, recording the option count.
func useMockPool(env *Environment, p *mockPool) {
	env.NewPool = func(size int, opts ...mdedit.Option) Pool {
		p.mu.Lock()
		p.opts = len(opts)
		if p.size == 0 {
			p.size = size
		}
		p.mu.Unlock()
		return p
	}
}

// errBoom is a generic failure for fakes.
var errBoom = errors.New("boom")
