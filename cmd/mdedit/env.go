package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alnah/go-mdedit"
	"github.com/alnah/go-mdedit/internal/config"
)

// Environment holds injectable dependencies for testability.
// Commands never touch os.Stdout, os.Getenv or the converter pool directly.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Stdin   io.Reader
	Getenv  func(string) string
	Environ func() []string
	Config  *config.Config // used when neither --config nor MDEDIT_CONFIG is set
	NewPool func(size int, opts ...mdedit.Option) Pool
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Stdin:   os.Stdin,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		Config:  config.DefaultConfig(),
		NewPool: newConverterPool,
	}
}

// Exporter is the part of *mdedit.Converter the batch needs.
type Exporter interface {
	Export(ctx context.Context, input mdedit.ExportInput) (*mdedit.ExportResult, error)
}

// Compile-time interface implementation check.
var _ Exporter = (*mdedit.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (Exporter, error)
	Release(Exporter)
	Size() int
	Close() error
}

// poolAdapter exposes *mdedit.ConverterPool through the Pool interface.
type poolAdapter struct {
	pool *mdedit.ConverterPool
}

func newConverterPool(size int, opts ...mdedit.Option) Pool {
	return &poolAdapter{pool: mdedit.NewConverterPool(size, opts...)}
}

func (a *poolAdapter) Acquire(ctx context.Context) (Exporter, error) {
	conv, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Release panics on a foreign Exporter: only values from Acquire belong here.
func (a *poolAdapter) Release(e Exporter) {
	conv, ok := e.(*mdedit.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", e))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int    { return a.pool.Size() }
func (a *poolAdapter) Close() error { return a.pool.Close() }
