package mdedit

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("converter pool is closed")

// ConverterPool manages Converter instances for parallel exports.
// Each converter owns its browser, so PDF exports run truly in parallel.
// Converters are created lazily on first acquire to avoid startup delay.
type ConverterPool struct {
	size       int
	opts       []Option
	converters []*Converter
	sem        chan *Converter
	mu         sync.Mutex
	created    int
	closed     bool

	newConverter func(...Option) (*Converter, error)
}

// NewConverterPool creates a pool with capacity for n converters built with opts.
func NewConverterPool(n int, opts ...Option) *ConverterPool {
	if n < 1 {
		n = 1
	}

	return &ConverterPool{
		size:       n,
		opts:       opts,
		converters: make([]*Converter, 0, n),
		sem:        make(chan *Converter, n),

		newConverter: NewConverter,
	}
}

// Acquire gets a converter from the pool, creating one if capacity allows.
// Blocks until a converter is released or ctx is done.
func (p *ConverterPool) Acquire(ctx context.Context) (*Converter, error) {
	select {
	case conv, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return conv, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		conv, err := p.newConverter(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		if p.closed {
			// Close ran while the converter was being built.
			p.mu.Unlock()
			_ = conv.Close()
			return nil, ErrPoolClosed
		}
		p.converters = append(p.converters, conv)
		p.mu.Unlock()

		return conv, nil
	}
	p.mu.Unlock()

	select {
	case conv, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return conv, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a converter to the pool.
// The lock is held while sending; the channel never fills because at most
// size converters exist.
func (p *ConverterPool) Release(conv *Converter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.sem <- conv
}

// Close releases all browser resources.
// Returns an aggregated error if several converters fail to close.
func (p *ConverterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	converters := p.converters
	p.mu.Unlock()

	var errs []error
	for _, conv := range converters {
		if err := conv.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// An explicit worker count wins; otherwise it derives from GOMAXPROCS,
// which automaxprocs adjusts for container CPU quotas.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
