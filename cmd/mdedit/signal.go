package main

import (
	"context"
	"os/signal"
)

// notifyContext derives a context canceled on the first shutdown signal.
// In-flight exports observe the cancellation and the batch reports them as
// failed. Call stop to restore default signal handling.
func notifyContext(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}
