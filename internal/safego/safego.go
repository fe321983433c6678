// Package safego runs the few auxiliary goroutines of the test runner so a panic in one
// of them is logged instead of killing the process half-way through a report.
package safego

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
)

// Go launches fn in a new goroutine. If fn panics, the panic is recovered and logged
// with the given name.
func Go(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("recovered panic in background goroutine", "goroutine", name, "panic", r)
			}
		}()
		fn()
	}()
}

// CancelOnSignal returns a child of parent that is cancelled when one of sigs arrives.
// Cancelling the context aborts the in-flight request; the runner then reports it as a
// network failure and finishes its report. The returned CancelFunc releases the signal
// subscription.
func CancelOnSignal(parent context.Context, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	Go("signal-watcher", func() {
		defer signal.Stop(ch)
		select {
		case s := <-ch:
			slog.Warn("signal received, cancelling run", "signal", s.String())
			cancel()
		case <-ctx.Done():
		}
	})

	return ctx, cancel
}
