package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/issuefilter/internal/engine"
)

// startEngine runs e's apply loop until the returned stop function is
// called. stop waits for the loop to drain.
func startEngine(ctx context.Context, e *engine.Engine, logger *slog.Logger) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := e.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("apply loop failed", "error", err)
		}
	}()
	return func() {
		e.Stop()
		<-done
		cancel()
	}
}
