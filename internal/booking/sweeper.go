package booking

import (
	"context"
	"time"

	"stadiumbook/internal/logger"
)

// Completer is implemented by Service.
type Completer interface {
	CompleteEnded(ctx context.Context) (int, error)
}

// RunSweeper completes ended bookings every interval until ctx is cancelled.
func RunSweeper(ctx context.Context, c Completer, interval time.Duration) {
	logger.Info("completion sweeper started", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		sweep(ctx, c)

		select {
		case <-ctx.Done():
			logger.Info("completion sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

func sweep(ctx context.Context, c Completer) {
	n, err := c.CompleteEnded(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.Error("completion sweep failed", "error", err)
		}
		return
	}
	if n > 0 {
		logger.Info("bookings completed", "count", n)
	}
}
