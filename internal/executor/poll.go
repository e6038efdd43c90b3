package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/nisu/internal/shared"
)

// WaitFor polls check at the given interval until it returns true. The check
// runs once immediately, then once per tick up to maxAttempts total checks.
// Exhausting the ceiling returns [shared.ErrTaskTimeout]; cancelling ctx
// returns its error.
func WaitFor(ctx context.Context, interval time.Duration, maxAttempts int, check func() bool) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if interval <= 0 {
		interval = time.Millisecond
	}

	if check() {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 1; attempt < maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if check() {
				return nil
			}
		}
	}

	return fmt.Errorf("%w: gave up after %d attempts", shared.ErrTaskTimeout, maxAttempts)
}
