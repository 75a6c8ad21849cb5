// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"
)

// StartMonthlyScheduler fires the previous month's distribution shortly
// after each month rollover. The engine's idempotency plus the run lock
// make duplicate firings (multiple replicas, restarts) harmless, so the
// trigger logic stays deliberately simple: check every interval whether
// the previous month has been handled by this process yet.
func StartMonthlyScheduler(ctx context.Context, orchestrator *Orchestrator, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	go func() {
		var lastHandled string
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			target := PreviousMonth(time.Now().UTC())
			if target == lastHandled {
				continue
			}

			log.Printf("Scheduler triggering club distribution for %s", target)
			if _, err := orchestrator.RunMonthly(ctx, target, "scheduler"); err != nil {
				log.Printf("Scheduled distribution for %s failed: %v", target, err)
				continue // retry on the next tick
			}
			lastHandled = target
		}
	}()
}
