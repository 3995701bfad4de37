package envelope

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"sms-assistant-be/pkg/store"
)

// Task is one retrieval branch of the fan-out.
type Task struct {
	Scope store.Scope
	Fetch func(ctx context.Context) ([]store.EvidenceUnit, error)
}

// FanOut runs every task with bounded concurrency and a per-branch timeout.
// A branch that errors, times out, or is cancelled by the turn deadline
// contributes an empty result; the call itself never fails. Whatever was
// collected before a turn-level cancellation is returned as-is.
func FanOut(
	ctx context.Context,
	tasks []Task,
	maxInFlight int,
	perBranchTimeout time.Duration,
	logger *log.Logger,
) map[store.Scope][]store.EvidenceUnit {

	results := make(map[store.Scope][]store.EvidenceUnit, len(tasks))
	var mu sync.Mutex

	g := new(errgroup.Group)
	if maxInFlight > 0 {
		g.SetLimit(maxInFlight)
	}

	for _, task := range tasks {
		task := task
		g.Go(func() error {
			branchCtx, cancel := context.WithTimeout(ctx, perBranchTimeout)
			defer cancel()

			units, err := task.Fetch(branchCtx)
			if err != nil {
				logger.Printf("[ENVELOPE] %s retrieval failed: %v", task.Scope, err)
				units = nil
			}

			mu.Lock()
			results[task.Scope] = units
			mu.Unlock()
			// Branch failures are non-fatal, so never propagate.
			return nil
		})
	}

	_ = g.Wait()
	return results
}
