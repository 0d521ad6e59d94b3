package vault

import (
	"context"
	"time"

	"github.com/heirloom-labs/heirloom/logx"
)

// Scheduler defers a consumption attempt until the deadline height has
// probably passed, based on observed block cadence. Best effort only: the
// condition script is the enforcement point, the scheduler just avoids
// wasted submissions.
type Scheduler struct {
	blockInterval time.Duration
	safetyMargin  time.Duration
}

func NewScheduler(blockInterval, safetyMargin time.Duration) *Scheduler {
	return &Scheduler{blockInterval: blockInterval, safetyMargin: safetyMargin}
}

// WaitDuration computes the expected delay: remaining blocks times the
// block interval, plus the safety margin.
func (s *Scheduler) WaitDuration(currentHeight, deadlineHeight uint64) time.Duration {
	var remaining uint64
	if deadlineHeight > currentHeight {
		remaining = deadlineHeight - currentHeight
	}
	return time.Duration(remaining)*s.blockInterval + s.safetyMargin
}

// WaitUntil blocks until the computed delay elapses or the context is
// cancelled. A premature wake is not retried here: the following
// consumption attempt surfaces the rejection to the caller.
func (s *Scheduler) WaitUntil(ctx context.Context, currentHeight, deadlineHeight uint64) error {
	d := s.WaitDuration(currentHeight, deadlineHeight)
	logx.Info("SCHEDULER", "waiting ", d.String(), " for deadline height ", deadlineHeight)

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
