package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/lookout/pkg/domain/types"
)

// Job is the polling pipeline invoked on each tick
type Job func(ctx context.Context) error

// Scheduler fires the job once immediately, then once a day at a fixed
// wall-clock time.
type Scheduler struct {
	hour   int
	minute int
	job    Job
}

// New creates a scheduler firing at the given "HH:MM" local wall-clock time
func New(runAt string, job Job) (*Scheduler, error) {
	at, err := time.Parse("15:04", runAt)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid schedule time, expected HH:MM", goerr.V("run_at", runAt))
	}

	return &Scheduler{
		hour:   at.Hour(),
		minute: at.Minute(),
		job:    job,
	}, nil
}

// Next returns the first occurrence of the configured wall-clock time
// strictly after now, in now's location.
func (s *Scheduler) Next(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run executes the job immediately, then at every daily tick until the
// context is cancelled. A tick that lands while the previous run is still
// in flight is skipped, never queued.
func (s *Scheduler) Run(ctx context.Context) error {
	s.fire(ctx)

	for {
		next := s.Next(time.Now())
		ctxlog.From(ctx).Info("Next scheduled run", "at", next)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
			s.fire(ctx)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context) {
	logger := ctxlog.From(ctx)

	if err := s.job(ctx); err != nil {
		if errors.Is(err, types.ErrRunInProgress) {
			logger.Warn("Previous polling run still in flight, tick skipped")
			return
		}
		logger.Error("Scheduled polling run failed", "error", err)
	}
}
