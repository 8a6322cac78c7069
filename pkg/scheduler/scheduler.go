// Package scheduler runs periodic jobs on a jittered interval. It is the
// single cooperative trigger behind candidate generation and housekeeping;
// item volume is cap-bounded, so no worker pool is needed.
package scheduler

import (
	"context"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kayleyai/kayley/pkg/helpers"
)

// Job is one unit of periodic work. Run is invoked under a per-job timeout;
// errors are logged by the scheduler and never stop the loop.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type Scheduler struct {
	logger      *log.Logger
	jobs        []Job
	minInterval time.Duration
	maxInterval time.Duration
	jobTimeout  time.Duration
	rng         *rand.Rand
}

func New(logger *log.Logger, minInterval, maxInterval, jobTimeout time.Duration, rng *rand.Rand) *Scheduler {
	return &Scheduler{
		logger:      logger,
		minInterval: minInterval,
		maxInterval: maxInterval,
		jobTimeout:  jobTimeout,
		rng:         rng,
	}
}

// Register adds a job to the tick. Not safe to call after Run has started.
func (s *Scheduler) Register(job Job) {
	s.jobs = append(s.jobs, job)
}

// Run blocks, executing all jobs once per jittered interval until the
// context is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		wait := helpers.JitterDuration(s.rng, s.minInterval, s.maxInterval)
		s.logger.Debug("Next tick scheduled", "wait", wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Scheduler stopping", "reason", ctx.Err())
			return
		case <-timer.C:
		}

		s.RunOnce(ctx)
	}
}

// RunOnce executes all registered jobs sequentially, each under the job
// timeout.
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, job := range s.jobs {
		jobCtx := ctx
		cancel := func() {}
		if s.jobTimeout > 0 {
			jobCtx, cancel = context.WithTimeout(ctx, s.jobTimeout)
		}

		start := time.Now()
		if err := job.Run(jobCtx); err != nil {
			s.logger.Warn("Job failed", "job", job.Name(), "error", err, "elapsed", time.Since(start))
		} else {
			s.logger.Debug("Job completed", "job", job.Name(), "elapsed", time.Since(start))
		}
		cancel()
	}
}
