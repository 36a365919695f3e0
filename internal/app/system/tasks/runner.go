// internal/app/system/tasks/runner.go
package tasks

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dalemusser/clinicoutcomes/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Job represents a scheduled background task.
type Job struct {
	Name     string
	Interval time.Duration
	// Timeout bounds a single run. Zero means the run is bounded only by
	// the runner's lifetime.
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Runner manages background job execution.
type Runner struct {
	logger  *zap.Logger
	jobs    []Job
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	running atomic.Int32 // count of runs in progress
	active  sync.Map     // job name -> struct{} while a run is in progress
}

// New creates a new task runner.
func New(logger *zap.Logger) *Runner {
	return &Runner{logger: logger}
}

// Register adds a job to the runner. Jobs with a non-positive interval are ignored.
func (r *Runner) Register(job Job) {
	if job.Interval <= 0 {
		r.logger.Info("background job disabled", zap.String("job", job.Name))
		return
	}
	r.jobs = append(r.jobs, job)
}

// Jobs returns the names of the registered jobs.
func (r *Runner) Jobs() []string {
	names := make([]string, len(r.jobs))
	for i, j := range r.jobs {
		names[i] = j.Name
	}
	return names
}

// Start begins executing all registered jobs. Each job runs once right
// away and then on its interval until Stop is called.
func (r *Runner) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.loop(ctx, job)
	}

	r.logger.Info("background task runner started", zap.Int("job_count", len(r.jobs)))
}

// Stop cancels all jobs and waits for in-flight runs. If ctx ends first it
// returns ctx.Err() and logs the jobs still running.
func (r *Runner) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("background task runner stopped")
		return nil
	case <-ctx.Done():
		var stillRunning []string
		r.active.Range(func(key, _ any) bool {
			stillRunning = append(stillRunning, key.(string))
			return true
		})
		r.logger.Warn("background task runner shutdown timed out",
			zap.Strings("jobs_still_running", stillRunning),
			zap.Int32("running_count", r.running.Load()))
		return ctx.Err()
	}
}

func (r *Runner) loop(ctx context.Context, job Job) {
	defer r.wg.Done()

	r.execute(ctx, job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("job stopped", zap.String("job", job.Name))
			return
		case <-ticker.C:
			r.execute(ctx, job)
		}
	}
}

// execute runs a job once and logs the result.
func (r *Runner) execute(ctx context.Context, job Job) {
	r.running.Add(1)
	r.active.Store(job.Name, struct{}{})
	defer func() {
		r.running.Add(-1)
		r.active.Delete(job.Name)
	}()

	runCtx := ctx
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = timeouts.WithTimeout(ctx, job.Timeout, r.logger, job.Name)
		defer cancel()
	}

	start := time.Now()
	err := job.Run(runCtx)
	switch {
	case err == nil:
		r.logger.Debug("job completed",
			zap.String("job", job.Name),
			zap.Duration("duration", time.Since(start)))
	case ctx.Err() != nil:
		// Shutting down; not a failure.
		r.logger.Debug("job cancelled during shutdown",
			zap.String("job", job.Name),
			zap.Duration("duration", time.Since(start)))
	default:
		r.logger.Warn("job failed",
			zap.String("job", job.Name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
	}
}

// RunOnce executes the named job immediately. It reports false when no job
// has that name.
func (r *Runner) RunOnce(ctx context.Context, name string) (bool, error) {
	for _, job := range r.jobs {
		if job.Name == name {
			return true, job.Run(ctx)
		}
	}
	return false, nil
}
