package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dianabot/dianabot/dianabot/logger"
	"golang.org/x/sync/semaphore"
)

// JobFunc does one iteration of a periodic job.
type JobFunc func(ctx context.Context, now time.Time) error

// Job is a named periodic task. Interval jobs fire every Interval from start;
// fixed jobs fire at the next At boundary computed by Next.
type Job struct {
	Name string
	Run  JobFunc
	// Next returns the first fire time strictly after the given instant.
	Next func(after time.Time) time.Time

	sem *semaphore.Weighted
}

// Every schedules a job on a fixed interval.
func Every(name string, interval time.Duration, run JobFunc) *Job {
	return &Job{
		Name: name,
		Run:  run,
		Next: func(after time.Time) time.Time { return after.Add(interval) },
	}
}

// DailyAt schedules a job at the given UTC clock time once per day.
func DailyAt(name string, hour, minute int, run JobFunc) *Job {
	return &Job{
		Name: name,
		Run:  run,
		Next: func(after time.Time) time.Time {
			u := after.UTC()
			next := time.Date(u.Year(), u.Month(), u.Day(), hour, minute, 0, 0, time.UTC)
			if !next.After(after) {
				next = next.AddDate(0, 0, 1)
			}
			return next
		},
	}
}

// WeeklyAt schedules a job at the given UTC weekday and clock time.
func WeeklyAt(name string, day time.Weekday, hour, minute int, run JobFunc) *Job {
	return &Job{
		Name: name,
		Run:  run,
		Next: func(after time.Time) time.Time {
			u := after.UTC()
			next := time.Date(u.Year(), u.Month(), u.Day(), hour, minute, 0, 0, time.UTC)
			for next.Weekday() != day || !next.After(after) {
				next = next.AddDate(0, 0, 1)
			}
			return next
		},
	}
}

// Scheduler runs each registered job on its own timer. A job that is still
// running when its next boundary arrives skips that iteration.
type Scheduler struct {
	jobs   []*Job
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(jobs ...*Job) *Scheduler {
	for _, job := range jobs {
		job.sem = semaphore.NewWeighted(1)
	}
	return &Scheduler{jobs: jobs}
}

func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, job)
	}
	logger.LogSystem("Scheduler started", "jobs", len(s.jobs))
}

func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	logger.LogSystem("Scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, job *Job) {
	defer s.wg.Done()

	timer := time.NewTimer(time.Until(job.Next(time.Now())))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case fired := <-timer.C:
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.fire(ctx, job, fired)
			}()
			timer.Reset(time.Until(job.Next(time.Now())))
		}
	}
}

// fire runs one iteration, skipping when the previous one has not finished.
// Panics are contained so one bad iteration never kills the loop.
func (s *Scheduler) fire(ctx context.Context, job *Job, now time.Time) {
	if !job.sem.TryAcquire(1) {
		logger.LogSystem("Job still running, skipping", "name", job.Name)
		return
	}
	defer job.sem.Release(1)

	start := time.Now()
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return job.Run(ctx, now)
	}()
	logger.LogJob(job.Name, time.Since(start), err)
}
