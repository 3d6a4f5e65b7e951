package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func noop(ctx context.Context, now time.Time) error { return nil }

func Test_Every_Next(t *testing.T) {
	job := Every("tick", 15*time.Minute, noop)
	after := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	got := job.Next(after)
	want := time.Date(2025, 6, 1, 10, 15, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Next(%v) = %v, want %v", after, got, want)
	}
}

func Test_DailyAt_Next(t *testing.T) {
	job := DailyAt("daily", 3, 30, noop)

	tests := []struct {
		name  string
		after time.Time
		want  time.Time
	}{
		{
			"before the clock time fires today",
			time.Date(2025, 6, 1, 1, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 1, 3, 30, 0, 0, time.UTC),
		},
		{
			"exactly at the clock time rolls to tomorrow",
			time.Date(2025, 6, 1, 3, 30, 0, 0, time.UTC),
			time.Date(2025, 6, 2, 3, 30, 0, 0, time.UTC),
		},
		{
			"past the clock time rolls to tomorrow",
			time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 2, 3, 30, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := job.Next(tt.after); !got.Equal(tt.want) {
				t.Errorf("Next(%v) = %v, want %v", tt.after, got, tt.want)
			}
		})
	}
}

func Test_WeeklyAt_Next(t *testing.T) {
	job := WeeklyAt("weekly", time.Monday, 9, 0, noop)

	tests := []struct {
		name  string
		after time.Time
		want  time.Time
	}{
		{
			// 2025-06-04 is a Wednesday.
			"midweek waits for next monday",
			time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC),
		},
		{
			// 2025-06-02 is a Monday.
			"monday before the clock time fires same day",
			time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		},
		{
			"monday at the clock time rolls a full week",
			time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := job.Next(tt.after); !got.Equal(tt.want) {
				t.Errorf("Next(%v) = %v, want %v", tt.after, got, tt.want)
			}
		})
	}
}

func Test_Scheduler_runsJobsUntilStopped(t *testing.T) {
	fired := make(chan struct{}, 1)
	job := Every("tick", 5*time.Millisecond, func(ctx context.Context, now time.Time) error {
		select {
		case fired <- struct{}{}:
		default:
		}
		return nil
	})

	s := New(job)
	s.Start(context.Background())

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("job never fired")
	}
	s.Stop()
}

func Test_fire_skipsOverlap(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	var runs atomic.Int32

	job := Every("slow", time.Minute, func(ctx context.Context, now time.Time) error {
		runs.Add(1)
		close(started)
		<-block
		return nil
	})
	s := New(job)

	done := make(chan struct{})
	go func() {
		s.fire(context.Background(), job, time.Now())
		close(done)
	}()
	<-started

	// The first iteration still holds the job's slot.
	s.fire(context.Background(), job, time.Now())

	close(block)
	<-done

	if got := runs.Load(); got != 1 {
		t.Errorf("runs = %d, want 1", got)
	}
}
