package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Task is a unit of background maintenance run on a cron schedule.
type Task interface {
	Name() string
	RunOnce(ctx context.Context) error
}

// Scheduler runs tasks on cron schedules (with seconds field) until its
// context is cancelled.
type Scheduler struct {
	cron *cron.Cron
}

func New() *Scheduler {
	return &Scheduler{
		// Prevent overlapping runs
		cron: cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Add registers task to run on schedule.
func (s *Scheduler) Add(ctx context.Context, schedule string, task Task) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if err := RunOnce(ctx, task); err != nil {
			log.Printf("Error running scheduled job for %s: %v", task.Name(), err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job for %s: %w", task.Name(), err)
	}

	log.Printf("Scheduled %s with schedule: %s", task.Name(), schedule)
	return nil
}

// Start runs the registered tasks and blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.cron.Start()
	log.Printf("Scheduler started with %d jobs", len(s.cron.Entries()))

	<-ctx.Done()
	stopped := s.cron.Stop()
	<-stopped.Done()
	log.Printf("Scheduler stopped")
	return ctx.Err()
}

// RunOnce runs task a single time and logs how long it took.
func RunOnce(ctx context.Context, task Task) error {
	startTime := time.Now()

	if err := task.RunOnce(ctx); err != nil {
		return fmt.Errorf("%s run failed after %v: %w", task.Name(), time.Since(startTime), err)
	}
	return nil
}
