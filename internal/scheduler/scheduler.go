// Package scheduler triggers curation runs on a cron expression.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is the work a scheduler tick performs.
type Job func(ctx context.Context) error

// Scheduler wraps a cron runner around a single job.
type Scheduler struct {
	cron    *cron.Cron
	spec    string
	job     Job
	entryID cron.EntryID
	log     *slog.Logger
}

// New creates a Scheduler for the given standard 5-field cron spec.
func New(spec string, job Job) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		spec: spec,
		job:  job,
		log:  slog.With("component", "scheduler"),
	}
}

// Start registers the job and starts the cron loop. The job runs with a
// background context; an in-progress run reported by the runner is logged
// and the tick skipped, never queued.
func (s *Scheduler) Start() error {
	id, err := s.cron.AddFunc(s.spec, func() {
		s.log.Info("scheduled run triggered", "spec", s.spec)
		if err := s.job(context.Background()); err != nil {
			s.log.Error("scheduled run failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	s.entryID = id
	s.cron.Start()
	s.log.Info("scheduler started", "spec", s.spec, "next", s.NextRun())
	return nil
}

// Stop halts the cron loop and waits for a running job to return.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// NextRun returns the next scheduled trigger time, or the zero time when
// the scheduler is not started.
func (s *Scheduler) NextRun() time.Time {
	entry := s.cron.Entry(s.entryID)
	return entry.Next
}
