package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const sweepTimeout = time.Minute

// Sweeper removes comments whose parent post is gone
type Sweeper interface {
	SweepOrphanComments(ctx context.Context) (int64, error)
}

// Scheduler runs periodic maintenance jobs
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	log     *logrus.Logger
}

// New creates a scheduler that runs the orphan-comment sweep on the given cron schedule
func New(schedule string, sweeper Sweeper, log *logrus.Logger) (*Scheduler, error) {
	logger := cron.PrintfLogger(log)
	s := &Scheduler{
		cron:    cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		sweeper: sweeper,
		log:     log,
	}
	if _, err := s.cron.AddFunc(schedule, s.RunSweep); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start runs the jobs in the background
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infof("Scheduler started with %d job(s)", len(s.cron.Entries()))
}

// Stop prevents new runs and waits for a running job to finish or ctx to expire
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("Scheduler stop timed out")
	}
}

// RunSweep performs one orphan-comment sweep
func (s *Scheduler) RunSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if _, err := s.sweeper.SweepOrphanComments(ctx); err != nil {
		s.log.Errorf("Orphan comment sweep failed: %v", err)
	}
}
