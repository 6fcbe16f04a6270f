// Package scheduler runs the periodic retrain check on a cron
// schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/firehallhq/cadintel/internal/logger"
)

// Retrainer is the slice of the training service the scheduler drives.
type Retrainer interface {
	MaybeRetrain(ctx context.Context) error
}

// Scheduler triggers the retrain heuristic on a fixed cron expression,
// typically overnight when correction activity is idle.
type Scheduler struct {
	cron     *cron.Cron
	training Retrainer
	logger   logger.Logger
}

// New registers the retrain job on the given cron spec.
func New(spec string, training Retrainer, log logger.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		training: training,
		logger:   log,
	}

	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid retrain schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.training.MaybeRetrain(ctx); err != nil {
		s.logger.Error("scheduled retrain failed", logger.Error(err))
	}
}

// Start begins the schedule in a background goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("retrain scheduler started")
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
