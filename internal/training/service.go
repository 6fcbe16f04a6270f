// Package training manages the correction corpus and the retrain
// lifecycle of the statistical classifier.
package training

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/firehallhq/cadintel/internal/bayes"
	"github.com/firehallhq/cadintel/internal/config"
	"github.com/firehallhq/cadintel/internal/domain"
	"github.com/firehallhq/cadintel/internal/logger"
)

// Store is the corpus persistence surface.
type Store interface {
	AllExamples(ctx context.Context) ([]domain.TrainingExample, error)
	CountExamples(ctx context.Context) (int, error)
	CountOfficerExamples(ctx context.Context) (int, error)
	CountExamplesSince(ctx context.Context, since time.Time) (int, error)
	UpsertExamples(ctx context.Context, examples []domain.TrainingExample) error
	RecordRun(ctx context.Context, run domain.ModelRun) error
	LastRun(ctx context.Context) (*domain.ModelRun, error)
}

// Service owns retraining. At most one retrain runs at a time, and
// un-forced retrains are rate limited so a correction burst cannot
// thrash the model.
type Service struct {
	store   Store
	model   *bayes.Model
	cfg     config.TrainingConfig
	limiter *rate.Limiter
	logger  logger.Logger

	mu sync.Mutex // held for the duration of a retrain
}

// NewService creates a training service. Un-forced retrains are
// limited to one per ten minutes with a small burst allowance.
func NewService(store Store, model *bayes.Model, cfg config.TrainingConfig, log logger.Logger) *Service {
	return &Service{
		store:   store,
		model:   model,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(10*time.Minute), 2),
		logger:  log,
	}
}

// Retrain rebuilds the classifier from the full corpus, cross-validates
// it, and swaps it in atomically. force bypasses the rate limit but
// never the minimum corpus size.
func (s *Service) Retrain(ctx context.Context, trigger string, force bool) (domain.ModelStats, error) {
	if !s.mu.TryLock() {
		return domain.ModelStats{}, domain.ErrRetrainInFlight
	}
	defer s.mu.Unlock()

	if !force && !s.limiter.Allow() {
		return domain.ModelStats{}, domain.ErrRetrainThrottled
	}

	examples, err := s.store.AllExamples(ctx)
	if err != nil {
		return domain.ModelStats{}, fmt.Errorf("load corpus: %w", err)
	}
	if len(examples) < s.cfg.MinExamples {
		return domain.ModelStats{}, fmt.Errorf("%w: have %d, need %d",
			domain.ErrCorpusTooSmall, len(examples), s.cfg.MinExamples)
	}

	start := time.Now()
	accuracy := bayes.CrossValidate(examples, s.cfg.CVFolds)
	clf, err := bayes.Train(examples)
	if err != nil {
		return domain.ModelStats{}, fmt.Errorf("train classifier: %w", err)
	}

	trainedAt := time.Now()
	s.model.Swap(clf, accuracy, len(examples), trainedAt)

	if err := s.model.SaveSnapshot(s.cfg.ModelSnapshotPath); err != nil {
		s.logger.Error("model snapshot write failed",
			logger.String("path", s.cfg.ModelSnapshotPath),
			logger.Error(err))
	}
	run := domain.ModelRun{
		TrainedAt:    trainedAt,
		CVAccuracy:   accuracy,
		ExampleCount: len(examples),
		Trigger:      trigger,
	}
	if err := s.store.RecordRun(ctx, run); err != nil {
		s.logger.Error("model run record failed", logger.Error(err))
	}

	s.logger.Info("classifier retrained",
		logger.String("trigger", trigger),
		logger.Int("examples", len(examples)),
		logger.Float64("cv_accuracy", accuracy),
		logger.Duration("took", time.Since(start)))
	return s.Stats(ctx)
}

// Stats reports corpus counts and live model state.
func (s *Service) Stats(ctx context.Context) (domain.ModelStats, error) {
	total, err := s.store.CountExamples(ctx)
	if err != nil {
		return domain.ModelStats{}, fmt.Errorf("count examples: %w", err)
	}
	officer, err := s.store.CountOfficerExamples(ctx)
	if err != nil {
		return domain.ModelStats{}, fmt.Errorf("count officer examples: %w", err)
	}

	trainedAt, accuracy, _ := s.model.Stats()
	return domain.ModelStats{
		MLAvailable:           s.model.Available(),
		TotalTrainingExamples: total,
		OfficerExamples:       officer,
		CVAccuracy:            accuracy,
		LastTrainedAt:         trainedAt,
	}, nil
}

// ShouldRetrain reports whether enough new examples accumulated since
// the last run to justify a scheduled retrain. A corpus that has never
// been trained but meets the minimum always qualifies.
func (s *Service) ShouldRetrain(ctx context.Context) (bool, error) {
	last, err := s.store.LastRun(ctx)
	if err != nil {
		return false, fmt.Errorf("load last run: %w", err)
	}

	if last == nil {
		total, err := s.store.CountExamples(ctx)
		if err != nil {
			return false, err
		}
		return total >= s.cfg.MinExamples, nil
	}

	fresh, err := s.store.CountExamplesSince(ctx, last.TrainedAt)
	if err != nil {
		return false, err
	}
	return fresh >= s.cfg.RetrainHeuristic, nil
}

// MaybeRetrain runs the heuristic and retrains when it fires. Used by
// the scheduler; a negative heuristic is not an error.
func (s *Service) MaybeRetrain(ctx context.Context) error {
	due, err := s.ShouldRetrain(ctx)
	if err != nil {
		return err
	}
	if !due {
		s.logger.Debug("scheduled retrain skipped, heuristic not met")
		return nil
	}
	_, err = s.Retrain(ctx, domain.TriggerScheduled, false)
	return err
}

// Bootstrap prepares the classifier at startup: seed the corpus if it
// is empty, restore the model snapshot when one exists, and fall back
// to a fresh training run when the corpus allows it.
func (s *Service) Bootstrap(ctx context.Context) error {
	total, err := s.store.CountExamples(ctx)
	if err != nil {
		return fmt.Errorf("count examples: %w", err)
	}
	if total == 0 && s.cfg.SeedCorpusPath != "" {
		seeds, err := LoadSeedCorpus(s.cfg.SeedCorpusPath)
		if err != nil {
			return fmt.Errorf("load seed corpus: %w", err)
		}
		if err := s.store.UpsertExamples(ctx, seeds); err != nil {
			return fmt.Errorf("seed corpus: %w", err)
		}
		total = len(seeds)
		s.logger.Info("training corpus seeded", logger.Int("examples", total))
	}

	if last, err := s.store.LastRun(ctx); err == nil && last != nil {
		if err := s.model.LoadSnapshot(s.cfg.ModelSnapshotPath, last.CVAccuracy, last.ExampleCount, last.TrainedAt); err != nil {
			s.logger.Warn("model snapshot restore failed",
				logger.String("path", s.cfg.ModelSnapshotPath),
				logger.Error(err))
		}
	}

	if !s.model.Available() && total >= s.cfg.MinExamples {
		if _, err := s.Retrain(ctx, domain.TriggerStartup, true); err != nil {
			return fmt.Errorf("startup training: %w", err)
		}
	}
	return nil
}
