// Package bayes implements the statistical layer of comment
// classification: a multinomial naive-Bayes model trained from the
// officer-corrected corpus, swapped atomically on retrain.
package bayes

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jbrukh/bayesian"

	"github.com/firehallhq/cadintel/internal/domain"
)

// ErrUnavailable is returned when no trained model is loaded. The
// pipeline degrades to rules-only classification.
var ErrUnavailable = errors.New("classifier model not trained")

// classes mirror the closed category enumeration, in a fixed order so
// score indexes map back to categories.
var classes = []bayesian.Class{
	bayesian.Class(domain.CategoryCaller),
	bayesian.Class(domain.CategoryTactical),
	bayesian.Class(domain.CategoryOperations),
	bayesian.Class(domain.CategoryUnit),
	bayesian.Class(domain.CategoryOther),
}

// underflowConfidence is reported when posterior probabilities
// underflow and only the log-score argmax is trustworthy.
const underflowConfidence = 0.34

// Model serves classification requests. Inference takes a read lock;
// only the retrain swap takes the write lock, so a long training run
// never blocks review traffic.
type Model struct {
	mu           sync.RWMutex
	clf          *bayesian.Classifier
	trainedAt    time.Time
	cvAccuracy   float64
	exampleCount int
}

// NewModel returns an empty, unavailable model.
func NewModel() *Model {
	return &Model{}
}

// Available reports whether a trained model is loaded.
func (m *Model) Available() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clf != nil
}

// Classify returns the most likely category and its posterior
// probability. Returns ErrUnavailable when no model is loaded.
func (m *Model) Classify(text string) (domain.Category, float64, error) {
	m.mu.RLock()
	clf := m.clf
	m.mu.RUnlock()

	if clf == nil {
		return domain.CategoryOther, 0, ErrUnavailable
	}

	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return domain.CategoryOther, 0, nil
	}

	scores, idx, _, err := clf.SafeProbScores(tokens)
	if err != nil {
		// Posterior underflow on long low-signal comments: the argmax
		// of the log scores is still valid.
		_, idx, _ = clf.LogScores(tokens)
		return domain.Category(classes[idx]), underflowConfidence, nil
	}
	return domain.Category(classes[idx]), scores[idx], nil
}

// Swap atomically replaces the served model. A partially trained model
// is never visible: the new classifier is fully built before this is
// called.
func (m *Model) Swap(clf *bayesian.Classifier, cvAccuracy float64, exampleCount int, trainedAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clf = clf
	m.cvAccuracy = cvAccuracy
	m.exampleCount = exampleCount
	m.trainedAt = trainedAt
}

// Stats returns the current model metadata. trainedAt is nil when the
// model has never been trained.
func (m *Model) Stats() (trainedAt *time.Time, cvAccuracy float64, exampleCount int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.clf == nil {
		return nil, 0, 0
	}
	t := m.trainedAt
	return &t, m.cvAccuracy, m.exampleCount
}

// SaveSnapshot persists the served classifier so a restart reloads the
// last trained model.
func (m *Model) SaveSnapshot(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.clf == nil {
		return ErrUnavailable
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	if err := m.clf.WriteToFile(path); err != nil {
		return fmt.Errorf("write model snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot restores a previously saved classifier. Missing
// snapshot files are not an error; the model simply stays unavailable
// until the first retrain.
func (m *Model) LoadSnapshot(path string, cvAccuracy float64, exampleCount int, trainedAt time.Time) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	clf, err := bayesian.NewClassifierFromFile(path)
	if err != nil {
		return fmt.Errorf("load model snapshot: %w", err)
	}
	m.Swap(clf, cvAccuracy, exampleCount, trainedAt)
	return nil
}
