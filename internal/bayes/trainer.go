package bayes

import (
	"fmt"
	"math/rand"

	"github.com/jbrukh/bayesian"

	"github.com/firehallhq/cadintel/internal/domain"
)

// Train builds a fresh classifier from the corpus. The returned
// classifier is complete and self-contained; the caller decides when
// to swap it in.
func Train(examples []domain.TrainingExample) (*bayesian.Classifier, error) {
	if len(examples) == 0 {
		return nil, fmt.Errorf("train: empty corpus")
	}

	clf := bayesian.NewClassifier(classes...)
	for _, ex := range examples {
		tokens := Tokenize(ex.Text)
		if len(tokens) == 0 {
			continue
		}
		clf.Learn(tokens, bayesian.Class(ex.Category))
	}
	return clf, nil
}

// CrossValidate computes k-fold cross-validated accuracy over the
// corpus. The shuffle is seeded from the corpus size so repeated
// retrains on the same corpus report the same number.
func CrossValidate(examples []domain.TrainingExample, folds int) float64 {
	if folds < 2 || len(examples) < folds {
		return 0
	}

	shuffled := make([]domain.TrainingExample, len(examples))
	copy(shuffled, examples)
	rng := rand.New(rand.NewSource(int64(len(examples))))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	correct, total := 0, 0
	foldSize := len(shuffled) / folds

	for fold := 0; fold < folds; fold++ {
		lo := fold * foldSize
		hi := lo + foldSize
		if fold == folds-1 {
			hi = len(shuffled)
		}

		train := make([]domain.TrainingExample, 0, len(shuffled)-(hi-lo))
		train = append(train, shuffled[:lo]...)
		train = append(train, shuffled[hi:]...)

		clf, err := Train(train)
		if err != nil {
			continue
		}

		for _, ex := range shuffled[lo:hi] {
			tokens := Tokenize(ex.Text)
			if len(tokens) == 0 {
				continue
			}
			total++
			_, idx, _ := clf.LogScores(tokens)
			if domain.Category(classes[idx]) == ex.Category {
				correct++
			}
		}
	}

	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}
