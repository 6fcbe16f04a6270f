package training

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/firehallhq/cadintel/internal/domain"
)

type seedFile struct {
	Examples []seedExample `yaml:"examples"`
}

type seedExample struct {
	Text     string `yaml:"text"`
	Category string `yaml:"category"`
}

// LoadSeedCorpus reads the bundled starter corpus used on first boot,
// before any officer corrections exist.
func LoadSeedCorpus(path string) ([]domain.TrainingExample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed corpus %s: %w", path, err)
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse seed corpus %s: %w", path, err)
	}

	now := time.Now()
	out := make([]domain.TrainingExample, 0, len(file.Examples))
	for i, ex := range file.Examples {
		cat := domain.Category(ex.Category)
		if !cat.Valid() {
			return nil, fmt.Errorf("seed corpus example %d: invalid category %q", i, ex.Category)
		}
		if ex.Text == "" {
			return nil, fmt.Errorf("seed corpus example %d: empty text", i)
		}
		out = append(out, domain.TrainingExample{
			CommentIdx: -1,
			Text:       ex.Text,
			Category:   cat,
			Source:     domain.ExampleSourceSeed,
			CreatedAt:  now,
		})
	}
	return out, nil
}
