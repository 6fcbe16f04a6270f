package bayes_test

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/firehallhq/cadintel/internal/bayes"
	"github.com/firehallhq/cadintel/internal/domain"
)

func TestTokenize(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercases and strips punctuation",
			text: "CALLER STATES: SMOKE, SECOND FLOOR!",
			want: []string{"caller", "states", "smoke", "second", "floor"},
		},
		{
			name: "drops stopwords and bare numbers",
			text: "the fire was reported at 2230 per caller",
			want: []string{"fire", "reported", "at", "caller"},
		},
		{
			name: "unit designators survive",
			text: "E41 on scene",
			want: []string{"e41", "on", "scene"},
		},
		{
			name: "folds diacritics",
			text: "hydrant at CÔTÉ ST near café",
			want: []string{"hydrant", "at", "cote", "st", "near", "cafe"},
		},
		{
			name: "empty",
			text: "  ... ",
			want: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := bayes.Tokenize(tc.text)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func corpus() []domain.TrainingExample {
	texts := []struct {
		cat   domain.Category
		lines []string
	}{
		{domain.CategoryCaller, []string{
			"caller states smoke from garage",
			"rp advises husband unresponsive",
			"caller reports flames visible",
			"caller says alarm sounding",
		}},
		{domain.CategoryTactical, []string{
			"command established side alpha",
			"water on the fire",
			"primary search complete",
			"fire under control overhaul",
		}},
		{domain.CategoryOperations, []string{
			"mutual aid engine responding",
			"red cross requested occupants",
			"fire marshal notified responding",
			"staging area established elm",
		}},
		{domain.CategoryUnit, []string{
			"e41 on scene",
			"m12 transporting memorial",
			"l21 available quarters",
			"bc2 responding",
		}},
		{domain.CategoryOther, []string{
			"see prior incident details",
			"duplicate of event entry",
			"wrong address corrected dispatch",
			"test comment disregard",
		}},
	}

	var out []domain.TrainingExample
	for _, group := range texts {
		for _, text := range group.lines {
			out = append(out, domain.TrainingExample{Text: text, Category: group.cat})
		}
	}
	return out
}

func TestModel_UnavailableUntilTrained(t *testing.T) {
	m := bayes.NewModel()
	if m.Available() {
		t.Error("fresh model must not be available")
	}

	cat, conf, err := m.Classify("caller states smoke")
	if err != bayes.ErrUnavailable {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if cat != domain.CategoryOther || conf != 0 {
		t.Errorf("got (%q, %v)", cat, conf)
	}

	if trainedAt, _, _ := m.Stats(); trainedAt != nil {
		t.Error("untrained model must report nil trainedAt")
	}
}

func TestTrainAndClassify(t *testing.T) {
	clf, err := bayes.Train(corpus())
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	m := bayes.NewModel()
	m.Swap(clf, 0.85, len(corpus()), time.Now())
	if !m.Available() {
		t.Fatal("model must be available after swap")
	}

	testCases := []struct {
		text string
		want domain.Category
	}{
		{"caller states water coming through ceiling", domain.CategoryCaller},
		{"command established by bc2", domain.CategoryTactical},
		{"e41 on scene", domain.CategoryUnit},
		{"duplicate event disregard", domain.CategoryOther},
	}
	for _, tc := range testCases {
		cat, conf, err := m.Classify(tc.text)
		if err != nil {
			t.Fatalf("Classify(%q): %v", tc.text, err)
		}
		if cat != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.text, cat, tc.want)
		}
		if conf <= 0 || conf > 1 {
			t.Errorf("Classify(%q) confidence = %v", tc.text, conf)
		}
	}
}

func TestClassify_EmptyTokens(t *testing.T) {
	clf, _ := bayes.Train(corpus())
	m := bayes.NewModel()
	m.Swap(clf, 0.85, len(corpus()), time.Now())

	cat, conf, err := m.Classify("... 1234 ...")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if cat != domain.CategoryOther || conf != 0 {
		t.Errorf("got (%q, %v), want (OTHER, 0)", cat, conf)
	}
}

func TestCrossValidate(t *testing.T) {
	acc := bayes.CrossValidate(corpus(), 5)
	if acc < 0 || acc > 1 {
		t.Fatalf("accuracy out of range: %v", acc)
	}

	// Deterministic for a fixed corpus.
	if again := bayes.CrossValidate(corpus(), 5); again != acc {
		t.Errorf("accuracy not deterministic: %v vs %v", acc, again)
	}

	if got := bayes.CrossValidate(corpus()[:3], 5); got != 0 {
		t.Errorf("corpus smaller than fold count must return 0, got %v", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	clf, _ := bayes.Train(corpus())
	m := bayes.NewModel()
	trainedAt := time.Now()
	m.Swap(clf, 0.85, len(corpus()), trainedAt)

	path := filepath.Join(t.TempDir(), "model", "snapshot.gob")
	if err := m.SaveSnapshot(path); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	restored := bayes.NewModel()
	if err := restored.LoadSnapshot(path, 0.85, len(corpus()), trainedAt); err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if !restored.Available() {
		t.Fatal("restored model must be available")
	}

	cat, _, err := restored.Classify("caller states smoke in kitchen")
	if err != nil {
		t.Fatalf("Classify after restore: %v", err)
	}
	if cat != domain.CategoryCaller {
		t.Errorf("restored model category = %q", cat)
	}
}

func TestLoadSnapshot_MissingFileIsNotAnError(t *testing.T) {
	m := bayes.NewModel()
	if err := m.LoadSnapshot(filepath.Join(t.TempDir(), "absent.gob"), 0, 0, time.Time{}); err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if m.Available() {
		t.Error("model must stay unavailable without a snapshot")
	}
}
