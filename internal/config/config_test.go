package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Service.Port != 8074 {
		t.Errorf("port = %d, want 8074", cfg.Service.Port)
	}
	if cfg.Pipeline.MLConfidenceThreshold != 0.5 {
		t.Errorf("threshold = %v, want 0.5", cfg.Pipeline.MLConfidenceThreshold)
	}
	if cfg.Training.MinExamples != 20 {
		t.Errorf("min examples = %d, want 20", cfg.Training.MinExamples)
	}
	if cfg.Training.RetrainSchedule != "0 3 * * *" {
		t.Errorf("schedule = %q", cfg.Training.RetrainSchedule)
	}
	if cfg.Database.MigrationsPath != "file://migrations" {
		t.Errorf("migrations path = %q", cfg.Database.MigrationsPath)
	}
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	yaml := `
service:
  port: 9000
pipeline:
  ml_confidence_threshold: 0.7
database:
  host: db.internal
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	// Environment beats the file.
	t.Setenv("CADINTEL_PORT", "9100")
	t.Setenv("POSTGRES_PASSWORD", "hunter2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Service.Port != 9100 {
		t.Errorf("port = %d, want env override 9100", cfg.Service.Port)
	}
	if cfg.Pipeline.MLConfidenceThreshold != 0.7 {
		t.Errorf("threshold = %v, want 0.7 from file", cfg.Pipeline.MLConfidenceThreshold)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("host = %q", cfg.Database.Host)
	}
	if cfg.Database.Password != "hunter2" {
		t.Errorf("password not taken from env")
	}
}

func TestSetFieldFromString(t *testing.T) {
	type target struct {
		S string
		I int
		D time.Duration
		F float64
		B bool
	}

	var tgt target
	v := reflect.ValueOf(&tgt).Elem()

	setFieldFromString(v.Field(0), "x")
	setFieldFromString(v.Field(1), "42")
	setFieldFromString(v.Field(2), "30s")
	setFieldFromString(v.Field(3), "0.25")
	setFieldFromString(v.Field(4), "true")

	if tgt.S != "x" || tgt.I != 42 || tgt.D != 30*time.Second || tgt.F != 0.25 || !tgt.B {
		t.Errorf("parsed struct = %+v", tgt)
	}
}
