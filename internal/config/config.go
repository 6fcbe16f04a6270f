// Package config loads service configuration from YAML with .env and
// environment variable overrides.
package config

import "time"

// Default configuration values.
const (
	defaultServiceName      = "cadintel"
	defaultServiceVersion   = "1.0.0"
	defaultServicePort      = 8074
	defaultDBHost           = "localhost"
	defaultDBPort           = 5432
	defaultDBUser           = "postgres"
	defaultDBName           = "cadintel"
	defaultDBSSLMode        = "disable"
	defaultDBMaxConns       = 25
	defaultDBMaxIdleConns   = 5
	defaultLogLevel         = "info"
	defaultLogFormat        = "json"
	defaultMLThreshold      = 0.5
	defaultMinExamples      = 20
	defaultCVFolds          = 5
	defaultRetrainHeuristic = 25
	defaultRetrainSchedule  = "0 3 * * *"
	defaultModelSnapshot    = "data/cadintel-model.gob"
	defaultSeedCorpus       = "data/seed_corpus.yaml"
	defaultRMSTimeoutSec    = 10
)

// Config holds all configuration for the cadintel service.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Training TrainingConfig `yaml:"training"`
	RMS      RMSConfig      `yaml:"rms"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"CADINTEL_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"     yaml:"debug"`
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host            string        `env:"POSTGRES_HOST"     yaml:"host"`
	Port            int           `env:"POSTGRES_PORT"     yaml:"port"`
	User            string        `env:"POSTGRES_USER"     yaml:"user"`
	Password        string        `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database        string        `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode         string        `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
	MaxConnections  int           `yaml:"max_connections"`
	MaxIdleConns    int           `yaml:"max_idle_connections"`
	ConnMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
	MigrationsPath  string        `yaml:"migrations_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level       string `env:"LOG_LEVEL"  yaml:"level"`
	Format      string `env:"LOG_FORMAT" yaml:"format"`
	Development bool   `env:"LOG_DEVELOPMENT" yaml:"development"`
}

// PipelineConfig holds classification and extraction settings.
type PipelineConfig struct {
	// MLConfidenceThreshold flags ML-classified comments below it for
	// review.
	MLConfidenceThreshold float64 `env:"CADINTEL_ML_THRESHOLD" yaml:"ml_confidence_threshold"`
}

// TrainingConfig holds corpus and retraining settings.
type TrainingConfig struct {
	MinExamples       int    `env:"CADINTEL_MIN_EXAMPLES" yaml:"min_examples"`
	CVFolds           int    `yaml:"cv_folds"`
	SeedCorpusPath    string `yaml:"seed_corpus_path"`
	ModelSnapshotPath string `env:"CADINTEL_MODEL_PATH" yaml:"model_snapshot_path"`
	// RetrainHeuristic is the number of new officer examples since the
	// last train that makes a scheduled retrain worthwhile.
	RetrainHeuristic int    `yaml:"retrain_heuristic"`
	RetrainSchedule  string `yaml:"retrain_schedule"`
	ScheduleEnabled  bool   `env:"CADINTEL_RETRAIN_CRON" yaml:"schedule_enabled"`
}

// RMSConfig holds the external incident-store client settings.
type RMSConfig struct {
	BaseURL string        `env:"RMS_BASE_URL" yaml:"base_url"`
	APIKey  string        `env:"RMS_API_KEY"  yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return load(path)
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setLoggingDefaults(&cfg.Logging)
	setPipelineDefaults(&cfg.Pipeline)
	setTrainingDefaults(&cfg.Training)
	setRMSDefaults(&cfg.RMS)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Host == "" {
		d.Host = defaultDBHost
	}
	if d.Port == 0 {
		d.Port = defaultDBPort
	}
	if d.User == "" {
		d.User = defaultDBUser
	}
	if d.Database == "" {
		d.Database = defaultDBName
	}
	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}
	if d.MaxConnections == 0 {
		d.MaxConnections = defaultDBMaxConns
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = defaultDBMaxIdleConns
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = time.Hour
	}
	if d.MigrationsPath == "" {
		d.MigrationsPath = "file://migrations"
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}

func setPipelineDefaults(p *PipelineConfig) {
	if p.MLConfidenceThreshold == 0 {
		p.MLConfidenceThreshold = defaultMLThreshold
	}
}

func setTrainingDefaults(t *TrainingConfig) {
	if t.MinExamples == 0 {
		t.MinExamples = defaultMinExamples
	}
	if t.CVFolds == 0 {
		t.CVFolds = defaultCVFolds
	}
	if t.ModelSnapshotPath == "" {
		t.ModelSnapshotPath = defaultModelSnapshot
	}
	if t.SeedCorpusPath == "" {
		t.SeedCorpusPath = defaultSeedCorpus
	}
	if t.RetrainHeuristic == 0 {
		t.RetrainHeuristic = defaultRetrainHeuristic
	}
	if t.RetrainSchedule == "" {
		t.RetrainSchedule = defaultRetrainSchedule
	}
}

func setRMSDefaults(r *RMSConfig) {
	if r.Timeout == 0 {
		r.Timeout = defaultRMSTimeoutSec * time.Second
	}
}
