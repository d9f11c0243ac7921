package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Logger      LoggerConfig
	Database    DatabaseConfig
	Store       StoreConfig
	GitHub      GitHubConfig
	HuggingFace HuggingFaceConfig
	LLM         LLMConfig
	Scoring     ScoringConfig
	Clone       CloneConfig
	Analysis    AnalysisConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type LoggerConfig struct {
	Level  string
	Format string
	// File, when set, receives log output instead of stderr.
	File string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverBadger   = "badger"
)

type StoreConfig struct {
	Driver string
	// Path is the badger directory. Empty runs badger in memory.
	Path string
}

type GitHubConfig struct {
	BaseURL           string
	Token             string
	Timeout           time.Duration
	RequestsPerSecond float64
	MaxRetries        uint
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
}

type HuggingFaceConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type LLMConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries uint
}

type ScoringConfig struct {
	RampUpMode       string
	SizeFloor        float64
	JudgmentAttempts int
	MetricTimeout    time.Duration
	Concurrency      int
	LinkTimeout      time.Duration
}

type CloneConfig struct {
	Dir     string
	Timeout time.Duration
}

type AnalysisConfig struct {
	Flake8Path   string
	LintTimeout  time.Duration
	MaxLintFiles int
	MaxScanFiles int
	NamingFiles  int
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("LOG_LEVEL", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "model_scoring")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")

	v.SetDefault("STORE_DRIVER", StoreDriverBadger)
	v.SetDefault("STORE_PATH", "")

	v.SetDefault("GITHUB_BASE_URL", "https://api.github.com")
	v.SetDefault("GITHUB_TOKEN", "")
	v.SetDefault("GITHUB_TIMEOUT", "20s")
	v.SetDefault("GITHUB_REQUESTS_PER_SECOND", 5)
	v.SetDefault("GITHUB_MAX_RETRIES", 3)
	v.SetDefault("GITHUB_INITIAL_BACKOFF", "1s")
	v.SetDefault("GITHUB_MAX_BACKOFF", "60s")

	v.SetDefault("HF_BASE_URL", "https://huggingface.co")
	v.SetDefault("HF_TOKEN", "")
	v.SetDefault("HF_TIMEOUT", "20s")

	v.SetDefault("GEN_AI_STUDIO_API_KEY", "")
	v.SetDefault("LLM_BASE_URL", "https://genai.rcac.purdue.edu/api")
	v.SetDefault("LLM_MODEL", "llama4:latest")
	v.SetDefault("LLM_TIMEOUT", "60s")
	v.SetDefault("LLM_MAX_RETRIES", 3)

	v.SetDefault("SCORING_RAMP_UP_MODE", "adoption")
	v.SetDefault("SCORING_SIZE_FLOOR", 0.5)
	v.SetDefault("SCORING_JUDGMENT_ATTEMPTS", 3)
	v.SetDefault("SCORING_METRIC_TIMEOUT", "0s")
	v.SetDefault("SCORING_CONCURRENCY", 4)
	v.SetDefault("SCORING_LINK_TIMEOUT", "10s")

	v.SetDefault("CLONE_DIR", "")
	v.SetDefault("CLONE_TIMEOUT", "120s")

	v.SetDefault("ANALYSIS_FLAKE8", "flake8")
	v.SetDefault("ANALYSIS_LINT_TIMEOUT", "30s")
	v.SetDefault("ANALYSIS_MAX_LINT_FILES", 25)
	v.SetDefault("ANALYSIS_MAX_SCAN_FILES", 100)
	v.SetDefault("ANALYSIS_NAMING_FILES", 10)

	// Env
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Logger: LoggerConfig{
			Level:  loggerLevel(v.GetString("LOGGER_LEVEL"), v.GetString("LOG_LEVEL")),
			Format: v.GetString("LOGGER_FORMAT"),
			File:   v.GetString("LOG_FILE"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: duration(v, "DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Store: StoreConfig{
			Driver: v.GetString("STORE_DRIVER"),
			Path:   v.GetString("STORE_PATH"),
		},
		GitHub: GitHubConfig{
			BaseURL:           v.GetString("GITHUB_BASE_URL"),
			Token:             v.GetString("GITHUB_TOKEN"),
			Timeout:           duration(v, "GITHUB_TIMEOUT", 20*time.Second),
			RequestsPerSecond: v.GetFloat64("GITHUB_REQUESTS_PER_SECOND"),
			MaxRetries:        v.GetUint("GITHUB_MAX_RETRIES"),
			InitialBackoff:    duration(v, "GITHUB_INITIAL_BACKOFF", time.Second),
			MaxBackoff:        duration(v, "GITHUB_MAX_BACKOFF", time.Minute),
		},
		HuggingFace: HuggingFaceConfig{
			BaseURL: v.GetString("HF_BASE_URL"),
			Token:   v.GetString("HF_TOKEN"),
			Timeout: duration(v, "HF_TIMEOUT", 20*time.Second),
		},
		LLM: LLMConfig{
			APIKey:     v.GetString("GEN_AI_STUDIO_API_KEY"),
			BaseURL:    v.GetString("LLM_BASE_URL"),
			Model:      v.GetString("LLM_MODEL"),
			Timeout:    duration(v, "LLM_TIMEOUT", time.Minute),
			MaxRetries: v.GetUint("LLM_MAX_RETRIES"),
		},
		Scoring: ScoringConfig{
			RampUpMode:       v.GetString("SCORING_RAMP_UP_MODE"),
			SizeFloor:        v.GetFloat64("SCORING_SIZE_FLOOR"),
			JudgmentAttempts: v.GetInt("SCORING_JUDGMENT_ATTEMPTS"),
			MetricTimeout:    duration(v, "SCORING_METRIC_TIMEOUT", 0),
			Concurrency:      v.GetInt("SCORING_CONCURRENCY"),
			LinkTimeout:      duration(v, "SCORING_LINK_TIMEOUT", 10*time.Second),
		},
		Clone: CloneConfig{
			Dir:     v.GetString("CLONE_DIR"),
			Timeout: duration(v, "CLONE_TIMEOUT", 2*time.Minute),
		},
		Analysis: AnalysisConfig{
			Flake8Path:   v.GetString("ANALYSIS_FLAKE8"),
			LintTimeout:  duration(v, "ANALYSIS_LINT_TIMEOUT", 30*time.Second),
			MaxLintFiles: v.GetInt("ANALYSIS_MAX_LINT_FILES"),
			MaxScanFiles: v.GetInt("ANALYSIS_MAX_SCAN_FILES"),
			NamingFiles:  v.GetInt("ANALYSIS_NAMING_FILES"),
		},
	}

	switch cfg.Store.Driver {
	case StoreDriverPostgres, StoreDriverBadger:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}

	return cfg, nil
}

func duration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return fallback
	}
	return d
}

// loggerLevel prefers the numeric LOG_LEVEL (0 silent, 1 info, 2 debug) when set.
func loggerLevel(named, numeric string) string {
	switch numeric {
	case "0":
		return "panic"
	case "1":
		return "info"
	case "2":
		return "debug"
	}
	return named
}
