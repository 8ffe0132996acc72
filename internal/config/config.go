package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LogConfig controls the logrus output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SegmenterConfig selects the sentence segmenter.
type SegmenterConfig struct {
	Type string `yaml:"type"`
}

// RankerConfig tunes the centrality ranking.
type RankerConfig struct {
	TopK          *int    `yaml:"top_k,omitempty"`
	Damping       float64 `yaml:"damping"`
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"max_iterations"`
	MaxSentences  int     `yaml:"max_sentences"`
	Workers       int     `yaml:"workers"`
	Order         string  `yaml:"order"`
	Stopwords     *bool   `yaml:"stopwords,omitempty"`
}

// OpenAIGeneratorConfig holds configuration for the OpenAI-compatible generator.
type OpenAIGeneratorConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries"`
	Temperature float32 `yaml:"temperature"`
}

// GeneratorConfig selects and configures the abstractive generator.
type GeneratorConfig struct {
	Type       string                 `yaml:"type"`
	ChunkChars int                    `yaml:"chunk_chars"`
	OpenAI     *OpenAIGeneratorConfig `yaml:"openai,omitempty"`
}

// MetricsConfig configures the optional textfile dump.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	DataDir   string          `yaml:"data_dir"`
	ExportDir string          `yaml:"export_dir"`
	Log       LogConfig       `yaml:"log"`
	Segmenter SegmenterConfig `yaml:"segmenter"`
	Ranker    RankerConfig    `yaml:"ranker"`
	Generator GeneratorConfig `yaml:"generator"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// StopwordsEnabled reports whether TF-IDF should drop stopwords. Unset means yes.
func (r RankerConfig) StopwordsEnabled() bool {
	return r.Stopwords == nil || *r.Stopwords
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/provsum/config.yaml.
// If neither exists, it writes defaults to ~/.config/provsum/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects values the ranker or generator cannot run with.
func (c *AppConfig) Validate() error {
	r := c.Ranker
	switch {
	case r.Damping <= 0 || r.Damping >= 1:
		return fmt.Errorf("ranker.damping must be in (0, 1), got %v", r.Damping)
	case r.Tolerance <= 0:
		return fmt.Errorf("ranker.tolerance must be positive, got %v", r.Tolerance)
	case r.MaxIterations < 1:
		return fmt.Errorf("ranker.max_iterations must be at least 1, got %d", r.MaxIterations)
	case r.TopK != nil && *r.TopK < 0:
		return fmt.Errorf("ranker.top_k must not be negative, got %d", *r.TopK)
	case r.MaxSentences < 1:
		return fmt.Errorf("ranker.max_sentences must be at least 1, got %d", r.MaxSentences)
	case r.Workers < 0:
		return fmt.Errorf("ranker.workers must not be negative, got %d", r.Workers)
	}
	switch r.Order {
	case "score", "document":
	default:
		return fmt.Errorf("ranker.order must be score or document, got %q", r.Order)
	}
	switch c.Segmenter.Type {
	case "regex", "prose":
	default:
		return fmt.Errorf("unknown segmenter type %q", c.Segmenter.Type)
	}
	switch c.Generator.Type {
	case "frequency", "openai":
	default:
		return fmt.Errorf("unknown generator type %q", c.Generator.Type)
	}
	if c.Generator.ChunkChars < 1 {
		return fmt.Errorf("generator.chunk_chars must be at least 1, got %d", c.Generator.ChunkChars)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "provsum", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "exports"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Segmenter.Type == "" {
		cfg.Segmenter.Type = "regex"
	}

	r := &cfg.Ranker
	// unset means 12; an explicit 0 selects nothing
	if r.TopK == nil {
		topK := 12
		r.TopK = &topK
	}
	if r.Damping == 0 {
		r.Damping = 0.85
	}
	if r.Tolerance == 0 {
		r.Tolerance = 1e-6
	}
	if r.MaxIterations == 0 {
		r.MaxIterations = 100
	}
	if r.MaxSentences == 0 {
		r.MaxSentences = 2000
	}
	if r.Order == "" {
		r.Order = "score"
	}

	if cfg.Generator.Type == "" {
		cfg.Generator.Type = "frequency"
	}
	if cfg.Generator.ChunkChars == 0 {
		cfg.Generator.ChunkChars = 2000
	}
	if cfg.Generator.Type == "openai" {
		if cfg.Generator.OpenAI == nil {
			cfg.Generator.OpenAI = &OpenAIGeneratorConfig{}
		}
		o := cfg.Generator.OpenAI
		if o.BaseURL == "" {
			o.BaseURL = "https://api.openai.com/v1"
		}
		if o.APIKeyEnv == "" {
			o.APIKeyEnv = "OPENAI_API_KEY"
		}
		if o.Model == "" {
			o.Model = "gpt-4o-mini"
		}
		if o.TimeoutSecs == 0 {
			o.TimeoutSecs = 60
		}
		if o.MaxRetries == 0 {
			o.MaxRetries = 3
		}
	}
}
