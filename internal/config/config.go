package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvCorpus   = "INTERVIEWBOT_CORPUS"
	EnvLogLevel = "INTERVIEWBOT_LOG_LEVEL"
)

// ColumnsConfig names the corpus header columns.
type ColumnsConfig struct {
	Question   string `yaml:"question"`
	Topic      string `yaml:"topic"`
	Difficulty string `yaml:"difficulty"`
	Company    string `yaml:"company"`
}

// CorpusConfig locates the question dataset.
type CorpusConfig struct {
	// Path is a CSV/TSV file or a doublestar glob.
	Path    string        `yaml:"path"`
	Columns ColumnsConfig `yaml:"columns"`
}

// VectorizerConfig configures every TF-IDF transform.
type VectorizerConfig struct {
	MaxFeatures int  `yaml:"max_features"`
	StopWords   bool `yaml:"stop_words"`
}

// ClassifierConfig configures the topic, difficulty and company models.
type ClassifierConfig struct {
	LogisticMaxIter int     `yaml:"logistic_max_iter"`
	LogisticC       float64 `yaml:"logistic_c"`
	ForestTrees     int     `yaml:"forest_trees"`
	Seed            uint64  `yaml:"seed"`
}

// SimilarityConfig configures the similarity gate.
type SimilarityConfig struct {
	Threshold float64 `yaml:"threshold"`
	TopK      int     `yaml:"top_k"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level string `yaml:"level"`
	// File receives logs while the TUI owns the terminal. Empty discards them.
	File string `yaml:"file"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Corpus     CorpusConfig     `yaml:"corpus"`
	Vectorizer VectorizerConfig `yaml:"vectorizer"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Similarity SimilarityConfig `yaml:"similarity"`
	Log        LogConfig        `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(cfg)
	applyEnv(cfg)
	return cfg, cfg.Validate()
}

// LoadDefault tries ./config.yaml first, then ~/.config/interviewbot/config.yaml.
// If neither exists, it writes defaults to ~/.config/interviewbot/config.yaml and returns them.
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
	applyEnv(cfg)
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

// Validate rejects settings the engine cannot run with.
func (c *AppConfig) Validate() error {
	if c.Similarity.Threshold < 0 || c.Similarity.Threshold > 1 {
		return fmt.Errorf("similarity.threshold must be within [0,1], got %v", c.Similarity.Threshold)
	}
	if c.Similarity.TopK <= 0 {
		return fmt.Errorf("similarity.top_k must be positive, got %d", c.Similarity.TopK)
	}
	if c.Vectorizer.MaxFeatures <= 0 {
		return fmt.Errorf("vectorizer.max_features must be positive, got %d", c.Vectorizer.MaxFeatures)
	}
	if c.Classifier.LogisticC <= 0 {
		return fmt.Errorf("classifier.logistic_c must be positive, got %v", c.Classifier.LogisticC)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "interviewbot", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Corpus: CorpusConfig{
			Path: "interview_data.csv",
			Columns: ColumnsConfig{
				Question:   "Question",
				Topic:      "Topic",
				Difficulty: "Difficulty",
				Company:    "Company",
			},
		},
		Vectorizer: VectorizerConfig{MaxFeatures: 1000},
		Classifier: ClassifierConfig{LogisticMaxIter: 200, LogisticC: 1.0, ForestTrees: 100, Seed: 42},
		Similarity: SimilarityConfig{Threshold: 0.3, TopK: 5},
		Log:        LogConfig{Level: "info"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	d := defaultConfig()
	if cfg.Corpus.Columns.Question == "" {
		cfg.Corpus.Columns.Question = d.Corpus.Columns.Question
	}
	if cfg.Vectorizer.MaxFeatures == 0 {
		cfg.Vectorizer.MaxFeatures = d.Vectorizer.MaxFeatures
	}
	if cfg.Classifier.LogisticMaxIter == 0 {
		cfg.Classifier.LogisticMaxIter = d.Classifier.LogisticMaxIter
	}
	if cfg.Classifier.ForestTrees == 0 {
		cfg.Classifier.ForestTrees = d.Classifier.ForestTrees
	}
	if cfg.Similarity.TopK == 0 {
		cfg.Similarity.TopK = d.Similarity.TopK
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = d.Log.Level
	}
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv(EnvCorpus); v != "" {
		cfg.Corpus.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}
