package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"interviewbot/internal/classifier"
	"interviewbot/internal/config"
	"interviewbot/internal/corpus"
	"interviewbot/internal/domain"
	"interviewbot/internal/embedding/tfidf"
	"interviewbot/internal/service"
)

// app bundles everything a command needs after startup.
type app struct {
	cfg    *config.AppConfig
	logger *slog.Logger
	corpus *domain.Corpus
	engine *service.Engine
	closer io.Closer
}

func (a *app) Close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

// loadApp reads config and the corpus. When fit is set it also builds the
// engine. quiet routes logs away from the terminal.
func loadApp(cmd *cobra.Command, fit, quiet bool) (*app, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, closer, err := newLogger(cfg.Log, quiet)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, closer: closer}

	c, err := corpus.Load(cfg.Corpus.Path, corpus.LoadOptions{
		Columns: corpus.Columns{
			Question:   cfg.Corpus.Columns.Question,
			Topic:      cfg.Corpus.Columns.Topic,
			Difficulty: cfg.Corpus.Columns.Difficulty,
			Company:    cfg.Corpus.Columns.Company,
		},
		Logger: logger,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.corpus = c
	if !fit {
		return a, nil
	}

	vec := tfidf.Options{MaxFeatures: cfg.Vectorizer.MaxFeatures, StopWords: cfg.Vectorizer.StopWords}
	e, err := service.Build(c, service.BuildOptions{
		Bank: classifier.BankOptions{
			Vectorizer: vec,
			Logistic: classifier.LogisticOptions{
				C:       cfg.Classifier.LogisticC,
				MaxIter: cfg.Classifier.LogisticMaxIter,
			},
			Forest: classifier.ForestOptions{
				Trees: cfg.Classifier.ForestTrees,
				Seed:  cfg.Classifier.Seed,
			},
		},
		Similarity: vec,
		Gate: service.Options{
			Threshold: cfg.Similarity.Threshold,
			TopK:      cfg.Similarity.TopK,
		},
		Logger: logger,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("build engine: %w", err)
	}
	a.engine = e
	return a, nil
}

func bootstrap(cmd *cobra.Command, quiet bool) (*app, error) {
	return loadApp(cmd, true, quiet)
}

// resolveConfig loads the config named by --config (or the default
// locations) and applies command-line overrides.
func resolveConfig(cmd *cobra.Command) (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		cfg, err = config.Load(p)
	} else {
		cfg, _, err = config.LoadDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("corpus"); p != "" {
		cfg.Corpus.Path = p
	}
	if th, _ := cmd.Flags().GetFloat64("threshold"); th >= 0 {
		cfg.Similarity.Threshold = th
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds a text slog logger. When quiet is set logs go to the
// configured file or are discarded.
func newLogger(cfg config.LogConfig, quiet bool) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.Level))); err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	var (
		w      io.Writer = os.Stderr
		closer io.Closer
	)
	switch {
	case cfg.File != "":
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	case quiet:
		w = io.Discard
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closer, nil
}
