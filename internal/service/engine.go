package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"interviewbot/internal/classifier"
	"interviewbot/internal/corpus"
	"interviewbot/internal/domain"
	"interviewbot/internal/embedding/tfidf"
	"interviewbot/internal/vectorstore"
	"interviewbot/internal/vectorstore/memory"
)

// Options configures the similarity gate.
type Options struct {
	// Threshold is the minimum best-match score for classifier output to be
	// reported. Scores below it yield Unknown labels.
	Threshold float64
	// TopK is the number of similar questions returned when the gate passes.
	TopK int
}

// DefaultOptions returns the standard gate settings.
func DefaultOptions() Options {
	return Options{Threshold: 0.3, TopK: 5}
}

// Classifiers is the subset of the classifier bank used by the resolver.
type Classifiers interface {
	PredictTopic(text string) (string, error)
	PredictDifficulty(text string) (string, error)
	PredictCompany(text string) (domain.CompanyPrediction, error)
}

// Engine holds the corpus and every fitted model. It is built once at
// startup and only read afterwards.
type Engine struct {
	corpus      *domain.Corpus
	classifiers Classifiers
	index       domain.Ranker
	opts        Options
	logger      *slog.Logger
}

// New assembles an engine from already fitted components.
func New(c *domain.Corpus, classifiers Classifiers, index domain.Ranker, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultOptions().TopK
	}
	return &Engine{corpus: c, classifiers: classifiers, index: index, opts: opts, logger: logger}
}

// BuildOptions configures Build.
type BuildOptions struct {
	Bank       classifier.BankOptions
	Similarity tfidf.Options
	Gate       Options
	Logger     *slog.Logger
}

// DefaultBuildOptions returns the standard model and gate settings.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		Bank:       classifier.DefaultBankOptions(),
		Similarity: tfidf.Options{MaxFeatures: tfidf.DefaultMaxFeatures},
		Gate:       DefaultOptions(),
	}
}

// Build fits the classifier bank and the similarity index over the corpus.
func Build(c *domain.Corpus, opts BuildOptions) (*Engine, error) {
	if c == nil || c.Len() == 0 {
		return nil, &domain.DataLoadError{Err: errors.New("empty corpus")}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	bankOpts := opts.Bank
	bankOpts.Logger = logger
	bank, err := classifier.NewBank(c, bankOpts)
	if err != nil {
		return nil, err
	}
	index, err := vectorstore.NewIndex(c, tfidf.New(opts.Similarity), memory.NewStorage(), logger)
	if err != nil {
		return nil, err
	}
	logger.Info("engine ready", "records", c.Len(), "company_model", bank.HasCompany(), "took", time.Since(start))
	return New(c, bank, index, opts.Gate, logger), nil
}

// Corpus returns the corpus the engine was built over.
func (e *Engine) Corpus() *domain.Corpus { return e.corpus }

// Options returns the gate settings.
func (e *Engine) Options() Options { return e.opts }

// Resolve classifies a raw question and finds similar ones. Classifier
// predictions are always computed; when the best similarity score is
// below the threshold they are replaced by Unknown.
func (e *Engine) Resolve(raw string) (*domain.QueryResult, error) {
	query := corpus.Normalize(raw)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	if e == nil || e.classifiers == nil || e.index == nil {
		return nil, domain.ErrUnfitted
	}

	topic, err := e.classifiers.PredictTopic(query)
	if err != nil {
		return nil, fmt.Errorf("predict topic: %w", err)
	}
	difficulty, err := e.classifiers.PredictDifficulty(query)
	if err != nil {
		return nil, fmt.Errorf("predict difficulty: %w", err)
	}
	company, err := e.classifiers.PredictCompany(query)
	if err != nil {
		return nil, fmt.Errorf("predict company: %w", err)
	}

	ranked, err := e.index.Rank(query)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}
	if len(ranked) == 0 {
		return nil, errors.New("rank: no records")
	}
	best := ranked[0]

	res := &domain.QueryResult{Query: query, BestMatch: best}
	if best.Score < e.opts.Threshold {
		res.Topic = domain.UnknownLabel
		res.Difficulty = domain.UnknownLabel
		res.Company = domain.CompanyUnknown()
		e.logger.Debug("query below threshold", "score", best.Score, "threshold", e.opts.Threshold)
		return res, nil
	}
	res.Confident = true
	res.Topic = topic
	res.Difficulty = difficulty
	res.Company = company
	res.Similar = vectorstore.Head(ranked, e.opts.TopK)
	e.logger.Debug("query resolved", "topic", topic, "difficulty", difficulty, "score", best.Score)
	return res, nil
}
