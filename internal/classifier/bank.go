package classifier

import (
	"fmt"
	"log/slog"
	"time"

	"interviewbot/internal/domain"
	"interviewbot/internal/embedding/tfidf"
)

// BankOptions configures the three classifiers.
type BankOptions struct {
	Vectorizer tfidf.Options
	Logistic   LogisticOptions
	Forest     ForestOptions
	Logger     *slog.Logger
}

// DefaultBankOptions returns the standard configuration.
func DefaultBankOptions() BankOptions {
	return BankOptions{
		Vectorizer: tfidf.Options{MaxFeatures: tfidf.DefaultMaxFeatures},
		Logistic:   DefaultLogisticOptions(),
		Forest:     DefaultForestOptions(),
	}
}

// Bank holds the fitted topic, difficulty and optional company classifiers.
type Bank struct {
	topic      domain.Classifier
	difficulty domain.Classifier
	company    domain.Classifier // nil when the corpus names a single company
}

// NewBank fits every classifier on the corpus. The company classifier is
// only trained when the corpus has more than one distinct company.
func NewBank(c *domain.Corpus, opts BankOptions) (*Bank, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	texts := c.Texts()

	fit := func(name string, p *Pipeline, f domain.Field) error {
		start := time.Now()
		if err := p.Fit(texts, c.Labels(f)); err != nil {
			return fmt.Errorf("fit %s classifier: %w", name, err)
		}
		logger.Info("classifier fitted", "target", name, "classes", len(p.Classes()), "took", time.Since(start))
		return nil
	}

	topic := NewLogisticPipeline(opts.Vectorizer, opts.Logistic)
	if err := fit("topic", topic, domain.FieldTopic); err != nil {
		return nil, err
	}
	difficulty := NewForestPipeline(opts.Vectorizer, opts.Forest)
	if err := fit("difficulty", difficulty, domain.FieldDifficulty); err != nil {
		return nil, err
	}
	b := &Bank{topic: topic, difficulty: difficulty}

	if len(c.Distinct(domain.FieldCompany)) > 1 {
		company := NewLogisticPipeline(opts.Vectorizer, opts.Logistic)
		if err := fit("company", company, domain.FieldCompany); err != nil {
			return nil, err
		}
		b.company = company
	} else {
		logger.Info("company classifier skipped", "reason", "single company")
	}
	return b, nil
}

// HasCompany reports whether a company classifier was trained.
func (b *Bank) HasCompany() bool { return b.company != nil }

// PredictTopic labels normalized text with a topic.
func (b *Bank) PredictTopic(text string) (string, error) {
	if b == nil || b.topic == nil {
		return "", domain.ErrUnfitted
	}
	return b.topic.Predict(text)
}

// PredictDifficulty labels normalized text with a difficulty.
func (b *Bank) PredictDifficulty(text string) (string, error) {
	if b == nil || b.difficulty == nil {
		return "", domain.ErrUnfitted
	}
	return b.difficulty.Predict(text)
}

// PredictCompany guesses the company, or reports it unavailable.
func (b *Bank) PredictCompany(text string) (domain.CompanyPrediction, error) {
	if b == nil {
		return domain.CompanyUnavailable(), domain.ErrUnfitted
	}
	if b.company == nil {
		return domain.CompanyUnavailable(), nil
	}
	label, err := b.company.Predict(text)
	if err != nil {
		return domain.CompanyUnavailable(), err
	}
	return domain.CompanyAvailable(label), nil
}
