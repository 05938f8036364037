// Package classifier fits the text classifiers that label interview
// questions by topic, difficulty and company.
package classifier

import (
	"errors"
	"fmt"
	"sort"

	"interviewbot/internal/domain"
	"interviewbot/internal/embedding/tfidf"
)

var errUnfittedEstimator = fmt.Errorf("estimator: %w", domain.ErrUnfitted)

type estimator interface {
	fit(X [][]float64, y []int, k int) error
	predictProba(x []float64) ([]float64, error)
}

// Pipeline chains a TF-IDF vectorizer with an estimator. Each pipeline owns
// its vectorizer and fits it on its own.
type Pipeline struct {
	vectorizer *tfidf.Vectorizer
	est        estimator
	classes    []string
	fitted     bool
}

var _ domain.Classifier = (*Pipeline)(nil)

// NewLogisticPipeline builds an unfitted TF-IDF + logistic regression pipeline.
func NewLogisticPipeline(vec tfidf.Options, opts LogisticOptions) *Pipeline {
	return &Pipeline{vectorizer: tfidf.New(vec), est: NewLogistic(opts)}
}

// NewForestPipeline builds an unfitted TF-IDF + random forest pipeline.
func NewForestPipeline(vec tfidf.Options, opts ForestOptions) *Pipeline {
	return &Pipeline{vectorizer: tfidf.New(vec), est: NewForest(opts)}
}

// Fit trains the pipeline on normalized texts and their labels. With a
// single distinct label the pipeline becomes a constant predictor.
func (p *Pipeline) Fit(texts, labels []string) error {
	if len(texts) == 0 {
		return errors.New("no training texts")
	}
	if len(texts) != len(labels) {
		return fmt.Errorf("got %d texts and %d labels", len(texts), len(labels))
	}
	p.classes = distinctSorted(labels)
	if len(p.classes) < 2 {
		p.fitted = true
		return nil
	}
	index := make(map[string]int, len(p.classes))
	for i, c := range p.classes {
		index[c] = i
	}
	y := make([]int, len(labels))
	for i, l := range labels {
		y[i] = index[l]
	}
	X, err := p.vectorizer.FitTransform(texts)
	if err != nil {
		return fmt.Errorf("vectorize: %w", err)
	}
	if err := p.est.fit(X, y, len(p.classes)); err != nil {
		return err
	}
	p.fitted = true
	return nil
}

// Classes returns the known labels in sorted order.
func (p *Pipeline) Classes() []string {
	return append([]string(nil), p.classes...)
}

// Predict returns the most probable label for normalized text. Ties go to
// the label that sorts first.
func (p *Pipeline) Predict(text string) (string, error) {
	if !p.fitted {
		return "", domain.ErrUnfitted
	}
	if len(p.classes) == 1 {
		return p.classes[0], nil
	}
	x, err := p.vectorizer.Transform(text)
	if err != nil {
		return "", err
	}
	proba, err := p.est.predictProba(x)
	if err != nil {
		return "", err
	}
	best := 0
	for c := 1; c < len(proba); c++ {
		if proba[c] > proba[best] {
			best = c
		}
	}
	return p.classes[best], nil
}

func distinctSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0)
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
