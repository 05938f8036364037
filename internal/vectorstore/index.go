package vectorstore

import (
	"errors"
	"fmt"
	"log/slog"

	"interviewbot/internal/domain"
)

// Index is the similarity index: a vectorizer fitted over the corpus plus
// the vector of every record, stored in corpus order.
type Index struct {
	vectorizer domain.Vectorizer
	store      Storage
	built      bool
}

var _ domain.Ranker = (*Index)(nil)

// NewIndex fits vectorizer over the corpus and stores every record's vector.
func NewIndex(c *domain.Corpus, vectorizer domain.Vectorizer, store Storage, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.Default()
	}
	texts := c.Texts()
	if err := vectorizer.Fit(texts); err != nil {
		return nil, fmt.Errorf("fit similarity vectorizer: %w", err)
	}
	if err := store.Init(vectorizer.Dimension()); err != nil {
		return nil, err
	}
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := vectorizer.Transform(text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	if err := store.Clear(); err != nil {
		return nil, err
	}
	if err := store.Upsert(c.Questions(), vectors); err != nil {
		return nil, err
	}
	logger.Info("similarity index built", "records", store.Len(), "vocab", vectorizer.Dimension())
	return &Index{vectorizer: vectorizer, store: store, built: true}, nil
}

// Rank returns every record ordered by descending cosine similarity to
// normalized text; ties keep corpus order.
func (ix *Index) Rank(text string) ([]domain.Match, error) {
	if ix == nil || !ix.built {
		return nil, domain.ErrUnfitted
	}
	vec, err := ix.vectorizer.Transform(text)
	if err != nil {
		return nil, err
	}
	ranked, err := ix.store.Rank(vec)
	if err != nil {
		return nil, err
	}
	for i := range ranked {
		ranked[i].Score = clamp01(ranked[i].Score)
	}
	return ranked, nil
}

// Best returns the most similar record.
func (ix *Index) Best(text string) (domain.Match, error) {
	ranked, err := ix.Rank(text)
	if err != nil {
		return domain.Match{}, err
	}
	if len(ranked) == 0 {
		return domain.Match{}, errors.New("similarity index is empty")
	}
	return ranked[0], nil
}

// TopK returns the k most similar records.
func (ix *Index) TopK(text string, k int) ([]domain.Match, error) {
	ranked, err := ix.Rank(text)
	if err != nil {
		return nil, err
	}
	return Head(ranked, k), nil
}

// Head returns at most the first k elements of a ranking.
func Head(ranked []domain.Match, k int) []domain.Match {
	if k < 0 {
		k = 0
	}
	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
