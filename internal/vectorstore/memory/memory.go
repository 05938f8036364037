package memory

import (
	"errors"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"

	"interviewbot/internal/domain"
)

// Storage is a simple in-memory vector store using brute-force cosine similarity.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	questions []domain.Question
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	s.questions = nil
	return nil
}

// Upsert appends records; their position in the store is their corpus index.
func (s *Storage) Upsert(questions []domain.Question, vectors [][]float64) error {
	if len(questions) != len(vectors) {
		return errors.New("questions and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.questions = append(s.questions, questions...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Rank scores every stored record against vector, highest first. Equal
// scores keep insertion order.
func (s *Storage) Rank(vector []float64) ([]domain.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(vector) != s.dimension {
		return nil, errors.New("vector dimension mismatch")
	}
	// vectors are L2-normalized, so the dot product is the cosine
	results := make([]domain.Match, len(s.vectors))
	for i := range s.vectors {
		results[i] = domain.Match{Index: i, Question: s.questions[i], Score: floats.Dot(s.vectors[i], vector)}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results, nil
}

func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions)
}

func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	s.questions = nil
	return nil
}
