package vectorstore

import "interviewbot/internal/domain"

// Storage holds question vectors and supports similarity ranking.
type Storage interface {
	Init(dimension int) error
	Upsert(questions []domain.Question, vectors [][]float64) error
	Rank(vector []float64) ([]domain.Match, error)
	Len() int
	Clear() error
}
