package domain

import (
	"errors"
	"fmt"
)

// Default labels applied by the corpus loader.
const (
	DefaultTopic      = "misc"
	DefaultDifficulty = "medium"
	DefaultCompany    = "general"
	UnknownLabel      = "Unknown"
)

// Question is one row of the question corpus. Text is always normalized.
type Question struct {
	Text       string
	Topic      string
	Difficulty string
	Company    string
	// Row is the 1-based data row in the source file.
	Row    int
	Source string
}

// Field names a labelled attribute of a Question.
type Field string

const (
	FieldTopic      Field = "topic"
	FieldDifficulty Field = "difficulty"
	FieldCompany    Field = "company"
)

// Label returns the value of the given attribute.
func (q Question) Label(f Field) string {
	switch f {
	case FieldTopic:
		return q.Topic
	case FieldDifficulty:
		return q.Difficulty
	case FieldCompany:
		return q.Company
	}
	return ""
}

// Match is a corpus record together with its similarity to a query.
type Match struct {
	Index    int
	Question Question
	Score    float64
}

// CompanyPrediction is either an available label, unavailable (no company
// model was trained) or unknown (suppressed by the similarity gate).
type CompanyPrediction struct {
	state companyState
	label string
}

type companyState int

const (
	companyUnavailable companyState = iota
	companyAvailable
	companyUnknown
)

// CompanyAvailable wraps a predicted company label.
func CompanyAvailable(label string) CompanyPrediction {
	return CompanyPrediction{state: companyAvailable, label: label}
}

// CompanyUnavailable reports that no company classifier exists.
func CompanyUnavailable() CompanyPrediction { return CompanyPrediction{state: companyUnavailable} }

// CompanyUnknown reports a company suppressed by the similarity gate.
func CompanyUnknown() CompanyPrediction { return CompanyPrediction{state: companyUnknown} }

// Label returns the predicted label and whether one is available.
func (c CompanyPrediction) Label() (string, bool) {
	return c.label, c.state == companyAvailable
}

// Available reports whether a company label was predicted.
func (c CompanyPrediction) Available() bool { return c.state == companyAvailable }

// String renders the prediction the way it is shown to users.
func (c CompanyPrediction) String() string {
	switch c.state {
	case companyAvailable:
		return c.label
	case companyUnknown:
		return UnknownLabel
	default:
		return "unavailable"
	}
}

// QueryResult is produced once per submitted question.
type QueryResult struct {
	Query      string
	Topic      string
	Difficulty string
	Company    CompanyPrediction
	BestMatch  Match
	// Similar holds the top ranked records and is empty when the gate fails.
	Similar []Match
	// Confident is true when the best score reached the threshold.
	Confident bool
}

// Vectorizer converts normalized text into a numeric vector representation.
// Implementations require a fitting phase over the corpus.
type Vectorizer interface {
	Fit(corpus []string) error
	Dimension() int
	Transform(text string) ([]float64, error)
}

// Classifier predicts a label for normalized text.
type Classifier interface {
	Predict(text string) (string, error)
}

// Ranker orders every corpus record by similarity to normalized text.
type Ranker interface {
	Rank(text string) ([]Match, error)
}

var (
	// ErrDataLoad marks failures reading or validating the corpus source.
	ErrDataLoad = errors.New("data load error")
	// ErrEmptyQuery is returned when a query is empty after normalization.
	ErrEmptyQuery = errors.New("empty query")
	// ErrUnfitted is returned when a model is used before it was fitted.
	ErrUnfitted = errors.New("model not fitted")
)

// DataLoadError describes why the corpus source could not be loaded.
type DataLoadError struct {
	Path string
	Err  error
}

func (e *DataLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", ErrDataLoad, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrDataLoad, e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() []error { return []error{ErrDataLoad, e.Err} }
