package summarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"interviewbot/internal/domain"
)

func corpusOf(labels ...[3]string) *domain.Corpus {
	qs := make([]domain.Question, len(labels))
	for i, l := range labels {
		qs[i] = domain.Question{Text: "q", Topic: l[0], Difficulty: l[1], Company: l[2]}
	}
	return domain.NewCorpus(qs)
}

func TestCounts_OrderedByFrequencyThenLabel(t *testing.T) {
	c := corpusOf(
		[3]string{"graphs", "hard", "general"},
		[3]string{"arrays", "easy", "general"},
		[3]string{"dp", "hard", "general"},
		[3]string{"graphs", "easy", "general"},
	)
	assert.Equal(t, []LabelCount{{"graphs", 2}, {"arrays", 1}, {"dp", 1}}, Counts(c, domain.FieldTopic))
}

func TestSummarize(t *testing.T) {
	c := corpusOf(
		[3]string{"graphs", "hard", "general"},
		[3]string{"arrays", "easy", "general"},
		[3]string{"dp", "hard", "general"},
		[3]string{"graphs", "easy", "general"},
		[3]string{"trees", "medium", "general"},
	)
	got := NewLabelSummarizer().Summarize(c, 2)
	assert.Equal(t, "5 questions · topic: graphs 2, arrays 1 · difficulty: easy 2, hard 2", got)
}

func TestSummarize_IncludesCompanies(t *testing.T) {
	c := corpusOf(
		[3]string{"misc", "medium", "Google"},
		[3]string{"misc", "medium", "Google"},
		[3]string{"misc", "medium", "Meta"},
	)
	got := NewLabelSummarizer().Summarize(c, 0)
	assert.Equal(t, "3 questions · company: Google 2, Meta 1", got)
}
