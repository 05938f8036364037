package summarizer

import (
	"fmt"
	"sort"
	"strings"

	"interviewbot/internal/domain"
)

// LabelSummarizer ranks corpus labels by frequency and renders a one-line digest.
type LabelSummarizer struct {
	fields []domain.Field
}

// NewLabelSummarizer creates a summarizer over topic, difficulty and company.
func NewLabelSummarizer() *LabelSummarizer {
	return &LabelSummarizer{fields: []domain.Field{domain.FieldTopic, domain.FieldDifficulty, domain.FieldCompany}}
}

// LabelCount is one label and how many records carry it.
type LabelCount struct {
	Label string
	Count int
}

// Counts returns label frequencies for a field, most frequent first.
// Equal counts are ordered by label.
func Counts(c *domain.Corpus, f domain.Field) []LabelCount {
	freq := map[string]int{}
	for _, l := range c.Labels(f) {
		freq[l]++
	}
	out := make([]LabelCount, 0, len(freq))
	for l, n := range freq {
		out = append(out, LabelCount{Label: l, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Summarize returns a digest such as
// "42 questions · topic: arrays 12, graphs 9 · difficulty: medium 20".
// At most maxLabels labels are listed per field. A field whose only value
// is the loader default is omitted.
func (s *LabelSummarizer) Summarize(c *domain.Corpus, maxLabels int) string {
	if maxLabels <= 0 {
		maxLabels = 3
	}
	parts := []string{fmt.Sprintf("%d questions", c.Len())}
	for _, f := range s.fields {
		counts := Counts(c, f)
		if len(counts) == 1 && counts[0].Label == defaultFor(f) {
			continue
		}
		if len(counts) > maxLabels {
			counts = counts[:maxLabels]
		}
		items := make([]string, len(counts))
		for i, lc := range counts {
			items[i] = fmt.Sprintf("%s %d", lc.Label, lc.Count)
		}
		parts = append(parts, string(f)+": "+strings.Join(items, ", "))
	}
	return strings.Join(parts, " · ")
}

func defaultFor(f domain.Field) string {
	switch f {
	case domain.FieldTopic:
		return domain.DefaultTopic
	case domain.FieldDifficulty:
		return domain.DefaultDifficulty
	}
	return domain.DefaultCompany
}
