package domain

import "sort"

// Corpus is the ordered, read-only set of reference questions. Index
// positions are shared by every model fitted over it.
type Corpus struct {
	questions []Question
}

// NewCorpus copies questions into a new corpus.
func NewCorpus(questions []Question) *Corpus {
	qs := make([]Question, len(questions))
	copy(qs, questions)
	return &Corpus{questions: qs}
}

// Len returns the number of records.
func (c *Corpus) Len() int { return len(c.questions) }

// At returns the record at index i.
func (c *Corpus) At(i int) Question { return c.questions[i] }

// Questions returns a copy of all records in corpus order.
func (c *Corpus) Questions() []Question {
	out := make([]Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// Texts returns the normalized text of every record in corpus order.
func (c *Corpus) Texts() []string {
	out := make([]string, len(c.questions))
	for i, q := range c.questions {
		out[i] = q.Text
	}
	return out
}

// Labels returns the given attribute of every record in corpus order.
func (c *Corpus) Labels(f Field) []string {
	out := make([]string, len(c.questions))
	for i, q := range c.questions {
		out[i] = q.Label(f)
	}
	return out
}

// Distinct returns the sorted distinct values of an attribute.
func (c *Corpus) Distinct(f Field) []string {
	seen := make(map[string]struct{})
	for _, q := range c.questions {
		seen[q.Label(f)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
