package classifier

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewbot/internal/domain"
	"interviewbot/internal/embedding/tfidf"
)

var toyTexts = []string{
	"reverse a linked list",
	"detect a cycle in a linked list",
	"merge two sorted linked lists",
	"insert into a binary search tree",
	"check if a binary tree is balanced",
	"lowest common ancestor of a binary tree",
	"knapsack with dynamic programming",
	"longest common subsequence dynamic programming",
	"coin change dynamic programming",
}

var toyTopics = []string{
	"linked list", "linked list", "linked list",
	"tree", "tree", "tree",
	"dp", "dp", "dp",
}

func vecOpts() tfidf.Options { return tfidf.Options{MaxFeatures: tfidf.DefaultMaxFeatures} }

func TestLogisticPipeline_SeparatesTopics(t *testing.T) {
	p := NewLogisticPipeline(vecOpts(), DefaultLogisticOptions())
	require.NoError(t, p.Fit(toyTexts, toyTopics))
	assert.Equal(t, []string{"dp", "linked list", "tree"}, p.Classes())

	tests := []struct {
		query string
		want  string
	}{
		{"reverse a doubly linked list", "linked list"},
		{"height of a binary tree", "tree"},
		{"dynamic programming on subsequences", "dp"},
	}
	for _, tt := range tests {
		got, err := p.Predict(tt.query)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.query)
	}
}

func TestLogisticPipeline_Binary(t *testing.T) {
	texts := []string{"binary search tree", "validate binary search tree", "process scheduling", "virtual memory paging"}
	labels := []string{"DS", "DS", "OS", "OS"}
	p := NewLogisticPipeline(vecOpts(), DefaultLogisticOptions())
	require.NoError(t, p.Fit(texts, labels))

	got, err := p.Predict("binary search tree definition")
	require.NoError(t, err)
	assert.Equal(t, "DS", got)

	got, err = p.Predict("paging and memory")
	require.NoError(t, err)
	assert.Equal(t, "OS", got)
}

func TestForestPipeline_RecallsTrainingLabels(t *testing.T) {
	p := NewForestPipeline(vecOpts(), DefaultForestOptions())
	require.NoError(t, p.Fit(toyTexts, toyTopics))
	for i, text := range toyTexts {
		got, err := p.Predict(text)
		require.NoError(t, err)
		assert.Equal(t, toyTopics[i], got, text)
	}
}

func TestForestPipeline_DeterministicForSeed(t *testing.T) {
	a := NewForestPipeline(vecOpts(), DefaultForestOptions())
	b := NewForestPipeline(vecOpts(), DefaultForestOptions())
	require.NoError(t, a.Fit(toyTexts, toyTopics))
	require.NoError(t, b.Fit(toyTexts, toyTopics))
	for _, q := range []string{"tree linked", "programming list", "unrelated words entirely"} {
		pa, err := a.Predict(q)
		require.NoError(t, err)
		pb, err := b.Predict(q)
		require.NoError(t, err)
		assert.Equal(t, pa, pb, q)
	}
}

func TestPipeline_SingleLabelIsConstant(t *testing.T) {
	for _, p := range []*Pipeline{
		NewLogisticPipeline(vecOpts(), DefaultLogisticOptions()),
		NewForestPipeline(vecOpts(), DefaultForestOptions()),
	} {
		require.NoError(t, p.Fit([]string{"reverse a linked list", "two sum"}, []string{"easy", "easy"}))
		got, err := p.Predict("explain quantum entanglement")
		require.NoError(t, err)
		assert.Equal(t, "easy", got)
	}
}

func TestPipeline_Errors(t *testing.T) {
	p := NewLogisticPipeline(vecOpts(), DefaultLogisticOptions())
	_, err := p.Predict("anything")
	assert.True(t, errors.Is(err, domain.ErrUnfitted))

	require.Error(t, p.Fit(nil, nil))
	require.Error(t, p.Fit([]string{"a b"}, []string{"x", "y"}))

	_, err = NewForest(DefaultForestOptions()).predictProba([]float64{1})
	assert.True(t, errors.Is(err, domain.ErrUnfitted))
	_, err = NewLogistic(DefaultLogisticOptions()).predictProba([]float64{1})
	assert.True(t, errors.Is(err, domain.ErrUnfitted))
}

func TestLogistic_ProbabilitiesSumToOne(t *testing.T) {
	X := [][]float64{{1, 0}, {0, 1}, {1, 1}}
	m := NewLogistic(DefaultLogisticOptions())
	require.NoError(t, m.fit(X, []int{0, 1, 2}, 3))
	p, err := m.predictProba([]float64{1, 0})
	require.NoError(t, err)
	require.Len(t, p, 3)
	assert.InDelta(t, 1.0, p[0]+p[1]+p[2], 1e-9)
	assert.Greater(t, p[0], p[1])

	_, err = m.predictProba([]float64{1})
	require.Error(t, err)
}

func TestBank_CompanyModelOnlyWithSeveralCompanies(t *testing.T) {
	single := domain.NewCorpus([]domain.Question{
		{Text: "reverse a linked list", Topic: "LL", Difficulty: "easy", Company: "general"},
		{Text: "binary search tree", Topic: "DS", Difficulty: "medium", Company: "general"},
	})
	b, err := NewBank(single, DefaultBankOptions())
	require.NoError(t, err)
	assert.False(t, b.HasCompany())
	cp, err := b.PredictCompany("reverse a linked list")
	require.NoError(t, err)
	assert.False(t, cp.Available())
	assert.Equal(t, "unavailable", cp.String())

	multi := domain.NewCorpus([]domain.Question{
		{Text: "reverse a linked list", Topic: "LL", Difficulty: "easy", Company: "Amazon"},
		{Text: "design amazon locker", Topic: "Design", Difficulty: "hard", Company: "Amazon"},
		{Text: "binary search tree", Topic: "DS", Difficulty: "medium", Company: "Google"},
		{Text: "google search autocomplete", Topic: "Design", Difficulty: "hard", Company: "Google"},
	})
	b, err = NewBank(multi, DefaultBankOptions())
	require.NoError(t, err)
	assert.True(t, b.HasCompany())
	cp, err = b.PredictCompany("design amazon locker")
	require.NoError(t, err)
	label, ok := cp.Label()
	assert.True(t, ok)
	assert.Equal(t, "Amazon", label)
}

func TestBank_NilIsUnfitted(t *testing.T) {
	var b *Bank
	_, err := b.PredictTopic("x")
	assert.True(t, errors.Is(err, domain.ErrUnfitted))
	_, err = b.PredictDifficulty("x")
	assert.True(t, errors.Is(err, domain.ErrUnfitted))
	_, err = b.PredictCompany("x")
	assert.True(t, errors.Is(err, domain.ErrUnfitted))
}
