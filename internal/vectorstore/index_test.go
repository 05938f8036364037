package vectorstore_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewbot/internal/domain"
	"interviewbot/internal/embedding/tfidf"
	"interviewbot/internal/vectorstore"
	"interviewbot/internal/vectorstore/memory"
)

func buildIndex(t *testing.T, texts ...string) *vectorstore.Index {
	t.Helper()
	qs := make([]domain.Question, len(texts))
	for i, text := range texts {
		qs[i] = domain.Question{Text: text, Topic: "misc", Difficulty: "medium", Company: "general"}
	}
	ix, err := vectorstore.NewIndex(domain.NewCorpus(qs), tfidf.New(tfidf.Options{MaxFeatures: tfidf.DefaultMaxFeatures}), memory.NewStorage(), nil)
	require.NoError(t, err)
	return ix
}

func TestIndex_RanksBySimilarity(t *testing.T) {
	ix := buildIndex(t,
		"reverse a linked list",
		"what is a binary search tree",
		"binary search on a sorted array",
	)
	ranked, err := ix.Rank("binary search tree definition")
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, 1, ranked[0].Index)
	assert.Equal(t, "what is a binary search tree", ranked[0].Question.Text)
	assert.Equal(t, 2, ranked[1].Index)
	assert.Equal(t, 0, ranked[2].Index)
	assert.Zero(t, ranked[2].Score)
	assert.GreaterOrEqual(t, ranked[0].Score, 0.3)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
}

func TestIndex_Deterministic(t *testing.T) {
	ix := buildIndex(t, "two sum", "three sum", "sum of subarrays", "two pointers")
	first, err := ix.Rank("two sum problem")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := ix.Rank("two sum problem")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestIndex_TieBreakKeepsCorpusOrder(t *testing.T) {
	ix := buildIndex(t, "design a cache", "lru cache eviction", "lru cache eviction", "unrelated graph")
	ranked, err := ix.Rank("lru cache eviction")
	require.NoError(t, err)
	assert.Equal(t, 1, ranked[0].Index)
	assert.Equal(t, 2, ranked[1].Index)
	assert.Equal(t, ranked[0].Score, ranked[1].Score)
	assert.InDelta(t, 1.0, ranked[0].Score, 1e-9)

	// all-zero scores fall back to corpus order
	ranked, err = ix.Rank("quantum entanglement")
	require.NoError(t, err)
	for i, m := range ranked {
		assert.Equal(t, i, m.Index)
		assert.Zero(t, m.Score)
	}
}

func TestIndex_BestAndTopK(t *testing.T) {
	ix := buildIndex(t, "a heap", "heap sort", "merge sort", "quick sort", "bubble sort", "counting sort", "radix sort")
	best, err := ix.Best("sort")
	require.NoError(t, err)
	assert.Contains(t, best.Question.Text, "sort")

	top, err := ix.TopK("sort", 5)
	require.NoError(t, err)
	require.Len(t, top, 5)
	assert.Equal(t, best, top[0])

	top, err = ix.TopK("sort", 50)
	require.NoError(t, err)
	assert.Len(t, top, 7)
}

func TestIndex_Unbuilt(t *testing.T) {
	var ix *vectorstore.Index
	_, err := ix.Rank("x")
	assert.True(t, errors.Is(err, domain.ErrUnfitted))
}

func TestHead(t *testing.T) {
	ms := []domain.Match{{Index: 0}, {Index: 1}}
	assert.Len(t, vectorstore.Head(ms, 5), 2)
	assert.Len(t, vectorstore.Head(ms, 1), 1)
	assert.Empty(t, vectorstore.Head(ms, -1))
}
