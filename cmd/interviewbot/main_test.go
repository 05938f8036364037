package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewbot/internal/domain"
)

const dataset = `Question,Topic,Difficulty
What is a binary search tree,DS,easy
Validate a binary search tree,DS,easy
Explain process scheduling,OS,easy
Virtual memory and paging,OS,easy
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("INTERVIEWBOT_CORPUS", "")
	t.Setenv("INTERVIEWBOT_LOG_LEVEL", "error")
	dir := t.TempDir()
	data := filepath.Join(dir, "interview_data.csv")
	require.NoError(t, os.WriteFile(data, []byte(dataset), 0o644))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", filepath.Join(dir, "missing.yaml"), "--corpus", data}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestAsk_JSONAboveThreshold(t *testing.T) {
	out, err := execute(t, "ask", "--json", "binary search tree definition")
	require.NoError(t, err)

	var got resultJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "DS", got.Topic)
	assert.Equal(t, "easy", got.Difficulty)
	assert.Equal(t, "unavailable", got.Company)
	assert.GreaterOrEqual(t, got.BestMatchScore, 0.3)
	assert.Contains(t, got.Similar, "what is a binary search tree")
	assert.LessOrEqual(t, len(got.Similar), 5)
}

func TestAsk_TextBelowThreshold(t *testing.T) {
	out, err := execute(t, "ask", "explain quantum entanglement", "--threshold", "0.9")
	require.NoError(t, err)
	assert.Contains(t, out, "No exact question found in the database.")
	assert.Contains(t, out, "Topic: Unknown")
	assert.Contains(t, out, "Company: Unknown")
}

func TestAsk_EmptyQuery(t *testing.T) {
	_, err := execute(t, "ask", "   ")
	assert.True(t, errors.Is(err, domain.ErrEmptyQuery))
}

func TestAsk_MissingCorpus(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "--corpus", filepath.Join(t.TempDir(), "nope.csv"), "ask", "x"})
	err := root.Execute()
	assert.True(t, errors.Is(err, domain.ErrDataLoad))
}

func TestStats(t *testing.T) {
	out, err := execute(t, "stats")
	require.NoError(t, err)
	assert.Equal(t, "4 questions · topic: DS 2, OS 2 · difficulty: easy 4\n", out)
}
