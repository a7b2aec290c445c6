// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/knowledge-agent/pkg/types"
)

func newPlain(t *testing.T) (*Renderer, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	r, err := New(&buf, true, 80)
	require.NoError(t, err)
	return r, &buf
}

func TestResultsOrderAndShapes(t *testing.T) {
	r, buf := newPlain(t)

	results := types.AnalysisResult{
		types.LensKnowledgeCheck: {
			Lens: types.LensKnowledgeCheck,
			Quiz: &types.Quiz{Questions: []types.QuizQuestion{
				{Question: "Which?", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 2},
			}},
		},
		types.LensSummary: {Lens: types.LensSummary, Content: "Short summary."},
		types.LensConceptMap: {
			Lens:  types.LensConceptMap,
			Graph: &types.Graph{DOT: "digraph {\n  A -> B;\n}", ChartURL: "https://charts.example/?graph=x"},
		},
	}
	require.NoError(t, r.Results(results))
	out := buf.String()

	summary := strings.Index(out, "Summary")
	concept := strings.Index(out, "Concept Map")
	quiz := strings.Index(out, "Knowledge Check")
	require.True(t, summary >= 0 && concept >= 0 && quiz >= 0, out)
	assert.Less(t, summary, concept)
	assert.Less(t, concept, quiz)

	assert.Contains(t, out, "Short summary.")
	assert.Contains(t, out, "A -> B;")
	assert.Contains(t, out, "Chart: https://charts.example/?graph=x")
	assert.Contains(t, out, "Q1. Which?")
	assert.Contains(t, out, "C. c")
	assert.Contains(t, out, "Answer: C")
}

func TestResultWarningShowsRawPayload(t *testing.T) {
	r, buf := newPlain(t)
	require.NoError(t, r.Result(types.LensResult{
		Lens:    types.LensKnowledgeCheck,
		Content: "not json",
		Warning: "Couldn't decode quiz JSON: invalid character",
	}))
	assert.Contains(t, buf.String(), "Couldn't decode quiz JSON")
	assert.Contains(t, buf.String(), "not json")
}

func TestMarkdownStyled(t *testing.T) {
	var buf bytes.Buffer
	r, err := New(&buf, false, 60)
	require.NoError(t, err)
	require.NoError(t, r.Markdown("# Title\n\nSome **bold** text."))
	assert.Contains(t, buf.String(), "Title")
	assert.Contains(t, buf.String(), "bold")
}

func TestCoverageTablePadsShortRows(t *testing.T) {
	out := CoverageTable(&types.Table{
		Header: []string{"Topic", "Source 1", "Source 2"},
		Rows:   [][]string{{"X", "✓,"}, {"Lonely"}},
	})
	for _, want := range []string{"Topic", "Source 1", "Source 2", "X", "✓,", "Lonely"} {
		assert.Contains(t, out, want)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	width := len([]rune(lines[0]))
	for _, l := range lines {
		assert.Equal(t, width, len([]rune(l)), "every line spans the full table width")
	}
}

func TestSourcesTable(t *testing.T) {
	out := SourcesTable([]types.Source{
		{Title: "📝 First", Content: strings.Repeat("a", 40), Kind: types.SourceText, AddedAt: time.Now()},
		{Title: "🔗 Second", Content: "b", Kind: types.SourceURL, AddedAt: time.Now()},
	})
	assert.Contains(t, out, "📝 First")
	assert.Contains(t, out, "🔗 Second")
	assert.Contains(t, out, "10")
	assert.Contains(t, out, "url")
}

func TestLensesTable(t *testing.T) {
	out := LensesTable(types.Lenses())
	for _, info := range types.Lenses() {
		assert.Contains(t, out, string(info.Lens))
	}
	assert.Contains(t, out, "✓")
}
