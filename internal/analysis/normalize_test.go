// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/knowledge-agent/internal/agent"
	"github.com/pdiddy/knowledge-agent/pkg/types"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		resp agent.Response
		want string
	}{
		{"structured", agent.StructuredResponse("X", `{"result":"X"}`), "X"},
		{"result json string", agent.TextResponse(`{"result":"X"}`), "X"},
		{"result json with whitespace", agent.TextResponse("\n  {\"result\": \"X\"}\n"), "X"},
		{"other json", agent.TextResponse(`{"csv":"a,b"}`), `{"csv":"a,b"}`},
		{"result not a string", agent.TextResponse(`{"result": 3}`), `{"result": 3}`},
		{"free text", agent.TextResponse("## Heading"), "## Heading"},
		{"empty", agent.TextResponse(""), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Coerce(tt.resp))
		})
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello", "hello"},
		{"fenced", "```\nhello\n```", "hello"},
		{"language tag", "```markdown\n# Title\n\nBody\n```", "# Title\n\nBody"},
		{"dot tag", "```dot\ndigraph { A -> B; }\n```", "digraph { A -> B; }"},
		{"inline fence", "```hello```", "hello"},
		{"inline fence with json tag", "```json {\"a\":1}```", `{"a":1}`},
		{"inline fence with array body", "```json [1, 2]```", "[1, 2]"},
		{"surrounding whitespace", "  \n```\nhello\n```\n ", "hello"},
		{"nested fences", "```\n```json\n{}\n```\n```", "{}"},
		{"prose around a fence", "Here:\n```\ncode\n```\nDone.", "Here:\n```\ncode\n```\nDone."},
		{"unterminated", "```\nhello", "```\nhello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripFences(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, StripFences(got), "stripping twice must equal stripping once")
		})
	}
}

func TestNormalizeDefaultLenses(t *testing.T) {
	n := Normalizer{}
	for _, lens := range []types.Lens{types.LensSummary, types.LensInDepth, types.LensKeyPoints, types.LensIntersections} {
		t.Run(string(lens), func(t *testing.T) {
			res := n.Normalize(lens, agent.TextResponse("```markdown\n- point\n```"))
			assert.Equal(t, lens, res.Lens)
			assert.Equal(t, "- point", res.Content)
			assert.Nil(t, res.Table)
			assert.Nil(t, res.Quiz)
			assert.Nil(t, res.Graph)
			assert.Empty(t, res.Warning)
		})
	}
}

func TestNormalizeStructuredResult(t *testing.T) {
	res := Normalizer{}.Normalize(types.LensSummary, agent.TextResponse(`{"result":"X"}`))
	assert.Equal(t, "X", res.Content)
}

func TestNormalizeTopicCoverage(t *testing.T) {
	res := Normalizer{}.Normalize(types.LensTopicCoverage,
		agent.TextResponse(`{"csv":"Topic,Source 1,Source 2\nX,✓,\n"}`))

	require.NotNil(t, res.Table)
	assert.Equal(t, []string{"Topic", "Source 1", "Source 2"}, res.Table.Header)
	assert.Equal(t, [][]string{{"X", "✓,"}}, res.Table.Rows)
	assert.Equal(t, "Topic,Source 1,Source 2\nX,✓,", res.Content)
}

func TestNormalizeKnowledgeCheck(t *testing.T) {
	payload := `{"questions":[{"question":"Q?","options":["a","b","c","d"],"correct_index":2}]}`
	res := Normalizer{}.Normalize(types.LensKnowledgeCheck, agent.StructuredResponse(payload, payload))

	require.NotNil(t, res.Quiz)
	require.Len(t, res.Quiz.Questions, 1)
	assert.Equal(t, "C", res.Quiz.Questions[0].Answer())
	assert.Contains(t, res.Content, "**Correct:** C")
	assert.Empty(t, res.Warning)
}

func TestNormalizeKnowledgeCheckDecodeFailure(t *testing.T) {
	res := Normalizer{}.Normalize(types.LensKnowledgeCheck, agent.TextResponse("Here are some questions: 1. ..."))

	assert.Nil(t, res.Quiz)
	assert.Equal(t, "Here are some questions: 1. ...", res.Content)
	assert.True(t, strings.HasPrefix(res.Warning, "Couldn't decode quiz JSON"))
}

func TestNormalizeConceptMap(t *testing.T) {
	res := Normalizer{ChartURL: "https://charts.example/graphviz"}.Normalize(types.LensConceptMap,
		agent.TextResponse("```\nA --> B\nB --> C\n```"))

	require.NotNil(t, res.Graph)
	assert.Contains(t, res.Content, "digraph {")
	assert.Contains(t, res.Content, "A -> B;")
	assert.Contains(t, res.Content, "B -> C;")
	assert.Equal(t, res.Content, res.Graph.DOT)
	assert.True(t, strings.HasPrefix(res.Graph.ChartURL, "https://charts.example/graphviz?graph=digraph%20%7B"))
}

func TestNormalizeConceptMapWithProse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "fenced digraph between prose",
			content: "Here is the concept map:\n```dot\ndigraph {\n  A -> B;\n}\n```\nLet me know if you need more.",
			want:    "digraph {\n  A -> B;\n}",
		},
		{
			name:    "fenced arrows after prose",
			content: "Here you go:\n```\nA --> B\n```",
			want:    "digraph {\n  A -> B;\n}",
		},
		{
			name:    "unfenced digraph between prose",
			content: "Sure.\ndigraph G {\n  A -> B;\n}\nHope this helps.",
			want:    "digraph G {\n  A -> B;\n}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Normalizer{}.Normalize(types.LensConceptMap, agent.TextResponse(tt.content))
			require.NotNil(t, res.Graph)
			assert.Equal(t, tt.want, res.Content)
			assert.NotContains(t, res.Content, "```")
		})
	}
}
