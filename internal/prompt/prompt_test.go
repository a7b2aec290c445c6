// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/knowledge-agent/pkg/types"
)

func sources(contents ...string) []types.Source {
	out := make([]types.Source, len(contents))
	for i, c := range contents {
		out[i] = types.Source{Content: c}
	}
	return out
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name string
		in   []types.Source
		want string
	}{
		{"none", nil, ""},
		{"one", sources("alpha"), "Source 1:\nalpha"},
		{
			"three",
			sources("alpha", "beta", "gamma"),
			"Source 1:\nalpha\n\n--- Source Separator ---\n\nSource 2:\nbeta\n\n--- Source Separator ---\n\nSource 3:\ngamma",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Combine(tt.in))
		})
	}
}

func TestBuild(t *testing.T) {
	got := Build(sources("alpha", "beta"), types.LensKeyPoints, types.LengthBrief)

	assert.Contains(t, got, "separated by '--- Source Separator ---'")
	assert.Contains(t, got, "Analysis type to perform: Key Points\n")
	assert.Contains(t, got, "Desired output detail level: Brief\n")
	assert.NotContains(t, got, "Output format:")
	assert.True(t, strings.HasSuffix(got, Combine(sources("alpha", "beta"))+"\n"))
}

func TestBuildDefaultsToStandard(t *testing.T) {
	got := Build(sources("alpha"), types.LensSummary, "")
	assert.Contains(t, got, "Desired output detail level: Standard\n")
}

func TestBuildFormatHints(t *testing.T) {
	tests := []struct {
		lens types.Lens
		want string
	}{
		{types.LensTopicCoverage, `{"csv":`},
		{types.LensKnowledgeCheck, `"correct_index"`},
		{types.LensConceptMap, "digraph"},
		{types.LensIntersections, "markdown table"},
	}
	for _, tt := range tests {
		t.Run(string(tt.lens), func(t *testing.T) {
			got := Build(sources("alpha"), tt.lens, types.LengthDetailed)
			assert.Contains(t, got, "Output format: ")
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestBuildIsPure(t *testing.T) {
	in := sources("alpha", "beta")
	a := Build(in, types.LensSummary, types.LengthStandard)
	b := Build(in, types.LensSummary, types.LengthStandard)
	assert.Equal(t, a, b)
	assert.Equal(t, "alpha", in[0].Content)
}
