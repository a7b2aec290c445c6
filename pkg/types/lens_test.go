// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutputLength(t *testing.T) {
	tests := []struct {
		input   string
		want    OutputLength
		wantErr bool
	}{
		{input: "", want: LengthStandard},
		{input: "brief", want: LengthBrief},
		{input: "Standard", want: LengthStandard},
		{input: " DETAILED ", want: LengthDetailed},
		{input: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOutputLength(tt.input)
			if tt.wantErr {
				assert.ErrorContains(t, err, "unknown output length")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLens(t *testing.T) {
	tests := []struct {
		input   string
		want    Lens
		wantErr bool
	}{
		{input: "topic-coverage", want: LensTopicCoverage},
		{input: "Topic Coverage", want: LensTopicCoverage},
		{input: " key points ", want: LensKeyPoints},
		{input: "IN-DEPTH ANALYSIS", want: LensInDepth},
		{input: "swot", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLens(tt.input)
			if tt.wantErr {
				assert.ErrorContains(t, err, `unknown lens "swot"`)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLensCatalog(t *testing.T) {
	assert.Equal(t, []Lens{LensSummary}, DefaultLenses())
	assert.Len(t, AllLenses(), 7)
	assert.Equal(t, LensSummary, AllLenses()[0])

	assert.True(t, LensConceptMap.Valid())
	assert.False(t, Lens("swot").Valid())
	assert.Equal(t, "swot", Lens("swot").Name())
	assert.Equal(t, "Concept Map", LensConceptMap.Name())
}

func TestAnalysisResultOrdered(t *testing.T) {
	r := AnalysisResult{
		"zeta":             {Lens: "zeta"},
		LensKnowledgeCheck: {Lens: LensKnowledgeCheck},
		"alpha":            {Lens: "alpha"},
		LensSummary:        {Lens: LensSummary},
		LensConceptMap:     {Lens: LensConceptMap},
	}
	want := []Lens{LensSummary, LensConceptMap, LensKnowledgeCheck, "alpha", "zeta"}
	for i := 0; i < 5; i++ {
		assert.Equal(t, want, r.Lenses(), "unknown lenses sort last by tag")
	}
	assert.Empty(t, AnalysisResult{}.Ordered())
}
