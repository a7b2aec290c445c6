// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/knowledge-agent/pkg/types"
)

func TestSessionAddText(t *testing.T) {
	sess := NewSession(0)
	src, err := sess.AddText("  The quick brown fox jumps over the lazy dog near the river bank.  ")
	require.NoError(t, err)

	assert.NotEmpty(t, src.ID)
	assert.False(t, src.AddedAt.IsZero())
	assert.Equal(t, types.SourceText, src.Kind)
	assert.Equal(t, "The quick brown fox jumps over the lazy dog near the river bank.", src.Content)
	assert.Equal(t, "📝 The quick brown fox jumps over the lazy...", src.Title)
	assert.Equal(t, types.DefaultMaxSources, sess.Max())
}

func TestSessionRejectsEmpty(t *testing.T) {
	sess := NewSession(3)
	_, err := sess.AddText(" \n\t ")
	assert.ErrorIs(t, err, ErrEmptySource)
	assert.Equal(t, 0, sess.Len())
}

func TestSessionBound(t *testing.T) {
	sess := NewSession(2)
	_, err := sess.AddText("one")
	require.NoError(t, err)
	_, err = sess.AddPDF("report.pdf", "two")
	require.NoError(t, err)
	assert.True(t, sess.Full())

	_, err = sess.AddText("three")
	assert.ErrorIs(t, err, ErrSessionFull)
	assert.Equal(t, 2, sess.Len())
}

func TestSessionRemovePreservesOrder(t *testing.T) {
	sess := NewSession(5)
	for _, text := range []string{"alpha", "beta", "gamma"} {
		_, err := sess.AddText(text)
		require.NoError(t, err)
	}

	removed, err := sess.Remove(2)
	require.NoError(t, err)
	assert.Equal(t, "beta", removed.Content)

	var got []string
	for _, s := range sess.Sources() {
		got = append(got, s.Content)
	}
	assert.Equal(t, []string{"alpha", "gamma"}, got)

	_, err = sess.Remove(0)
	assert.Error(t, err)
	_, err = sess.Remove(3)
	assert.Error(t, err)
}

func TestSessionClear(t *testing.T) {
	sess := NewSession(5)
	_, _ = sess.AddText("alpha")
	sess.Clear()
	assert.Equal(t, 0, sess.Len())
	assert.Empty(t, sess.Sources())
}

func TestSessionSourcesIsCopy(t *testing.T) {
	sess := NewSession(5)
	_, _ = sess.AddText("alpha")
	list := sess.Sources()
	list[0].Content = "mutated"

	got, err := sess.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Content)
}

func TestAddPage(t *testing.T) {
	sess := NewSession(5)
	src, err := sess.AddPage(Page{URL: "https://example.com/a", Text: "body"})
	require.NoError(t, err)
	assert.Equal(t, types.SourceURL, src.Kind)
	assert.Equal(t, "🔗 https://example.com/a", src.Title)
}

func TestFormatTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
		icon string
		want string
	}{
		{"short", "Hello", "📝", "📝 Hello"},
		{"collapses whitespace", "Hello\n\n  world", "", "Hello world"},
		{"exactly forty", strings.Repeat("a", 40), "", strings.Repeat("a", 40)},
		{"cut with ellipsis", strings.Repeat("b", 41), "", strings.Repeat("b", 40) + "..."},
		{"multibyte safe", strings.Repeat("é", 45), "📄", "📄 " + strings.Repeat("é", 40) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTitle(tt.text, tt.icon))
		})
	}
}

func TestEstimateTokens(t *testing.T) {
	sources := []types.Source{
		{Content: strings.Repeat("x", 38)},
		{Content: strings.Repeat("y", 40)},
	}
	// 38 + 2 separator bytes + 40 = 80 bytes.
	assert.Equal(t, 20, EstimateTokens(sources))
	assert.Equal(t, 0, EstimateTokens(nil))
}
