// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/knowledge-agent/pkg/types"
)

func newTestStore(t *testing.T, maxSources int) *Store {
	t.Helper()
	store, err := NewStore(types.SessionConfig{Dir: t.TempDir(), MaxSources: maxSources})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreLoadEmpty(t *testing.T) {
	store := newTestStore(t, 4)
	sess, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sess.Len())
	assert.Equal(t, 4, sess.Max())
}

func TestStoreRoundTripKeepsOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, 0)

	sess, err := store.Load(ctx)
	require.NoError(t, err)
	_, err = sess.AddText("first source")
	require.NoError(t, err)
	_, err = sess.AddPDF("paper.pdf", "second source")
	require.NoError(t, err)
	_, err = sess.AddText("third source")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, loaded.Len())
	assert.Equal(t, sess.Sources()[1].ID, loaded.Sources()[1].ID)
	assert.Equal(t, types.SourcePDF, loaded.Sources()[1].Kind)
	assert.Equal(t, "📄 paper.pdf", loaded.Sources()[1].Title)

	_, err = loaded.Remove(1)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, loaded))

	again, err := store.Load(ctx)
	require.NoError(t, err)
	var contents []string
	for _, s := range again.Sources() {
		contents = append(contents, s.Content)
	}
	assert.Equal(t, []string{"second source", "third source"}, contents)
}

func TestStoreLastRunMissing(t *testing.T) {
	store := newTestStore(t, 0)
	_, err := store.LastRun(context.Background())
	assert.ErrorIs(t, err, ErrNoRun)
}

func TestStoreSaveRunReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, 0)

	first := types.Run{
		ID:          "run-1",
		Length:      types.LengthBrief,
		SourceCount: 1,
		CompletedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Results: types.AnalysisResult{
			types.LensSummary:   {Lens: types.LensSummary, Content: "short"},
			types.LensKeyPoints: {Lens: types.LensKeyPoints, Content: "- a"},
		},
	}
	require.NoError(t, store.SaveRun(ctx, first))

	second := types.Run{
		ID:          "run-2",
		Length:      types.LengthDetailed,
		SourceCount: 2,
		CompletedAt: time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
		Results: types.AnalysisResult{
			types.LensTopicCoverage: {
				Lens:    types.LensTopicCoverage,
				Content: "Topic,Source 1\nX,✓",
				Table:   &types.Table{Header: []string{"Topic", "Source 1"}, Rows: [][]string{{"X", "✓"}}},
			},
		},
	}
	require.NoError(t, store.SaveRun(ctx, second))

	got, err := store.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-2", got.ID)
	assert.Equal(t, types.LengthDetailed, got.Length)
	assert.Equal(t, 2, got.SourceCount)
	assert.True(t, second.CompletedAt.Equal(got.CompletedAt))
	assert.Equal(t, second.Results, got.Results)
}
