// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/knowledge-agent/pkg/types"
)

var fixedNow = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }

func TestCombined(t *testing.T) {
	results := types.AnalysisResult{
		types.LensKeyPoints: {Lens: types.LensKeyPoints, Content: "- one"},
		types.LensSummary:   {Lens: types.LensSummary, Content: "Short."},
	}
	assert.Equal(t, "# Summary\n\nShort.\n\n---\n\n# Key Points\n\n- one", Combined(results))
}

func TestExportMultipleLenses(t *testing.T) {
	dir := t.TempDir()
	run := types.Run{
		ID:     "run-1",
		Length: types.LengthStandard,
		Results: types.AnalysisResult{
			types.LensSummary:   {Lens: types.LensSummary, Content: "Short."},
			types.LensKeyPoints: {Lens: types.LensKeyPoints, Content: "- one"},
		},
	}

	paths, err := (&Exporter{Dir: dir, Now: fixedNow}).Export(context.Background(), run)
	require.NoError(t, err)

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{
		"all_sources_insights_20260304-050607.md",
		"all_sources_summary_20260304-050607.md",
		"all_sources_key-points_20260304-050607.md",
		"all_sources_insights_20260304-050607.yaml",
	}, names)

	data, err := os.ReadFile(filepath.Join(dir, "all_sources_summary_20260304-050607.md"))
	require.NoError(t, err)
	assert.Equal(t, "Short.", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "all_sources_insights_20260304-050607.yaml"))
	require.NoError(t, err)
	var back types.Run
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, "run-1", back.ID)
	assert.Equal(t, "- one", back.Results[types.LensKeyPoints].Content)
}

func TestExportSingleLensSkipsCombined(t *testing.T) {
	dir := t.TempDir()
	run := types.Run{Results: types.AnalysisResult{
		types.LensSummary: {Lens: types.LensSummary, Content: "Short."},
	}}

	paths, err := (&Exporter{Dir: dir, Now: fixedNow}).Export(context.Background(), run)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, "all_sources_summary_20260304-050607.md", filepath.Base(paths[0]))
}

func TestExportEmpty(t *testing.T) {
	_, err := (&Exporter{Dir: t.TempDir()}).Export(context.Background(), types.Run{})
	assert.Error(t, err)
}

func TestExportConceptMapImage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("graph") == "" {
			http.Error(w, "missing graph", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("\x89PNG fake"))
	}))
	defer ts.Close()

	dot := ToDOT("A --> B")
	run := types.Run{Results: types.AnalysisResult{
		types.LensConceptMap: {
			Lens:    types.LensConceptMap,
			Content: dot,
			Graph:   &types.Graph{DOT: dot, ChartURL: ChartURL(ts.URL, dot)},
		},
	}}

	dir := t.TempDir()
	chart := &ChartClient{Client: ts.Client()}
	paths, err := (&Exporter{Dir: dir, Chart: chart, Now: fixedNow}).Export(context.Background(), run)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, "all_sources_concept-map_20260304-050607.png", filepath.Base(paths[1]))

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG fake", string(data))
}

func TestChartDownloadFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "map.png")
	err := (&ChartClient{Client: ts.Client()}).Download(context.Background(), ts.URL, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.NoFileExists(t, dest)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no temp file left behind")
}
