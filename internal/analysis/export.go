// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/knowledge-agent/pkg/types"
)

const (
	combinedPrefix = "all_sources_insights"
	lensPrefix     = "all_sources_"
	timeLayout     = "20060102-150405"
)

// Combined joins results into one markdown document: a "# <lens name>"
// heading per lens followed by its content, separated by horizontal rules.
func Combined(results types.AnalysisResult) string {
	parts := make([]string, 0, len(results))
	for _, res := range results.Ordered() {
		parts = append(parts, "# "+res.Lens.Name()+"\n\n"+res.Content)
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// Exporter writes analysis results to a directory.
type Exporter struct {
	Dir string

	// Chart downloads Concept Map images. Nil skips them.
	Chart *ChartClient

	Logger *zap.Logger
	Now    func() time.Time
}

// Export writes a markdown file per lens, a combined markdown file when
// there is more than one lens, and a YAML dump of run. File names carry a
// timestamp. It returns the paths written, in write order. A failed chart
// download is logged and skipped.
func (e *Exporter) Export(ctx context.Context, run types.Run) ([]string, error) {
	if len(run.Results) == 0 {
		return nil, fmt.Errorf("no results to export")
	}
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	stamp := now().Format(timeLayout)
	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var written []string
	write := func(name string, data []byte) error {
		path := filepath.Join(e.Dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		written = append(written, path)
		return nil
	}

	if len(run.Results) > 1 {
		if err := write(combinedPrefix+"_"+stamp+".md", []byte(Combined(run.Results))); err != nil {
			return written, err
		}
	}

	for _, res := range run.Results.Ordered() {
		base := lensPrefix + string(res.Lens) + "_" + stamp
		if err := write(base+".md", []byte(res.Content)); err != nil {
			return written, err
		}
		if res.Graph == nil || e.Chart == nil {
			continue
		}
		path := filepath.Join(e.Dir, base+".png")
		if err := e.Chart.Download(ctx, res.Graph.ChartURL, path); err != nil {
			logger.Warn("concept map image skipped", zap.String("lens", string(res.Lens)), zap.Error(err))
			continue
		}
		written = append(written, path)
	}

	data, err := yaml.Marshal(run)
	if err != nil {
		return written, fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := write(combinedPrefix+"_"+stamp+".yaml", data); err != nil {
		return written, err
	}
	return written, nil
}
