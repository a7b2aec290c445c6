// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pdiddy/knowledge-agent/pkg/types"
)

// ChartClient downloads rendered concept maps from the chart service.
type ChartClient struct {
	Client *http.Client
	Config types.ChartConfig
}

// NewChartClient returns a client for cfg.
func NewChartClient(cfg types.ChartConfig) *ChartClient {
	return &ChartClient{Client: &http.Client{Timeout: cfg.Timeout}, Config: cfg}
}

// Download fetches chartURL to destPath through a temporary file in the
// same directory. The service is called once; failures are not retried.
func (c *ChartClient) Download(ctx context.Context, chartURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, chartURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if c.Config.UserAgent != "" {
		req.Header.Set("User-Agent", c.Config.UserAgent)
	}
	req.Header.Set("Accept", "image/png")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chart service returned HTTP %d", resp.StatusCode)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".chart-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing chart: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
