// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/knowledge-agent/internal/container"
)

// DefaultPDFImage is the container image that turns a PDF on stdin into text
// on stdout.
const DefaultPDFImage = "markitdown:latest"

// PDFExtractor returns the plain text of a PDF file.
type PDFExtractor interface {
	Extract(ctx context.Context, pdfPath string) (string, error)
}

// ContainerExtractor extracts PDF text by piping the file through a
// container image on an injected runtime.
type ContainerExtractor struct {
	runtime container.Runtime
	image   string
}

// NewContainerExtractor creates an extractor that runs image on rt. It
// verifies that the image exists locally before returning.
func NewContainerExtractor(ctx context.Context, rt container.Runtime, image string) (*ContainerExtractor, error) {
	if image == "" {
		image = DefaultPDFImage
	}
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("PDF image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerExtractor{runtime: rt, image: image}, nil
}

// Extract reads the PDF at pdfPath, pipes it through the container, and
// returns the resulting text.
func (e *ContainerExtractor) Extract(ctx context.Context, pdfPath string) (string, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := e.runtime.Filter(ctx, e.image, f, &out); err != nil {
		return "", fmt.Errorf("extracting %s: %w", pdfPath, err)
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("no text could be extracted from %s", pdfPath)
	}
	return text, nil
}
