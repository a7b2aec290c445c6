// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/knowledge-agent/internal/httputil"
	"github.com/pdiddy/knowledge-agent/pkg/types"
)

// Page is the readable content of a fetched web page.
type Page struct {
	URL   string
	Title string
	Text  string
}

// noiseSelectors are removed before text extraction.
const noiseSelectors = "script, style, noscript, nav, header, footer, aside, form, iframe, svg"

// contentSelectors are tried in order; the first with text wins.
var contentSelectors = []string{"article", "main", "[role=main]", "body"}

// Fetcher downloads web pages and extracts their readable text.
type Fetcher struct {
	Client *http.Client
	Config types.HTTPConfig
}

// Fetch downloads url and extracts its title and readable text.
func (f *Fetcher) Fetch(ctx context.Context, url string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, fmt.Errorf("creating request: %w", err)
	}
	if f.Config.UserAgent != "" {
		req.Header.Set("User-Agent", f.Config.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: f.Config.Timeout}
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return Page{}, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Page{}, fmt.Errorf("fetching %s: status %d: %s", url, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	page, err := ParseHTML(resp.Body)
	if err != nil {
		return Page{}, fmt.Errorf("parsing %s: %w", url, err)
	}
	page.URL = url
	if page.Text == "" {
		return Page{}, fmt.Errorf("no readable text found at %s", url)
	}
	return page, nil
}

// ParseHTML extracts the title and readable text of an HTML document.
// Block-level elements become separate paragraphs.
func ParseHTML(r io.Reader) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Page{}, err
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		title = strings.TrimSpace(og)
	}

	doc.Find(noiseSelectors).Remove()

	var text string
	for _, sel := range contentSelectors {
		if root := doc.Find(sel).First(); root.Length() > 0 {
			if text = blockText(root); text != "" {
				break
			}
		}
	}
	return Page{Title: title, Text: text}, nil
}

// blockText joins the text of headings, paragraphs, list items and
// preformatted blocks under root, one per paragraph. When root has none of
// these it falls back to root's collapsed text.
func blockText(root *goquery.Selection) string {
	var paras []string
	root.Find("h1, h2, h3, h4, h5, h6, p, li, pre, blockquote, td").Each(func(_ int, s *goquery.Selection) {
		if line := strings.Join(strings.Fields(s.Text()), " "); line != "" {
			paras = append(paras, line)
		}
	})
	if len(paras) == 0 {
		return strings.Join(strings.Fields(root.Text()), " ")
	}
	return strings.Join(paras, "\n\n")
}
