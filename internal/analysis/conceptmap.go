// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/knowledge-agent/pkg/types"
)

var (
	// arrowSep matches one arrow of "A --> B" or "A -->|label| B".
	arrowSep = regexp.MustCompile(`\s*--+>\s*(?:\|([^|]*)\|\s*)?`)

	// firstFence matches the first fenced block inside surrounding prose.
	firstFence = regexp.MustCompile("(?s)```[A-Za-z0-9_+.-]*[ \t]*\n(.*?)\n?```")

	digraphPattern = regexp.MustCompile(`(?m)^\s*(?:strict\s+)?digraph\b`)

	// mermaidHeader matches diagram headers the model sometimes emits
	// instead of DOT ("graph TD", "flowchart LR").
	mermaidHeader = regexp.MustCompile(`^(?:graph|flowchart)(?:\s+(?:TD|TB|BT|LR|RL))?\s*;?$`)

	bareID = regexp.MustCompile(`^(?:[A-Za-z_][A-Za-z0-9_]*|-?(?:\.[0-9]+|[0-9]+(?:\.[0-9]*)?))$`)
)

// GraphText isolates the graph in a Concept Map reply. Prose around a
// fenced block is dropped in favour of the first block, and text around a
// digraph declaration is cut down to the declaration's braces.
func GraphText(content string) string {
	s := StripFences(content)
	if m := firstFence.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	loc := digraphPattern.FindStringIndex(s)
	if loc == nil {
		return s
	}
	end := strings.LastIndex(s, "}")
	if end < loc[0] {
		return s
	}
	return strings.TrimSpace(s[loc[0] : end+1])
}

// ToDOT converts a Concept Map reply to Graphviz DOT. Arrow lines of the
// form "A --> B" become "A -> B;" statements, and a chain "A --> B --> C"
// becomes one statement per edge. Text that does not already
// declare a digraph is wrapped in "digraph { ... }".
func ToDOT(text string) string {
	wrapped := digraphPattern.MatchString(text)

	var stmts []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !wrapped && mermaidHeader.MatchString(trimmed) {
			continue
		}
		if edges, ok := rewriteArrows(trimmed); ok {
			trimmed = edges
		}
		if wrapped {
			stmts = append(stmts, leadingSpace(line)+trimmed)
		} else {
			stmts = append(stmts, "  "+trimmed)
		}
	}

	if wrapped {
		return strings.Join(stmts, "\n")
	}
	return "digraph {\n" + strings.Join(stmts, "\n") + "\n}"
}

// ChartURL embeds dot in the chart service URL as the percent-encoded
// graph query parameter. An empty base uses types.DefaultChartURL.
func ChartURL(base, dot string) string {
	if base == "" {
		base = types.DefaultChartURL
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "graph=" + strings.ReplaceAll(url.QueryEscape(dot), "+", "%20")
}

// rewriteArrows turns an arrow line into DOT edge statements. It reports
// false when line has no arrow or an arrow lacks a node on either side.
func rewriteArrows(line string) (string, bool) {
	line = strings.TrimSpace(strings.TrimSuffix(line, ";"))
	locs := arrowSep.FindAllStringSubmatchIndex(line, -1)
	if len(locs) == 0 {
		return "", false
	}

	nodes := make([]string, 0, len(locs)+1)
	labels := make([]string, 0, len(locs))
	prev := 0
	for _, loc := range locs {
		nodes = append(nodes, strings.TrimSpace(line[prev:loc[0]]))
		label := ""
		if loc[2] >= 0 {
			label = strings.TrimSpace(line[loc[2]:loc[3]])
		}
		labels = append(labels, label)
		prev = loc[1]
	}
	nodes = append(nodes, strings.TrimSpace(line[prev:]))
	for _, n := range nodes {
		if n == "" {
			return "", false
		}
	}

	edges := make([]string, len(labels))
	for i, label := range labels {
		edge := quoteID(nodes[i]) + " -> " + quoteID(nodes[i+1])
		if label != "" {
			edge += " [label=" + quote(label) + "]"
		}
		edges[i] = edge + ";"
	}
	return strings.Join(edges, " "), true
}

// quoteID returns s as a DOT identifier, quoting it unless it is a bare
// identifier, a number or already quoted.
func quoteID(s string) string {
	s = strings.TrimSpace(s)
	if bareID.MatchString(s) || (len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`)) {
		return s
	}
	return quote(s)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}
