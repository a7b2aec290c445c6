// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"encoding/json"
	"strings"

	"github.com/pdiddy/knowledge-agent/pkg/types"
)

// CoverageCSV returns the CSV text of a Topic Coverage reply. Replies that
// start with "{" are decoded as {"csv": "..."}; anything else, including a
// wrapper that fails to decode, is taken as CSV already.
func CoverageCSV(content string) string {
	s := StripFences(content)
	if !strings.HasPrefix(s, "{") {
		return s
	}
	var wrapper struct {
		CSV *string `json:"csv"`
	}
	if err := json.Unmarshal([]byte(s), &wrapper); err != nil || wrapper.CSV == nil {
		return s
	}
	return strings.TrimSpace(*wrapper.CSV)
}

// ParseCoverage splits coverage CSV into a table. The header splits on
// every comma: the topic column label followed by one label per source.
// Each data line splits on its first comma only, so a row is the topic and
// the remaining source cells as one string. Row widths are not checked
// against the header. Blank lines are skipped; it returns nil when there
// are no lines at all.
func ParseCoverage(csv string) *types.Table {
	var lines []string
	for _, l := range strings.Split(strings.TrimSpace(csv), "\n") {
		l = strings.TrimRight(l, "\r")
		if l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	table := &types.Table{Header: strings.Split(lines[0], ",")}
	for _, l := range lines[1:] {
		table.Rows = append(table.Rows, strings.SplitN(l, ",", 2))
	}
	return table
}
