// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pdiddy/knowledge-agent/internal/source"
	"github.com/pdiddy/knowledge-agent/pkg/types"
)

var (
	headerCell  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell        = lipgloss.NewStyle().Padding(0, 1)
	coveredCell = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#4CAF50"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCell
			}
			return cell
		})
}

// CoverageTable draws a Topic Coverage table. Rows shorter than the header
// are padded with empty cells; longer rows are shown as they are.
func CoverageTable(t *types.Table) string {
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		padded := append([]string(nil), row...)
		for len(padded) < len(t.Header) {
			padded = append(padded, "")
		}
		rows[i] = padded
	}
	return newTable(t.Header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerCell
			case col > 0 && row < len(rows) && col < len(rows[row]) && rows[row][col] != "":
				return coveredCell
			default:
				return cell
			}
		}).
		String()
}

// SourcesTable lists sources with their 1-based positions.
func SourcesTable(sources []types.Source) string {
	t := newTable("#", "Title", "Kind", "Tokens", "Added")
	for i, src := range sources {
		t.Row(
			strconv.Itoa(i+1),
			src.Title,
			string(src.Kind),
			strconv.Itoa(source.EstimateTokens([]types.Source{src})),
			src.AddedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	return t.String()
}

// LensesTable lists the lens catalog with its default selection.
func LensesTable(lenses []types.LensInfo) string {
	t := newTable("Lens", "Name", "Default", "Description")
	for _, info := range lenses {
		def := ""
		if info.Selected {
			def = "✓"
		}
		t.Row(string(info.Lens), info.Title(), def, info.Help)
	}
	return t.String()
}
