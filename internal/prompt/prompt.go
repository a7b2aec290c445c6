// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt turns the session's sources and one analysis lens into the
// instruction string sent to the agent team.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/knowledge-agent/pkg/types"
)

// Separator delimits sources in the combined document.
const Separator = "--- Source Separator ---"

// analysisPromptTmpl is sent once per lens. The preamble explains the
// separator convention so the model can tell sources apart.
var analysisPromptTmpl = template.Must(template.New("analysis").Parse(`You are analyzing a collection of text sources provided by the user.
The sources are concatenated and separated by '{{.Separator}}'.
Each source is also prefixed with "Source X:" to help you differentiate if needed.

Analysis type to perform: {{.Lens}}
Desired output detail level: {{.Length}}
{{with .Format}}
Output format: {{.}}
{{end}}
Combined text from all sources:
{{.Combined}}
`))

// formatHints tell the model which shape the normalizer expects for lenses
// whose output is parsed rather than displayed as markdown.
var formatHints = map[types.Lens]string{
	types.LensConceptMap: `a Graphviz DOT graph. Use a "digraph { ... }" block with one "A -> B;" edge per line. Do not add any text outside the graph.`,
	types.LensTopicCoverage: `a JSON object {"csv": "<csv text>"}. The CSV header is "Topic" followed by one column per source ("Source 1", "Source 2", ...). ` +
		`Each following line names one sub-topic and marks each source that covers it with ✓, leaving the cell empty otherwise.`,
	types.LensKnowledgeCheck: `a JSON object {"questions": [{"question": "...", "options": ["...", "...", "...", "..."], "correct_index": 0}]} ` +
		`with 5 to 10 questions. Each question has exactly 4 options and correct_index is the 0-based index (0-3) of the correct option.`,
	types.LensIntersections: `a markdown table of the overlaps across sources.`,
}

// FormatHint returns the output format instruction for lens, or "" when the
// lens is displayed as free markdown.
func FormatHint(lens types.Lens) string {
	return formatHints[lens]
}

// Combine concatenates sources into one document. Each source is prefixed
// with its 1-based index and sources are separated by Separator.
func Combine(sources []types.Source) string {
	parts := make([]string, len(sources))
	for i, src := range sources {
		parts[i] = fmt.Sprintf("Source %d:\n%s", i+1, src.Content)
	}
	return strings.Join(parts, "\n\n"+Separator+"\n\n")
}

// Build returns the prompt for one lens. It performs no truncation; context
// length is the model's concern.
func Build(sources []types.Source, lens types.Lens, length types.OutputLength) string {
	return BuildCombined(Combine(sources), lens, length)
}

// BuildCombined is Build for an already combined document, so a run can
// combine sources once and reuse the text for every lens.
func BuildCombined(combined string, lens types.Lens, length types.OutputLength) string {
	if length == "" {
		length = types.LengthStandard
	}
	var buf bytes.Buffer
	// The template only interpolates strings, so Execute cannot fail.
	_ = analysisPromptTmpl.Execute(&buf, struct {
		Separator string
		Lens      string
		Length    types.OutputLength
		Format    string
		Combined  string
	}{
		Separator: Separator,
		Lens:      lens.Name(),
		Length:    length,
		Format:    FormatHint(lens),
		Combined:  combined,
	})
	return buf.String()
}
