// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"sort"
	"time"
)

// Table is the tabular form of a Topic Coverage result. Rows are not
// validated against the header width.
type Table struct {
	Header []string   `json:"header" yaml:"header"`
	Rows   [][]string `json:"rows" yaml:"rows"`
}

// QuizQuestion is one multiple-choice question of a Knowledge Check.
type QuizQuestion struct {
	Question     string   `json:"question" yaml:"question"`
	Options      []string `json:"options" yaml:"options"`
	CorrectIndex int      `json:"correct_index" yaml:"correct_index"`
}

// OptionLetter returns the letter labelling option i ("A" for 0).
func OptionLetter(i int) string {
	return string(rune('A' + i))
}

// Answer returns the letter of the correct option.
func (q QuizQuestion) Answer() string {
	return OptionLetter(q.CorrectIndex)
}

// Quiz is the structured form of a Knowledge Check result.
type Quiz struct {
	Questions []QuizQuestion `json:"questions" yaml:"questions"`
}

// Graph is the structured form of a Concept Map result.
type Graph struct {
	// DOT is the graph description in Graphviz syntax.
	DOT string `json:"dot" yaml:"dot"`

	// ChartURL embeds the percent-encoded DOT text in the chart-rendering
	// service URL.
	ChartURL string `json:"chart_url" yaml:"chart_url"`
}

// LensResult is the normalized output of one lens.
type LensResult struct {
	Lens Lens `json:"lens" yaml:"lens"`

	// Content is the canonical display string.
	Content string `json:"content" yaml:"content"`

	Table *Table `json:"table,omitempty" yaml:"table,omitempty"`
	Quiz  *Quiz  `json:"quiz,omitempty" yaml:"quiz,omitempty"`
	Graph *Graph `json:"graph,omitempty" yaml:"graph,omitempty"`

	// Warning records a local decode failure. Content then holds the raw
	// payload.
	Warning string `json:"warning,omitempty" yaml:"warning,omitempty"`
}

// AnalysisResult maps each selected lens to its normalized result. Its key
// set equals the selection of the run that produced it.
type AnalysisResult map[Lens]LensResult

// Ordered returns the results in lens catalog order.
func (r AnalysisResult) Ordered() []LensResult {
	out := make([]LensResult, 0, len(r))
	for _, res := range r {
		out = append(out, res)
	}
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := out[i].Lens.order(), out[j].Lens.order()
		if oi != oj {
			return oi < oj
		}
		return out[i].Lens < out[j].Lens
	})
	return out
}

// Lenses returns the key set in lens catalog order.
func (r AnalysisResult) Lenses() []Lens {
	ordered := r.Ordered()
	out := make([]Lens, len(ordered))
	for i, res := range ordered {
		out[i] = res.Lens
	}
	return out
}

// Run is the persisted record of the latest analysis run.
type Run struct {
	ID          string         `json:"id" yaml:"id"`
	Length      OutputLength   `json:"length" yaml:"length"`
	SourceCount int            `json:"source_count" yaml:"source_count"`
	CompletedAt time.Time      `json:"completed_at" yaml:"completed_at"`
	Results     AnalysisResult `json:"results" yaml:"results"`
}
