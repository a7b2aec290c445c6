// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// Lens identifies one analysis type. Each selected lens maps to one
// independent agent invocation.
type Lens string

const (
	LensSummary        Lens = "summary"
	LensInDepth        Lens = "in-depth"
	LensConceptMap     Lens = "concept-map"
	LensKeyPoints      Lens = "key-points"
	LensIntersections  Lens = "intersections"
	LensTopicCoverage  Lens = "topic-coverage"
	LensKnowledgeCheck Lens = "knowledge-check"
)

// LensInfo is the static configuration for a lens.
type LensInfo struct {
	Lens Lens `json:"lens" yaml:"lens"`

	// Name is the label shown to the user and sent to the agent team.
	Name string `json:"name" yaml:"name"`

	// Icon is the emoji that prefixes Name in display headings.
	Icon string `json:"icon" yaml:"icon"`

	// Help describes what the lens produces.
	Help string `json:"help" yaml:"help"`

	// Selected reports whether the lens is selected when the user picks none.
	Selected bool `json:"selected" yaml:"selected"`
}

// Title returns the icon-prefixed display name.
func (i LensInfo) Title() string {
	return i.Icon + " " + i.Name
}

// lensCatalog is ordered; the order is the display order of results.
var lensCatalog = []LensInfo{
	{Lens: LensSummary, Name: "Summary", Icon: "📄", Help: "A concise overview of the main points.", Selected: true},
	{Lens: LensInDepth, Name: "In-depth Analysis", Icon: "🔍", Help: "A detailed examination of themes, arguments, and nuances."},
	{Lens: LensConceptMap, Name: "Concept Map", Icon: "🗺️", Help: "A text-based representation of key concepts and relationships."},
	{Lens: LensKeyPoints, Name: "Key Points", Icon: "🎯", Help: "A bulleted list of the most important takeaways."},
	{Lens: LensIntersections, Name: "Intersections", Icon: "🔗", Help: "Table of overlaps across sources."},
	{Lens: LensTopicCoverage, Name: "Topic Coverage", Icon: "🧭", Help: "Heat-map of which source covers which sub-topic."},
	{Lens: LensKnowledgeCheck, Name: "Knowledge Check", Icon: "📝", Help: "Generate 5–10 MCQs with answer key."},
}

// Lenses returns the lens catalog in display order.
func Lenses() []LensInfo {
	out := make([]LensInfo, len(lensCatalog))
	copy(out, lensCatalog)
	return out
}

// DefaultLenses returns the lenses selected by default.
func DefaultLenses() []Lens {
	var out []Lens
	for _, info := range lensCatalog {
		if info.Selected {
			out = append(out, info.Lens)
		}
	}
	return out
}

// AllLenses returns every lens in display order.
func AllLenses() []Lens {
	out := make([]Lens, len(lensCatalog))
	for i, info := range lensCatalog {
		out[i] = info.Lens
	}
	return out
}

// Info returns the catalog entry for l. Unknown lenses get a bare entry
// whose Name is the tag itself.
func (l Lens) Info() LensInfo {
	for _, info := range lensCatalog {
		if info.Lens == l {
			return info
		}
	}
	return LensInfo{Lens: l, Name: string(l)}
}

// Name returns the display name without icon.
func (l Lens) Name() string {
	return l.Info().Name
}

// Valid reports whether l is in the catalog.
func (l Lens) Valid() bool {
	for _, info := range lensCatalog {
		if info.Lens == l {
			return true
		}
	}
	return false
}

// order returns the catalog position of l, or len(catalog) when unknown.
func (l Lens) order() int {
	for i, info := range lensCatalog {
		if info.Lens == l {
			return i
		}
	}
	return len(lensCatalog)
}

// ParseLens accepts a lens slug ("topic-coverage") or a display name
// ("Topic Coverage"), case-insensitively.
func ParseLens(s string) (Lens, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for _, info := range lensCatalog {
		if norm == string(info.Lens) || norm == strings.ToLower(info.Name) {
			return info.Lens, nil
		}
	}
	return "", fmt.Errorf("unknown lens %q", s)
}

// OutputLength is the requested verbosity, applied uniformly to every lens
// in a run.
type OutputLength string

const (
	LengthBrief    OutputLength = "Brief"
	LengthStandard OutputLength = "Standard"
	LengthDetailed OutputLength = "Detailed"
)

// ParseOutputLength parses a length name case-insensitively. An empty
// string yields LengthStandard.
func ParseOutputLength(s string) (OutputLength, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return LengthStandard, nil
	case "brief":
		return LengthBrief, nil
	case "standard":
		return LengthStandard, nil
	case "detailed":
		return LengthDetailed, nil
	}
	return "", fmt.Errorf("unknown output length %q: use Brief, Standard, or Detailed", s)
}
