// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/pdiddy/knowledge-agent/internal/agent"
	"github.com/pdiddy/knowledge-agent/pkg/types"
)

// Coerce extracts the canonical display string from a reply: the
// structured result field, else the result field of a {"result": string}
// JSON body, else the raw reply.
func Coerce(resp agent.Response) string {
	if resp.Kind == agent.KindStructured {
		return resp.Result
	}
	var p struct {
		Result *string `json:"result"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.Raw)), &p); err == nil && p.Result != nil {
		return *p.Result
	}
	return resp.Raw
}

var (
	// fencePattern matches content that is entirely one fenced code block,
	// optionally with a language tag on the opening line.
	fencePattern = regexp.MustCompile("(?s)^```(?:[A-Za-z0-9_+.-]*[ \t]*\n)?(.*?)\n?```$")

	// inlineFence matches a one-line fence whose tag precedes a JSON body,
	// as in "```json {...}```".
	inlineFence = regexp.MustCompile("(?s)^```[A-Za-z][A-Za-z0-9_+.-]*[ \t]+([{\\[].*?)```$")
)

// StripFences removes fenced-code-block markers that wrap the whole
// content, repeating until none remain. Content with text outside a fence
// is returned trimmed but otherwise unchanged.
func StripFences(content string) string {
	s := strings.TrimSpace(content)
	for {
		m := inlineFence.FindStringSubmatch(s)
		if m == nil {
			m = fencePattern.FindStringSubmatch(s)
		}
		if m == nil {
			return s
		}
		s = strings.TrimSpace(m[1])
	}
}

// Normalizer turns agent replies into lens results.
type Normalizer struct {
	// ChartURL is the Graphviz endpoint concept maps are embedded into.
	ChartURL string
}

// Normalize coerces resp and applies the shaping for lens.
func (n Normalizer) Normalize(lens types.Lens, resp agent.Response) types.LensResult {
	content := Coerce(resp)
	res := types.LensResult{Lens: lens}

	switch lens {
	case types.LensTopicCoverage:
		csv := CoverageCSV(content)
		res.Content = csv
		res.Table = ParseCoverage(csv)

	case types.LensKnowledgeCheck:
		quiz, err := ParseQuiz(content)
		if err != nil {
			res.Content = content
			res.Warning = "Couldn't decode quiz JSON: " + err.Error()
			return res
		}
		res.Content = QuizMarkdown(quiz)
		res.Quiz = &quiz

	case types.LensConceptMap:
		dot := ToDOT(GraphText(content))
		res.Content = dot
		res.Graph = &types.Graph{DOT: dot, ChartURL: ChartURL(n.ChartURL, dot)}

	default:
		res.Content = StripFences(content)
	}
	return res
}
