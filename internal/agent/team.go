// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent is the boundary to the LLM agent team. A Team takes one
// prompt and returns one Response; routing among members, model invocation
// and response shaping happen behind it.
package agent

import (
	"context"
	"fmt"
	"strings"
)

// Team answers prompts. Implementations must be safe for concurrent use:
// a run calls Run once per lens from separate goroutines.
type Team interface {
	Run(ctx context.Context, prompt string) (Response, error)
}

// ResponseKind tags the shape of a Response.
type ResponseKind int

const (
	// KindText is a free-text reply. It may still hold JSON.
	KindText ResponseKind = iota

	// KindStructured is a payload that exposes a canonical result field.
	KindStructured
)

func (k ResponseKind) String() string {
	switch k {
	case KindStructured:
		return "structured"
	default:
		return "text"
	}
}

// Response is one agent reply. For KindStructured, Result holds the
// canonical field; Raw always holds the reply exactly as received.
type Response struct {
	Kind   ResponseKind
	Result string
	Raw    string
}

// TextResponse wraps a free-text reply.
func TextResponse(raw string) Response {
	return Response{Kind: KindText, Raw: raw}
}

// StructuredResponse wraps a reply whose result field is already known.
func StructuredResponse(result, raw string) Response {
	return Response{Kind: KindStructured, Result: result, Raw: raw}
}

// Member is one specialist on the team.
type Member struct {
	Name         string
	Role         string
	Instructions []string
}

// DefaultMembers is the analysis team roster.
var DefaultMembers = []Member{
	{
		Name:         "Summarizer",
		Role:         "Creates concise summaries of text content",
		Instructions: []string{"Focus on key points", "Be concise and clear"},
	},
	{
		Name:         "Analyzer",
		Role:         "Provides detailed analysis of content",
		Instructions: []string{"Identify patterns and themes", "Provide insights and implications"},
	},
	{
		Name:         "Concept Mapper",
		Role:         "Creates conceptual relationships and mind maps",
		Instructions: []string{"Identify main concepts", "Show relationships between ideas"},
	},
	{
		Name:         "Key Points Extractor",
		Role:         "Extracts bullet-point key information",
		Instructions: []string{"List the most important points", "Use clear bullet points"},
	},
	{
		Name:         "SWOT Analyst",
		Role:         "Performs SWOT analysis (Strengths, Weaknesses, Opportunities, Threats)",
		Instructions: []string{"Identify SWOT elements", "Provide balanced analysis"},
	},
}

// TeamInstructions apply to the team as a whole.
var TeamInstructions = []string{
	"Route the request to the appropriate team member based on the analysis type",
	"Ensure the output matches the requested length (Brief/Standard/Detailed)",
	"Format all responses in clean markdown unless an output format is requested",
}

// SystemPrompt describes the team, its members and its instructions. When
// structured is true it also asks for a {"result": ...} JSON object.
func SystemPrompt(name string, members []Member, structured bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a coordinated team of analysis agents.\n\n", name)
	b.WriteString("Team members:\n")
	for _, m := range members {
		fmt.Fprintf(&b, "- %s: %s.", m.Name, m.Role)
		if len(m.Instructions) > 0 {
			fmt.Fprintf(&b, " %s.", strings.Join(m.Instructions, "; "))
		}
		b.WriteString("\n")
	}
	b.WriteString("\nInstructions:\n")
	for _, in := range TeamInstructions {
		fmt.Fprintf(&b, "- %s\n", in)
	}
	if structured {
		b.WriteString("\nReply with a JSON object of the form {\"result\": \"<your full answer>\"} and nothing else.\n")
	}
	return b.String()
}
