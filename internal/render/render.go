// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render prints sources, lenses and analysis results to a terminal.
// Markdown goes through glamour; tabular and card layouts use lipgloss.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/knowledge-agent/pkg/types"
)

// DefaultWidth is the word-wrap width used when none is given.
const DefaultWidth = 100

var (
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	answerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Renderer writes formatted output to Out.
type Renderer struct {
	Out io.Writer

	// Plain disables glamour so markdown is written verbatim.
	Plain bool

	Width int

	md *glamour.TermRenderer
}

// New returns a renderer writing to out. Unless plain is set, markdown is
// styled for the terminal and wrapped at width.
func New(out io.Writer, plain bool, width int) (*Renderer, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	r := &Renderer{Out: out, Plain: plain, Width: width}
	if plain {
		return r, nil
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	r.md = md
	return r, nil
}

// Markdown writes md, styled unless the renderer is plain.
func (r *Renderer) Markdown(md string) error {
	if r.md == nil {
		_, err := fmt.Fprintln(r.Out, md)
		return err
	}
	out, err := r.md.Render(md)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	_, err = io.WriteString(r.Out, out)
	return err
}

// Results writes every result in lens display order.
func (r *Renderer) Results(results types.AnalysisResult) error {
	for i, res := range results.Ordered() {
		if i > 0 {
			fmt.Fprintln(r.Out)
		}
		if err := r.Result(res); err != nil {
			return err
		}
	}
	return nil
}

// Result writes one lens result under its heading. A result carrying a
// warning is shown as the warning followed by the raw payload.
func (r *Renderer) Result(res types.LensResult) error {
	fmt.Fprintln(r.Out, headingStyle.Render(res.Lens.Info().Title()))
	fmt.Fprintln(r.Out)

	switch {
	case res.Warning != "":
		fmt.Fprintln(r.Out, warningStyle.Render("⚠ "+res.Warning))
		fmt.Fprintln(r.Out, res.Content)
	case res.Table != nil:
		fmt.Fprintln(r.Out, CoverageTable(res.Table))
	case res.Quiz != nil:
		fmt.Fprintln(r.Out, QuizCards(*res.Quiz, r.Width))
	case res.Graph != nil:
		fmt.Fprintln(r.Out, res.Graph.DOT)
		fmt.Fprintln(r.Out)
		fmt.Fprintln(r.Out, mutedStyle.Render("Chart: ")+res.Graph.ChartURL)
	default:
		return r.Markdown(res.Content)
	}
	return nil
}

// QuizCards lays out each question as a bordered card with lettered
// options and the answer letter.
func QuizCards(quiz types.Quiz, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	cards := make([]string, len(quiz.Questions))
	for i, q := range quiz.Questions {
		var b strings.Builder
		fmt.Fprintf(&b, "Q%d. %s\n\n", i+1, q.Question)
		for j, opt := range q.Options {
			fmt.Fprintf(&b, "%s. %s\n", types.OptionLetter(j), opt)
		}
		b.WriteString("\n" + answerStyle.Render("Answer: "+q.Answer()))
		cards[i] = cardStyle.Width(width - 2).Render(b.String())
	}
	return strings.Join(cards, "\n")
}
