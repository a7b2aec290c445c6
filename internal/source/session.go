// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source manages the ordered list of user-supplied text sources that
// an analysis run combines: the in-memory session, its SQLite persistence,
// and the PDF, web and directory-watch inputs that feed it.
package source

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pdiddy/knowledge-agent/pkg/types"
)

// ErrSessionFull is returned when a session already holds MaxSources sources.
var ErrSessionFull = errors.New("maximum number of sources reached")

// ErrEmptySource is returned when a source has no content.
var ErrEmptySource = errors.New("source content is empty")

const (
	iconText = "📝"
	iconPDF  = "📄"
	iconURL  = "🔗"

	titleLen = 40
)

// Session holds the ordered sources of one user session. It is not safe for
// concurrent mutation; sources change only between analysis runs.
type Session struct {
	sources    []types.Source
	maxSources int
	now        func() time.Time
}

// NewSession returns an empty session bounded to maxSources. A non-positive
// bound uses types.DefaultMaxSources.
func NewSession(maxSources int) *Session {
	if maxSources <= 0 {
		maxSources = types.DefaultMaxSources
	}
	return &Session{maxSources: maxSources, now: time.Now}
}

// Add appends src. It assigns an ID and timestamp when missing.
func (s *Session) Add(src types.Source) (types.Source, error) {
	if strings.TrimSpace(src.Content) == "" {
		return types.Source{}, ErrEmptySource
	}
	if s.Full() {
		return types.Source{}, fmt.Errorf("%w (%d)", ErrSessionFull, s.maxSources)
	}
	if src.ID == "" {
		src.ID = uuid.New().String()
	}
	if src.AddedAt.IsZero() {
		src.AddedAt = s.now().UTC()
	}
	if src.Kind == "" {
		src.Kind = types.SourceText
	}
	s.sources = append(s.sources, src)
	return src, nil
}

// AddText adds pasted text, titled from its opening characters.
func (s *Session) AddText(text string) (types.Source, error) {
	text = strings.TrimSpace(text)
	return s.Add(types.Source{
		Title:   FormatTitle(text, iconText),
		Content: text,
		Kind:    types.SourceText,
	})
}

// AddPDF adds extracted PDF text, titled from the file name.
func (s *Session) AddPDF(name, text string) (types.Source, error) {
	return s.Add(types.Source{
		Title:   FormatTitle(name, iconPDF),
		Content: strings.TrimSpace(text),
		Kind:    types.SourcePDF,
	})
}

// AddPage adds the readable text of a web page.
func (s *Session) AddPage(p Page) (types.Source, error) {
	title := p.Title
	if title == "" {
		title = p.URL
	}
	return s.Add(types.Source{
		Title:   FormatTitle(title, iconURL),
		Content: strings.TrimSpace(p.Text),
		Kind:    types.SourceURL,
	})
}

// Remove deletes the source at the 1-based display index.
func (s *Session) Remove(index int) (types.Source, error) {
	if index < 1 || index > len(s.sources) {
		return types.Source{}, fmt.Errorf("source %d does not exist (have %d)", index, len(s.sources))
	}
	removed := s.sources[index-1]
	s.sources = append(s.sources[:index-1], s.sources[index:]...)
	return removed, nil
}

// Clear removes every source.
func (s *Session) Clear() {
	s.sources = nil
}

// Sources returns a copy of the sources in insertion order.
func (s *Session) Sources() []types.Source {
	out := make([]types.Source, len(s.sources))
	copy(out, s.sources)
	return out
}

// Get returns the source at the 1-based display index.
func (s *Session) Get(index int) (types.Source, error) {
	if index < 1 || index > len(s.sources) {
		return types.Source{}, fmt.Errorf("source %d does not exist (have %d)", index, len(s.sources))
	}
	return s.sources[index-1], nil
}

// Len returns the number of sources.
func (s *Session) Len() int { return len(s.sources) }

// Max returns the source bound.
func (s *Session) Max() int { return s.maxSources }

// Full reports whether no more sources can be added.
func (s *Session) Full() bool {
	return len(s.sources) >= s.maxSources
}

// FormatTitle builds a display title from the first titleLen characters of
// text, collapsed to one line and suffixed with "..." when cut.
func FormatTitle(text, icon string) string {
	line := strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(line) > titleLen {
		runes := []rune(line)
		line = strings.TrimSpace(string(runes[:titleLen])) + "..."
	}
	if icon == "" {
		return line
	}
	return icon + " " + line
}

// EstimateTokens approximates the token count of the combined source text
// at four characters per token.
func EstimateTokens(sources []types.Source) int {
	parts := make([]string, len(sources))
	for i, src := range sources {
		parts[i] = src.Content
	}
	return len(strings.Join(parts, "\n\n")) / 4
}
