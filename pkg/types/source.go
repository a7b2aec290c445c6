// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SourceKind records how a source entered the session.
type SourceKind string

const (
	SourceText SourceKind = "text"
	SourcePDF  SourceKind = "pdf"
	SourceURL  SourceKind = "url"
)

// Source is one unit of user-supplied text. Sources are immutable once
// added to a session.
type Source struct {
	// ID is a random identifier assigned when the source is added.
	ID string `json:"id" yaml:"id"`

	// Title is the display label (icon plus a short name).
	Title string `json:"title" yaml:"title"`

	// Content is the full text sent to the agent team.
	Content string `json:"content" yaml:"content"`

	Kind SourceKind `json:"kind" yaml:"kind"`

	AddedAt time.Time `json:"added_at" yaml:"added_at"`
}
