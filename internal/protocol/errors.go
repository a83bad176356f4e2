// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package protocol

import (
	"errors"
	"fmt"
)

// Fatal parse failures. Each aborts the current document without emitting
// partial output; the caller decides whether to retry after fixing the markup.
var (
	// ErrBoundaryNotFound means the session begin or end marker is missing
	// from the document.
	ErrBoundaryNotFound = errors.New("protocol boundary not found")

	// ErrEndBoundaryNeverReached means the walk exhausted all paragraph
	// nodes without passing the detected end marker, which signals a
	// truncated or malformed document.
	ErrEndBoundaryNeverReached = errors.New("end boundary never reached")

	// ErrUnclassifiableParagraph means a paragraph carried only class tags
	// outside every known category set. New markup variants need an entry
	// in the classifier tables.
	ErrUnclassifiableParagraph = errors.New("unclassifiable paragraph")
)

// ErrNotASpeakerIntro means a paragraph tagged as a speaker introduction
// did not contain a recognizable speaker declaration. The walker recovers
// by re-tagging the paragraph as speech or annotation.
var ErrNotASpeakerIntro = errors.New("not a speaker introduction")

// errGuardRejected marks negative-guard hits: ordinary prose mis-tagged as a
// speaker introduction. It wraps ErrNotASpeakerIntro so callers checking the
// outer kind still match, but the walker suppresses the diagnostic for it.
var errGuardRejected = fmt.Errorf("%w: rejected by guard", ErrNotASpeakerIntro)

// ParseError identifies the offending paragraph of a fatal failure so it can
// be triaged against the source markup.
type ParseError struct {
	// Doc is the source document identifier (e.g. "MMP17-31").
	Doc string

	// Node is the 0-based paragraph position after the start boundary,
	// or -1 when the failure is not tied to a paragraph.
	Node int

	// Snippet is the leading text of the offending paragraph.
	Snippet string

	Err error
}

func (e *ParseError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("%s: paragraph %d %q: %v", e.Doc, e.Node, e.Snippet, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Doc, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// snippet shortens text for error messages.
func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= 60 {
		return text
	}
	return string(runes[:57]) + "..."
}
