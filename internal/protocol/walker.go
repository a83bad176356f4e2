// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package protocol

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/plenum/pkg/types"
)

// Boundary marker patterns. "Seite 3427" works around a protocol whose
// begin marker is missing from the markup (14-32).
var (
	reBegin = regexp.MustCompile(`Beginn:|Beginn \d\d[:.]\d\d|Seite 3427`)
	reEnd   = regexp.MustCompile(`Schluss:|Ende:|__________`)
)

// Canonical boundary class tags. A node carrying the tag is preferred over a
// bare text match because some documents quote the markers in running text.
const (
	beginClass = "bBeginn"
	endClass   = "sSchluss"
)

// Options control parse behavior.
type Options struct {
	// StripCitationQuotes removes enclosing quotation marks from citation
	// records. Off by default.
	StripCitationQuotes bool
}

// walkState is the per-document parser state, threaded through the walk so
// concurrent document parses share nothing mutable.
type walkState struct {
	// section is the active speaker section; nil while before the first
	// recognized speaker introduction.
	section *SpeakerIntro

	seq        int
	speakerSeq int

	// skipped counts paragraphs discarded before the first speaker section.
	skipped int

	records []types.ParagraphRecord
}

// Parse walks the protocol document between its detected boundaries and
// assembles the ordered record list. Non-fatal diagnostics go to w. On any
// fatal condition it returns a ParseError and no partial output.
//
// Parse holds no state between calls; documents may be parsed concurrently.
func Parse(doc *goquery.Document, meta types.ProtocolMetadata, opts Options, w io.Writer) (*types.Protocol, error) {
	start := findBoundary(doc, beginClass, reBegin)
	if start == nil {
		return nil, &ParseError{Doc: meta.Source, Node: -1, Err: fmt.Errorf("%w: begin marker", ErrBoundaryNotFound)}
	}
	end := findBoundary(doc, endClass, reEnd)
	if end == nil {
		return nil, &ParseError{Doc: meta.Source, Node: -1, Err: fmt.Errorf("%w: end marker", ErrBoundaryNotFound)}
	}
	endNode := end.Get(0)

	var (
		st         walkState
		reachedEnd bool
		walkErr    error
	)

	start.NextAll().Filter("p").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if s.Get(0) == endNode {
			reachedEnd = true
			return false
		}
		if err := step(&st, s, i, meta, opts, w); err != nil {
			walkErr = err
			return false
		}
		return true
	})

	if walkErr != nil {
		return nil, walkErr
	}
	if !reachedEnd {
		return nil, &ParseError{Doc: meta.Source, Node: -1, Err: ErrEndBoundaryNeverReached}
	}
	if len(st.records) == 0 {
		fmt.Fprintf(w, "warning: %s: reached end of protocol without any records\n", meta.Source)
	}
	if st.skipped > 0 {
		fmt.Fprintf(w, "%s: dropped %d paragraph(s) before the first speaker section\n", meta.Source, st.skipped)
	}

	return &types.Protocol{ProtocolMetadata: meta, Content: st.records}, nil
}

// step processes one paragraph node.
func step(st *walkState, s *goquery.Selection, pos int, meta types.ProtocolMetadata, opts Options, w io.Writer) error {
	classes := nodeClasses(s)
	text := Normalize(s.Text())

	// Page markers and empty paragraphs carry no content and no state.
	// They are dropped before the correction table gets a look.
	if text == "" || rePageNumber.MatchString(text) {
		return nil
	}
	text = ApplyCorrections(text)

	effective := classes
	if speakerIntroClasses.intersects(classes) {
		intro, err := MatchSpeakerIntro(text)
		if err == nil {
			if !strings.Contains(intro.Name, " ") {
				fmt.Fprintf(w, "warning: %s: single-word speaker name %q, possible mis-parse\n", meta.Source, intro.Name)
			}
			st.section = intro
			st.speakerSeq = 0
			return nil
		}

		// False speaker change. Guard hits are expected noise; anything
		// else is worth a look.
		if !errors.Is(err, errGuardRejected) {
			fmt.Fprintf(w, "warning: %s: speaker intro paragraph without speaker information: %v\n", meta.Source, err)
		}

		// Re-tag and classify as an ordinary paragraph instead.
		retag := "aStandardabsatz"
		if strings.HasPrefix(text, "(") {
			retag = "kKlammer"
		}
		effective = append(append([]string{}, classes...), retag)
	}

	// Everything before the first speaker section is front matter
	// (attendance, agenda), not speech. Discard without a record.
	if st.section == nil {
		st.skipped++
		return nil
	}

	kind, ok := ClassifyKind(effective)
	if !ok {
		return &ParseError{
			Doc:     meta.Source,
			Node:    pos,
			Snippet: snippet(text),
			Err:     fmt.Errorf("%w: classes %v", ErrUnclassifiableParagraph, effective),
		}
	}

	body := text
	switch kind {
	case types.KindAnnotation:
		body = stripAnnotation(text)
	case types.KindCitation:
		if opts.StripCitationQuotes {
			body = stripCitation(text)
		}
	}

	st.seq++
	st.speakerSeq++
	st.records = append(st.records, types.ParagraphRecord{
		Kind:                 kind,
		Text:                 body,
		StructuralClasses:    sortedClasses(classes),
		SequenceIndex:        st.seq,
		SpeakerSequenceIndex: st.speakerSeq,
		SpeakerName:          st.section.Name,
		SpeakerParty:         st.section.Party,
		SpeakerMinistry:      st.section.Ministry,
		SpeakerRole:          st.section.Role,
		SpeakerRoleTitle:     st.section.RoleTitle,
		SpeakerIsChair:       st.section.IsChair,
	})
	return nil
}

// findBoundary locates the first paragraph matching the marker pattern,
// preferring a node that already carries the canonical boundary class tag.
// Returns nil if no node matches.
func findBoundary(doc *goquery.Document, class string, re *regexp.Regexp) *goquery.Selection {
	var found *goquery.Selection

	doc.Find("p." + class).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if re.MatchString(s.Text()) {
			found = s
			return false
		}
		return true
	})
	if found != nil {
		return found
	}

	// The tagged node is missing or unusable; fall back to a text search.
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if re.MatchString(s.Text()) {
			found = s
			return false
		}
		return true
	})
	return found
}
