// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package protocol

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/plenum/pkg/types"
)

// classSet is a case-insensitive set of structural class tags.
type classSet map[string]struct{}

func newClassSet(tags ...string) classSet {
	s := make(classSet, len(tags))
	for _, t := range tags {
		s[strings.ToLower(t)] = struct{}{}
	}
	return s
}

// intersects reports whether any of the given tags is in the set.
func (s classSet) intersects(tags []string) bool {
	for _, t := range tags {
		if _, ok := s[strings.ToLower(t)]; ok {
			return true
		}
	}
	return false
}

// The category sets, collected from every class tag observed across the
// published periods (see the classes subcommand). The Word export mangles
// umlauts in style names, hence spellings like "eZitat-Einrckung".
var (
	// speakerIntroClasses mark a speaker change or an interjected question.
	speakerIntroClasses = newClassSet("rRednerkopf", "fZwischenfrage")

	// speechClasses cover ordinary speech plus the agenda and motion
	// paragraph styles that appear inside speaker sections.
	speechClasses = newClassSet(
		"aStandardabsatz", "t-N-ONummerierungohneSeitenzahl",
		"t-D-SAntragetcmitSeitenzahl", "t-D-OAntragetcohneSeitenzahl",
		"t-I-VInVerbindungmit", "t-O-NOhneNummerierungohneSeitenzahl",
		"t1AbsatznachTOP", "t-M-berschriftMndlicheAnfrage",
		"t-M-TTextMndlicheAnfrage", "t-N-SNummerierungmitSeitenzahl",
		"pPunktgliederung", "t-M-ETextMndlicheEinrckung",
		"MsoNormal", "aAbsatz", "1Tagesordnungsgliederung",
		"2Tagesordnungsgliederung", "3Tagesordnungsgliederung",
		"tEinrckTagesordnung", "mMndlicheAnfrage",
		"pZitatPunktgliederung", "dAntragDrucksache",
		"vVerfasserMndlichenAnfrage", "fberschriftMndlicheAnfrage",
		"kTextMndlicheAnfrage", "fberschriftMndlicheAnfragerage",
		"nNummerieringAufzhlung", "eTEingerueckterTOP", "vinVerbindung",
	)

	// annotationClasses mark stenographer remarks and chair changes.
	annotationClasses = newClassSet("kKlammer", "kKlammern", "wVorsitzwechsel")

	// citationClasses mark quoted material.
	citationClasses = newClassSet("zZitat", "eZitat-Einrckung")
)

// rePageNumber matches paragraphs that carry only a page marker.
var rePageNumber = regexp.MustCompile(`^(?:Seite )?\d{1,5}$`)

// ClassifyKind maps structural class tags to a record kind. The sets are
// checked in fixed order so a paragraph carrying tags from two categories
// classifies deterministically.
func ClassifyKind(tags []string) (types.Kind, bool) {
	switch {
	case speechClasses.intersects(tags):
		return types.KindSpeech, true
	case annotationClasses.intersects(tags):
		return types.KindAnnotation, true
	case citationClasses.intersects(tags):
		return types.KindCitation, true
	}
	return "", false
}

// stripAnnotation removes one pair of enclosing parentheses.
func stripAnnotation(text string) string {
	text = strings.TrimPrefix(text, "(")
	text = strings.TrimSuffix(text, ")")
	return strings.TrimSpace(text)
}

// stripCitation removes enclosing quotation marks, including the German
// low-high pairs.
func stripCitation(text string) string {
	text = strings.TrimLeft(text, `„“»«"'’‚`)
	text = strings.TrimRight(text, `„“»«"'’‚`)
	return strings.TrimSpace(text)
}

// nodeClasses returns the class tags of a paragraph node.
func nodeClasses(s *goquery.Selection) []string {
	attr, _ := s.Attr("class")
	return strings.Fields(attr)
}

// sortedClasses returns a sorted copy of tags for the diagnostic record field.
func sortedClasses(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	sort.Strings(out)
	return out
}

// CollectClasses adds every paragraph class tag in the document to the set.
// This backs the classes subcommand used to maintain the category sets.
func CollectClasses(doc *goquery.Document, into map[string]struct{}) {
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		for _, t := range nodeClasses(s) {
			into[t] = struct{}{}
		}
	})
}
