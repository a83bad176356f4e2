// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package protocol

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/plenum/pkg/types"
)

func TestClassifyKind(t *testing.T) {
	tests := []struct {
		name   string
		tags   []string
		want   types.Kind
		wantOK bool
	}{
		{"standard paragraph", []string{"aStandardabsatz"}, types.KindSpeech, true},
		{"agenda style", []string{"t1AbsatznachTOP"}, types.KindSpeech, true},
		{"annotation", []string{"kKlammer"}, types.KindAnnotation, true},
		{"chair change", []string{"wVorsitzwechsel"}, types.KindAnnotation, true},
		{"citation", []string{"zZitat"}, types.KindCitation, true},
		{"indented citation", []string{"eZitat-Einrckung"}, types.KindCitation, true},
		{"case insensitive", []string{"ASTANDARDABSATZ"}, types.KindSpeech, true},
		{"speech wins over citation", []string{"zZitat", "aStandardabsatz"}, types.KindSpeech, true},
		{"unknown", []string{"xMysteryStyle"}, "", false},
		{"no tags", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClassifyKind(tt.tags)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ClassifyKind(%v) = (%q, %v), want (%q, %v)", tt.tags, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestStripAnnotation(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"(Beifall von der CDU)", "Beifall von der CDU"},
		{"(Zuruf: Genau! (Heiterkeit))", "Zuruf: Genau! (Heiterkeit)"},
		{"Beifall ohne Klammern", "Beifall ohne Klammern"},
		{"(Nur öffnend", "Nur öffnend"},
	}
	for _, tt := range tests {
		if got := stripAnnotation(tt.in); got != tt.want {
			t.Errorf("stripAnnotation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripCitation(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"„Zitat Text“", "Zitat Text"},
		{`"Zitat Text"`, "Zitat Text"},
		{"Ohne Anführungszeichen", "Ohne Anführungszeichen"},
	}
	for _, tt := range tests {
		if got := stripCitation(tt.in); got != tt.want {
			t.Errorf("stripCitation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPageNumberPattern(t *testing.T) {
	matching := []string{"226", "3", "10452", "Seite 3427"}
	for _, s := range matching {
		if !rePageNumber.MatchString(s) {
			t.Errorf("rePageNumber should match %q", s)
		}
	}
	nonMatching := []string{"226 Abgeordnete", "Seite", "17/1234", ""}
	for _, s := range nonMatching {
		if rePageNumber.MatchString(s) {
			t.Errorf("rePageNumber should not match %q", s)
		}
	}
}

func TestCollectClasses(t *testing.T) {
	html := `<html><body>
<p class="aStandardabsatz">a</p>
<p class="rRednerkopf bBeginn">b</p>
<p>c</p>
</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}

	got := make(map[string]struct{})
	CollectClasses(doc, got)

	for _, want := range []string{"aStandardabsatz", "rRednerkopf", "bBeginn"} {
		if _, ok := got[want]; !ok {
			t.Errorf("missing class %q in %v", want, got)
		}
	}
	if len(got) != 3 {
		t.Errorf("expected 3 classes, got %v", got)
	}
}
