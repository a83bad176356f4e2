// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package protocol

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/plenum/pkg/types"
)

const sampleProtocol = `<html>
<head><title>Plenarprotokoll 17/31</title></head>
<body>
<p class="aStandardabsatz">Plenarprotokoll 17/31, 29. Oktober 2021</p>
<p class="aStandardabsatz">Tagesordnung</p>
<p class="bBeginn">Beginn: 10:02 Uhr</p>
<p class="aStandardabsatz">Vor Eintritt in die Tagesordnung.</p>
<p class="rRednerkopf">Präsident André Kuper: Guten Morgen!</p>
<p class="aStandardabsatz">Ich eröffne die 31. Sitzung.</p>
<p class="kKlammer">(Beifall von allen Fraktionen)</p>
<p class="rRednerkopf">Ich bitte um Ruhe.</p>
<p class="rRednerkopf">Müller (CDU): </p>
<p class="aStandardabsatz">Wir stimmen heute ab.</p>
<p class="zZitat">„Die Würde des Menschen ist unantastbar.“</p>
<p class="aStandardabsatz">226</p>
<p class="sSchluss">Schluss: 13:05 Uhr</p>
</body>
</html>`

func parseSample(t *testing.T, html string, opts Options) (*types.Protocol, *bytes.Buffer, error) {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	var diag bytes.Buffer
	meta := ExtractMetadata(doc, 17, 31, &diag)
	p, err := Parse(doc, meta, opts, &diag)
	return p, &diag, err
}

func TestParse_RecordSequence(t *testing.T) {
	p, diag, err := parseSample(t, sampleProtocol, Options{})
	require.NoError(t, err)
	require.Len(t, p.Content, 5)

	// sequence_index values are contiguous starting at 1.
	for i, rec := range p.Content {
		assert.Equal(t, i+1, rec.SequenceIndex)
	}

	first := p.Content[0]
	assert.Equal(t, types.KindSpeech, first.Kind)
	assert.Equal(t, "Ich eröffne die 31. Sitzung.", first.Text)
	assert.Equal(t, 1, first.SpeakerSequenceIndex)
	assert.Equal(t, "André Kuper", first.SpeakerName)
	assert.Equal(t, types.RolePresident, first.SpeakerRole)
	assert.True(t, first.SpeakerIsChair)

	second := p.Content[1]
	assert.Equal(t, types.KindAnnotation, second.Kind)
	assert.Equal(t, "Beifall von allen Fraktionen", second.Text)
	assert.Equal(t, 2, second.SpeakerSequenceIndex)

	// The mis-tagged intro became ordinary speech attributed to the
	// still-active section, with no diagnostic for the guard hit.
	third := p.Content[2]
	assert.Equal(t, types.KindSpeech, third.Kind)
	assert.Equal(t, "Ich bitte um Ruhe.", third.Text)
	assert.Equal(t, 3, third.SpeakerSequenceIndex)
	assert.Equal(t, "André Kuper", third.SpeakerName)
	assert.NotContains(t, diag.String(), "speaker intro paragraph without speaker information")

	// New speaker section resets the per-speaker counter.
	fourth := p.Content[3]
	assert.Equal(t, "Müller", fourth.SpeakerName)
	assert.Equal(t, "CDU", fourth.SpeakerParty)
	assert.Equal(t, 1, fourth.SpeakerSequenceIndex)
	assert.False(t, fourth.SpeakerIsChair)

	// Citation quotes stay by default.
	fifth := p.Content[4]
	assert.Equal(t, types.KindCitation, fifth.Kind)
	assert.Equal(t, "„Die Würde des Menschen ist unantastbar.“", fifth.Text)
	assert.Equal(t, []string{"zZitat"}, fifth.StructuralClasses)
}

func TestParse_DropsFrontMatter(t *testing.T) {
	p, diag, err := parseSample(t, sampleProtocol, Options{})
	require.NoError(t, err)

	for _, rec := range p.Content {
		assert.NotEqual(t, "Vor Eintritt in die Tagesordnung.", rec.Text)
		assert.NotEmpty(t, rec.SpeakerName)
	}
	assert.Contains(t, diag.String(), "dropped 1 paragraph(s) before the first speaker section")
}

func TestParse_SingleWordNameWarning(t *testing.T) {
	_, diag, err := parseSample(t, sampleProtocol, Options{})
	require.NoError(t, err)
	assert.Contains(t, diag.String(), `single-word speaker name "Müller"`)
}

func TestParse_StripCitationQuotes(t *testing.T) {
	p, _, err := parseSample(t, sampleProtocol, Options{StripCitationQuotes: true})
	require.NoError(t, err)
	assert.Equal(t, "Die Würde des Menschen ist unantastbar.", p.Content[4].Text)
}

func TestParse_Idempotent(t *testing.T) {
	p1, _, err := parseSample(t, sampleProtocol, Options{})
	require.NoError(t, err)
	p2, _, err := parseSample(t, sampleProtocol, Options{})
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
}

func TestParse_MissingBeginBoundary(t *testing.T) {
	html := strings.Replace(sampleProtocol, `<p class="bBeginn">Beginn: 10:02 Uhr</p>`, "", 1)
	p, _, err := parseSample(t, html, Options{})
	assert.Nil(t, p)
	require.ErrorIs(t, err, ErrBoundaryNotFound)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "MMP17-31", perr.Doc)
}

func TestParse_MissingEndBoundary(t *testing.T) {
	html := strings.Replace(sampleProtocol, `<p class="sSchluss">Schluss: 13:05 Uhr</p>`, "", 1)
	p, _, err := parseSample(t, html, Options{})
	assert.Nil(t, p)
	// The end marker text exists nowhere, so boundary detection fails
	// before the walk even starts.
	assert.ErrorIs(t, err, ErrBoundaryNotFound)
}

func TestParse_EndBoundaryNeverReached(t *testing.T) {
	// The end marker exists but sits before the start node, so the
	// forward walk exhausts the document without passing it.
	html := strings.Replace(sampleProtocol, `<p class="bBeginn">Beginn: 10:02 Uhr</p>`, "", 1)
	html = strings.Replace(html, `<p class="aStandardabsatz">Tagesordnung</p>`,
		`<p class="sSchluss">Schluss: 13:05 Uhr</p>
<p class="bBeginn">Beginn: 10:02 Uhr</p>`, 1)
	html = strings.Replace(html, `<p class="sSchluss">Schluss: 13:05 Uhr</p>
</body>`, "</body>", 1)

	p, _, err := parseSample(t, html, Options{})
	assert.Nil(t, p)
	require.ErrorIs(t, err, ErrEndBoundaryNeverReached)
}

func TestParse_UnclassifiableParagraphIsFatal(t *testing.T) {
	html := strings.Replace(sampleProtocol,
		`<p class="aStandardabsatz">Wir stimmen heute ab.</p>`,
		`<p class="xMysteryStyle">Wir stimmen heute ab.</p>`, 1)
	p, _, err := parseSample(t, html, Options{})
	assert.Nil(t, p)
	require.ErrorIs(t, err, ErrUnclassifiableParagraph)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Snippet, "Wir stimmen heute ab.")
	assert.Contains(t, err.Error(), "xMysteryStyle")
}

func TestParse_ZeroRecordsWarns(t *testing.T) {
	html := `<html><body>
<p class="bBeginn">Beginn: 10:02 Uhr</p>
<p class="aStandardabsatz">Nur Vorspann, kein Redner.</p>
<p class="sSchluss">Schluss: 11:00 Uhr</p>
</body></html>`
	p, diag, err := parseSample(t, html, Options{})
	require.NoError(t, err)
	assert.Empty(t, p.Content)
	assert.Contains(t, diag.String(), "without any records")
}

func TestParse_CorrectionRecoversSpeakerIntro(t *testing.T) {
	html := strings.Replace(sampleProtocol,
		`<p class="rRednerkopf">Müller (CDU): </p>`,
		`<p class="rRednerkopf">Marc Herter SPD): </p>`, 1)
	p, _, err := parseSample(t, html, Options{})
	require.NoError(t, err)

	fourth := p.Content[3]
	assert.Equal(t, "Marc Herter", fourth.SpeakerName)
	assert.Equal(t, "SPD", fourth.SpeakerParty)
}

func TestExtractMetadata(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sampleProtocol))
	require.NoError(t, err)

	var diag bytes.Buffer
	meta := ExtractMetadata(doc, 17, 31, &diag)

	assert.Equal(t, 17, meta.Period)
	assert.Equal(t, 31, meta.Index)
	assert.Equal(t, "MMP17-31", meta.Source)
	assert.Equal(t, "Plenarprotokoll 17/31", meta.Title)
	assert.Equal(t, "2021-10-29", meta.Date)
	assert.Empty(t, diag.String())
}

func TestExtractMetadata_MissingDate(t *testing.T) {
	html := `<html><head><title>Protokoll</title></head><body>
<p class="aStandardabsatz">Kein Datum hier.</p>
</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	var diag bytes.Buffer
	meta := ExtractMetadata(doc, 14, 3, &diag)
	assert.Empty(t, meta.Date)
	assert.Contains(t, diag.String(), "no session date found")
}
