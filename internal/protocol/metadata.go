// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package protocol

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/plenum/pkg/types"
)

// germanMonths maps the long month names used in the session date line.
var germanMonths = map[string]time.Month{
	"januar": time.January, "februar": time.February, "märz": time.March,
	"april": time.April, "mai": time.May, "juni": time.June,
	"juli": time.July, "august": time.August, "september": time.September,
	"oktober": time.October, "november": time.November, "dezember": time.December,
}

// reSessionDate matches German long-form dates like "29. Oktober 2021".
var reSessionDate = regexp.MustCompile(`(?i)(\d{1,2})\. ?(Januar|Februar|März|April|Mai|Juni|Juli|August|September|Oktober|November|Dezember) (\d{4})`)

// metadataHeadNodes bounds the date scan to the document head. The session
// date always sits above the agenda; scanning further would pick up dates
// quoted in speeches.
const metadataHeadNodes = 40

// ExtractMetadata computes the document-level metadata once per protocol,
// independent of the paragraph walk. Period and index come from the caller
// since they address the document in the archive. A missing date is a
// warning on w, not an error.
func ExtractMetadata(doc *goquery.Document, period, index int, w io.Writer) types.ProtocolMetadata {
	meta := types.ProtocolMetadata{
		Period: period,
		Index:  index,
		Source: fmt.Sprintf("MMP%d-%d", period, index),
	}

	meta.Title = Normalize(doc.Find("title").First().Text())
	if meta.Title == "" {
		meta.Title = fmt.Sprintf("Plenarprotokoll %d/%d", period, index)
	}

	meta.Date = findSessionDate(doc)
	if meta.Date == "" {
		fmt.Fprintf(w, "warning: %s: no session date found in document head\n", meta.Source)
	}

	return meta
}

// findSessionDate scans the head paragraphs for the session date and
// returns it in ISO form, or "" if none is found.
func findSessionDate(doc *goquery.Document) string {
	var date string
	doc.Find("p").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= metadataHeadNodes {
			return false
		}
		m := reSessionDate.FindStringSubmatch(Normalize(s.Text()))
		if m == nil {
			return true
		}
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		month := germanMonths[strings.ToLower(m[2])]
		date = fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		return false
	})
	return date
}
