// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package protocol

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/plenum/pkg/types"
)

// SpeakerIntro is the identity extracted from a speaker-introduction
// paragraph. It lives until the next recognized introduction; its fields are
// copied by value into every record emitted while it is active.
type SpeakerIntro struct {
	Name      string
	Party     string
	Ministry  string
	Role      types.Role
	RoleTitle string

	// IsChair reports whether the speaker is presiding over the session
	// right now, not merely carrying a presiding title.
	IsChair bool

	// Speech is the text remaining after the introduction, if the
	// paragraph carried any.
	Speech string
}

// nameChars are the characters a speaker name may contain. U+2011 is the
// non-breaking hyphen the Word exports use in compound names.
const nameChars = `[\p{L}\p{N}\-\x{2011}.’' ]`

// The four introduction rules. All run on every candidate paragraph, in
// order, and a later match overrides an earlier one. The override order is
// load-bearing: "Müller (CDU):" must end up with a party, not just a name,
// and "Wüst, Ministerpräsident:" must keep both the ministry and the title.
//
// Known markup slips these patterns tolerate: a footnote marker "*)" after
// the name, a missing colon after the party, one missing or mismatched
// party bracket ("(CDU:", "SPD)", "(SPD]").
var (
	// <name>: with an optional footnote marker and ignorable parenthetical.
	reSpeakerName = regexp.MustCompile(`(?i)^(` + nameChars + `+)(?:\*\))? ?(?:\(\p{L}+ [\p{L} ]+\))? ?:`)

	// <name> (party) with tolerant brackets, colon optional.
	reSpeakerParty = regexp.MustCompile(`(?i)^(` + nameChars + `+)(?:\*\))? ?([(\[][\p{L}\p{N}]+[)\]]|[\p{L}\p{N}]+[)\]]|[(\[][\p{L}\p{N}]+) ?:?`)

	// <name>, <...minister...>:
	reSpeakerMinister = regexp.MustCompile(`(?i)^(` + nameChars + `+)(?:\*\))? ?,(?:\*\))? ?(\p{L}*minister[\p{L}\-\x{2011}.,() ]*):`)

	// <name>, <...präsident...>: for presiding-officer phrasings that do
	// not lead with the title.
	reSpeakerRole = regexp.MustCompile(`(?i)^(` + nameChars + `+)(?:\*\))? ?,(?:\*\))? ?([\p{L}\-\x{2011}.() ]*präsident[\p{L}\-\x{2011}.,() ]*):`)
)

// reNotSpeaker is the negative guard: text that merely resembles a speaker
// introduction because it starts with a capitalized word. Ordinary prose
// starts with a lower-case letter, a dash, ellipsis or bracket, or one of
// the catalogued German sentence openers.
var reNotSpeaker = regexp.MustCompile(`^(?:[\p{Ll}\-–—(\[„"'…]` +
	`|Aber |Als |Also |Auch |Damit |Dann |Dazu |Das |Dem |Den |Der |Die |Dies` +
	`|Ein |Eine |Es |Frau Präsidentin|Gibt es |Herr Präsident|Herzlichen` +
	`|Ich |Im |In |Liebe |Meine |Mit |Nach |Nun |Sehr geehrte|Sie |So |Und ` +
	`|Vielen Dank|Wir |Zum |Zur )`)

// Role prefix patterns, checked against the matched name in priority order.
// The matched prefix becomes the role title and is removed from the name.
var (
	rePresident     = regexp.MustCompile(`(?i)^((?:geschäftsführende[r]? |amtierende[r]? )?präsident(?:in)?) (.+)`)
	reVicePresident = regexp.MustCompile(`(?i)^((?:geschäftsführende[r]? (?:erste[r]? )?)?vizepräsident(?:in)?) (.+)`)
	reMinister      = regexp.MustCompile(`(?i)^((?:geschäftsführende[r]? )?minister(?:in)?) (.+)`)
)

// reChair covers the chair-title phrasings, including acting and deputy
// forms, used to decide whether a president or vice-president is actually
// presiding in this section.
var reChair = regexp.MustCompile(`(?i)^(?:amtierende[r]? |geschäftsführende[r]? |stellvertretende[r]? )?(?:erste[r]? )?(?:vize)?präsident(?:in)?\b`)

// MatchSpeakerIntro extracts the speaker identity from a normalized,
// correction-applied paragraph text.
//
// It returns errGuardRejected (wrapping ErrNotASpeakerIntro) when the
// negative guard fires, ErrNotASpeakerIntro when no rule matches, and the
// populated SpeakerIntro otherwise.
func MatchSpeakerIntro(text string) (*SpeakerIntro, error) {
	if reNotSpeaker.MatchString(text) {
		return nil, errGuardRejected
	}

	var (
		intro   SpeakerIntro
		matched bool
	)

	if m := reSpeakerName.FindStringSubmatchIndex(text); m != nil {
		intro.Name = text[m[2]:m[3]]
		intro.Speech = text[m[1]:]
		matched = true
	}
	if m := reSpeakerParty.FindStringSubmatchIndex(text); m != nil {
		intro.Name = text[m[2]:m[3]]
		intro.Party = strings.Trim(text[m[4]:m[5]], "([)]")
		intro.Speech = text[m[1]:]
		matched = true
	}
	if m := reSpeakerMinister.FindStringSubmatchIndex(text); m != nil {
		intro.Name = text[m[2]:m[3]]
		intro.Ministry = Normalize(text[m[4]:m[5]])
		intro.Speech = text[m[1]:]
		matched = true
	}
	if m := reSpeakerRole.FindStringSubmatchIndex(text); m != nil {
		intro.Name = text[m[2]:m[3]]
		intro.RoleTitle = Normalize(text[m[4]:m[5]])
		intro.Speech = text[m[1]:]
		matched = true
	}

	if !matched {
		return nil, fmt.Errorf("%w: %q", ErrNotASpeakerIntro, snippet(text))
	}

	classifyRole(&intro)

	intro.Name = Normalize(intro.Name)
	intro.Speech = Normalize(intro.Speech)
	return &intro, nil
}

// classifyRole strips a leading role title from the name, derives the
// canonical role, and sets the chair flag. The name still carries the title
// at this point; the chair check runs against that unstripped form.
func classifyRole(intro *SpeakerIntro) {
	unstripped := intro.Name
	if intro.RoleTitle != "" {
		unstripped = intro.Name + ", " + intro.RoleTitle
	}

	if m := rePresident.FindStringSubmatch(intro.Name); m != nil {
		intro.Role = types.RolePresident
		intro.RoleTitle = m[1]
		intro.Name = m[2]
	}
	if m := reVicePresident.FindStringSubmatch(intro.Name); m != nil {
		intro.Role = types.RoleVicePresident
		intro.RoleTitle = m[1]
		intro.Name = m[2]
	}
	if m := reMinister.FindStringSubmatch(intro.Name); m != nil {
		intro.Role = types.RoleMinister
		intro.RoleTitle = m[1]
		intro.Name = m[2]
	}

	// A captured ministry always means minister, whatever the name said.
	if intro.Ministry != "" {
		intro.Role = types.RoleMinister
	}
	if intro.RoleTitle != "" && intro.Role == "" {
		intro.Role = types.RoleOther
	}

	intro.IsChair = (intro.Role == types.RolePresident || intro.Role == types.RoleVicePresident) &&
		reChair.MatchString(unstripped)
}
