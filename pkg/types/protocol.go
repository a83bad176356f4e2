// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Kind classifies a parsed protocol paragraph.
type Kind string

const (
	// KindSpeech is an ordinary spoken paragraph.
	KindSpeech Kind = "speech"
	// KindAnnotation is a stenographer remark such as applause or a chair change.
	KindAnnotation Kind = "annotation"
	// KindCitation is quoted material read into the record.
	KindCitation Kind = "citation"
)

// Role is the canonical parliamentary role of a speaker.
type Role string

const (
	RolePresident     Role = "president"
	RoleVicePresident Role = "vice-president"
	RoleMinister      Role = "minister"
	RoleOther         Role = "other"
)

// ParagraphRecord is one parsed unit of transcript content. Speaker fields
// are copied by value from the speaker section active when the paragraph
// was emitted.
type ParagraphRecord struct {
	// Kind is speech, annotation, or citation. Speaker introductions are
	// never emitted standalone; they become the speaker fields of the
	// records that follow.
	Kind Kind `json:"kind" yaml:"kind"`

	// Text is the normalized body text. Annotation text has one pair of
	// enclosing parentheses removed; citation text optionally has its
	// quotation marks removed.
	Text string `json:"text" yaml:"text"`

	// StructuralClasses is the sorted set of markup class tags the source
	// paragraph carried, kept for diagnostics.
	StructuralClasses []string `json:"structural_classes" yaml:"structural_classes"`

	// SequenceIndex is the 1-based position among all records of the
	// protocol. Values are contiguous with no gaps.
	SequenceIndex int `json:"sequence_index" yaml:"sequence_index"`

	// SpeakerSequenceIndex is the 1-based position within the current
	// speaker section. It resets to 1 at each speaker change.
	SpeakerSequenceIndex int `json:"speaker_sequence_index" yaml:"speaker_sequence_index"`

	SpeakerName      string `json:"speaker_name" yaml:"speaker_name"`
	SpeakerParty     string `json:"speaker_party,omitempty" yaml:"speaker_party,omitempty"`
	SpeakerMinistry  string `json:"speaker_ministry,omitempty" yaml:"speaker_ministry,omitempty"`
	SpeakerRole      Role   `json:"speaker_role,omitempty" yaml:"speaker_role,omitempty"`
	SpeakerRoleTitle string `json:"speaker_role_title,omitempty" yaml:"speaker_role_title,omitempty"`

	// SpeakerIsChair reports whether the speaker is presiding over the
	// session right now, as opposed to merely holding a presiding title.
	SpeakerIsChair bool `json:"speaker_is_chair" yaml:"speaker_is_chair"`
}

// ProtocolMetadata is the document-level metadata of one session protocol.
type ProtocolMetadata struct {
	// Period is the legislative period ("Wahlperiode").
	Period int `json:"protocol_period" yaml:"protocol_period"`

	// Index is the session number within the period.
	Index int `json:"protocol_index" yaml:"protocol_index"`

	// Date is the ISO session date, empty if it could not be detected.
	Date string `json:"protocol_date,omitempty" yaml:"protocol_date,omitempty"`

	// Title is the document title.
	Title string `json:"protocol_title" yaml:"protocol_title"`

	// Source is the source document identifier (e.g. "MMP17-31").
	Source string `json:"protocol_source" yaml:"protocol_source"`
}

// Protocol is one fully parsed session transcript: document metadata plus
// the ordered paragraph records. This shape, serialized as a single JSON
// object with the records under "content", is what the index stage consumes.
type Protocol struct {
	ProtocolMetadata `yaml:",inline"`

	Content []ParagraphRecord `json:"content" yaml:"content"`
}
