// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/plenum/pkg/types"
)

// QueryOptions holds parameters for protocol searches.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over paragraph text.
	Query string

	// Speaker filters by exact speaker name.
	Speaker string

	// Party filters by party abbreviation.
	Party string

	// Role filters by canonical speaker role.
	Role types.Role

	// Kind filters by paragraph kind.
	Kind types.Kind

	// Period filters by legislative period. Zero matches all periods.
	Period int

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Speaker == "" && q.Party == "" &&
		q.Role == "" && q.Kind == "" && q.Period == 0
}

// SearchResult is a ParagraphRecord with its protocol provenance.
type SearchResult struct {
	types.ParagraphRecord `yaml:",inline"`

	ID     string `json:"id" yaml:"id"`
	Source string `json:"protocol_source" yaml:"protocol_source"`
	Period int    `json:"protocol_period" yaml:"protocol_period"`
	Date   string `json:"protocol_date,omitempty" yaml:"protocol_date,omitempty"`
}

// Search queries the index with optional full-text search and structured
// filters. Results are ranked by relevance for full-text queries or sorted
// by source and sequence index for structured-only queries.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]SearchResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT g.id, g.source, g.kind, g.body, g.structural_classes,
				g.sequence_index, g.speaker_sequence_index,
				g.speaker_name, g.speaker_party, g.speaker_ministry,
				g.speaker_role, g.speaker_role_title, g.speaker_is_chair,
				p.period, p.date, paragraphs_fts.rank
			FROM paragraphs_fts
			JOIN paragraphs g ON g.rowid = paragraphs_fts.rowid
			JOIN protocols p ON g.source = p.source
			WHERE paragraphs_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT g.id, g.source, g.kind, g.body, g.structural_classes,
				g.sequence_index, g.speaker_sequence_index,
				g.speaker_name, g.speaker_party, g.speaker_ministry,
				g.speaker_role, g.speaker_role_title, g.speaker_is_chair,
				p.period, p.date, 0 AS rank
			FROM paragraphs g
			JOIN protocols p ON g.source = p.source
			WHERE 1=1`)
	}

	if opts.Speaker != "" {
		qb.WriteString(` AND g.speaker_name = ?`)
		args = append(args, opts.Speaker)
	}

	if opts.Party != "" {
		qb.WriteString(` AND g.speaker_party = ?`)
		args = append(args, opts.Party)
	}

	if opts.Role != "" {
		qb.WriteString(` AND g.speaker_role = ?`)
		args = append(args, string(opts.Role))
	}

	if opts.Kind != "" {
		qb.WriteString(` AND g.kind = ?`)
		args = append(args, string(opts.Kind))
	}

	if opts.Period != 0 {
		qb.WriteString(` AND p.period = ?`)
		args = append(args, opts.Period)
	}

	if useFTS {
		qb.WriteString(` ORDER BY paragraphs_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY g.source, g.sequence_index`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			sr          SearchResult
			kind        string
			role        sql.NullString
			classesJSON sql.NullString
			party       sql.NullString
			ministry    sql.NullString
			roleTitle   sql.NullString
			date        sql.NullString
			rank        float64
		)

		if err := rows.Scan(
			&sr.ID, &sr.Source, &kind, &sr.Text, &classesJSON,
			&sr.SequenceIndex, &sr.SpeakerSequenceIndex,
			&sr.SpeakerName, &party, &ministry,
			&role, &roleTitle, &sr.SpeakerIsChair,
			&sr.Period, &date, &rank,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		sr.Kind = types.Kind(kind)
		if role.Valid {
			sr.SpeakerRole = types.Role(role.String)
		}
		if classesJSON.Valid {
			json.Unmarshal([]byte(classesJSON.String), &sr.StructuralClasses)
		}
		sr.SpeakerParty = party.String
		sr.SpeakerMinistry = ministry.String
		sr.SpeakerRoleTitle = roleTitle.String
		sr.Date = date.String

		results = append(results, sr)
	}

	return results, rows.Err()
}

// SpeakerSummary aggregates one speaker identity across the index.
type SpeakerSummary struct {
	Name       string     `json:"name" yaml:"name"`
	Party      string     `json:"party,omitempty" yaml:"party,omitempty"`
	Role       types.Role `json:"role,omitempty" yaml:"role,omitempty"`
	Paragraphs int        `json:"paragraphs" yaml:"paragraphs"`

	// FirstSeen is the source identifier of the earliest protocol the
	// speaker appears in.
	FirstSeen string `json:"first_seen" yaml:"first_seen"`
}

// Speakers lists the distinct speaker identities in the index with their
// paragraph counts, optionally filtered by role, ordered by name. A person
// appearing with different parties or roles yields one row per combination.
func (s *Store) Speakers(ctx context.Context, role types.Role) ([]SpeakerSummary, error) {
	var (
		qb   strings.Builder
		args []any
	)

	// The bare p.source column resolves to the row that produced the MIN
	// aggregate, a documented SQLite behavior, giving the earliest protocol
	// per speaker identity.
	qb.WriteString(
		`SELECT g.speaker_name, g.speaker_party, g.speaker_role, count(*),
			p.source, MIN(p.period * 1000000 + p.session)
		FROM paragraphs g
		JOIN protocols p ON g.source = p.source
		WHERE g.speaker_name != ''`)

	if role != "" {
		qb.WriteString(` AND g.speaker_role = ?`)
		args = append(args, string(role))
	}

	qb.WriteString(` GROUP BY g.speaker_name, g.speaker_party, g.speaker_role
		ORDER BY g.speaker_name, g.speaker_party`)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying speakers: %w", err)
	}
	defer rows.Close()

	var speakers []SpeakerSummary
	for rows.Next() {
		var (
			sp        SpeakerSummary
			party     sql.NullString
			roleValue sql.NullString
			minKey    int64
		)
		if err := rows.Scan(&sp.Name, &party, &roleValue, &sp.Paragraphs, &sp.FirstSeen, &minKey); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		sp.Party = party.String
		if roleValue.Valid {
			sp.Role = types.Role(roleValue.String)
		}
		speakers = append(speakers, sp)
	}

	return speakers, rows.Err()
}
