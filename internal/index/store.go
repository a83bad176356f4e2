// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index persists parsed protocols in a SQLite database with an
// FTS5 full-text index over the paragraph text.
// See docs/ARCHITECTURE § Index.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/plenum/pkg/types"
)

const dbFile = "plenum.db"

// Store manages the protocol SQLite database.
type Store struct {
	db           *sql.DB
	protocolsDir string
	maxResults   int
}

// NewStore opens or creates the protocol database at cfg.IndexDir/plenum.db,
// creating the schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:           db,
		protocolsDir: cfg.ProtocolsDir,
		maxResults:   maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS protocols (
			source TEXT PRIMARY KEY,
			period INTEGER NOT NULL,
			session INTEGER NOT NULL,
			date TEXT,
			title TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS paragraphs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL REFERENCES protocols(source),
			kind TEXT NOT NULL,
			body TEXT NOT NULL,
			structural_classes TEXT,
			sequence_index INTEGER NOT NULL,
			speaker_sequence_index INTEGER NOT NULL,
			speaker_name TEXT NOT NULL,
			speaker_party TEXT,
			speaker_ministry TEXT,
			speaker_role TEXT,
			speaker_role_title TEXT,
			speaker_is_chair INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_paragraphs_source ON paragraphs(source)`,
		`CREATE INDEX IF NOT EXISTS idx_paragraphs_kind ON paragraphs(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_paragraphs_speaker ON paragraphs(speaker_name)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			source TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='paragraphs_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE paragraphs_fts USING fts5(body, content=paragraphs, content_rowid=rowid)`,
			`CREATE TRIGGER paragraphs_ai AFTER INSERT ON paragraphs BEGIN
				INSERT INTO paragraphs_fts(rowid, body) VALUES (new.rowid, new.body);
			END`,
			`CREATE TRIGGER paragraphs_ad AFTER DELETE ON paragraphs BEGIN
				INSERT INTO paragraphs_fts(paragraphs_fts, rowid, body) VALUES('delete', old.rowid, old.body);
			END`,
			`CREATE TRIGGER paragraphs_au AFTER UPDATE ON paragraphs BEGIN
				INSERT INTO paragraphs_fts(paragraphs_fts, rowid, body) VALUES('delete', old.rowid, old.body);
				INSERT INTO paragraphs_fts(rowid, body) VALUES (new.rowid, new.body);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// ParagraphID builds the deterministic document ID for one paragraph,
// p-<period>-<session>-<sequence index>. Re-indexing a protocol therefore
// overwrites its previous paragraphs instead of duplicating them.
func ParagraphID(period, index, sequenceIndex int) string {
	return fmt.Sprintf("p-%d-%d-%d", period, index, sequenceIndex)
}

// IngestSummary holds counts from an indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of protocols processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

var reProtocolJSON = regexp.MustCompile(`^protocol-\d+-\d+\.json$`)

// IngestDir reads parsed protocol-<period>-<session>.json files from the
// protocols directory and populates the database. File modification times
// are tracked so unchanged protocols are skipped on re-runs.
func (s *Store) IngestDir(ctx context.Context, w io.Writer) (IngestSummary, error) {
	entries, err := os.ReadDir(s.protocolsDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading protocols directory %s: %w", s.protocolsDir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		if entry.IsDir() || !reProtocolJSON.MatchString(entry.Name()) {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		filePath := filepath.Join(s.protocolsDir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", entry.Name(), err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		data, err := os.ReadFile(filePath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", entry.Name(), err)
			summary.Failed++
			continue
		}

		var protocol types.Protocol
		if err := json.Unmarshal(data, &protocol); err != nil {
			fmt.Fprintf(w, "failed  %s: parse error: %v\n", entry.Name(), err)
			summary.Failed++
			continue
		}

		// Check whether the file has changed since last indexing.
		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE source = ?`, protocol.Source,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", protocol.Source)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		if err := s.IngestProtocol(ctx, &protocol, modTime); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", protocol.Source, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d paragraphs)\n", protocol.Source, len(protocol.Content))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d paragraphs)\n", protocol.Source, len(protocol.Content))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

// IngestProtocol writes one parsed protocol and all its paragraphs in a
// single transaction, replacing any earlier version of the same source.
func (s *Store) IngestProtocol(ctx context.Context, protocol *types.Protocol, modTime string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM paragraphs WHERE source = ?`, protocol.Source,
	); err != nil {
		return fmt.Errorf("deleting old paragraphs: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO protocols (source, period, session, date, title)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(source) DO UPDATE SET
			period=excluded.period, session=excluded.session,
			date=excluded.date, title=excluded.title`,
		protocol.Source, protocol.Period, protocol.Index, protocol.Date, protocol.Title,
	)
	if err != nil {
		return fmt.Errorf("upserting protocol: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO paragraphs
			(id, source, kind, body, structural_classes,
			 sequence_index, speaker_sequence_index,
			 speaker_name, speaker_party, speaker_ministry,
			 speaker_role, speaker_role_title, speaker_is_chair)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range protocol.Content {
		classesJSON, _ := json.Marshal(rec.StructuralClasses)
		id := ParagraphID(protocol.Period, protocol.Index, rec.SequenceIndex)
		_, err := stmt.ExecContext(ctx,
			id, protocol.Source, string(rec.Kind), rec.Text, string(classesJSON),
			rec.SequenceIndex, rec.SpeakerSequenceIndex,
			rec.SpeakerName, rec.SpeakerParty, rec.SpeakerMinistry,
			string(rec.SpeakerRole), rec.SpeakerRoleTitle, rec.SpeakerIsChair,
		)
		if err != nil {
			return fmt.Errorf("inserting paragraph %s: %w", id, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (source, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(source) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		protocol.Source, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}
