// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "plenum/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the document archive base URL the protocol filenames are
	// resolved against.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// ProtocolsDir is the directory downloaded documents and period
	// manifests are stored in.
	ProtocolsDir string `json:"protocols_dir" yaml:"protocols_dir"`

	// MaxDocument is the highest session index probed per period (default 300).
	MaxDocument int `json:"max_document" yaml:"max_document"`

	// MaxFailures is the number of consecutive download failures after
	// which probing a period stops (default 20). Session indexes are
	// contiguous, so a long run of misses means the period is exhausted.
	MaxFailures int `json:"max_failures" yaml:"max_failures"`

	// DownloadDelay is the delay between consecutive downloads (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// Extensions lists the document formats fetched per protocol.
	// HTML comes first since the parse stage needs it.
	Extensions []string `json:"extensions" yaml:"extensions"`
}

// ParseConfig holds settings for the parse stage.
type ParseConfig struct {
	// ProtocolsDir is the directory containing downloaded HTML documents;
	// parsed JSON documents are written next to them.
	ProtocolsDir string `json:"protocols_dir" yaml:"protocols_dir"`

	// StripCitationQuotes removes enclosing quotation marks from citation
	// paragraphs. Off by default: quotes are part of the stenographic record.
	StripCitationQuotes bool `json:"strip_citation_quotes" yaml:"strip_citation_quotes"`
}

// IndexConfig holds settings for the index stage.
type IndexConfig struct {
	// IndexDir is the directory holding the SQLite search index.
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// ProtocolsDir is the directory parsed JSON documents are read from.
	ProtocolsDir string `json:"protocols_dir" yaml:"protocols_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Fetch FetchConfig `json:"fetch" yaml:"fetch"`
	Parse ParseConfig `json:"parse" yaml:"parse"`
	Index IndexConfig `json:"index" yaml:"index"`
}
