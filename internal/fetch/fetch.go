// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads session protocol documents from the parliament
// document archive and maintains per-period manifests.
// See docs/ARCHITECTURE § Fetch.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/plenum/internal/httputil"
	"github.com/pdiddy/plenum/pkg/types"
)

// Result holds the outcome of a period fetch run.
type Result struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Total returns the total number of documents processed.
func (r Result) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// ProtocolFilename returns the local filename for a protocol document.
func ProtocolFilename(period, index int, extension string) string {
	return fmt.Sprintf("protocol-%d-%d.%s", period, index, extension)
}

// ProtocolURL resolves the archive URL for a protocol document. Documents
// are addressed as MMP<period>-<index>.<extension> under the base URL.
func ProtocolURL(baseURL string, period, index int, extension string) (string, error) {
	return url.JoinPath(baseURL, fmt.Sprintf("MMP%d-%d.%s", period, index, extension))
}

// FetchPeriod downloads all protocol documents of one period, updating the
// manifest in place. For each extension it probes session indexes
// sequentially from 1; after MaxFailures consecutive misses it assumes the
// period is exhausted and moves on. Documents already present on disk and in
// the manifest are skipped, so re-runs only pick up new sessions.
func FetchPeriod(ctx context.Context, client *http.Client, period int, cfg types.FetchConfig, m Manifest, w io.Writer) Result {
	var result Result

	maxDocument := cfg.MaxDocument
	if maxDocument <= 0 {
		maxDocument = 300
	}
	maxFailures := cfg.MaxFailures
	if maxFailures <= 0 {
		maxFailures = 20
	}
	extensions := cfg.Extensions
	if len(extensions) == 0 {
		extensions = []string{"html", "pdf", "docx", "doc"}
	}

	for _, ext := range extensions {
		fmt.Fprintf(w, "downloading %s files for period %d\n", ext, period)
		failures := 0

		for i := 1; i <= maxDocument; i++ {
			if ctx.Err() != nil {
				return result
			}

			filename := ProtocolFilename(period, i, ext)
			path := filepath.Join(cfg.ProtocolsDir, filename)
			if _, ok := m[filename]; ok {
				if _, err := os.Stat(path); err == nil {
					result.Skipped++
					continue
				}
			}

			docURL, err := ProtocolURL(cfg.BaseURL, period, i, ext)
			if err != nil {
				fmt.Fprintf(w, "  bad document URL for %d-%d: %v\n", period, i, err)
				result.Failed++
				continue
			}

			if cfg.DownloadDelay > 0 {
				time.Sleep(cfg.DownloadDelay)
			}

			if err := downloadFile(ctx, client, docURL, path, cfg); err != nil {
				failures++
				result.Failed++
				if failures == 1 {
					fmt.Fprintf(w, "  could not download %s: %v\n", docURL, err)
				}
				if failures > maxFailures {
					fmt.Fprintf(w, "  no additional %s files found\n", ext)
					break
				}
				continue
			}

			failures = 0
			result.Downloaded++
			m[filename] = Entry{Period: period, Index: i, URL: docURL}
		}
	}

	fmt.Fprintf(w, "\nfetch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result
}

// downloadFile fetches url to destPath via a temporary file renamed on
// success, so an interrupted download never leaves a truncated document.
func downloadFile(ctx context.Context, client *http.Client, url, destPath string, cfg types.FetchConfig) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.Do(ctx, client, req, httputil.Policy{})
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
