// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/plenum/pkg/types"
)

// newArchive serves MMP<period>-<index>.html documents for indexes 1..count
// and 404s everything else.
func newArchive(t *testing.T, period, count int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 1; i <= count; i++ {
			if r.URL.Path == fmt.Sprintf("/MMP%d-%d.html", period, i) {
				fmt.Fprintf(w, "<html><body>protocol %d/%d</body></html>", period, i)
				return
			}
		}
		http.NotFound(w, r)
	}))
}

func testConfig(baseURL, dir string) types.FetchConfig {
	return types.FetchConfig{
		BaseURL:      baseURL,
		ProtocolsDir: dir,
		MaxDocument:  10,
		MaxFailures:  3,
		Extensions:   []string{"html"},
	}
}

func TestFetchPeriod_DownloadsSequentially(t *testing.T) {
	srv := newArchive(t, 18, 4)
	defer srv.Close()

	dir := t.TempDir()
	m := Manifest{}
	var buf strings.Builder

	result := FetchPeriod(context.Background(), srv.Client(), 18, testConfig(srv.URL, dir), m, &buf)

	assert.Equal(t, 4, result.Downloaded)
	assert.Equal(t, 0, result.Skipped)
	assert.Len(t, m, 4)

	data, err := os.ReadFile(filepath.Join(dir, "protocol-18-3.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "protocol 18/3")

	entry := m["protocol-18-2.html"]
	assert.Equal(t, 18, entry.Period)
	assert.Equal(t, 2, entry.Index)
	assert.Contains(t, entry.URL, "MMP18-2.html")

	assert.Contains(t, buf.String(), "no additional html files found")
}

func TestFetchPeriod_SkipsExisting(t *testing.T) {
	srv := newArchive(t, 18, 2)
	defer srv.Close()

	dir := t.TempDir()
	m := Manifest{}
	var buf strings.Builder
	cfg := testConfig(srv.URL, dir)

	first := FetchPeriod(context.Background(), srv.Client(), 18, cfg, m, &buf)
	require.Equal(t, 2, first.Downloaded)

	second := FetchPeriod(context.Background(), srv.Client(), 18, cfg, m, &buf)
	assert.Equal(t, 0, second.Downloaded)
	assert.Equal(t, 2, second.Skipped)
}

func TestFetchPeriod_RedownloadsMissingFile(t *testing.T) {
	srv := newArchive(t, 18, 1)
	defer srv.Close()

	dir := t.TempDir()
	m := Manifest{}
	var buf strings.Builder
	cfg := testConfig(srv.URL, dir)

	FetchPeriod(context.Background(), srv.Client(), 18, cfg, m, &buf)
	require.NoError(t, os.Remove(filepath.Join(dir, "protocol-18-1.html")))

	result := FetchPeriod(context.Background(), srv.Client(), 18, cfg, m, &buf)
	assert.Equal(t, 1, result.Downloaded)

	_, err := os.Stat(filepath.Join(dir, "protocol-18-1.html"))
	assert.NoError(t, err)
}

func TestFetchPeriod_StopsAfterConsecutiveFailures(t *testing.T) {
	srv := newArchive(t, 18, 0)
	defer srv.Close()

	dir := t.TempDir()
	var buf strings.Builder
	cfg := testConfig(srv.URL, dir)

	result := FetchPeriod(context.Background(), srv.Client(), 18, cfg, Manifest{}, &buf)

	assert.Equal(t, 0, result.Downloaded)
	assert.Equal(t, cfg.MaxFailures+1, result.Failed)
	assert.Contains(t, buf.String(), "no additional html files found")
}

func TestFetchPeriod_ContextCancelled(t *testing.T) {
	srv := newArchive(t, 18, 5)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf strings.Builder
	result := FetchPeriod(ctx, srv.Client(), 18, testConfig(srv.URL, t.TempDir()), Manifest{}, &buf)

	assert.Equal(t, 0, result.Downloaded)
}

func TestProtocolURL(t *testing.T) {
	got, err := ProtocolURL("https://archive.example/dokumentenarchiv", 17, 31, "html")
	if err != nil {
		t.Fatal(err)
	}
	want := "https://archive.example/dokumentenarchiv/MMP17-31.html"
	if got != want {
		t.Errorf("ProtocolURL = %q, want %q", got, want)
	}
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := Manifest{
		"protocol-17-1.html": {Period: 17, Index: 1, URL: "https://archive.example/MMP17-1.html"},
		"protocol-17-2.html": {Period: 17, Index: 2, URL: "https://archive.example/MMP17-2.html"},
	}

	if err := SaveManifest(dir, 17, m); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadManifest(dir, 17)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d entries, want 2", len(loaded))
	}
	if loaded["protocol-17-2.html"].Index != 2 {
		t.Errorf("entry index = %d, want 2", loaded["protocol-17-2.html"].Index)
	}
}

func TestLoadManifest_Missing(t *testing.T) {
	m, err := LoadManifest(t.TempDir(), 99)
	if err != nil {
		t.Fatal(err)
	}
	if len(m) != 0 {
		t.Errorf("expected empty manifest, got %d entries", len(m))
	}
}
