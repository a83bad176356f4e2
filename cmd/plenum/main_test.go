// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import "testing"

// index and speakers do not register max-results; the config builder must
// not touch the undefined flag and leaves the store default in charge.
func TestIndexConfigWithoutMaxResultsFlag(t *testing.T) {
	for _, cmd := range []struct {
		name string
		cfg  func() int
	}{
		{"index", func() int { return indexConfig(indexCmd).MaxResults }},
		{"speakers", func() int { return indexConfig(speakersCmd).MaxResults }},
	} {
		if got := cmd.cfg(); got != 0 {
			t.Errorf("%s: MaxResults = %d, want 0", cmd.name, got)
		}
	}

	cfg := indexConfig(indexCmd)
	if cfg.IndexDir != "index" {
		t.Errorf("IndexDir = %q, want %q", cfg.IndexDir, "index")
	}
	if cfg.ProtocolsDir != "protocols" {
		t.Errorf("ProtocolsDir = %q, want %q", cfg.ProtocolsDir, "protocols")
	}
}

func TestIndexConfigMaxResultsFromSearch(t *testing.T) {
	if err := searchCmd.Flags().Set("max-results", "7"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { searchCmd.Flags().Set("max-results", "20") })

	cfg := indexConfig(searchCmd)
	if cfg.MaxResults != 7 {
		t.Errorf("MaxResults = %d, want 7", cfg.MaxResults)
	}
}

func TestQueryOptsFromFlags(t *testing.T) {
	for flag, value := range map[string]string{
		"speaker": "Müller",
		"kind":    "speech",
		"period":  "17",
	} {
		if err := searchCmd.Flags().Set(flag, value); err != nil {
			t.Fatal(err)
		}
	}
	t.Cleanup(func() {
		searchCmd.Flags().Set("speaker", "")
		searchCmd.Flags().Set("kind", "")
		searchCmd.Flags().Set("period", "0")
	})

	opts := queryOptsFromFlags(searchCmd, []string{"Haushalt", "Beratung"})
	if opts.Query != "Haushalt Beratung" {
		t.Errorf("Query = %q, want %q", opts.Query, "Haushalt Beratung")
	}
	if opts.Speaker != "Müller" {
		t.Errorf("Speaker = %q, want %q", opts.Speaker, "Müller")
	}
	if string(opts.Kind) != "speech" {
		t.Errorf("Kind = %q, want %q", opts.Kind, "speech")
	}
	if opts.Period != 17 {
		t.Errorf("Period = %d, want 17", opts.Period)
	}
	if opts.MaxResults != 0 {
		t.Errorf("MaxResults = %d, want 0 (store default governs)", opts.MaxResults)
	}
}
