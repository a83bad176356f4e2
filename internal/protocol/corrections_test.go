// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package protocol

import "testing"

func TestApplyCorrections(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"untouched text passes through",
			"Vizepräsident Oliver Keymis: Danke schön.",
			"Vizepräsident Oliver Keymis: Danke schön.",
		},
		{
			"missing colon after chair name",
			"Vizepräsidentin Angela Freimuth Es ist 10 Uhr.",
			"Vizepräsidentin Angela Freimuth: Es ist 10 Uhr.",
		},
		{
			"missing party close bracket",
			"Angela Freimuth (FDP: Herr Präsident!",
			"Angela Freimuth (FDP): Herr Präsident!",
		},
		{
			"missing party open bracket",
			"Marc Herter SPD): Zur Geschäftsordnung.",
			"Marc Herter (SPD): Zur Geschäftsordnung.",
		},
		{
			"prefix only, remainder untouched",
			"Josef Hovenjürgen (CDU]: (CDU]:",
			"Josef Hovenjürgen (CDU): (CDU]:",
		},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApplyCorrections(tt.in); got != tt.want {
				t.Errorf("ApplyCorrections(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMustLoadCorrections(t *testing.T) {
	if len(corrections) == 0 {
		t.Fatal("embedded corrections catalogue is empty")
	}
	for i, c := range corrections {
		if c.Prefix == "" {
			t.Errorf("entry %d: empty prefix", i)
		}
	}
}

func TestMustLoadCorrectionsRejectsBadData(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on malformed catalogue")
		}
	}()
	mustLoadCorrections([]byte("- prefix: \"\"\n  replace: \"x\"\n"))
}
