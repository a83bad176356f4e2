// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"github.com/pdiddy/plenum/internal/protocol"
)

var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Parse downloaded HTML protocols into structured JSON",
	Long: `Parse extracts the structured speech records from downloaded HTML session
transcripts. Each protocol-<period>-<session>.html becomes a
protocol-<period>-<session>.json next to it, holding the session metadata
and the ordered paragraph records.

Without arguments, all HTML protocols in the protocols directory are
parsed. With file arguments, only those files are parsed; files that do
not follow the protocol naming need --period and --session.`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("protocols-dir", "protocols", "directory holding downloaded documents")
	parseCmd.Flags().Int("period", 0, "legislative period for files with non-standard names")
	parseCmd.Flags().Int("session", 0, "session number for files with non-standard names")
	parseCmd.Flags().Bool("strip-citation-quotes", false, "remove enclosing quotation marks from citation paragraphs")

	rootCmd.AddCommand(parseCmd)
}

var reProtocolHTML = regexp.MustCompile(`^protocol-(\d+)-(\d+)\.html$`)

func runParse(cmd *cobra.Command, args []string) error {
	protocolsDir := stringSetting(cmd, "protocols-dir", "parse.protocols_dir")
	period, _ := cmd.Flags().GetInt("period")
	session, _ := cmd.Flags().GetInt("session")
	stripQuotes, _ := cmd.Flags().GetBool("strip-citation-quotes")

	files := args
	if len(files) == 0 {
		entries, err := os.ReadDir(protocolsDir)
		if err != nil {
			return fmt.Errorf("reading protocols directory %s: %w", protocolsDir, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && reProtocolHTML.MatchString(entry.Name()) {
				files = append(files, filepath.Join(protocolsDir, entry.Name()))
			}
		}
		if len(files) == 0 {
			return fmt.Errorf("no HTML protocols found in %s", protocolsDir)
		}
	}

	opts := protocol.Options{StripCitationQuotes: stripQuotes}

	var failed int
	for _, file := range files {
		p, idx := period, session
		if m := reProtocolHTML.FindStringSubmatch(filepath.Base(file)); m != nil {
			p, _ = strconv.Atoi(m[1])
			idx, _ = strconv.Atoi(m[2])
		}
		if p == 0 || idx == 0 {
			return fmt.Errorf("%s: cannot determine period and session, use --period and --session", file)
		}

		if err := parseFile(file, p, idx, opts); err != nil {
			fmt.Fprintf(os.Stdout, "failed  %s: %v\n", filepath.Base(file), err)
			failed++
			continue
		}
		fmt.Fprintf(os.Stdout, "parsed  %s\n", filepath.Base(file))
	}

	if failed > 0 {
		return fmt.Errorf("%d protocol(s) failed parsing", failed)
	}
	return nil
}

func parseFile(path string, period, session int, opts protocol.Options) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return fmt.Errorf("parsing HTML: %w", err)
	}

	meta := protocol.ExtractMetadata(doc, period, session, os.Stdout)
	parsed, err := protocol.Parse(doc, meta, opts, os.Stdout)
	if err != nil {
		return err
	}

	outPath := filepath.Join(filepath.Dir(path), fmt.Sprintf("protocol-%d-%d.json", period, session))
	data, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}
