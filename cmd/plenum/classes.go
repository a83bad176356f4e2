// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"github.com/pdiddy/plenum/internal/protocol"
)

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "Inventory the markup class tags used by downloaded protocols",
	Long: `Classes scans the downloaded HTML protocols and lists every markup class
tag found on their paragraphs. The parser classifies paragraphs by these
tags; an unknown tag in the output usually means a new transcript style
that needs a classification decision.`,
	RunE: runClasses,
}

func init() {
	classesCmd.Flags().String("protocols-dir", "protocols", "directory holding downloaded documents")

	rootCmd.AddCommand(classesCmd)
}

func runClasses(cmd *cobra.Command, args []string) error {
	protocolsDir := stringSetting(cmd, "protocols-dir", "parse.protocols_dir")

	entries, err := os.ReadDir(protocolsDir)
	if err != nil {
		return fmt.Errorf("reading protocols directory %s: %w", protocolsDir, err)
	}

	seen := make(map[string]struct{})
	var scanned int

	for _, entry := range entries {
		if entry.IsDir() || !reProtocolHTML.MatchString(entry.Name()) {
			continue
		}

		f, err := os.Open(filepath.Join(protocolsDir, entry.Name()))
		if err != nil {
			return err
		}
		doc, err := goquery.NewDocumentFromReader(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parsing %s: %w", entry.Name(), err)
		}

		protocol.CollectClasses(doc, seen)
		scanned++
	}

	if scanned == 0 {
		return fmt.Errorf("no HTML protocols found in %s", protocolsDir)
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	for _, tag := range tags {
		fmt.Println(tag)
	}
	fmt.Fprintf(os.Stdout, "\n%d class tags across %d protocols\n", len(tags), scanned)
	return nil
}
