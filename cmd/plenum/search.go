// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/plenum/internal/index"
	"github.com/pdiddy/plenum/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the indexed protocols with full-text search and filters",
	Long: `Search queries the protocol database using FTS5 full-text search over the
paragraph text, structured filters (speaker, party, role, kind, period),
or a combination of both. Full-text results are ranked by relevance;
filter-only results follow protocol order.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("index-dir", "index", "directory holding the search database")
	searchCmd.Flags().String("protocols-dir", "protocols", "directory holding parsed JSON protocols")
	searchCmd.Flags().Int("max-results", 20, "maximum number of query results")
	searchCmd.Flags().String("speaker", "", "filter by speaker name")
	searchCmd.Flags().String("party", "", "filter by party abbreviation")
	searchCmd.Flags().String("role", "", "filter by role: president, vice-president, minister, other")
	searchCmd.Flags().String("kind", "", "filter by paragraph kind: speech, annotation, citation")
	searchCmd.Flags().Int("period", 0, "filter by legislative period")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	store, err := index.NewStore(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --speaker, --party, --role, --kind, or --period")
	}

	results, err := store.Search(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(results, jsonOutput)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) index.QueryOptions {
	speaker, _ := cmd.Flags().GetString("speaker")
	party, _ := cmd.Flags().GetString("party")
	role, _ := cmd.Flags().GetString("role")
	kind, _ := cmd.Flags().GetString("kind")
	period, _ := cmd.Flags().GetInt("period")

	// Result count is governed by --max-results through the store default.
	return index.QueryOptions{
		Query:   strings.Join(args, " "),
		Speaker: speaker,
		Party:   party,
		Role:    types.Role(role),
		Kind:    types.Kind(kind),
		Period:  period,
	}
}

func formatSearchOutput(results []index.SearchResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-14s  %-10s  %-25s  %s\n",
		"Protocol", "Kind", "Speaker", "Text")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, r := range results {
		speaker := r.SpeakerName
		if r.SpeakerParty != "" {
			speaker += " (" + r.SpeakerParty + ")"
		}
		if len(speaker) > 25 {
			speaker = speaker[:22] + "..."
		}
		text := r.Text
		if len(text) > 55 {
			text = text[:52] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-14s  %-10s  %-25s  %s\n",
			r.ID, r.Kind, speaker, text)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}
