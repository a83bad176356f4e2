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

var speakersCmd = &cobra.Command{
	Use:   "speakers",
	Short: "List the speakers present in the indexed protocols",
	Long: `Speakers lists the distinct speaker identities found in the indexed
protocols with their paragraph counts. A person appearing with different
parties or roles is listed once per combination.`,
	RunE: runSpeakers,
}

func init() {
	speakersCmd.Flags().String("index-dir", "index", "directory holding the search database")
	speakersCmd.Flags().String("protocols-dir", "protocols", "directory holding parsed JSON protocols")
	speakersCmd.Flags().String("role", "", "filter by role: president, vice-president, minister, other")
	speakersCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(speakersCmd)
}

func runSpeakers(cmd *cobra.Command, args []string) error {
	store, err := index.NewStore(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	role, _ := cmd.Flags().GetString("role")

	speakers, err := store.Speakers(context.Background(), types.Role(role))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(speakers)
	}

	if len(speakers) == 0 {
		fmt.Println("No speakers found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-30s  %-10s  %-15s  %-12s  %s\n",
		"Name", "Party", "Role", "First seen", "Paragraphs")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 84))

	for _, sp := range speakers {
		fmt.Fprintf(os.Stdout, "%-30s  %-10s  %-15s  %-12s  %d\n",
			sp.Name, sp.Party, sp.Role, sp.FirstSeen, sp.Paragraphs)
	}

	fmt.Fprintf(os.Stdout, "\n%d speakers\n", len(speakers))
	return nil
}
