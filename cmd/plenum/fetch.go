package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/plenum/internal/fetch"
	"github.com/pdiddy/plenum/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 1 * time.Second
	defaultUserAgent = "plenum/0.1"
	defaultBaseURL   = "https://www.landtag.nrw.de/portal/WWW/dokumentenarchiv/Dokument"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [periods...]",
	Short: "Download session protocol documents for legislative periods",
	Long: `Fetch downloads the plenary session protocols of one or more legislative
periods from the parliament document archive. Session indexes are probed
sequentially per period; after a run of consecutive misses the period is
assumed exhausted. Already downloaded documents are skipped, so re-runs
only pick up new sessions.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("base-url", defaultBaseURL, "document archive base URL")
	fetchCmd.Flags().String("protocols-dir", "protocols", "directory for downloaded documents and manifests")
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().Duration("delay", 0, "delay between consecutive downloads (default 1s)")
	fetchCmd.Flags().Int("max-document", 0, "highest session index probed per period (default 300)")
	fetchCmd.Flags().Int("max-failures", 0, "consecutive misses before a period is considered exhausted (default 20)")
	fetchCmd.Flags().StringSlice("extensions", []string{"html"}, "document formats to fetch")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more legislative periods (e.g. plenum fetch 17 18)")
	}

	periods := make([]int, 0, len(args))
	for _, arg := range args {
		var period int
		if _, err := fmt.Sscanf(arg, "%d", &period); err != nil || period <= 0 {
			return fmt.Errorf("invalid period %q: expected a positive number", arg)
		}
		periods = append(periods, period)
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}
	maxDocument, _ := cmd.Flags().GetInt("max-document")
	maxFailures, _ := cmd.Flags().GetInt("max-failures")
	extensions, _ := cmd.Flags().GetStringSlice("extensions")

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		BaseURL:       stringSetting(cmd, "base-url", "fetch.base_url"),
		ProtocolsDir:  stringSetting(cmd, "protocols-dir", "fetch.protocols_dir"),
		MaxDocument:   maxDocument,
		MaxFailures:   maxFailures,
		DownloadDelay: delay,
		Extensions:    extensions,
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	for _, period := range periods {
		m, err := fetch.LoadManifest(cfg.ProtocolsDir, period)
		if err != nil {
			return err
		}

		result := fetch.FetchPeriod(context.Background(), client, period, cfg, m, os.Stdout)

		if err := fetch.SaveManifest(cfg.ProtocolsDir, period, m); err != nil {
			return err
		}
		if result.Downloaded == 0 && result.Skipped == 0 {
			return fmt.Errorf("no documents found for period %d", period)
		}
	}

	return nil
}
