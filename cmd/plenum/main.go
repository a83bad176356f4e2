// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the plenum CLI. The pipeline stages
// are subcommands: fetch downloads session documents, parse turns them into
// structured JSON, index loads them into the search database, and search,
// speakers, and classes query the result.
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the plenum CLI.
var rootCmd = &cobra.Command{
	Use:   "plenum",
	Short: "Parliamentary session transcript pipeline",
	Long: `plenum builds a searchable record of parliamentary plenary sessions.

Each pipeline stage is a subcommand: fetch downloads session protocol
documents from the parliament archive, parse extracts structured speech
records from the HTML transcripts, and index loads the parsed records into
a local SQLite search database queried with search and speakers.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./plenum.yaml or ~/.config/plenum/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("plenum")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "plenum"))
		}
	}

	viper.SetEnvPrefix("PLENUM")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// stringSetting resolves a string setting: an explicitly set flag wins,
// then the config file, then the flag default.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	if cmd.Flags().Changed(flag) || !viper.IsSet(key) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	return viper.GetString(key)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
