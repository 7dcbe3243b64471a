// Package main provides the btp CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/backtopure/btp/internal/config"
	"github.com/backtopure/btp/internal/datacite"
	"github.com/backtopure/btp/internal/enrich"
	"github.com/backtopure/btp/internal/openalex"
	"github.com/backtopure/btp/internal/pure"
	"github.com/backtopure/btp/internal/ricgraph"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// configPath is the --config flag value.
var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "btp",
	Short: "Reconcile and enrich Pure from Ricgraph, OpenAlex and DataCite",
	Long: `btp reconciles persons, organizations, research outputs and datasets
across Pure, Ricgraph, OpenAlex and DataCite, and stages human-reviewable
update batches.

Every enrich/import run writes a CSV review sheet plus a JSON payload file
per category. Review the sheet (clear the to_be_updated marker on rows to
skip), then run 'btp apply <category>' to write the approved changes to
Pure. Apply is idempotent: already-applied rows are never re-sent.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the btp config file")
	rootCmd.Version = Version
}

// mustLoadConfig loads configuration or exits with a config error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return cfg
}

// buildDeps wires the real clients for a pipeline run.
func buildDeps(cfg *config.Config) enrich.Deps {
	var oaOpts []openalex.ClientOption
	if cfg.OpenAlex.CachePath != "" {
		cache, err := openalex.OpenCache(cfg.OpenAlex.CachePath)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		if _, err := cache.Prune(); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		oaOpts = append(oaOpts, openalex.WithCache(cache))
	}
	return enrich.Deps{
		Cfg:      cfg,
		Pure:     pure.NewClient(cfg.Pure.BaseURL, cfg.Pure.APIKey),
		Graph:    ricgraph.NewClient(cfg.Ricgraph.BaseURL),
		OpenAlex: openalex.NewClient(cfg.OpenAlex.BaseURL, cfg.OpenAlex.Email, oaOpts...),
		DataCite: datacite.NewClient(cfg.DataCite.BaseURL),
	}
}

// reportSummary prints a run summary and points the operator at the review
// file.
func reportSummary(summary enrich.Summary) {
	if humanOutput {
		outputHuman("updatable: %d  already consistent: %d  unresolved: %d  conflicts: %d  errors: %d\n",
			summary.Updatable, summary.Consistent, summary.Unresolved, summary.Conflicts, summary.Errors)
		if summary.ReviewFile != "" {
			outputHuman("review %s before applying\n", summary.ReviewFile)
		}
		return
	}
	if err := outputJSON(summary); err != nil {
		exitWithError(ExitError, "%v", err)
	}
}
