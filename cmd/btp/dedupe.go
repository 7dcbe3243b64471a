package main

import (
	"sort"
	"strings"

	"github.com/backtopure/btp/internal/enrich"
	"github.com/spf13/cobra"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Report duplicate records in Pure",
}

var dedupeOrgsCmd = &cobra.Command{
	Use:   "orgs",
	Short: "List external organizations sharing a ROR identifier",
	Long: `Search Pure for external organizations carrying a ROR identifier and
report every ROR that is claimed by more than one organization record.
The report is read-only; merging is done in the Pure UI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		clusters, err := enrich.DuplicateOrgClusters(cmd.Context(), buildDeps(cfg))
		if err != nil {
			exitWithError(exitCodeFor(err), "%v", err)
		}

		if humanOutput {
			rors := make([]string, 0, len(clusters))
			for ror := range clusters {
				rors = append(rors, ror)
			}
			sort.Strings(rors)
			for _, ror := range rors {
				outputHuman("%s: %s\n", ror, strings.Join(clusters[ror], ", "))
			}
			outputHuman("%d duplicated ROR id(s)\n", len(clusters))
			return nil
		}
		return outputJSON(clusters)
	},
}

func init() {
	dedupeCmd.AddCommand(dedupeOrgsCmd)
	rootCmd.AddCommand(dedupeCmd)
}
