package main

import (
	"fmt"

	"github.com/backtopure/btp/internal/enrich"
	"github.com/spf13/cobra"
)

var (
	datasetSource string
	datasetDOIs   []string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Stage creation batches for entities missing from Pure",
}

var importWorksCmd = &cobra.Command{
	Use:   "works",
	Short: "Stage journal articles known to OpenAlex but missing from Pure",
	Long: `Find DOIs that Ricgraph attributes to OpenAlex but not to Pure,
double-check them against Pure directly, and stage full research-output
payloads for the ones that are genuinely missing. Contributors are
resolved against Pure staff first; unmatched co-authors become external
persons at staging time so the payload is complete.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd.Context(), pipelineOptions(), enrich.ImportWorks)
	},
}

var importDatasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Stage datasets known to the data repository but missing from Pure",
	Long: `Walk the data-set nodes in Ricgraph, fetch metadata from DataCite for
DOIs Pure does not have, and stage full dataset payloads. With
--source datacite an explicit --doi list is fetched instead of
traversing the graph. Also exports a dataset overview (datasets.xlsx)
listing every DOI with its Pure status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := pipelineOptions()
		switch datasetSource {
		case "ricgraph":
		case "datacite":
			if len(datasetDOIs) == 0 {
				return fmt.Errorf("--source datacite requires at least one --doi")
			}
			opts.DOIs = datasetDOIs
		default:
			return fmt.Errorf("unknown source %q (want ricgraph or datacite)", datasetSource)
		}
		return runPipeline(cmd.Context(), opts, enrich.ImportDatasets)
	},
}

func init() {
	addPipelineFlags(importCmd)
	importDatasetsCmd.Flags().StringVar(&datasetSource, "source", "ricgraph", "DOI source: ricgraph or datacite")
	importDatasetsCmd.Flags().StringArrayVar(&datasetDOIs, "doi", nil, "Dataset DOI to import (repeatable, with --source datacite)")
	importCmd.AddCommand(importWorksCmd)
	importCmd.AddCommand(importDatasetsCmd)
	rootCmd.AddCommand(importCmd)
}
