package main

import (
	"context"

	"github.com/backtopure/btp/internal/enrich"
	"github.com/spf13/cobra"
)

var (
	facultyFlag string
	testFlag    bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Stage enrichment batches for entities already in Pure",
}

var enrichInternalPersonsCmd = &cobra.Command{
	Use:   "internal-persons",
	Short: "Harvest identifiers from Ricgraph for internal persons",
	Long: `Walk every faculty in Ricgraph, match each person against Pure staff,
and stage identifiers Pure is missing. Also exports a person-identifier
matrix (person_ids.xlsx) for manual inspection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd.Context(), pipelineOptions(), enrich.InternalPersons)
	},
}

var enrichExternalPersonsCmd = &cobra.Command{
	Use:   "external-persons",
	Short: "Enrich external persons from OpenAlex authorships",
	Long: `Join research outputs known to both Pure and OpenAlex on their DOI and
stage ORCID and OpenAlex identifiers for the external co-authors Pure
already has on those outputs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd.Context(), pipelineOptions(), enrich.ExternalPersons)
	},
}

var enrichExternalOrgsCmd = &cobra.Command{
	Use:   "external-orgs",
	Short: "Enrich external organizations with ROR identifiers",
	Long: `Collect the institutions behind shared Pure/OpenAlex research outputs,
match them by name against Pure external organizations, and stage the
ROR identifier where Pure lacks one. Conflicting ROR values are listed
as unmarked rows for manual resolution.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd.Context(), pipelineOptions(), enrich.ExternalOrgs)
	},
}

// runPipeline loads config, wires clients and runs one staging pipeline.
func runPipeline(ctx context.Context, opts enrich.Options, pipeline func(context.Context, enrich.Deps) (enrich.Summary, error)) error {
	cfg := mustLoadConfig()
	deps := buildDeps(cfg)
	deps.Opts = opts
	summary, err := pipeline(ctx, deps)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	reportSummary(summary)
	return nil
}

// pipelineOptions builds the run options shared by the enrich and import
// command trees.
func pipelineOptions() enrich.Options {
	return enrich.Options{Faculty: facultyFlag, Test: testFlag}
}

// addPipelineFlags registers the traversal flags on a pipeline command group.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&facultyFlag, "faculty", "all", "Faculty key to process, or 'all'")
	cmd.PersistentFlags().BoolVar(&testFlag, "test", false, "Process a small sample per faculty")
}

func init() {
	addPipelineFlags(enrichCmd)
	enrichCmd.AddCommand(enrichInternalPersonsCmd)
	enrichCmd.AddCommand(enrichExternalPersonsCmd)
	enrichCmd.AddCommand(enrichExternalOrgsCmd)
	rootCmd.AddCommand(enrichCmd)
}
