package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/backtopure/btp/internal/batch"
	"github.com/backtopure/btp/internal/config"
	"github.com/backtopure/btp/internal/pure"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply <category>",
	Short: "Write an approved review batch to Pure",
	Long: `Apply the staged changes of one category to Pure. Only rows still
carrying the to_be_updated marker are sent; rows cleared by the reviewer
are skipped and rows already marked updated are never re-sent, so the
command is safe to re-run.

Categories: ` + strings.Join(config.Categories, ", "),
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func runApply(cmd *cobra.Command, args []string) error {
	category := args[0]
	cfg := mustLoadConfig()
	client := pure.NewClient(cfg.Pure.BaseURL, cfg.Pure.APIKey)

	applyFn, err := applyFuncFor(category, client)
	if err != nil {
		return err
	}

	result, err := batch.Apply(cmd.Context(), cfg.ReviewPath(category), cfg.PayloadPath(category), applyFn)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if humanOutput {
		outputHuman("applied: %d  failed: %d  skipped: %d\n", result.Applied, result.Failed, result.Skipped)
		return nil
	}
	return outputJSON(result)
}

// applyFuncFor selects the outbound Pure call for a batch category. Person
// and organization batches replace the full document under its existing
// UUID; work and dataset batches create new records.
func applyFuncFor(category string, client *pure.Client) (batch.ApplyFunc, error) {
	switch category {
	case config.CategoryInternalPersons:
		return func(ctx context.Context, key string, payload pure.Document, _ []batch.Row) error {
			return client.PutPerson(ctx, key, payload)
		}, nil
	case config.CategoryExternalPersons:
		return func(ctx context.Context, key string, payload pure.Document, _ []batch.Row) error {
			return client.PutExternalPerson(ctx, key, payload)
		}, nil
	case config.CategoryExternalOrgs:
		return func(ctx context.Context, key string, payload pure.Document, _ []batch.Row) error {
			return client.PutExternalOrganization(ctx, key, payload)
		}, nil
	case config.CategoryResearchOutputs:
		return func(ctx context.Context, _ string, payload pure.Document, _ []batch.Row) error {
			return client.CreateResearchOutput(ctx, payload)
		}, nil
	case config.CategoryDatasets:
		return func(ctx context.Context, _ string, payload pure.Document, _ []batch.Row) error {
			_, err := client.CreateDataSet(ctx, payload)
			return err
		}, nil
	default:
		return nil, fmt.Errorf("unknown category %q (want one of %s)", category, strings.Join(config.Categories, ", "))
	}
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
