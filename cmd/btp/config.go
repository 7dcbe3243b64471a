package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or bootstrap the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Load the configuration file, apply defaults and validation, and print
the result. The Pure API key is reported only as present or absent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()

		if humanOutput {
			outputHuman("config: %s\n", configPath)
			outputHuman("pure: %s (api key set: %v)\n", cfg.Pure.BaseURL, cfg.Pure.APIKey != "")
			outputHuman("ricgraph: %s (faculty prefix %q)\n", cfg.Ricgraph.BaseURL, cfg.Ricgraph.FacultyPrefix)
			outputHuman("openalex: %s\n", cfg.OpenAlex.BaseURL)
			outputHuman("datacite: %s\n", cfg.DataCite.BaseURL)
			outputHuman("output dir: %s\n", cfg.OutputDir)
			return nil
		}

		return outputJSON(map[string]any{
			"config_path":      configPath,
			"pure_base_url":    cfg.Pure.BaseURL,
			"pure_api_key_set": cfg.Pure.APIKey != "",
			"ricgraph":         cfg.Ricgraph,
			"openalex":         cfg.OpenAlex,
			"datacite":         cfg.DataCite,
			"defaults":         cfg.Defaults,
			"categories":       cfg.Categories,
			"output_dir":       cfg.OutputDir,
			"id_type_uris":     cfg.IDTypeURIs,
			"external_id_uris": cfg.ExternalIDURIs,
		})
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a commented starter config to the --config path. Fails if the
file already exists. Put the Pure API key in a .env file next to it or
in the PURE_API_KEY environment variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists", configPath)
		}
		if err := os.WriteFile(configPath, []byte(starterConfig), 0o644); err != nil {
			return err
		}
		if humanOutput {
			outputHuman("wrote %s\n", configPath)
			return nil
		}
		return outputJSON(StatusResponse{Status: "created", Path: configPath})
	},
}

const starterConfig = `pure:
  base_url: https://your-pure-host/ws/api
ricgraph:
  base_url: http://localhost:3030/api
  faculty_prefix: "uu faculty"
  source_label: "Pure-uu"
  openalex_label: "OpenAlex-uu"
openalex:
  email: you@example.org
  cache_path: openalex-cache.db
datacite: {}
defaults:
  university_org_uuid: ""
  publisher_uuid: ""
id_type_uris:
  ORCID: /dk/atira/pure/person/personsources/orcid
external_id_uris:
  orcid: /dk/atira/pure/externalperson/externalpersonsources/orcid
  openalex: /dk/atira/pure/externalperson/externalpersonsources/openalex
  ror: /dk/atira/pure/ueoexternalorganisation/ueoexternalorganisationsources/ror
categories:
  - journal article
output_dir: output
`

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
