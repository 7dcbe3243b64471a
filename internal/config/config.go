// Package config loads btp configuration from btp.yaml and the environment.
// A single Config value is passed explicitly into every client and pipeline;
// there is no process-global session state.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Review-batch categories; each gets its own subdirectory under the output
// root with a CSV review sheet and a JSON payload file.
const (
	CategoryInternalPersons = "internal_persons"
	CategoryExternalPersons = "external_persons"
	CategoryExternalOrgs    = "external_orgs"
	CategoryResearchOutputs = "research_output"
	CategoryDatasets        = "datasets"
)

// Categories lists every review-batch category in a stable order.
var Categories = []string{
	CategoryInternalPersons,
	CategoryExternalPersons,
	CategoryExternalOrgs,
	CategoryResearchOutputs,
	CategoryDatasets,
}

// PureConfig holds Pure API connectivity settings. The API key comes from
// the PURE_API_KEY environment variable, never from the YAML file.
type PureConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"-"`
}

// RicgraphConfig holds Ricgraph REST API settings.
type RicgraphConfig struct {
	BaseURL       string `yaml:"base_url"`
	FacultyPrefix string `yaml:"faculty_prefix"` // organization/search value, e.g. "uu faculty"
	SourceLabel   string `yaml:"source_label"`   // _source label for Pure, e.g. "Pure-uu"
	OpenAlexLabel string `yaml:"openalex_label"` // _source label for OpenAlex, e.g. "OpenAlex-uu"
}

// OpenAlexConfig holds OpenAlex API settings. Email goes into the polite-pool
// mailto parameter and User-Agent.
type OpenAlexConfig struct {
	BaseURL   string `yaml:"base_url"`
	Email     string `yaml:"email"`
	CachePath string `yaml:"cache_path"` // optional sqlite response cache
}

// DataCiteConfig holds DataCite API settings.
type DataCiteConfig struct {
	BaseURL string `yaml:"base_url"`
}

// Defaults are institution-specific fallback values used when building Pure
// payloads.
type Defaults struct {
	UniversityOrgUUID string `yaml:"university_org_uuid"`
	PublisherUUID     string `yaml:"publisher_uuid"`
	VisibilityKey     string `yaml:"visibility_key"`
	WorkflowStep      string `yaml:"workflow_step"`
}

// Config is the full btp configuration.
type Config struct {
	Pure     PureConfig     `yaml:"pure"`
	Ricgraph RicgraphConfig `yaml:"ricgraph"`
	OpenAlex OpenAlexConfig `yaml:"openalex"`
	DataCite DataCiteConfig `yaml:"datacite"`
	Defaults Defaults       `yaml:"defaults"`

	// IDTypeURIs maps Ricgraph identifier names (ORCID, SCOPUS_AUTHOR_ID, ...)
	// to Pure ClassifiedId type URIs for internal persons.
	IDTypeURIs map[string]string `yaml:"id_type_uris"`

	// ExternalIDURIs maps the orcid/openalex/ror schemes to the ClassifiedId
	// type URIs used on external persons and organizations.
	ExternalIDURIs map[string]string `yaml:"external_id_uris"`

	// RoleURIs maps contributor roles (creator, contributor, type_dataset ...)
	// to Pure classification URIs.
	RoleURIs map[string]string `yaml:"role_uris"`

	// Categories are the Ricgraph research-output categories to traverse.
	Categories []string `yaml:"categories"`

	OutputDir string `yaml:"output_dir"`
}

// DefaultPath is the config file looked for when --config is not given.
const DefaultPath = "btp.yaml"

// Load reads and validates configuration. A .env file next to the config
// file is honored for secrets when present.
func Load(path string) (*Config, error) {
	// Missing .env is fine; the variable may come from the real environment.
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.Pure.APIKey = os.Getenv("PURE_API_KEY")
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.OpenAlex.BaseURL == "" {
		c.OpenAlex.BaseURL = "https://api.openalex.org"
	}
	if c.DataCite.BaseURL == "" {
		c.DataCite.BaseURL = "https://api.datacite.org"
	}
	if len(c.Categories) == 0 {
		c.Categories = []string{"journal article"}
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if c.Defaults.VisibilityKey == "" {
		c.Defaults.VisibilityKey = "FREE"
	}
	if c.Defaults.WorkflowStep == "" {
		c.Defaults.WorkflowStep = "forValidation"
	}
}

func (c *Config) validate() error {
	if c.Pure.BaseURL == "" {
		return fmt.Errorf("pure.base_url must be set")
	}
	if c.Ricgraph.BaseURL == "" {
		return fmt.Errorf("ricgraph.base_url must be set")
	}
	if c.Ricgraph.FacultyPrefix == "" {
		return fmt.Errorf("ricgraph.faculty_prefix must be set")
	}
	return nil
}

// BatchDir returns the output directory for a review-batch category.
func (c *Config) BatchDir(category string) string {
	return filepath.Join(c.OutputDir, category)
}

// ReviewPath returns the CSV review sheet path for a category.
func (c *Config) ReviewPath(category string) string {
	return filepath.Join(c.BatchDir(category), category+"_to_update.csv")
}

// PayloadPath returns the JSON payload file path for a category.
func (c *Config) PayloadPath(category string) string {
	return filepath.Join(c.BatchDir(category), category+"_updates.json")
}
