package config

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/iamgen/inspector/graph"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config represents policy generation settings
type Config struct {
	Workers      int               `yaml:"workers" mapstructure:"workers"`
	Languages    map[string]string `yaml:"languages,omitempty" mapstructure:"languages"` // path or extension to language override
	Partition    string            `yaml:"partition" mapstructure:"partition"`
	Region       string            `yaml:"region" mapstructure:"region"`
	Account      string            `yaml:"account" mapstructure:"account"`
	Catalog      string            `yaml:"catalog,omitempty" mapstructure:"catalog"` // knowledge base URL, embedded catalog when empty
	Format       string            `yaml:"format" mapstructure:"format"`
	Raw          bool              `yaml:"raw,omitempty" mapstructure:"raw"`
	Precision    bool              `yaml:"precision,omitempty" mapstructure:"precision"`
	StatementIDs bool              `yaml:"statement-ids,omitempty" mapstructure:"statement-ids"`
	SkipTests    bool              `yaml:"skip-tests" mapstructure:"skip-tests"`
	Exclude      []string          `yaml:"exclude,omitempty" mapstructure:"exclude"` // additional directory names to skip
}

// New returns config with defaults
func New() *Config {
	return &Config{
		Workers:   runtime.NumCPU(),
		Partition: "aws",
		Region:    "*",
		Account:   "*",
		Format:    FormatJSON,
		SkipTests: true,
	}
}

// Load loads YAML config from URL on top of defaults
func Load(ctx context.Context, fs afs.Service, URL string) (*Config, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	ret := New()
	if err := yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	if err := ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	return ret, nil
}

// Validate checks settings
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive: %v", c.Workers)
	}
	switch c.Format {
	case FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unsupported format: %v", c.Format)
	}
	for key, language := range c.Languages {
		if !supported(graph.Language(language)) {
			return fmt.Errorf("unsupported language %v for %v", language, key)
		}
	}
	return nil
}

// Language returns language override for path, matched by exact path then by extension
func (c *Config) Language(path string) graph.Language {
	if len(c.Languages) == 0 {
		return graph.LanguageUnknown
	}
	if language, ok := c.Languages[path]; ok {
		return graph.Language(language)
	}
	if language, ok := c.Languages[strings.ToLower(filepath.Ext(path))]; ok {
		return graph.Language(language)
	}
	return graph.LanguageUnknown
}

func supported(language graph.Language) bool {
	for _, candidate := range graph.Languages {
		if candidate == language {
			return true
		}
	}
	return false
}
