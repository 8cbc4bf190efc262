package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the pipeline configuration
type Config struct {
	Destination string             `yaml:"destination"`        // Root of the publishable destination tree
	Manifest    string             `yaml:"manifest,omitempty"` // Navigation manifest path, defaults under destination
	Sources     []SourceRepository `yaml:"sources"`
	LinkRules   []RuleConfig       `yaml:"link_rules,omitempty"`
	TOC         TOCConfig          `yaml:"toc,omitempty"`

	// BaseDir is the directory containing the loaded config file. Relative
	// source roots and the destination resolve against it.
	BaseDir string `yaml:"-"`
}

// SourceRepository represents a sibling repository whose docs are mirrored in
type SourceRepository struct {
	Name    string    `yaml:"name"`
	Root    string    `yaml:"root,omitempty"`    // Defaults to ../<name>, overridable via DOCMIRROR_SOURCE_<NAME>
	Include []Include `yaml:"include,omitempty"` // Ordered; defaults to [{path: docs, dest: <name>}]
	Exclude []string  `yaml:"exclude,omitempty"` // Subpath prefixes or glob patterns, relative to each include
}

// Include maps one source subdirectory onto a destination subdirectory
type Include struct {
	Path string `yaml:"path"`
	Dest string `yaml:"dest,omitempty"` // Defaults to Path
}

// RuleConfig is one link-repair rule. Rules are pure data; ordering in the
// file is the evaluation order within a scope.
type RuleConfig struct {
	Scope       string `yaml:"scope"` // Destination subdirectory the rule may match in
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
	Note        string `yaml:"note,omitempty"`
}

// TOCConfig controls navigation manifest generation
type TOCConfig struct {
	ExcludeDirs []string `yaml:"exclude_dirs,omitempty"` // Non-navigable directories (asset dirs)
	Order       string   `yaml:"order,omitempty"`        // "lexicographic" (default) or "explicit"
}

// Ordering modes for TOC sibling entries.
const (
	OrderLexicographic = "lexicographic"
	OrderExplicit      = "explicit"
)

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := loadEnvFile(); err != nil {
		// Don't fail if .env doesn't exist, just log it
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	config.BaseDir = filepath.Dir(absPath)

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// applyDefaults fills unset fields with documented defaults.
func (c *Config) applyDefaults() {
	if c.Destination == "" {
		c.Destination = "./docs"
	}
	if c.Manifest == "" {
		c.Manifest = filepath.Join(c.Destination, "nav.yml")
	}
	if c.TOC.Order == "" {
		c.TOC.Order = OrderLexicographic
	}
	if len(c.TOC.ExcludeDirs) == 0 {
		c.TOC.ExcludeDirs = []string{"assets", "images", "static"}
	}
	for i := range c.Sources {
		src := &c.Sources[i]
		if src.Root == "" {
			src.Root = filepath.Join("..", src.Name)
		}
		if len(src.Include) == 0 {
			src.Include = []Include{{Path: "docs", Dest: src.Name}}
		}
		for j := range src.Include {
			if src.Include[j].Dest == "" {
				src.Include[j].Dest = src.Include[j].Path
			}
		}
	}
}

// DestinationDir returns the destination root resolved against BaseDir.
func (c *Config) DestinationDir() string {
	return c.resolve(c.Destination)
}

// ManifestPath returns the manifest location resolved against BaseDir.
func (c *Config) ManifestPath() string {
	return c.resolve(c.Manifest)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Destination: "./docs",
		Sources: []SourceRepository{
			{
				Name: "engine",
				Root: "../engine",
				Include: []Include{
					{Path: "docs/architecture", Dest: "architecture"},
					{Path: "docs/guides", Dest: "guides"},
				},
				Exclude: []string{"internal-notes", "*.draft.md"},
			},
			{
				Name: "operator",
			},
		},
		LinkRules: []RuleConfig{
			{
				Scope:       "architecture",
				Pattern:     "](quick-start.md",
				Replacement: "](../guides/quick-start.md",
				Note:        "quick-start moved from architecture/ to guides/ in the published tree",
			},
		},
		TOC: TOCConfig{
			ExcludeDirs: []string{"assets", "images"},
			Order:       OrderLexicographic,
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
