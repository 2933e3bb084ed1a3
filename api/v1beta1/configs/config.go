// Package configs provides the Configuration type for iconify.
package configs

import (
	"fmt"
	"path/filepath"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/iconify/api"
	"github.com/macropower/iconify/api/v1beta1"
	"github.com/macropower/iconify/pkg/folder"
	"github.com/macropower/iconify/pkg/rule"
	"github.com/macropower/iconify/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen/main.go -o configs.v1beta1.json

const (
	// Kind is the kind of the global configuration.
	Kind = "Configuration"

	// SchemaURL identifies the embedded JSON schema.
	SchemaURL = "https://raw.githubusercontent.com/macropower/iconify/refs/heads/main/api/v1beta1/configs/configs.v1beta1.json"
)

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	//go:embed configs.v1beta1.json
	schemaJSON []byte

	// ValidKinds contains the valid kind values for global configurations.
	ValidKinds = []string{Kind}

	// DefaultValidator validates configuration against the JSON schema.
	DefaultValidator = yaml.MustNewValidator(SchemaURL, schemaJSON)

	// Compile-time interface checks.
	_ v1beta1.Object = (*Config)(nil)
)

// Config represents the iconify configuration.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	v1beta1.TypeMeta `json:",inline"`
	// EnableIcons turns custom folder icons on or off.
	EnableIcons *bool `json:"enableIcons,omitempty" jsonschema:"title=Enable Icons,default=true"`
	// Root is the content root segment, stripped from folder paths before
	// path patterns are tested. Set to an empty string to disable.
	Root *string `json:"root,omitempty" jsonschema:"title=Content Root,default=Assets"`
	// Rules are tested in order; the first matching rule decides the icon.
	Rules rule.RuleSet `json:"rules,omitempty" jsonschema:"title=Rules"`
}

// New creates a new [Config] with default values.
func New() *Config {
	c := &Config{
		TypeMeta: v1beta1.TypeMeta{
			APIVersion: v1beta1.APIVersion,
			Kind:       Kind,
		},
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.EnableIcons == nil {
		enabled := true
		c.EnableIcons = &enabled
	}

	if c.Root == nil {
		root := rule.DefaultRoot
		c.Root = &root
	}

	if c.Rules == nil {
		c.Rules = rule.RuleSet{}
	}
}

// IconsEnabled reports whether folder icons should be shown.
func (c *Config) IconsEnabled() bool {
	return c.EnableIcons == nil || *c.EnableIcons
}

// ContentRoot returns the configured content root segment, cleaned.
// It is empty when no root is stripped.
func (c *Config) ContentRoot() string {
	if c.Root == nil {
		return rule.DefaultRoot
	}

	root := folder.Clean(*c.Root)
	if root == "." {
		return ""
	}

	return root
}

// Validate checks every rule. The returned error points at the first
// invalid rule.
func (c *Config) Validate() error {
	for i, r := range c.Rules {
		if r == nil {
			continue
		}

		err := r.Validate()
		if err != nil {
			return yaml.NewError(
				fmt.Errorf("invalid rule: %w", err),
				yaml.WithPath(yaml.NewPathBuilder().Root().Child("rules").Index(uint(i)).Build()),
			)
		}
	}

	return nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the config to YAML.
func (c *Config) MarshalYAML() ([]byte, error) {
	type alias Config

	b, err := yaml.Marshal((*alias)(c))
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return b, nil
}

// WriteDefault writes the embedded default configuration and its JSON schema
// to the directory of path. Existing files are backed up when force is set.
func WriteDefault(path string, force bool) error {
	_, err := api.WriteFile(path, defaultConfigYAML, force)
	if err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	_, err = api.WriteFile(SchemaPath(path), schemaJSON, true)
	if err != nil {
		return fmt.Errorf("write schema: %w", err)
	}

	return nil
}

// SchemaPath returns the path of the JSON schema written next to the config
// file at path.
func SchemaPath(path string) string {
	return filepath.Join(filepath.Dir(path), "configs.v1beta1.json")
}

// DefaultYAML returns the embedded default configuration.
func DefaultYAML() []byte {
	return defaultConfigYAML
}

// GetPath returns the path to the user configuration file.
func GetPath() string {
	return api.GetConfigPath("config.yaml")
}

// ProjectFileNames are searched for in a project and its parents before
// falling back to the user configuration.
var ProjectFileNames = []string{".iconify.yaml", ".iconify.yml"}
