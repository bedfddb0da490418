package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcncl/poxo/internal/analyzer"
	"github.com/mcncl/poxo/internal/emitter"
	"github.com/mcncl/poxo/internal/errors"
	"github.com/mcncl/poxo/internal/naming"
	"gopkg.in/yaml.v3"
)

// JSONPropertyNone disables the C# property attribute.
const JSONPropertyNone = "none"

// Config represents the complete configuration for poxo
type Config struct {
	Target      string           `yaml:"target"`
	RootName    string           `yaml:"root_name"`
	Indentation string           `yaml:"indentation"`
	Naming      NamingConfig     `yaml:"naming"`
	Inference   InferenceConfig  `yaml:"inference"`
	CSharp      CSharpConfig     `yaml:"csharp"`
	Go          GoConfig         `yaml:"go"`
	Formatting  FormattingConfig `yaml:"formatting"`
	Dev         DevConfig        `yaml:"dev"`
}

// NamingConfig controls class and field naming
type NamingConfig struct {
	Policy                  string            `yaml:"policy"`
	CapitalizeAbbreviations bool              `yaml:"capitalize_abbreviations"`
	FieldMappings           map[string]string `yaml:"field_mappings"`
}

// InferenceConfig controls class extraction
type InferenceConfig struct {
	Order      string `yaml:"order"`
	Collisions string `yaml:"collisions"`
	// Singulars adds irregular plural -> singular pairs
	Singulars map[string]string `yaml:"singulars"`
}

// CSharpConfig holds options for the csharp target
type CSharpConfig struct {
	Namespace     string `yaml:"namespace"`
	UseProperties bool   `yaml:"use_properties"`
	FloatType     string `yaml:"float_type"`
	// JSONProperty is a template with a {key} placeholder, empty for the
	// Newtonsoft attribute or "none" to disable attributes.
	JSONProperty string  `yaml:"json_property"`
	Header       *string `yaml:"header"`
}

// GoConfig holds options for the go target
type GoConfig struct {
	Package   string  `yaml:"package"`
	OmitEmpty bool    `yaml:"omitempty"`
	Header    *string `yaml:"header"`
}

// FormattingConfig controls code formatting options
type FormattingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	cs := emitter.DefaultCSharpOptions()
	goOpts := emitter.DefaultGoOptions()
	return &Config{
		Target: string(emitter.TargetCSharp),
		Naming: NamingConfig{
			Policy:        naming.PolicyPascal,
			FieldMappings: make(map[string]string),
		},
		Inference: InferenceConfig{
			Order:      "lifo",
			Collisions: "rename",
			Singulars:  make(map[string]string),
		},
		CSharp: CSharpConfig{
			Namespace:     cs.Namespace,
			UseProperties: cs.UseProperties,
			FloatType:     cs.FloatType,
		},
		Go: GoConfig{
			Package:   goOpts.Package,
			OmitEmpty: goOpts.OmitEmpty,
		},
		Formatting: FormattingConfig{
			Enabled: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("failed to read config file", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to parse config file %s", path), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in the current directory and parents
func FindConfigFile() string {
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return FindConfigFileFrom(currentDir)
}

// FindConfigFileFrom searches dir and its parents for a config file.
func FindConfigFileFrom(dir string) string {
	configNames := []string{".poxo.yml", ".poxo.yaml", "poxo.yml", "poxo.yaml"}

	currentDir := dir
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks the enum-like settings.
func (c *Config) Validate() error {
	if _, err := emitter.ParseTarget(c.Target); err != nil {
		return errors.NewConfigError("invalid target", err)
	}
	if _, err := naming.ConversionFor(c.Naming.Policy); err != nil {
		return errors.NewConfigError("invalid naming policy", err)
	}
	if _, err := analyzer.ParseOrder(c.Inference.Order); err != nil {
		return errors.NewConfigError("invalid inference order", err)
	}
	if _, err := analyzer.ParseCollisionPolicy(c.Inference.Collisions); err != nil {
		return errors.NewConfigError("invalid collision policy", err)
	}
	return nil
}

// TargetValue returns the parsed target. Call Validate first.
func (c *Config) TargetValue() emitter.Target {
	t, _ := emitter.ParseTarget(c.Target)
	return t
}

// EffectiveRootName returns the configured root name or the target's default.
func (c *Config) EffectiveRootName() string {
	if c.RootName != "" {
		return c.RootName
	}
	return c.TargetValue().DefaultRootName()
}

// Conversion builds the variable name conversion from the naming section.
func (c *Config) Conversion() (naming.Conversion, error) {
	policy := c.Naming.Policy
	if c.Naming.CapitalizeAbbreviations && (policy == "" || policy == naming.PolicyPascal) {
		policy = naming.PolicyPascalAbbrev
	}
	conv, err := naming.ConversionFor(policy)
	if err != nil {
		return nil, errors.NewConfigError("invalid naming policy", err)
	}
	return naming.WithMappings(conv, c.Naming.FieldMappings), nil
}

// CSharpOptions converts the csharp section into emitter options.
func (c *Config) CSharpOptions() emitter.CSharpOptions {
	opts := emitter.CSharpOptions{
		Indentation:   c.Indentation,
		Namespace:     c.CSharp.Namespace,
		UseProperties: c.CSharp.UseProperties,
		FloatType:     c.CSharp.FloatType,
		Header:        c.CSharp.Header,
	}
	switch c.CSharp.JSONProperty {
	case "":
		opts.JSONProperty = emitter.JSONPropertyAttribute
	case JSONPropertyNone:
		opts.JSONProperty = nil
	default:
		opts.JSONProperty = emitter.JSONPropertyTemplate(c.CSharp.JSONProperty)
	}
	return opts
}

// GoOptions converts the go section into emitter options.
func (c *Config) GoOptions() emitter.GoOptions {
	return emitter.GoOptions{
		Indentation: c.Indentation,
		Package:     c.Go.Package,
		OmitEmpty:   c.Go.OmitEmpty,
		Header:      c.Go.Header,
	}
}

// Overrides carries command-line values. Empty strings and false flags
// leave the loaded configuration untouched.
type Overrides struct {
	Target         string
	RootName       string
	Namespace      string
	Package        string
	FloatType      string
	Order          string
	Collisions     string
	Fields         bool
	NoJSONProperty bool
	NoFormat       bool
	Debug          bool
}

// ApplyCLI applies command-line overrides, which take precedence over the
// config file, and validates the result.
func (c *Config) ApplyCLI(o Overrides) error {
	setString(&c.Target, o.Target)
	setString(&c.RootName, o.RootName)
	setString(&c.CSharp.Namespace, o.Namespace)
	setString(&c.Go.Package, o.Package)
	setString(&c.CSharp.FloatType, o.FloatType)
	setString(&c.Inference.Order, o.Order)
	setString(&c.Inference.Collisions, o.Collisions)
	if o.Fields {
		c.CSharp.UseProperties = false
	}
	if o.NoJSONProperty {
		c.CSharp.JSONProperty = JSONPropertyNone
	}
	if o.NoFormat {
		c.Formatting.Enabled = false
	}
	if o.Debug {
		c.Dev.Debug = true
	}
	return c.Validate()
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// LoadConfigWithCLI loads the config at configPath (or defaults when empty)
// and applies CLI overrides on top.
func LoadConfigWithCLI(configPath string, o Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if err := cfg.ApplyCLI(o); err != nil {
		return nil, err
	}
	return cfg, nil
}
