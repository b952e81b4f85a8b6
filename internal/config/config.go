package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"geopick/internal/domain"
	"geopick/internal/eventbus"
	"geopick/internal/hierarchy"
)

// DefaultFileName is looked up in the working directory
const DefaultFileName = ".geopick.toml"

// Environment overrides
const (
	EnvConfig       = "GEOPICK_CONFIG"
	EnvProvider     = "GEOPICK_PROVIDER"
	EnvProviderPath = "GEOPICK_PROVIDER_PATH"
	EnvProviderDSN  = "GEOPICK_PROVIDER_DSN"
)

// Config represents the application configuration
type Config struct {
	Version    int                    `toml:"version"`
	Provider   ProviderSettings       `toml:"provider"`
	Fields     map[string]FieldConfig `toml:"fields"` // form field name -> stored value
	UISettings UISettings             `toml:"ui"`
}

// ProviderSettings selects where hierarchy data comes from
type ProviderSettings struct {
	Kind string `toml:"kind"`
	Path string `toml:"path,omitempty"`
	DSN  string `toml:"dsn,omitempty"`
}

// FieldConfig is one persisted location field
type FieldConfig struct {
	Variant domain.Variant `toml:"variant"`
	Values  []string       `toml:"values"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowCounts     bool `toml:"show_counts"`
	ConfirmDiscard bool `toml:"confirm_discard"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service bound to path
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultFileName
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

// Load reads the bound file, falling back to defaults when it does not exist
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Path:   cs.filePath,
			Fields: len(cfg.Fields),
		})
	}
	return cfg, nil
}

// Save writes the bound file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Fields = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Fields == nil {
		cfg.Fields = make(map[string]FieldConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(config); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Provider: ProviderSettings{Kind: hierarchy.KindBuiltin},
		Fields: map[string]FieldConfig{
			"preferred_locations": {Variant: domain.VariantRegion, Values: []string{}},
		},
		UISettings: UISettings{
			ShowCounts:     true,
			ConfirmDiscard: true,
		},
	}
}

// Validate checks provider kind and field variants
func (c *Config) Validate() error {
	switch c.Provider.Kind {
	case hierarchy.KindBuiltin:
	case hierarchy.KindTOML, hierarchy.KindSQLite:
		if c.Provider.Path == "" {
			return fmt.Errorf("provider %q needs a path", c.Provider.Kind)
		}
	case hierarchy.KindPostgres:
		if c.Provider.DSN == "" {
			return fmt.Errorf("provider %q needs a dsn", c.Provider.Kind)
		}
	default:
		return fmt.Errorf("unknown provider kind %q", c.Provider.Kind)
	}
	for name, f := range c.Fields {
		if !f.Variant.Valid() {
			return fmt.Errorf("field %q has unknown variant %q", name, f.Variant)
		}
	}
	return nil
}

// Field returns the named field, creating an empty one of variant when absent
func (c *Config) Field(name string, variant domain.Variant) FieldConfig {
	if f, ok := c.Fields[name]; ok {
		return f
	}
	return FieldConfig{Variant: variant, Values: []string{}}
}

// SetField stores values for the named field
func (c *Config) SetField(name string, variant domain.Variant, values []string) {
	if c.Fields == nil {
		c.Fields = make(map[string]FieldConfig)
	}
	c.Fields[name] = FieldConfig{Variant: variant, Values: append([]string(nil), values...)}
}

// FieldNames returns field names in sorted order
func (c *Config) FieldNames() []string {
	names := make([]string, 0, len(c.Fields))
	for name := range c.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadEnvFile reads a .env file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ResolvePath returns the config path from the flag, GEOPICK_CONFIG or the default
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	return DefaultFileName
}

// ApplyEnv overrides provider settings from GEOPICK_* variables
func ApplyEnv(cfg *Config) error {
	if kind := os.Getenv(EnvProvider); kind != "" {
		cfg.Provider.Kind = kind
	}
	if path := os.Getenv(EnvProviderPath); path != "" {
		cfg.Provider.Path = path
	}
	if dsn := os.Getenv(EnvProviderDSN); dsn != "" {
		cfg.Provider.DSN = dsn
	}
	return cfg.Validate()
}
