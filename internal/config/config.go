package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/pstuifzand/renderwatch/internal/locate"
)

const appName = "renderwatch"

// Setting keys understood by the tool. Anything else in [settings] is kept
// and shown by the config command but otherwise unused.
const (
	SettingTimeFormat = "time_format" // strftime format for viewer timestamps
	SettingLimit      = "limit"       // entries kept by the viewer
	SettingVerbose    = "verbose"     // "true" prints serializations for deep changes
)

// EditorConfig is the [editor] section
type EditorConfig struct {
	BaseURL  string `toml:"base_url"`
	Endpoint string `toml:"endpoint"`
}

// ResolverConfig is the [resolver] section
type ResolverConfig struct {
	Marker string `toml:"marker"`
}

// DiffConfig is the [diff] section
type DiffConfig struct {
	PruneDeleted   bool `toml:"prune_deleted"`
	FrozenBaseline bool `toml:"frozen_baseline"`
}

// Config holds application configuration
type Config struct {
	Editor   EditorConfig      `toml:"editor"`
	Resolver ResolverConfig    `toml:"resolver"`
	Diff     DiffConfig        `toml:"diff"`
	Colors   map[string]string `toml:"colors"`
	Settings map[string]string `toml:"settings"`

	// Session settings (not persisted to TOML, overrides persisted settings)
	sessionSettings map[string]string
	path            string
}

// Load loads the config file from the standard location
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return defaultConfig(), nil // Return default if can't find config path
	}

	return LoadFromFile(configPath)
}

// LoadFromFile loads config from a specific file
func LoadFromFile(filePath string) (*Config, error) {
	// If file doesn't exist, return default config
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		config := defaultConfig()
		config.path = filePath
		return config, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := defaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.applyDefaults()
	config.path = filePath

	return config, nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return defaultConfig()
}

// defaultConfig returns the default configuration
func defaultConfig() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

func (c *Config) applyDefaults() {
	if c.Editor.BaseURL == "" {
		c.Editor.BaseURL = locate.DefaultEditorBaseURL
	}
	if c.Editor.Endpoint == "" {
		c.Editor.Endpoint = locate.DefaultEditorEndpoint
	}
	if c.Resolver.Marker == "" {
		c.Resolver.Marker = locate.DefaultMarker
	}
	if c.Colors == nil {
		c.Colors = make(map[string]string)
	}
	if c.Settings == nil {
		c.Settings = make(map[string]string)
	}
	if c.sessionSettings == nil {
		c.sessionSettings = make(map[string]string)
	}
}

// EditorLinks returns the editor link builder described by the config
func (c *Config) EditorLinks() locate.Editor {
	return locate.Editor{BaseURL: c.Editor.BaseURL, Endpoint: c.Editor.Endpoint}
}

// GetConfigDir returns the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(home, ".config", appName)
	return configDir, nil
}

// Set sets a session configuration value
func (c *Config) Set(key, value string) {
	if c.sessionSettings == nil {
		c.sessionSettings = make(map[string]string)
	}
	c.sessionSettings[key] = value
}

// Get retrieves a configuration value, checking session settings first (which override persisted settings)
// Returns empty string if not found in either source
func (c *Config) Get(key string) string {
	if val, ok := c.sessionSettings[key]; ok {
		return val
	}
	if val, ok := c.Settings[key]; ok {
		return val
	}
	return ""
}

// GetOr returns the value of key, or fallback when it is not set
func (c *Config) GetOr(key, fallback string) string {
	if val := c.Get(key); val != "" {
		return val
	}
	return fallback
}

// GetAll returns all configuration values (both persisted and session)
// Session settings override persisted settings with the same key
func (c *Config) GetAll() map[string]string {
	result := make(map[string]string)
	for k, v := range c.Settings {
		result[k] = v
	}
	for k, v := range c.sessionSettings {
		result[k] = v
	}
	return result
}

// Section keys name the fields of the file sections for GetKey and SetKey
const (
	KeyEditorBaseURL      = "editor.base_url"
	KeyEditorEndpoint     = "editor.endpoint"
	KeyResolverMarker     = "resolver.marker"
	KeyDiffPruneDeleted   = "diff.prune_deleted"
	KeyDiffFrozenBaseline = "diff.frozen_baseline"

	colorsPrefix = "colors."
)

// GetKey returns the value of a section key such as "editor.base_url" or
// "colors.error"; other keys are looked up with Get
func (c *Config) GetKey(key string) string {
	switch key {
	case KeyEditorBaseURL:
		return c.Editor.BaseURL
	case KeyEditorEndpoint:
		return c.Editor.Endpoint
	case KeyResolverMarker:
		return c.Resolver.Marker
	case KeyDiffPruneDeleted:
		return strconv.FormatBool(c.Diff.PruneDeleted)
	case KeyDiffFrozenBaseline:
		return strconv.FormatBool(c.Diff.FrozenBaseline)
	}
	if name, ok := strings.CutPrefix(key, colorsPrefix); ok {
		return c.Colors[name]
	}
	return c.Get(key)
}

// SetKey stores value under a section key, or in [settings] for any other
// key. Call Save to persist it.
func (c *Config) SetKey(key, value string) error {
	switch key {
	case KeyEditorBaseURL:
		c.Editor.BaseURL = value
	case KeyEditorEndpoint:
		c.Editor.Endpoint = value
	case KeyResolverMarker:
		c.Resolver.Marker = value
	case KeyDiffPruneDeleted, KeyDiffFrozenBaseline:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		if key == KeyDiffPruneDeleted {
			c.Diff.PruneDeleted = b
		} else {
			c.Diff.FrozenBaseline = b
		}
	default:
		if name, ok := strings.CutPrefix(key, colorsPrefix); ok {
			if name == "" {
				return fmt.Errorf("missing color name in %q", key)
			}
			if c.Colors == nil {
				c.Colors = make(map[string]string)
			}
			c.Colors[name] = value
			return nil
		}
		if strings.Contains(key, ".") {
			return fmt.Errorf("unknown config key %q", key)
		}
		if c.Settings == nil {
			c.Settings = make(map[string]string)
		}
		c.Settings[key] = value
	}
	return nil
}

// Save persists the configuration to the file it was loaded from, or to the
// standard location.
// Note: This only persists the file sections, not session settings
func (c *Config) Save() error {
	configPath := c.path
	if configPath == "" {
		var err error
		configPath, err = getConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
