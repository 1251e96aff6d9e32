package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvStateDir overrides Storage.Dir when set.
const EnvStateDir = "CGPA_STATE_DIR"

// Config holds all configuration options for cgpa.
type Config struct {
	// Where the session state lives
	Storage StorageConfig `koanf:"storage" toml:"storage"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`

	// Spreadsheet import/export settings
	Import ImportConfig `koanf:"import" toml:"import"`

	// Diagnostic logging
	Log LogConfig `koanf:"log" toml:"log"`
}

// StorageConfig controls the persisted state location.
type StorageConfig struct {
	Dir string `koanf:"dir" toml:"dir"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"` // text, json, markdown, toon
	Color  bool   `koanf:"color" toml:"color"`
}

// ImportConfig controls the spreadsheet codec.
type ImportConfig struct {
	Sheet   string `koanf:"sheet" toml:"sheet"`       // sheet name written on export
	MaxRows int    `koanf:"max_rows" toml:"max_rows"` // files with more rows are rejected
}

// LogConfig controls diagnostic log verbosity.
type LogConfig struct {
	Level string `koanf:"level" toml:"level"` // debug, info, warn, error
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Dir: defaultStateDir(),
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Import: ImportConfig{
			Sheet:   "Courses",
			MaxRows: 10000,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "cgpa")
	}
	return ".cgpa"
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// LoadResult is a loaded config plus the file it came from ("" for defaults).
type LoadResult struct {
	Config *Config
	Source string
}

// LoadOption configures LoadConfig.
type LoadOption func(*loadOptions)

type loadOptions struct {
	path string
}

// WithPath loads a specific file instead of searching standard locations.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// LoadConfig loads an explicit file or searches the standard locations,
// then applies environment overrides.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	result := &LoadResult{Config: DefaultConfig()}
	path := o.path
	if path == "" {
		path = findConfig()
	}
	if path != "" {
		cfg, err := Load(path)
		if err != nil {
			return nil, err
		}
		result.Config = cfg
		result.Source = path
	}

	if dir := os.Getenv(EnvStateDir); dir != "" {
		result.Config.Storage.Dir = dir
	}
	return result, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	result, err := LoadConfig()
	if err != nil {
		return DefaultConfig()
	}
	return result.Config
}

func findConfig() string {
	configNames := []string{
		"cgpa.toml",
		"cgpa.yaml",
		"cgpa.yml",
		"cgpa.json",
		".cgpa.toml",
		".cgpa.yaml",
		".cgpa.yml",
		".cgpa.json",
	}

	// Search in current directory and .cgpa directory
	searchDirs := []string{".", ".cgpa"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// Validate checks option values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Output.Format) {
	case "text", "json", "markdown", "md", "toon":
	default:
		return fmt.Errorf("output.format %q is not one of text, json, markdown, toon", c.Output.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	if c.Import.MaxRows <= 0 {
		return fmt.Errorf("import.max_rows must be positive (got %d)", c.Import.MaxRows)
	}
	if strings.TrimSpace(c.Import.Sheet) == "" {
		return fmt.Errorf("import.sheet must not be empty")
	}
	if strings.TrimSpace(c.Storage.Dir) == "" {
		return fmt.Errorf("storage.dir must not be empty")
	}
	return nil
}
