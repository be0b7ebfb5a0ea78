// Package config loads bookindex settings from defaults, YAML files and the
// environment.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	amerrors "github.com/Aman-CERP/bookindex/internal/errors"
	"github.com/Aman-CERP/bookindex/internal/extract"
	"github.com/Aman-CERP/bookindex/internal/logging"
	"github.com/Aman-CERP/bookindex/internal/textindex"
	"github.com/Aman-CERP/bookindex/internal/words"
)

// Config is the complete bookindex configuration.
type Config struct {
	Index   IndexConfig   `yaml:"index" json:"index"`
	Words   WordsConfig   `yaml:"words" json:"words"`
	Extract ExtractConfig `yaml:"extract" json:"extract"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// IndexConfig controls which terms make it into an index.
type IndexConfig struct {
	// MinTermLength is the shortest indexable term in characters.
	MinTermLength int `yaml:"min_term_length" json:"min_term_length"`
	// MaxPages drops terms found on this many pages or more.
	MaxPages int `yaml:"max_pages" json:"max_pages"`
	// ExcludeSelfReferential drops terms equal to their own page list.
	ExcludeSelfReferential bool `yaml:"exclude_self_referential" json:"exclude_self_referential"`
	// NormalizeCacheSize bounds the token normalization cache. 0 disables it.
	NormalizeCacheSize int `yaml:"normalize_cache_size" json:"normalize_cache_size"`
}

// WordsConfig locates the common-word dictionary.
type WordsConfig struct {
	URL      string        `yaml:"url" json:"url"`
	CacheDir string        `yaml:"cache_dir" json:"cache_dir"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout"`
	Offline  bool          `yaml:"offline" json:"offline"`
	Refresh  bool          `yaml:"refresh" json:"refresh"`
}

// ExtractConfig controls page extraction.
type ExtractConfig struct {
	Delimiter        string `yaml:"delimiter" json:"delimiter"`
	Workers          int    `yaml:"workers" json:"workers"`
	NormalizeUnicode bool   `yaml:"normalize_unicode" json:"normalize_unicode"`
}

// OutputConfig controls where the index is written.
type OutputConfig struct {
	// Extension replaces the input file extension for the default output path.
	Extension string `yaml:"extension" json:"extension"`
}

// LoggingConfig controls the log file.
type LoggingConfig struct {
	Level     string `yaml:"level" json:"level"`
	File      string `yaml:"file" json:"file"`
	MaxSizeMB int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files" json:"max_files"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	index := textindex.DefaultOptions()
	extractOpts := extract.DefaultOptions()
	logCfg := logging.DefaultConfig()

	return &Config{
		Index: IndexConfig{
			MinTermLength:          index.MinTermLength,
			MaxPages:               index.MaxPages,
			ExcludeSelfReferential: index.ExcludeSelfReferential,
			NormalizeCacheSize:     index.NormalizeCacheSize,
		},
		Words: WordsConfig{
			URL:      words.DefaultURL,
			CacheDir: words.DefaultCacheDir(),
			Timeout:  words.DefaultTimeout,
		},
		Extract: ExtractConfig{
			Delimiter:        extractOpts.Delimiter,
			Workers:          extractOpts.Workers,
			NormalizeUnicode: extractOpts.NormalizeUnicode,
		},
		Output: OutputConfig{
			Extension: ".txt",
		},
		Logging: LoggingConfig{
			Level:     logCfg.Level,
			MaxSizeMB: logCfg.MaxSizeMB,
			MaxFiles:  logCfg.MaxFiles,
		},
	}
}

// GetUserConfigPath returns the path to the user configuration file:
//   - $XDG_CONFIG_HOME/bookindex/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/bookindex/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bookindex", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "bookindex", "config.yaml")
	}
	return filepath.Join(home, ".config", "bookindex", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// Load builds the effective configuration, in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config (~/.config/bookindex/config.yaml)
//  3. explicitPath, when not empty (must exist)
//  4. Environment variables (BOOKINDEX_*)
//
// Command-line flags are applied by the caller on top of the result, which
// must then be validated again.
func Load(explicitPath string) (*Config, error) {
	cfg := NewConfig()

	if userPath := GetUserConfigPath(); fileExists(userPath) {
		if err := cfg.loadYAML(userPath); err != nil {
			return nil, err
		}
	}

	if explicitPath != "" {
		if !fileExists(explicitPath) {
			return nil, amerrors.New(amerrors.ErrCodeConfigNotFound, "config file not found", nil).
				WithDetail("path", explicitPath)
		}
		if err := cfg.loadYAML(explicitPath); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadYAML decodes path over the current values, so keys absent from the
// file keep their earlier value and explicit false/zero values still apply.
// Unknown keys are rejected.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return amerrors.ConfigError("failed to read config file", err).WithDetail("path", path)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return amerrors.ConfigError("failed to parse config file", err).WithDetail("path", path)
	}
	return nil
}

// applyEnvOverrides applies BOOKINDEX_* environment variables.
func (c *Config) applyEnvOverrides() error {
	intVars := []struct {
		name string
		dst  *int
	}{
		{"BOOKINDEX_MIN_TERM_LENGTH", &c.Index.MinTermLength},
		{"BOOKINDEX_MAX_PAGES", &c.Index.MaxPages},
		{"BOOKINDEX_WORKERS", &c.Extract.Workers},
	}
	for _, v := range intVars {
		s := os.Getenv(v.name)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return amerrors.ConfigError("invalid integer in environment", err).WithDetail("variable", v.name)
		}
		*v.dst = n
	}

	boolVars := []struct {
		name string
		dst  *bool
	}{
		{"BOOKINDEX_OFFLINE", &c.Words.Offline},
		{"BOOKINDEX_REFRESH_WORDS", &c.Words.Refresh},
	}
	for _, v := range boolVars {
		if s := os.Getenv(v.name); s != "" {
			*v.dst = strings.EqualFold(s, "true") || s == "1"
		}
	}

	if v := os.Getenv("BOOKINDEX_WORDS_URL"); v != "" {
		c.Words.URL = v
	}
	if v := os.Getenv("BOOKINDEX_WORDS_CACHE_DIR"); v != "" {
		c.Words.CacheDir = v
	}
	if v := os.Getenv("BOOKINDEX_WORDS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return amerrors.ConfigError("invalid duration in environment", err).
				WithDetail("variable", "BOOKINDEX_WORDS_TIMEOUT")
		}
		c.Words.Timeout = d
	}
	if v := os.Getenv("BOOKINDEX_DELIMITER"); v != "" {
		c.Extract.Delimiter = v
	}
	if v := os.Getenv("BOOKINDEX_OUTPUT_EXTENSION"); v != "" {
		c.Output.Extension = v
	}
	if v := os.Getenv("BOOKINDEX_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("BOOKINDEX_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	return nil
}

// Validate reports the first invalid setting as a configuration error.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return amerrors.ConfigError(fmt.Sprintf(format, args...), nil)
	}

	if c.Index.MinTermLength < 1 {
		return invalid("index.min_term_length must be at least 1, got %d", c.Index.MinTermLength)
	}
	if c.Index.MaxPages < 1 {
		return invalid("index.max_pages must be at least 1, got %d", c.Index.MaxPages)
	}
	if c.Index.NormalizeCacheSize < 0 {
		return invalid("index.normalize_cache_size must be non-negative, got %d", c.Index.NormalizeCacheSize)
	}
	if c.Extract.Workers < 0 {
		return invalid("extract.workers must be non-negative, got %d", c.Extract.Workers)
	}
	if c.Words.Timeout < 0 {
		return invalid("words.timeout must be non-negative, got %s", c.Words.Timeout)
	}
	if c.Words.URL == "" && !c.Words.Offline {
		return invalid("words.url must be set unless words.offline is true")
	}
	if !strings.HasPrefix(c.Output.Extension, ".") {
		return invalid("output.extension must start with '.', got %q", c.Output.Extension)
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return invalid("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level)
	}
	return nil
}

// YAML returns the configuration encoded as YAML.
func (c *Config) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return buf.Bytes(), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
