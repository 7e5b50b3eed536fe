package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file "conciliador init" writes.
const FileName = "conciliador.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CONCILIADOR_"

// Config represents the top-level conciliador.yaml configuration.
type Config struct {
	Community CommunityConfig `yaml:"community"`
	BillsPath string          `yaml:"bills_path"`
	Import    ImportConfig    `yaml:"import"`
	Matching  MatchingConfig  `yaml:"matching"`
	Logging   LoggingConfig   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
}

// CommunityConfig identifies the residential community.
type CommunityConfig struct {
	Name string `yaml:"name"`
}

// ImportConfig controls statement parsing.
type ImportConfig struct {
	MaxFileMB      int    `yaml:"max_file_mb"`
	TextStrategy   string `yaml:"text_strategy"` // "statement" or "lines"
	Year           int    `yaml:"year,omitempty"`
	HeaderScanRows int    `yaml:"header_scan_rows"`
	Inbox          string `yaml:"inbox"`
}

// MatchingConfig holds the confidence tiers.
type MatchingConfig struct {
	High           int  `yaml:"high"`
	Medium         int  `yaml:"medium"`
	Low            int  `yaml:"low"`
	SafeMinReasons int  `yaml:"safe_min_reasons"`
	IncludePartial bool `yaml:"include_partial"`
}

// LoggingConfig selects log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// ServerConfig controls "conciliador serve".
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// MaxBytes returns the upload limit in bytes.
func (c ImportConfig) MaxBytes() int64 {
	return int64(c.MaxFileMB) << 20
}

// Load reads a conciliador.yaml file from disk. Fields missing from the
// file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path when it exists, otherwise returns defaults.
// In both cases .env and CONCILIADOR_* overrides are applied.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = Default(""), nil
	}
	if err != nil {
		return nil, err
	}
	if err := LoadEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new community.
func Default(communityName string) *Config {
	return &Config{
		Community: CommunityConfig{Name: communityName},
		BillsPath: "bills.csv",
		Import: ImportConfig{
			MaxFileMB:      10,
			TextStrategy:   "statement",
			HeaderScanRows: 10,
			Inbox:          "inbox",
		},
		Matching: MatchingConfig{
			High:           80,
			Medium:         60,
			Low:            50,
			SafeMinReasons: 3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// ResolvePaths makes relative bills and inbox paths relative to dir,
// normally the directory holding conciliador.yaml.
func (c *Config) ResolvePaths(dir string) {
	for _, p := range []*string{&c.BillsPath, &c.Import.Inbox} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// Validate checks that thresholds are ordered and limits are positive.
func (c *Config) Validate() error {
	m := c.Matching
	if m.Low < 0 || m.Low > m.Medium || m.Medium > m.High || m.High > 100 {
		return fmt.Errorf("matching thresholds must satisfy 0 <= low <= medium <= high <= 100, got %d/%d/%d", m.Low, m.Medium, m.High)
	}
	if m.SafeMinReasons < 0 {
		return fmt.Errorf("matching.safe_min_reasons must not be negative, got %d", m.SafeMinReasons)
	}
	if c.Import.MaxFileMB <= 0 {
		return fmt.Errorf("import.max_file_mb must be positive, got %d", c.Import.MaxFileMB)
	}
	switch c.Import.TextStrategy {
	case "", "statement", "lines":
	default:
		return fmt.Errorf("import.text_strategy must be statement or lines, got %q", c.Import.TextStrategy)
	}
	return nil
}

// LoadEnv reads .env from the working directory when present, then applies
// CONCILIADOR_* overrides.
func LoadEnv(cfg *Config) error {
	// A missing .env is normal.
	_ = godotenv.Load()
	return ApplyEnv(cfg, os.Getenv)
}

// ApplyEnv overrides cfg from environment variables looked up with getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(EnvPrefix + key)); v != "" {
			*dst = v
		}
	}
	var errs []error
	num := func(key string, dst *int) {
		v := strings.TrimSpace(getenv(EnvPrefix + key))
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
			return
		}
		*dst = n
	}

	str("COMMUNITY", &cfg.Community.Name)
	str("BILLS_PATH", &cfg.BillsPath)
	str("TEXT_STRATEGY", &cfg.Import.TextStrategy)
	str("INBOX", &cfg.Import.Inbox)
	str("LOG_LEVEL", &cfg.Logging.Level)
	str("LOG_FORMAT", &cfg.Logging.Format)
	str("ADDR", &cfg.Server.Addr)
	num("MAX_FILE_MB", &cfg.Import.MaxFileMB)
	num("YEAR", &cfg.Import.Year)
	num("HIGH", &cfg.Matching.High)
	num("MEDIUM", &cfg.Matching.Medium)
	num("LOW", &cfg.Matching.Low)
	num("SAFE_MIN_REASONS", &cfg.Matching.SafeMinReasons)

	if v := strings.TrimSpace(getenv(EnvPrefix + "INCLUDE_PARTIAL")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sINCLUDE_PARTIAL: %w", EnvPrefix, err))
		} else {
			cfg.Matching.IncludePartial = b
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	return cfg.Validate()
}
