package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = ".regiontree.toml"

type Config struct {
	// Output
	Format    string
	Color     bool
	ShowLines bool

	// Logging
	LogLevel string

	// Watch mode
	Debounce time.Duration

	// HTTP API
	Addr         string
	Root         string
	MaxBodyBytes int64
}

// fileConfig mirrors Config as written in TOML. Unset keys stay nil.
type fileConfig struct {
	Format       *string `toml:"format"`
	Color        *bool   `toml:"color"`
	ShowLines    *bool   `toml:"show_lines"`
	LogLevel     *string `toml:"log_level"`
	Debounce     *string `toml:"debounce"`
	Addr         *string `toml:"addr"`
	Root         *string `toml:"root"`
	MaxBodyBytes *int64  `toml:"max_body_bytes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Format:       "tree",
		Color:        true,
		ShowLines:    false,
		LogLevel:     "info",
		Debounce:     100 * time.Millisecond,
		Addr:         ":8091",
		Root:         ".",
		MaxBodyBytes: 10485760, // 10MB
	}
}

// Load builds a Config from defaults, the TOML file at path and
// REGIONTREE_* environment variables, in that order. A missing file is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.merge(path, data); err != nil {
				return cfg, err
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	cfg.Format = envOr("REGIONTREE_FORMAT", cfg.Format)
	cfg.Color = envBool("REGIONTREE_COLOR", cfg.Color)
	cfg.ShowLines = envBool("REGIONTREE_SHOW_LINES", cfg.ShowLines)
	cfg.LogLevel = envOr("REGIONTREE_LOG_LEVEL", cfg.LogLevel)
	cfg.Debounce = envDuration("REGIONTREE_DEBOUNCE", cfg.Debounce)
	cfg.Addr = envOr("REGIONTREE_ADDR", cfg.Addr)
	cfg.Root = envOr("REGIONTREE_ROOT", cfg.Root)
	cfg.MaxBodyBytes = envInt64("REGIONTREE_MAX_BODY_BYTES", cfg.MaxBodyBytes)

	if os.Getenv("NO_COLOR") != "" {
		cfg.Color = false
	}
	if cfg.Debounce < 0 {
		cfg.Debounce = 0
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 10485760
	}

	return cfg, nil
}

func (c *Config) merge(path string, data []byte) error {
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return newParseError(path, err)
	}

	if fc.Format != nil {
		c.Format = *fc.Format
	}
	if fc.Color != nil {
		c.Color = *fc.Color
	}
	if fc.ShowLines != nil {
		c.ShowLines = *fc.ShowLines
	}
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	if fc.Debounce != nil {
		d, err := time.ParseDuration(*fc.Debounce)
		if err != nil {
			return &ParseError{Path: path, Message: fmt.Sprintf("debounce: %v", err), Err: err}
		}
		c.Debounce = d
	}
	if fc.Addr != nil {
		c.Addr = *fc.Addr
	}
	if fc.Root != nil {
		c.Root = *fc.Root
	}
	if fc.MaxBodyBytes != nil {
		c.MaxBodyBytes = *fc.MaxBodyBytes
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Format {
	case "tree", "json":
	default:
		return fmt.Errorf("format must be tree or json, got %q", c.Format)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func newParseError(path string, err error) *ParseError {
	pe := &ParseError{Path: path, Message: err.Error(), Err: err}
	var de *toml.DecodeError
	if errors.As(err, &de) {
		pe.Line, pe.Column = de.Position()
	}
	return pe
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
