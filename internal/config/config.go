// Package config loads stockroom settings from a YAML file and validates
// them against an embedded CUE schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// EnvPath names the environment variable that points at the config file.
const EnvPath = "STOCKROOM_CONFIG"

// DefaultPath is used when neither a flag nor EnvPath names a file.
const DefaultPath = "stockroom.yaml"

// Notification channels.
const (
	NotifyTerminal = "terminal"
	NotifyLog      = "log"
	NotifyNone     = "none"
)

// Config holds every setting. Field tags serve both the YAML decoder and the
// CUE encoder.
type Config struct {
	Database         string `yaml:"database" json:"database"`
	DefaultThreshold int    `yaml:"default_threshold" json:"default_threshold"`
	Notifications    string `yaml:"notifications" json:"notifications"`
	LogLevel         string `yaml:"log_level" json:"log_level"`
	Currency         string `yaml:"currency" json:"currency"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		Database:         "stationery_stock.db",
		DefaultThreshold: 5,
		Notifications:    NotifyTerminal,
		LogLevel:         "warn",
		Currency:         "$",
	}
}

// Load reads the config file at path over the defaults.
//
// An empty path resolves to $STOCKROOM_CONFIG, then DefaultPath. A missing
// file is only an error when the path was given explicitly.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvPath)
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := Parse(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, keeping values cfg already holds for absent
// keys, then validates the result.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config: %w", err)
	}
	return cfg.Validate()
}

// Validate checks the settings against the CUE schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	value := def.Unify(ctx.Encode(c))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %s", strings.TrimSpace(cueerrors.Details(err, nil)))
	}
	return nil
}

// SlogLevel converts LogLevel for the slog handler.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
