// Package config loads numerus.yaml, the optional per-project settings file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// FileName is the settings file looked up in the working directory.
const FileName = "numerus.yaml"

// Environment variables consulted by Resolve and ApplyEnv.
const (
	EnvConfig  = "NUMERUS_CONFIG"
	EnvHistory = "NUMERUS_HISTORY"
	EnvNoColor = "NO_COLOR"
)

// ColorMode selects when the REPL and error output use ANSI colors.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

func (m *ColorMode) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch mode := ColorMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case "":
		*m = ColorAuto
	case ColorAuto, ColorAlways, ColorNever:
		*m = mode
	default:
		return fmt.Errorf("line %d: color must be auto, always or never, got %q", value.Line, raw)
	}
	return nil
}

// Duration is a time.Duration written as "250ms" or "1s" in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config represents the contents of numerus.yaml.
type Config struct {
	// Path is the file the config was read from; empty for defaults.
	Path string `yaml:"-"`

	// Requires is a semver constraint the interpreter version must meet.
	Requires string      `yaml:"requires"`
	REPL     REPLConfig  `yaml:"repl"`
	Serve    ServeConfig `yaml:"serve"`
	Watch    WatchConfig `yaml:"watch"`
	Log      LogConfig   `yaml:"log"`
}

type REPLConfig struct {
	HistoryFile string    `yaml:"history_file"`
	MaxHistory  int       `yaml:"max_history"`
	Prompt      string    `yaml:"prompt"`
	Color       ColorMode `yaml:"color"`
}

type ServeConfig struct {
	Addr string `yaml:"addr"`
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

type WatchConfig struct {
	Debounce Duration `yaml:"debounce"`
}

type LogConfig struct {
	Verbose bool `yaml:"verbose"`
	Debug   bool `yaml:"debug"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		REPL: REPLConfig{
			HistoryFile: defaultHistoryFile(),
			MaxHistory:  1000,
			Prompt:      "NUMERUS> ",
			Color:       ColorAuto,
		},
		Serve: ServeConfig{
			Addr: "127.0.0.1:4433",
		},
		Watch: WatchConfig{
			Debounce: Duration(100 * time.Millisecond),
		},
	}
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".numerus_history"
	}
	return filepath.Join(home, ".numerus_history")
}

// ValidationError lists every problem found in a config file.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s is invalid: %s", e.Path, strings.Join(e.Issues, "; "))
}

// Load reads path on top of the defaults. A missing file yields the
// defaults; an unreadable or malformed one is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Path = path

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve picks the config file (explicit path, then $NUMERUS_CONFIG, then
// ./numerus.yaml), loads it and applies environment overrides.
func Resolve(explicit string) (*Config, error) {
	path := explicit
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfig))
	}
	if path == "" {
		path = FileName
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv applies NUMERUS_HISTORY and NO_COLOR.
func (c *Config) ApplyEnv() {
	if history := strings.TrimSpace(os.Getenv(EnvHistory)); history != "" {
		c.REPL.HistoryFile = history
	}
	if _, set := os.LookupEnv(EnvNoColor); set {
		c.REPL.Color = ColorNever
	}
}

func (c *Config) validate() error {
	var errs ValidationError
	errs.Path = c.Path

	if c.Requires != "" {
		if _, err := semver.NewConstraint(c.Requires); err != nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("requires %q is not a valid constraint: %v", c.Requires, err))
		}
	}
	if c.REPL.MaxHistory < 0 {
		errs.Issues = append(errs.Issues, "repl.max_history must not be negative")
	}
	if c.Watch.Debounce < 0 {
		errs.Issues = append(errs.Issues, "watch.debounce must not be negative")
	}
	if (c.Serve.Cert == "") != (c.Serve.Key == "") {
		errs.Issues = append(errs.Issues, "serve.cert and serve.key must be set together")
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// ErrVersionMismatch is returned when the running interpreter does not meet
// the requires constraint.
var ErrVersionMismatch = errors.New("interpreter version does not satisfy requires")

// CheckVersion verifies version against the requires constraint.
func (c *Config) CheckVersion(version string) error {
	if c.Requires == "" {
		return nil
	}
	ok, err := Satisfies(version, c.Requires)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s requires %s, running %s", ErrVersionMismatch, c.source(), c.Requires, version)
	}
	return nil
}

func (c *Config) source() string {
	if c.Path == "" {
		return "config"
	}
	return c.Path
}

// Satisfies reports whether version meets constraint.
func Satisfies(version, constraint string) (bool, error) {
	con, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false, fmt.Errorf("version %q: %w", version, err)
	}
	return con.Check(v), nil
}
