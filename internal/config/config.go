package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/praetorian-inc/conch/internal/logs"
	outputproviders "github.com/praetorian-inc/conch/internal/output_providers"
	"github.com/praetorian-inc/conch/pkg/console"
)

const (
	FileName  = ".conch.yaml"
	EnvPrefix = "CONCH"
)

// Keys that flags and CONCH_* environment variables may override.
const (
	KeyPrompt          = "prompt"
	KeyGreetings       = "greetings"
	KeyWorkingDir      = "working-dir"
	KeyHistoryFile     = "history-file"
	KeyHistorySize     = "history-size"
	KeyEncoding        = "encoding"
	KeyPartialMatching = "partial-matching"
	KeyLogLevel        = "log-level"
	KeyLogFile         = "log-file"
)

// Config is the shell configuration.
type Config struct {
	Prompt          string `yaml:"prompt"`
	Greetings       string `yaml:"greetings"`
	WorkingDir      string `yaml:"working-dir"`
	HistoryFile     string `yaml:"history-file"`
	HistorySize     int    `yaml:"history-size"`
	Encoding        string `yaml:"encoding"`
	PartialMatching bool   `yaml:"partial-matching"`
	LogLevel        string `yaml:"log-level"`
	LogFile         string `yaml:"log-file"`

	// Defaults maps a command name to option defaults, keyed by option name.
	Defaults map[string]map[string]string `yaml:"defaults"`
}

func Default() *Config {
	return &Config{
		Prompt:      "conch> ",
		HistorySize: console.DefaultHistorySize,
		LogLevel:    "warn",
	}
}

// DefaultPath returns $HOME/.conch.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, FileName), nil
}

// Load reads a YAML configuration file over the defaults. ${VAR} and
// ${VAR:default} references are expanded before decoding. A missing file is
// only an error when required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}
	if err := yaml.Unmarshal([]byte(expandEnv(string(content))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %s: %w", path, err)
	}
	return cfg, nil
}

var envReference = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(?::([^}]*))?\}`)

// expandEnv replaces ${VAR} or ${VAR:default} with environment values.
func expandEnv(content string) string {
	return envReference.ReplaceAllStringFunc(content, func(match string) string {
		matches := envReference.FindStringSubmatch(match)
		if value, ok := os.LookupEnv(matches[1]); ok {
			return value
		}
		return matches[2]
	})
}

// NewViper returns a viper instance reading CONCH_* environment variables,
// e.g. CONCH_LOG_LEVEL for log-level.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Overlay replaces the values of every key set in v.
func (c *Config) Overlay(v *viper.Viper) {
	if v.IsSet(KeyPrompt) {
		c.Prompt = v.GetString(KeyPrompt)
	}
	if v.IsSet(KeyGreetings) {
		c.Greetings = v.GetString(KeyGreetings)
	}
	if v.IsSet(KeyWorkingDir) {
		c.WorkingDir = v.GetString(KeyWorkingDir)
	}
	if v.IsSet(KeyHistoryFile) {
		c.HistoryFile = v.GetString(KeyHistoryFile)
	}
	if v.IsSet(KeyHistorySize) {
		c.HistorySize = v.GetInt(KeyHistorySize)
	}
	if v.IsSet(KeyEncoding) {
		c.Encoding = v.GetString(KeyEncoding)
	}
	if v.IsSet(KeyPartialMatching) {
		c.PartialMatching = v.GetBool(KeyPartialMatching)
	}
	if v.IsSet(KeyLogLevel) {
		c.LogLevel = v.GetString(KeyLogLevel)
	}
	if v.IsSet(KeyLogFile) {
		c.LogFile = v.GetString(KeyLogFile)
	}
}

// Validate checks the values that are interpreted later on.
func (c *Config) Validate() error {
	var errs []error
	if _, err := logs.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if _, err := outputproviders.LookupEncoding(c.Encoding); err != nil {
		errs = append(errs, err)
	}
	if c.HistorySize < 0 {
		errs = append(errs, fmt.Errorf("history-size must not be negative, got %d", c.HistorySize))
	}
	if c.WorkingDir != "" {
		if info, err := os.Stat(c.WorkingDir); err != nil || !info.IsDir() {
			errs = append(errs, fmt.Errorf("working-dir %s is not a directory", c.WorkingDir))
		}
	}
	return errors.Join(errs...)
}

// ConsoleOptions translates the configuration into console options.
func (c *Config) ConsoleOptions() []console.Option {
	opts := []console.Option{
		console.WithPrompt(c.Prompt),
		console.WithEncoding(c.Encoding),
		console.WithHistory(console.NewHistory(c.HistorySize, c.HistoryFile)),
	}
	if c.WorkingDir != "" {
		opts = append(opts, console.WithWorkingDir(c.WorkingDir))
	}
	return opts
}
