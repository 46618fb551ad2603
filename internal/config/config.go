// Package config resolves the settings of the pi command.
//
// Every setting is looked up in the following order, the first match wins:
//
//   - a command-line flag that was set explicitly;
//   - an environment variable with the PI_ prefix, for example PI_MAX_DEPTH;
//   - the configuration file given by --config (YAML, JSON or TOML);
//   - the default value.
//
// A [Config] is resolved once and never modified afterwards.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys of the settings, shared by flags, environment variables and files.
const (
	KeyConfig      = "config"
	KeyMaxDepth    = "max-depth"
	KeyLogLevel    = "log-level"
	KeyMetricsFile = "metrics-file"
)

// EnvPrefix is the prefix of the environment variables.
const EnvPrefix = "PI"

// MaxDepth is the largest accepted fork depth.
// Depth 30 already allows a billion concurrent goroutines.
const MaxDepth = 30

// LogLevels lists the accepted log levels.
var LogLevels = []string{"debug", "info", "warn", "error"}

var errInvalid = errors.New("invalid configuration")

// Config holds the resolved settings.
type Config struct {
	// MaxDepth is the fork depth of the scheduler, -1 derives it from the
	// number of CPUs.
	MaxDepth int `mapstructure:"max-depth"`
	// LogLevel is one of [LogLevels].
	LogLevel string `mapstructure:"log-level"`
	// MetricsFile receives the metrics in Prometheus text format after
	// the computation, empty means no metrics are written.
	MetricsFile string `mapstructure:"metrics-file"`
}

// Defaults returns the settings used when nothing else is specified.
func Defaults() Config {
	return Config{
		MaxDepth: -1,
		LogLevel: "info",
	}
}

// RegisterFlags adds the flags of all settings to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	def := Defaults()
	fs.String(KeyConfig, "", "configuration file (YAML, JSON or TOML)")
	fs.Int(KeyMaxDepth, def.MaxDepth, "maximum fork depth of the series evaluation, -1 derives it from the number of CPUs")
	fs.String(KeyLogLevel, def.LogLevel, "log level: "+strings.Join(LogLevels, ", "))
	fs.String(KeyMetricsFile, def.MetricsFile, "write Prometheus metrics to this file after the computation")
}

// Load resolves the settings from the flags in fs, the environment and the
// configuration file, and validates the result.
// The flags must have been registered with [RegisterFlags] and parsed.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	def := Defaults()
	v.SetDefault(KeyMaxDepth, def.MaxDepth)
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyMetricsFile, def.MetricsFile)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("binding flags: %w", err)
	}

	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading %v: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding settings: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate returns an error if any setting is out of range.
func (c Config) Validate() error {
	if c.MaxDepth < -1 || c.MaxDepth > MaxDepth {
		return fmt.Errorf("%v must be in [-1, %v], got %v: %w", KeyMaxDepth, MaxDepth, c.MaxDepth, errInvalid)
	}
	valid := false
	for _, l := range LogLevels {
		if c.LogLevel == l {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%v must be one of %v, got %q: %w", KeyLogLevel, strings.Join(LogLevels, ", "), c.LogLevel, errInvalid)
	}
	return nil
}
