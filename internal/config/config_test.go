package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("pi", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := Load(newFlags(t, "--max-depth=3", "--log-level=debug", "--metrics-file=pi.prom"))
	require.NoError(t, err)
	assert.Equal(t, Config{MaxDepth: 3, LogLevel: "debug", MetricsFile: "pi.prom"}, cfg)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PI_MAX_DEPTH", "2")
	t.Setenv("PI_LOG_LEVEL", "warn")
	t.Setenv("PI_METRICS_FILE", "env.prom")
	cfg, err := Load(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, Config{MaxDepth: 2, LogLevel: "warn", MetricsFile: "env.prom"}, cfg)
}

func TestLoad_File(t *testing.T) {
	tests := map[string]string{
		"pi.yaml": "max-depth: 4\nlog-level: error\nmetrics-file: file.prom\n",
		"pi.json": `{"max-depth": 4, "log-level": "error", "metrics-file": "file.prom"}`,
		"pi.toml": "max-depth = 4\nlog-level = \"error\"\nmetrics-file = \"file.prom\"\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, name, content)
			cfg, err := Load(newFlags(t, "--config", path))
			require.NoError(t, err)
			assert.Equal(t, Config{MaxDepth: 4, LogLevel: "error", MetricsFile: "file.prom"}, cfg)
		})
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := writeFile(t, "pi.yaml", "max-depth: 4\nlog-level: error\nmetrics-file: file.prom\n")
	t.Setenv("PI_LOG_LEVEL", "warn")
	t.Setenv("PI_METRICS_FILE", "env.prom")

	cfg, err := Load(newFlags(t, "--config", path, "--metrics-file", "flag.prom"))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.MaxDepth, "file over default")
	assert.Equal(t, "warn", cfg.LogLevel, "env over file")
	assert.Equal(t, "flag.prom", cfg.MetricsFile, "flag over env")
}

func TestLoad_Error(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(newFlags(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
		assert.Error(t, err)
	})

	t.Run("invalid env", func(t *testing.T) {
		t.Setenv("PI_MAX_DEPTH", "many")
		_, err := Load(newFlags(t))
		assert.Error(t, err)
	})

	t.Run("invalid setting", func(t *testing.T) {
		_, err := Load(newFlags(t, "--max-depth=31"))
		assert.ErrorIs(t, err, errInvalid)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []Config{
			Defaults(),
			{MaxDepth: 0, LogLevel: "debug"},
			{MaxDepth: MaxDepth, LogLevel: "error", MetricsFile: "pi.prom"},
		}
		for _, cfg := range tests {
			assert.NoError(t, cfg.Validate(), "%+v", cfg)
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := []Config{
			{MaxDepth: -2, LogLevel: "info"},
			{MaxDepth: MaxDepth + 1, LogLevel: "info"},
			{MaxDepth: 0, LogLevel: "trace"},
			{MaxDepth: 0, LogLevel: ""},
		}
		for _, cfg := range tests {
			assert.ErrorIs(t, cfg.Validate(), errInvalid, "%+v", cfg)
		}
	})
}
