package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	if args == nil {
		args = []string{}
	}
	var out, errb bytes.Buffer
	code = run(args, &out, &errb)
	return code, out.String(), errb.String()
}

func TestRun(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"1"}, "3.1\n"},
		{[]string{"10"}, "3.1415926535\n"},
		{[]string{"50"}, "3.14159265358979323846264338327950288419716939937510\n"},
		{[]string{"--max-depth=0", "10"}, "3.1415926535\n"},
		{[]string{"10", "--max-depth", "3"}, "3.1415926535\n"},
		{[]string{"--log-level=error", "5"}, "3.14159\n"},
	}
	for _, tt := range tests {
		code, stdout, _ := runCommand(t, tt.args...)
		assert.Equal(t, 0, code, "%v", tt.args)
		assert.Equal(t, tt.want, stdout, "%v", tt.args)
	}
}

func TestRun_Usage(t *testing.T) {
	tests := map[string][]string{
		"missing":       nil,
		"extra":         {"10", "20"},
		"non-numeric":   {"ten"},
		"fraction":      {"1.5"},
		"zero":          {"0"},
		"negative":      {"--", "-1"},
		"too many":      {"100000001"},
		"overflow":      {"99999999999999999999999"},
		"unknown flag":  {"--digits", "10"},
		"invalid value": {"--max-depth=deep", "10"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			code, stdout, stderr := runCommand(t, args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stdout, "Usage:")
			assert.NotContains(t, stdout, "3.1")
			assert.Contains(t, stderr, "pi: invalid usage")
		})
	}
}

func TestRun_Error(t *testing.T) {
	t.Run("invalid depth", func(t *testing.T) {
		code, stdout, stderr := runCommand(t, "--max-depth=31", "10")
		assert.Equal(t, 1, code)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "max-depth")
	})

	t.Run("invalid env", func(t *testing.T) {
		t.Setenv("PI_LOG_LEVEL", "loud")
		code, stdout, stderr := runCommand(t, "10")
		assert.Equal(t, 1, code)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "log-level")
	})

	t.Run("missing config", func(t *testing.T) {
		code, stdout, _ := runCommand(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "10")
		assert.Equal(t, 1, code)
		assert.Empty(t, stdout)
	})

	t.Run("unwritable metrics", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "pi.prom")
		code, stdout, _ := runCommand(t, "--metrics-file", path, "10")
		assert.Equal(t, 1, code)
		assert.Empty(t, stdout)
	})
}

func TestRun_Logging(t *testing.T) {
	_, _, stderr := runCommand(t, "--log-level=debug", "10")
	assert.Contains(t, stderr, "calculating digits of pi")
	assert.Contains(t, stderr, "summing series")
	assert.Contains(t, stderr, "computation complete")

	_, _, stderr = runCommand(t, "--log-level=error", "10")
	assert.Empty(t, stderr)
}

func TestRun_Metrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pi.prom")
	code, stdout, _ := runCommand(t, "--metrics-file", path, "--max-depth=1", "100")
	require.Equal(t, 0, code)
	assert.Equal(t, "3.1415926535897932384626433832795028841971693993751058209749445923078164062862089986280348253421170679\n", stdout)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "pi_leaves_total 9")
	assert.Contains(t, text, "pi_tasks_forked_total 2")
	assert.Contains(t, text, "pi_tasks_inline_total 14")
	assert.Contains(t, text, `pi_stage_duration_seconds_count{stage="split"} 1`)
	assert.Contains(t, text, `pi_stage_duration_seconds_count{stage="floor"} 1`)
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	metrics := filepath.Join(dir, "pi.prom")
	cfg := filepath.Join(dir, "pi.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("log-level: error\nmetrics-file: "+metrics+"\n"), 0o644))

	code, stdout, stderr := runCommand(t, "--config", cfg, "10")
	require.Equal(t, 0, code)
	assert.Equal(t, "3.1415926535\n", stdout)
	assert.Empty(t, stderr)
	assert.FileExists(t, metrics)
}
