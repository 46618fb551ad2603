package logutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level      string
		debug      bool
		info, warn bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"warn", false, false, true},
		{"error", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := New(&buf, tt.level)
			require.NoError(t, err)

			log.Debug("debug message", zap.Int("digits", 10))
			log.Info("info message", zap.Int64("terms", 2))
			log.Warn("warn message")
			log.Error("error message")
			require.NoError(t, log.Sync())

			out := buf.String()
			assert.Equal(t, tt.debug, bytes.Contains(buf.Bytes(), []byte("debug message")), out)
			assert.Equal(t, tt.info, bytes.Contains(buf.Bytes(), []byte("info message")), out)
			assert.Equal(t, tt.warn, bytes.Contains(buf.Bytes(), []byte("warn message")), out)
			assert.Contains(t, out, "error message")
		})
	}
}

func TestNew_Fields(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "info")
	require.NoError(t, err)
	log.Info("summing series", zap.Int64("terms", 72))
	assert.Contains(t, buf.String(), "INFO")
	assert.Contains(t, buf.String(), `{"terms": 72}`)
}

func TestNew_Error(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud")
	assert.Error(t, err)
}
