package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"farmeradmin/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   DEBUG,
		"INFO":    INFO,
		"warn":    WARN,
		"Warning": WARN,
		"error":   ERROR,
		"bogus":   INFO,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := newWithCore(core, WARN)

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warn("shown %d", 3)
	l.Error("shown %d", 4)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "shown 3", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "shown 4", entries[1].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)

	l.SetLevel(DEBUG)
	assert.Equal(t, DEBUG, l.GetLevel())
	l.Debug("now visible")
	assert.Equal(t, 1, logs.FilterMessage("now visible").Len())
}

func TestNew_WritesFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "farmer-admin.log")

	l, err := New(&config.LoggingConfig{Level: "info", Format: "json", File: logFile}, "production")
	require.NoError(t, err)

	l.Info("service %s connected", "svc-1")
	l.Debug("not written")
	_ = l.Sync()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "service svc-1 connected"))
	assert.False(t, strings.Contains(string(data), "not written"))
}

func TestOutputPaths(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "farmer-admin.log")

	tests := []struct {
		name        string
		file        string
		environment string
		want        []string
	}{
		{name: "console only", environment: "production", want: []string{"stderr"}},
		{name: "file only", file: logFile, environment: "production", want: []string{logFile}},
		{name: "development keeps console", file: logFile, environment: "development", want: []string{"stderr", logFile}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputPaths(&config.LoggingConfig{File: tt.file}, tt.environment)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "stdout")
		})
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Error("discarded")
	assert.Equal(t, ERROR, l.GetLevel())
}
